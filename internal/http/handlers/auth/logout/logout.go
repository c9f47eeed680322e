// Package logout завершает сессию пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/messenger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
)

// Sessions отзывает сессию.
type Sessions interface {
	End(ctx context.Context, sessionID string) error
}

// TokenCookie сбрасывает cookie сессии.
type TokenCookie interface {
	Clear(w http.ResponseWriter)
}

// Handler удаляет серверную сессию, сбрасывает cookie и перенаправляет на главную.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	cookie   TokenCookie
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions, cookie TokenCookie) *Handler {
	return &Handler{log: log, sessions: sessions, cookie: cookie}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Завершает серверную сессию и сбрасывает cookie. Ошибка хранилища не мешает выходу.
// @Tags Auth
// @Success 303 "Перенаправление на /"
// @Router /logout [get]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if sid, ok := middlewarectx.SessionIDFromContext(r.Context()); ok {
		if err := h.sessions.End(r.Context(), sid); err != nil {
			log.Error("failed to end session", sl.Err(err))
		}
	}
	h.cookie.Clear(w)

	uid, _ := middlewarectx.UIDFromContext(r.Context())
	log.Info("logged out", sl.UID(uid))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
