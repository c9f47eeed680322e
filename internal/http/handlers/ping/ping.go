// Package ping продлевает сессию активного клиента.
package ping

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/messenger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/messenger/internal/http/response"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
)

// Sessions продлевает время жизни сессии.
type Sessions interface {
	Touch(ctx context.Context, sessionID string) error
}

// Handler отвечает {"status":"ok"} и продлевает сессию.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Поддержание сессии
// @Description Продлевает срок жизни серверной сессии текущего пользователя.
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response "Сессия продлена"
// @Failure 401 {object} response.Response "Сессия не найдена"
// @Failure 500 {object} response.Response "Ошибка хранилища сессий"
// @Router /api/ping [get]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ping"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid, ok := middlewarectx.SessionIDFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	if err := h.sessions.Touch(r.Context(), sid); err != nil {
		log.Error("failed to refresh session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, response.OK())
}
