// Package pages отдаёт HTML-страницы: главную, общий чат и личную переписку.
package pages

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/messenger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/messenger/internal/http/views"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/models"
	"github.com/magabrotheeeer/messenger/internal/services/messages"
)

// Profiles возвращает карточку текущего пользователя.
type Profiles interface {
	Profile(ctx context.Context, uid string) (models.UserSummary, error)
}

// Peers находит собеседника по адресу переписки.
type Peers interface {
	ResolvePeer(ctx context.Context, peer string) (models.UserSummary, error)
}

// Handler отдаёт страницы приложения.
type Handler struct {
	log      *slog.Logger
	profiles Profiles
	peers    Peers
	views    views.Engine
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, profiles Profiles, peers Peers, engine views.Engine) *Handler {
	return &Handler{
		log:      log,
		profiles: profiles,
		peers:    peers,
		views:    engine,
	}
}

// Index отдаёт главную страницу.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	views.Respond(h.log, h.views, w, r, http.StatusOK, views.PageIndex, views.Page{Title: "Welcome"})
}

// Chat отдаёт страницу общего чата.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pages.Chat"

	user, ok := h.currentUser(w, r, op)
	if !ok {
		return
	}
	views.Respond(h.log, h.views, w, r, http.StatusOK, views.PageChat, views.Page{
		Title: "Group chat",
		User:  user,
	})
}

// PM отдаёт страницу переписки с собеседником из URL. Неизвестный собеседник даёт 404.
func (h *Handler) PM(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pages.PM"

	user, ok := h.currentUser(w, r, op)
	if !ok {
		return
	}

	peer, err := h.peers.ResolvePeer(r.Context(), chi.URLParam(r, "peer"))
	if err != nil {
		if errors.Is(err, messages.ErrPeerNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to resolve peer",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views.Respond(h.log, h.views, w, r, http.StatusOK, views.PagePM, views.Page{
		Title: peer.DisplayName,
		User:  user,
		Peer:  peer,
	})
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request, op string) (models.UserSummary, bool) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := middlewarectx.UIDFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		http.Redirect(w, r, middlewarectx.LoginPath, http.StatusSeeOther)
		return models.UserSummary{}, false
	}
	user, err := h.profiles.Profile(r.Context(), uid)
	if err != nil {
		log.Error("failed to load profile", sl.UID(uid), sl.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return models.UserSummary{}, false
	}
	return user, true
}
