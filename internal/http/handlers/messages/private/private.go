// Package private отдаёт личную переписку текущего пользователя с собеседником.
package private

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/messenger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/messenger/internal/http/response"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/models"
	"github.com/magabrotheeeer/messenger/internal/services/messages"
)

// Service описывает выборку личной переписки.
type Service interface {
	Private(ctx context.Context, self, peer string) ([]models.Message, error)
}

// Handler отдаёт JSON-массив сообщений переписки, собеседник берётся из {peer}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Личная переписка
// @Description Возвращает все сообщения между текущим пользователем и собеседником. formyself означает «Избранное».
// @Tags Messages
// @Produce  json
// @Param peer path string true "UID собеседника или formyself"
// @Success 200 {array} models.Message "Сообщения"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 404 {object} response.Response "Собеседник не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /api/messages/private/{peer} [get]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.messages.private"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	self, ok := middlewarectx.UIDFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	peer := chi.URLParam(r, "peer")

	msgs, err := h.service.Private(r.Context(), self, peer)
	if err != nil {
		if errors.Is(err, messages.ErrPeerNotFound) {
			log.Info("peer not found", slog.String("peer", peer))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to load private messages", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, msgs)
}
