// Package group отдаёт последние сообщения общего чата.
package group

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/messenger/internal/http/response"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/models"
)

// Service описывает выборку общего чата.
type Service interface {
	Group(ctx context.Context) ([]models.Message, error)
}

// Handler отдаёт JSON-массив сообщений от старых к новым.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сообщения общего чата
// @Description Возвращает последние сообщения общего чата от старых к новым.
// @Tags Messages
// @Produce  json
// @Success 200 {array} models.Message "Сообщения"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /api/messages/group [get]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.messages.group"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	msgs, err := h.service.Group(r.Context())
	if err != nil {
		log.Error("failed to load group messages", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, msgs)
}
