// Package send реализует отправку сообщения в общий чат, личную переписку
// или «Избранное».
package send

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/messenger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/messenger/internal/http/response"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/models"
	"github.com/magabrotheeeer/messenger/internal/services/messages"
)

// Request: тело запроса отправки.
type Request struct {
	Text     string `json:"text" validate:"required"`
	Receiver string `json:"receiver"`
	IsGroup  bool   `json:"is_group"`
}

// Service описывает отправку сообщения.
type Service interface {
	Send(ctx context.Context, sender string, req messages.SendRequest) (*models.Message, error)
}

// Handler обрабатывает POST /api/messages/send.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправка сообщения
// @Description Сохраняет сообщение от текущего пользователя в общий чат, «Избранное» или личную переписку.
// @Tags Messages
// @Accept  json
// @Produce  json
// @Param request body Request true "Текст и получатель"
// @Success 200 {object} response.Response "Сообщение сохранено"
// @Failure 400 {object} response.Response "Пустой текст или некорректное тело"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 404 {object} response.Response "Получатель не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /api/messages/send [post]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.messages.send"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sender, ok := middlewarectx.UIDFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		render.Status(r, http.StatusBadRequest)
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	msg, err := h.service.Send(r.Context(), sender, messages.SendRequest{
		Text:     req.Text,
		Receiver: req.Receiver,
		IsGroup:  req.IsGroup,
	})
	switch {
	case err == nil:
	case errors.Is(err, messages.ErrEmptyText):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, messages.ErrReceiverNotFound):
		log.Info("receiver not found", slog.String("receiver", req.Receiver))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(err.Error()))
		return
	default:
		log.Error("failed to send message", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("message sent", slog.Int64("id", msg.ID), slog.String("scope", msg.Scope()))
	render.JSON(w, r, response.OK())
}
