// Package search ищет пользователей по идентификатору и имени.
package search

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

// Service описывает поиск пользователей.
type Service interface {
	Search(ctx context.Context, q string) ([]models.UserSummary, error)
}

// Handler отдаёт JSON-массив найденных пользователей по параметру q.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Поиск пользователей
// @Description Ищет зарегистрированных пользователей по UID и имени. Запрос короче 2 символов даёт пустой список.
// @Tags Users
// @Produce  json
// @Param q query string true "Часть UID или имени"
// @Success 200 {array} models.UserSummary "Найденные пользователи"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /api/users/search [get]
// @Security SessionCookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query().Get("q")
	res, err := h.service.Search(r.Context(), q)
	if err != nil {
		log.Error("failed to search users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Debug("users found", slog.String("q", q), slog.Int("count", len(res)))
	render.JSON(w, r, res)
}
