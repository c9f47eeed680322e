// Package login реализует вход по идентификатору и паролю.
//
// При успехе создаётся серверная сессия, её токен записывается в cookie,
// и клиент перенаправляется в общий чат.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/messenger/internal/http/response"
	"github.com/magabrotheeeer/messenger/internal/http/views"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/services/auth"
)

// Request: поля формы входа.
type Request struct {
	UID      string `validate:"required"`
	Password string `validate:"required"`
}

// Service проверяет учётные данные.
type Service interface {
	Login(ctx context.Context, uid, password string) error
}

// Sessions открывает сессию и возвращает её токен.
type Sessions interface {
	Start(ctx context.Context, uid string) (string, error)
}

// TokenCookie записывает токен сессии в ответ.
type TokenCookie interface {
	Set(w http.ResponseWriter, token string)
}

// Handler обрабатывает форму входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	cookie   TokenCookie
	views    views.Engine
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions Sessions, cookie TokenCookie, engine views.Engine) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		cookie:   cookie,
		views:    engine,
		validate: validator.New(),
	}
}

// Show отдаёт пустую форму.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	views.Respond(h.log, h.views, w, r, http.StatusOK, views.PageLogin, views.Page{Title: "Log in"})
}

// ServeHTTP godoc
// @Summary Вход
// @Description Проверяет UID и пароль, открывает сессию и перенаправляет в общий чат.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  html
// @Param uid formData string true "Идентификатор"
// @Param password formData string true "Пароль"
// @Success 303 "Перенаправление на /chat"
// @Failure 400 "Ошибка валидации формы"
// @Failure 401 "Неверный идентификатор или пароль"
// @Failure 500 "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fail := func(status int, form map[string]string, msgs ...string) {
		views.Respond(h.log, h.views, w, r, status, views.PageLogin, views.Page{
			Title:  "Log in",
			Errors: msgs,
			Form:   form,
		})
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		fail(http.StatusBadRequest, nil, "invalid form")
		return
	}
	req := Request{
		UID:      strings.TrimSpace(r.PostForm.Get("uid")),
		Password: r.PostForm.Get("password"),
	}
	form := map[string]string{"uid": req.UID}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fail(http.StatusBadRequest, form, response.ValidationMessages(verrs)...)
			return
		}
		fail(http.StatusBadRequest, form, "invalid form")
		return
	}

	if err := h.service.Login(r.Context(), req.UID, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("login rejected", sl.UID(req.UID))
			fail(http.StatusUnauthorized, form, "invalid identifier or password")
			return
		}
		log.Error("login failed", sl.Err(err))
		fail(http.StatusInternalServerError, form, "login failed, try again later")
		return
	}

	token, err := h.sessions.Start(r.Context(), req.UID)
	if err != nil {
		log.Error("failed to start session", sl.Err(err))
		fail(http.StatusInternalServerError, form, "login failed, try again later")
		return
	}
	h.cookie.Set(w, token)

	log.Info("login success", sl.UID(req.UID))
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}
