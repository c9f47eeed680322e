// Package testerregister привязывает имя и пароль к зарезервированному
// тестерскому идентификатору.
package testerregister

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
	"github.com/magabrotheeeer/messenger/internal/lib/password"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/services/auth"
)

// Request: поля формы тестерской регистрации.
type Request struct {
	UID             string `validate:"required,numeric"`
	DisplayName     string `validate:"required,max=50"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

// Service описывает интерфейс бизнес-логики тестерской регистрации.
type Service interface {
	RegisterTester(ctx context.Context, uid, displayName, password string) error
}

// Handler обрабатывает форму тестерской регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	views    views.Engine
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, engine views.Engine) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		views:    engine,
		validate: validator.New(),
	}
}

// Show отдаёт пустую форму.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	views.Respond(h.log, h.views, w, r, http.StatusOK, views.PageTesterRegister, views.Page{Title: "Tester registration"})
}

// ServeHTTP godoc
// @Summary Регистрация тестера
// @Description Привязывает имя и пароль к зарезервированному UID и перенаправляет на /login.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  html
// @Param uid formData string true "Зарезервированный UID"
// @Param display_name formData string true "Отображаемое имя"
// @Param password formData string true "Пароль, от 6 символов до 72 байт"
// @Param confirm_password formData string true "Повтор пароля"
// @Success 303 "Перенаправление на /login"
// @Failure 400 "Ошибка валидации формы"
// @Failure 403 "UID не зарезервирован"
// @Failure 404 "UID не существует"
// @Failure 409 "UID уже занят"
// @Failure 500 "Внутренняя ошибка сервера"
// @Router /tester-register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.testerregister"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fail := func(status int, form map[string]string, msgs ...string) {
		views.Respond(h.log, h.views, w, r, status, views.PageTesterRegister, views.Page{
			Title:  "Tester registration",
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
		UID:             strings.TrimSpace(r.PostForm.Get("uid")),
		DisplayName:     strings.TrimSpace(r.PostForm.Get("display_name")),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}
	form := map[string]string{"uid": req.UID, "display_name": req.DisplayName}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fail(http.StatusBadRequest, form, response.ValidationMessages(verrs)...)
			return
		}
		fail(http.StatusBadRequest, form, "invalid form")
		return
	}

	err := h.service.RegisterTester(r.Context(), req.UID, req.DisplayName, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrUnknownIdentifier):
		log.Info("unknown tester identifier", sl.UID(req.UID))
		fail(http.StatusNotFound, form, err.Error())
		return
	case errors.Is(err, auth.ErrNotTester):
		log.Info("identifier is not reserved", sl.UID(req.UID))
		fail(http.StatusForbidden, form, err.Error())
		return
	case errors.Is(err, password.ErrTooLong):
		log.Info("password too long", sl.UID(req.UID))
		fail(http.StatusBadRequest, form, password.ErrTooLong.Error())
		return
	case errors.Is(err, auth.ErrAlreadyRegistered):
		log.Info("tester identifier already bound", sl.UID(req.UID))
		fail(http.StatusConflict, form, err.Error())
		return
	default:
		log.Error("failed to register tester", sl.Err(err))
		fail(http.StatusInternalServerError, form, "registration failed, try again later")
		return
	}

	log.Info("tester registered", sl.UID(req.UID))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
