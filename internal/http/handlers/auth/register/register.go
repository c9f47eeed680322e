// Package register реализует открытую регистрацию: форму и её обработку.
//
// После успешной регистрации показывается страница с выданным
// пятизначным идентификатором, по которому пользователь входит в систему.
package register

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

// Request: поля формы регистрации.
type Request struct {
	DisplayName     string `validate:"required,max=50"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, displayName, password string) (string, error)
}

// Handler обрабатывает форму регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	views    views.Engine
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, views views.Engine) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		views:    views,
		validate: validator.New(),
	}
}

// Show отдаёт пустую форму.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageRegister, views.Page{Title: "Register"})
}

// ServeHTTP godoc
// @Summary Открытая регистрация
// @Description Создаёт пользователя со случайным пятизначным UID и показывает его на странице успеха.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  html
// @Param display_name formData string true "Отображаемое имя"
// @Param password formData string true "Пароль, от 6 символов до 72 байт"
// @Param confirm_password formData string true "Повтор пароля"
// @Success 200 "Страница с выданным UID"
// @Failure 400 "Ошибка валидации формы"
// @Failure 409 "Не удалось подобрать свободный UID"
// @Failure 500 "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, views.PageRegister, views.Page{
			Title:  "Register",
			Errors: []string{"invalid form"},
		})
		return
	}
	req := Request{
		DisplayName:     strings.TrimSpace(r.PostForm.Get("display_name")),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}
	form := map[string]string{"display_name": req.DisplayName}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		msgs := []string{"invalid form"}
		if errors.As(err, &verrs) {
			msgs = response.ValidationMessages(verrs)
		}
		log.Info("validation failed", slog.Any("errors", msgs))
		h.render(w, r, http.StatusBadRequest, views.PageRegister, views.Page{
			Title:  "Register",
			Errors: msgs,
			Form:   form,
		})
		return
	}

	uid, err := h.service.Register(r.Context(), req.DisplayName, req.Password)
	if err != nil {
		status, msg := http.StatusInternalServerError, "registration failed, try again later"
		switch {
		case errors.Is(err, password.ErrTooLong):
			status, msg = http.StatusBadRequest, password.ErrTooLong.Error()
			log.Info("password too long")
		case errors.Is(err, auth.ErrIdentifierExhausted):
			status, msg = http.StatusConflict, auth.ErrIdentifierExhausted.Error()
			log.Error("failed to register user", sl.Err(err))
		default:
			log.Error("failed to register user", sl.Err(err))
		}
		h.render(w, r, status, views.PageRegister, views.Page{
			Title:  "Register",
			Errors: []string{msg},
			Form:   form,
		})
		return
	}

	log.Info("user registered", sl.UID(uid))
	h.render(w, r, http.StatusOK, views.PageRegisterSuccess, views.Page{
		Title: "Registered",
		UID:   uid,
		Form:  form,
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data views.Page) {
	views.Respond(h.log, h.views, w, r, status, page, data)
}
