// Package views рендерит HTML-страницы из встроенных шаблонов.
package views

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/models"
)

// Имена страниц.
const (
	PageIndex           = "index"
	PageRegister        = "register"
	PageRegisterSuccess = "register_success"
	PageTesterRegister  = "tester_register"
	PageLogin           = "login"
	PageChat            = "chat"
	PagePM              = "pm"
)

var pages = []string{
	PageIndex,
	PageRegister,
	PageRegisterSuccess,
	PageTesterRegister,
	PageLogin,
	PageChat,
	PagePM,
}

//go:embed templates/*.html
var files embed.FS

// Page: данные, доступные шаблону.
type Page struct {
	Title  string
	Errors []string
	// Form хранит ранее введённые значения полей формы.
	Form map[string]string
	// User: текущий пользователь; пуст для гостевых страниц.
	User models.UserSummary
	Peer models.UserSummary
	// UID: выданный при регистрации идентификатор.
	UID string
}

// Renderer хранит разобранные шаблоны страниц.
type Renderer struct {
	templates map[string]*template.Template
}

// New разбирает все шаблоны. Ошибка разбора означает повреждённую сборку.
func New() (*Renderer, error) {
	const op = "views.New"

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New(page).Funcs(template.FuncMap{"dict": dict}).
			ParseFS(files, "templates/layout.html", "templates/client.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

// Render выполняет шаблон page и пишет результат с кодом status.
// Страница рендерится в буфер, поэтому при ошибке ответ не начат.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Page) error {
	const op = "views.Render"

	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("%s: unknown page %q", op, page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Engine рендерит страницу по имени.
type Engine interface {
	Render(w http.ResponseWriter, status int, page string, data Page) error
}

// Respond рендерит страницу, а при ошибке шаблона пишет в лог и отвечает 500.
func Respond(log *slog.Logger, engine Engine, w http.ResponseWriter, r *http.Request, status int, page string, data Page) {
	if err := engine.Render(w, status, page, data); err != nil {
		log.Error("failed to render page",
			slog.String("page", page),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}
