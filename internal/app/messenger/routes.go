package messenger

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/messenger/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/auth/testerregister"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/chats/list"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/messages/group"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/messages/private"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/messages/send"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/pages"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/ping"
	"github.com/magabrotheeeer/messenger/internal/http/handlers/users/search"
	"github.com/magabrotheeeer/messenger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/messenger/internal/http/views"
	"github.com/magabrotheeeer/messenger/internal/metrics"
	authservice "github.com/magabrotheeeer/messenger/internal/services/auth"
	messageservice "github.com/magabrotheeeer/messenger/internal/services/messages"
	userservice "github.com/magabrotheeeer/messenger/internal/services/users"
	"github.com/magabrotheeeer/messenger/internal/session"
)

// Services: зависимости обработчиков.
type Services struct {
	Auth     *authservice.AuthService
	Messages *messageservice.Service
	Users    *userservice.Service
	Sessions *session.Manager
	Cookie   session.Cookie
	Views    *views.Renderer
	Metrics  *metrics.Metrics
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		// снаружи Recoverer, чтобы 500 после паники попадали в метрики
		s.Metrics.Middleware,
		middleware.Recoverer,
	)

	pagesHandler := pages.New(logger, s.Users, s.Messages, s.Views)
	registerHandler := register.New(logger, s.Auth, s.Views)
	testerHandler := testerregister.New(logger, s.Auth, s.Views)
	loginHandler := login.New(logger, s.Auth, s.Sessions, s.Cookie, s.Views)

	// Открытые страницы
	r.Get("/", pagesHandler.Index)
	r.Get("/register", registerHandler.Show)
	r.Post("/register", registerHandler.ServeHTTP)
	r.Get("/tester-register", testerHandler.Show)
	r.Post("/tester-register", testerHandler.ServeHTTP)
	r.Get("/login", loginHandler.Show)
	r.Post("/login", loginHandler.ServeHTTP)
	r.Handle("/metrics", s.Metrics.Handler())

	// Группа с проверкой сессии
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(s.Sessions, s.Cookie, logger))

		r.Get("/logout", logout.New(logger, s.Sessions, s.Cookie).ServeHTTP)
		r.Get("/chat", pagesHandler.Chat)
		r.Get("/pm/{peer}", pagesHandler.PM)

		r.Route("/api", func(r chi.Router) {
			r.Get("/ping", ping.New(logger, s.Sessions).ServeHTTP)
			r.Get("/users/search", search.New(logger, s.Users).ServeHTTP)
			r.Get("/messages/group", group.New(logger, s.Messages).ServeHTTP)
			r.Get("/messages/private/{peer}", private.New(logger, s.Messages).ServeHTTP)
			r.Post("/messages/send", send.New(logger, s.Messages).ServeHTTP)
			r.Get("/chats/list", list.New(logger, s.Messages).ServeHTTP)
		})
	})
}
