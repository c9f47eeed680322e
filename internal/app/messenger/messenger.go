// Package messenger собирает HTTP-приложение мессенджера из хранилища,
// сессий, публикатора событий и обработчиков.
package messenger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/messenger/internal/config"
	"github.com/magabrotheeeer/messenger/internal/http/views"
	"github.com/magabrotheeeer/messenger/internal/lib/jwt"
	"github.com/magabrotheeeer/messenger/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/metrics"
	"github.com/magabrotheeeer/messenger/internal/migrations"
	authservice "github.com/magabrotheeeer/messenger/internal/services/auth"
	messageservice "github.com/magabrotheeeer/messenger/internal/services/messages"
	userservice "github.com/magabrotheeeer/messenger/internal/services/users"
	"github.com/magabrotheeeer/messenger/internal/session"
	"github.com/magabrotheeeer/messenger/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App: HTTP-сервер с его ресурсами.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []io.Closer
}

// New подключает PostgreSQL, применяет миграции, подключает Redis и, если
// задан URL, RabbitMQ, затем собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db)

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, err
	}
	if err = db.CheckDatabaseReady(ctx); err != nil {
		app.close()
		return nil, err
	}

	store, err := session.NewRedisStore(ctx, cfg.RedisConnection)
	if err != nil {
		app.close()
		return nil, err
	}
	app.closers = append(app.closers, store)

	publisher, err := app.newPublisher(cfg.RabbitMQ)
	if err != nil {
		app.close()
		return nil, err
	}

	renderer, err := views.New()
	if err != nil {
		app.close()
		return nil, err
	}

	m := metrics.New()
	services := Services{
		Auth:     authservice.NewAuthService(db, m, logger, cfg.Messaging.MaxUIDAttempts),
		Messages: messageservice.NewService(db, publisher, m, logger, cfg.Messaging.GroupLimit),
		Users:    userservice.NewService(db, cfg.Messaging.SearchLimit),
		Sessions: session.NewManager(store, jwt.NewJWTMaker(cfg.Session.SecretKey, cfg.Session.MaxAge), cfg.Session.IdleTTL),
		Cookie:   session.NewCookie(cfg.Session.CookieName, cfg.Session.CookieSecure, cfg.Session.MaxAge),
		Views:    renderer,
		Metrics:  m,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services)

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

func (a *App) newPublisher(cfg config.RabbitMQ) (messageservice.EventPublisher, error) {
	if cfg.URL == "" {
		a.logger.Info("rabbitmq url is empty, message events are disabled")
		return rabbitmq.NoopPublisher{}, nil
	}

	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn)

	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	// канал закрывается раньше соединения
	a.closers = append(a.closers, ch)

	a.logger.Info("publishing message events", slog.String("exchange", cfg.Exchange))
	return rabbitmq.NewMessagePublisher(ch, cfg.Exchange), nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает ресурсы в обратном порядке открытия.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
