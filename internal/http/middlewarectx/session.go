// Package middlewarectx содержит HTTP middleware проверки сессии.
//
// SessionMiddleware читает токен из cookie, сверяет его с серверной сессией
// и кладёт UID пользователя и идентификатор сессии в контекст запроса.
// Без действующей сессии клиент перенаправляется на /login.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/messenger/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID: ключ UID пользователя в контексте
	UserUID Key = "uid"
	// SessionID: ключ идентификатора сессии в контексте
	SessionID Key = "session_id"
)

// LoginPath: адрес перенаправления для запросов без сессии.
const LoginPath = "/login"

// Sessions проверяет токен сессии.
type Sessions interface {
	Resolve(ctx context.Context, token string) (uid, sessionID string, err error)
}

// TokenCookie читает и сбрасывает cookie с токеном сессии.
type TokenCookie interface {
	Read(r *http.Request) (string, bool)
	Clear(w http.ResponseWriter)
}

// SessionMiddleware возвращает middleware, пропускающий только запросы
// с действующей сессией.
func SessionMiddleware(sessions Sessions, cookie TokenCookie, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := cookie.Read(r)
			if !ok {
				log.Debug("no session cookie")
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			uid, sessionID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				log.Info("session rejected", sl.Err(err))
				cookie.Clear(w)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, uid)
			ctx = context.WithValue(ctx, SessionID, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UIDFromContext возвращает UID пользователя текущего запроса.
func UIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUID).(string)
	return uid, ok && uid != ""
}

// SessionIDFromContext возвращает идентификатор сессии текущего запроса.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionID).(string)
	return id, ok && id != ""
}

// WithUser кладёт UID и сессию в контекст. Нужен обработчикам и тестам,
// работающим в обход SessionMiddleware.
func WithUser(ctx context.Context, uid, sessionID string) context.Context {
	ctx = context.WithValue(ctx, UserUID, uid)
	return context.WithValue(ctx, SessionID, sessionID)
}
