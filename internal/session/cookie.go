package session

import (
	"net/http"
	"time"
)

// Cookie читает и записывает токен сессии в HttpOnly-cookie.
type Cookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// NewCookie создаёт описание cookie сессии.
func NewCookie(name string, secure bool, maxAge time.Duration) Cookie {
	return Cookie{Name: name, Secure: secure, MaxAge: maxAge}
}

// Set записывает токен в ответ.
func (c Cookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Secure,
		MaxAge:   int(c.MaxAge.Seconds()),
	})
}

// Clear удаляет cookie у клиента.
func (c Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Secure,
		MaxAge:   -1,
	})
}

// Read возвращает токен из запроса.
func (c Cookie) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
