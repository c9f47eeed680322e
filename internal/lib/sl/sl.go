// Package sl содержит вспомогательные атрибуты для структурированного логгера slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error".
// Для nil-ошибки значение будет пустой строкой, чтобы вызов в deferred-ветках
// не приводил к панике.
//
//	log.Error("failed to send message", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// UID возвращает атрибут с идентификатором пользователя.
func UID(uid string) slog.Attr {
	return slog.String("uid", uid)
}
