// Package sl содержит вспомогательные атрибуты для логгера slog,
// чтобы ошибки и HTTP-статусы выводились в логах единообразно.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Для nil возвращается пустая строка, чтобы вызов был безопасен в defer-ах.
//
// Пример:
//
//	log.Error("failed to login", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Status возвращает атрибут с HTTP-статусом ответа бэкенда.
// Статус 0 означает, что ответа не было (сетевая ошибка).
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}
