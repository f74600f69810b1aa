// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов локального API. Ошибки клиента бэкенда
// переводятся в HTTP-статус по их виду, текст для пользователя передаётся как есть.
package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/validate"
)

// Response описывает стандартную структуру JSON‑ответа.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (при неуспехе).
// Поле Kind — вид ошибки из apperr (при неуспехе).
// Поле Data — данные ответа (при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
	Kind   string `json:"kind,omitempty" example:"validation-failed"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ответ по ошибкам валидатора.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  validate.Message(errs),
		Kind:   apperr.KindValidation.String(),
	}
}

// HTTPStatus подбирает код ответа по виду ошибки.
func HTTPStatus(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindPermissionDenied:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindRejected:
		return http.StatusUnprocessableEntity
	case apperr.KindConflict, apperr.KindConflictEmail, apperr.KindConflictPhone, apperr.KindAlreadyVerified:
		return http.StatusConflict
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	case apperr.KindLinkExpired:
		return http.StatusGone
	case apperr.KindInvalidLink:
		return http.StatusBadRequest
	case apperr.KindServer:
		return http.StatusBadGateway
	case apperr.KindNetwork:
		return http.StatusServiceUnavailable
	case apperr.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Fail пишет ответ с ошибкой. Ошибки вне apperr не раскрываются клиенту.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error("internal error"))
		return
	}
	render.Status(r, HTTPStatus(ae.Kind))
	render.JSON(w, r, ErrorResponse{
		Status: StatusError,
		Error:  ae.Message,
		Kind:   ae.Kind.String(),
	})
}

// Decode читает JSON-тело запроса в dst.
func Decode(r *http.Request, dst any) error {
	return render.DecodeJSON(r.Body, dst)
}

// BadRequest пишет ответ о некорректном теле запроса.
func BadRequest(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Error("invalid request body"))
}
