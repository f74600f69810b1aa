// Package apperr описывает таксономию ошибок клиента bukafresh.
//
// Адаптеры бэкенда переводят HTTP-статус и текст ответа в *Error с одной
// человеко-читаемой фразой на каждый вид ошибки. Хранилища состояния и
// представления различают ошибки по Kind через errors.Is.
package apperr

import "errors"

// Kind — вид ошибки.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindPermissionDenied
	KindNotFound
	KindValidation
	KindConflictEmail
	KindConflictPhone
	KindConflict
	KindRateLimited
	KindLinkExpired
	KindAlreadyVerified
	KindInvalidLink
	KindServer
	KindNetwork
	KindTimeout
	// KindRejected — бэкенд ответил 2xx, но success=false.
	KindRejected
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindUnauthenticated:  "authentication-required",
	KindPermissionDenied: "permission-denied",
	KindNotFound:         "not-found",
	KindValidation:       "validation-failed",
	KindConflictEmail:    "conflict-email",
	KindConflictPhone:    "conflict-phone",
	KindConflict:         "conflict",
	KindRateLimited:      "rate-limited",
	KindLinkExpired:      "link-expired",
	KindAlreadyVerified:  "already-verified",
	KindInvalidLink:      "invalid-link",
	KindServer:           "server-error",
	KindNetwork:          "network-unreachable",
	KindTimeout:          "timeout",
	KindRejected:         "rejected",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error — классифицированная ошибка операции.
type Error struct {
	Kind    Kind
	Message string // текст для пользователя
	Status  int    // HTTP-статус, 0 если ответа не было
	Err     error  // исходная причина
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает по Kind, что позволяет писать errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New создает ошибку заданного вида.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Sentinel-значения для errors.Is.
var (
	ErrUnauthenticated  = New(KindUnauthenticated, "authentication required")
	ErrPermissionDenied = New(KindPermissionDenied, "permission denied")
	ErrNotFound         = New(KindNotFound, "not found")
	ErrValidation       = New(KindValidation, "validation failed")
	ErrConflictEmail    = New(KindConflictEmail, "email already registered")
	ErrConflictPhone    = New(KindConflictPhone, "phone already registered")
	ErrConflict         = New(KindConflict, "already registered")
	ErrRateLimited      = New(KindRateLimited, "rate limited")
	ErrLinkExpired      = New(KindLinkExpired, "link expired")
	ErrAlreadyVerified  = New(KindAlreadyVerified, "already verified")
	ErrInvalidLink      = New(KindInvalidLink, "invalid link")
	ErrServer           = New(KindServer, "server error")
	ErrNetwork          = New(KindNetwork, "network unreachable")
	ErrTimeout          = New(KindTimeout, "timeout")
	ErrRejected         = New(KindRejected, "rejected")
)

// KindOf возвращает вид ошибки или KindUnknown, если это не *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Validation оборачивает ошибку локальной валидации формы.
func Validation(msg string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: cause}
}
