// Package jwt читает claims токена сессии без проверки подписи.
//
// Ключа подписи у клиента нет, подпись проверяет бэкенд. Клиенту нужен
// только срок действия, чтобы заранее узнать о протухшей сессии.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry возвращается, если в токене нет claim exp.
var ErrNoExpiry = errors.New("token has no expiry")

// Claims — claims токена bukafresh.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Inspect разбирает токен без проверки подписи и сроков.
func Inspect(tokenStr string) (*Claims, error) {
	const op = "jwt.Inspect"
	var claims Claims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenStr, &claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &claims, nil
}

// ExpiresAt возвращает срок действия токена.
func ExpiresAt(tokenStr string) (time.Time, error) {
	const op = "jwt.ExpiresAt"
	claims, err := Inspect(tokenStr)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, ErrNoExpiry)
	}
	return claims.ExpiresAt.Time, nil
}

// Expired сообщает, истёк ли токен к моменту now. Токен без exp не истекает.
func Expired(tokenStr string, now time.Time) (bool, error) {
	exp, err := ExpiresAt(tokenStr)
	if errors.Is(err, ErrNoExpiry) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !now.Before(exp), nil
}
