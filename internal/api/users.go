package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

// Register создаёт аккаунт. Сессию не открывает: бэкенд отправляет письмо
// для подтверждения почты. Возвращает message бэкенда.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	_, msg, err := call[struct{}](ctx, c, request{
		op:       "api.Register",
		method:   http.MethodPost,
		path:     "/users/register",
		body:     req,
		rejected: "Registration failed. Please try again.",
	}, registerError)
	return msg, err
}

// Login выполняет вход и возвращает токен с данными пользователя.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthData, error) {
	data, _, err := call[models.AuthData](ctx, c, request{
		op:       "api.Login",
		method:   http.MethodPost,
		path:     "/users/login",
		body:     req,
		rejected: "Login failed. Please try again.",
	}, loginError)
	return data, err
}

// VerifyEmail подтверждает почту по ссылке из письма.
// Данные сессии могут отсутствовать, тогда возвращается nil.
func (c *Client) VerifyEmail(ctx context.Context, token, userID string) (*models.AuthData, string, error) {
	return call[*models.AuthData](ctx, c, request{
		op:       "api.VerifyEmail",
		method:   http.MethodGet,
		path:     "/users/verify-email",
		query:    url.Values{"token": {token}, "userId": {userID}},
		rejected: "We couldn't verify your email. Please try again or contact support if the problem continues.",
	}, verifyError)
}

// ResendVerificationEmail повторно отправляет письмо подтверждения.
func (c *Client) ResendVerificationEmail(ctx context.Context, email string) (string, error) {
	_, msg, err := call[struct{}](ctx, c, request{
		op:       "api.ResendVerificationEmail",
		method:   http.MethodPost,
		path:     "/users/resend-verification-email",
		query:    url.Values{"email": {email}},
		rejected: "We couldn't send your verification email. Please try again or contact support if the problem continues.",
	}, resendError)
	return msg, err
}

// Me возвращает профиль текущего пользователя.
func (c *Client) Me(ctx context.Context) (models.Profile, error) {
	data, _, err := call[models.Profile](ctx, c, request{
		op:       "api.Me",
		method:   http.MethodGet,
		path:     "/users/me",
		auth:     true,
		rejected: "Failed to load profile. Please try again.",
	}, profileError)
	return data, err
}

// CheckoutRegister регистрирует аккаунт вместе с адресом доставки.
// Ответ 2xx с success=false возвращается как ошибка с текстом бэкенда.
func (c *Client) CheckoutRegister(ctx context.Context, req models.CheckoutRegisterRequest) (models.CheckoutRegisterResult, error) {
	data, msg, err := call[models.CheckoutRegisterResult](ctx, c, request{
		op:       "api.CheckoutRegister",
		method:   http.MethodPost,
		path:     "/users/checkout-register",
		body:     req,
		rejected: "Registration failed. Please try again.",
	}, checkoutError)
	if err != nil {
		return models.CheckoutRegisterResult{}, err
	}
	if data.Message == "" {
		data.Message = msg
	}
	return data, nil
}
