package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

var paymentError = genericError("Payment request failed. Please try again.")

// ProcessPayment инициирует платеж прямым дебетом.
func (c *Client) ProcessPayment(ctx context.Context, req models.ProcessPaymentRequest) (models.Payment, error) {
	data, _, err := call[models.Payment](ctx, c, request{
		op:       "api.ProcessPayment",
		method:   http.MethodPost,
		path:     "/payments",
		body:     req,
		auth:     true,
		rejected: "Payment failed. Please try again.",
	}, paymentError)
	return data, err
}

// UserPayments возвращает платежи текущего пользователя.
func (c *Client) UserPayments(ctx context.Context) ([]models.Payment, error) {
	data, _, err := call[[]models.Payment](ctx, c, request{
		op:       "api.UserPayments",
		method:   http.MethodGet,
		path:     "/payments/user",
		auth:     true,
		rejected: "Failed to load payments.",
	}, paymentError)
	return data, err
}

// Payment возвращает платеж по идентификатору.
func (c *Client) Payment(ctx context.Context, id string) (models.Payment, error) {
	data, _, err := call[models.Payment](ctx, c, request{
		op:       "api.Payment",
		method:   http.MethodGet,
		path:     "/payments/" + url.PathEscape(id),
		auth:     true,
		rejected: "Failed to load payment.",
	}, paymentError)
	return data, err
}

// SubscriptionPayments возвращает платежи по подписке.
func (c *Client) SubscriptionPayments(ctx context.Context, subscriptionID string) ([]models.Payment, error) {
	data, _, err := call[[]models.Payment](ctx, c, request{
		op:       "api.SubscriptionPayments",
		method:   http.MethodGet,
		path:     "/payments/subscription/" + url.PathEscape(subscriptionID),
		auth:     true,
		rejected: "Failed to load payments.",
	}, paymentError)
	return data, err
}
