package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

var subscriptionError = genericError("Subscription request failed. Please try again.")

// CurrentSubscription возвращает текущую подписку пользователя.
// Если подписки нет, бэкенд отвечает 404, что даёт apperr.ErrNotFound.
func (c *Client) CurrentSubscription(ctx context.Context) (*models.Subscription, error) {
	data, _, err := call[*models.Subscription](ctx, c, request{
		op:       "api.CurrentSubscription",
		method:   http.MethodGet,
		path:     "/subscriptions/current",
		auth:     true,
		rejected: "Failed to load subscription.",
	}, subscriptionError)
	return data, err
}

// Subscriptions возвращает все подписки пользователя.
func (c *Client) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	data, _, err := call[[]models.Subscription](ctx, c, request{
		op:       "api.Subscriptions",
		method:   http.MethodGet,
		path:     "/subscriptions",
		auth:     true,
		rejected: "Failed to load subscriptions.",
	}, subscriptionError)
	return data, err
}

// CreateSubscription создаёт подписку в статусе PENDING.
func (c *Client) CreateSubscription(ctx context.Context, req models.CreateSubscriptionRequest) (models.Subscription, error) {
	data, _, err := call[models.Subscription](ctx, c, request{
		op:       "api.CreateSubscription",
		method:   http.MethodPost,
		path:     "/subscriptions",
		body:     req,
		auth:     true,
		rejected: "Failed to create subscription.",
	}, subscriptionError)
	return data, err
}

func (c *Client) transition(ctx context.Context, op, id, action string) (models.Subscription, error) {
	data, _, err := call[models.Subscription](ctx, c, request{
		op:       op,
		method:   http.MethodPost,
		path:     "/subscriptions/" + url.PathEscape(id) + "/" + action,
		auth:     true,
		rejected: "Failed to " + action + " subscription.",
	}, subscriptionError)
	return data, err
}

// PauseSubscription приостанавливает подписку.
func (c *Client) PauseSubscription(ctx context.Context, id string) (models.Subscription, error) {
	return c.transition(ctx, "api.PauseSubscription", id, "pause")
}

// ResumeSubscription возобновляет приостановленную подписку.
func (c *Client) ResumeSubscription(ctx context.Context, id string) (models.Subscription, error) {
	return c.transition(ctx, "api.ResumeSubscription", id, "resume")
}

// CancelSubscription отменяет подписку.
func (c *Client) CancelSubscription(ctx context.Context, id string) (models.Subscription, error) {
	return c.transition(ctx, "api.CancelSubscription", id, "cancel")
}

// ActivateSubscription активирует подписку после оплаты.
func (c *Client) ActivateSubscription(ctx context.Context, id string) (models.Subscription, error) {
	return c.transition(ctx, "api.ActivateSubscription", id, "activate")
}

// DeleteSubscription удаляет подписку в статусе PENDING или INACTIVE.
func (c *Client) DeleteSubscription(ctx context.Context, id string) error {
	_, _, err := call[struct{}](ctx, c, request{
		op:       "api.DeleteSubscription",
		method:   http.MethodDelete,
		path:     "/subscriptions/" + url.PathEscape(id),
		auth:     true,
		rejected: "Failed to delete subscription.",
	}, subscriptionError)
	return err
}
