// Package cache хранит ответы бэкенда по логическому ключу ресурса.
//
// Ключи иерархические, сегменты разделяются двоеточием: "payments:user",
// "payments:subscription:42". Invalidate(prefix) удаляет сам ключ prefix и
// все ключи вида prefix:*, поэтому "subscription" не задевает
// "subscriptions:all".
package cache

import (
	"context"
	"strings"
	"time"
)

// Ключи кешируемых ресурсов.
const (
	KeySubscription     = "subscription"
	KeySubscriptions    = "subscriptions"
	KeySubscriptionsAll = "subscriptions:all"
	KeyUserProfile      = "userProfile"
	KeyPayments         = "payments"
	KeyPaymentsUser     = "payments:user"
)

// PaymentKey — ключ платежа по идентификатору.
func PaymentKey(id string) string {
	return "payment:" + id
}

// SubscriptionPaymentsKey — ключ списка платежей подписки.
func SubscriptionPaymentsKey(subscriptionID string) string {
	return "payments:subscription:" + subscriptionID
}

// Cache — хранилище закешированных ответов. Значения сериализуются в JSON.
type Cache interface {
	// Get декодирует значение в dst и сообщает, найден ли ключ.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Invalidate удаляет prefix и все ключи prefix:*.
	Invalidate(ctx context.Context, prefix string) error
	Clear(ctx context.Context) error
}

func matches(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+":")
}
