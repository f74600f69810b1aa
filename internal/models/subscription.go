package models

import "time"

// SubscriptionStatus — статус подписки на стороне бэкенда.
type SubscriptionStatus string

const (
	StatusPending  SubscriptionStatus = "PENDING"
	StatusActive   SubscriptionStatus = "ACTIVE"
	StatusPaused   SubscriptionStatus = "PAUSED"
	StatusCanceled SubscriptionStatus = "CANCELED"
	StatusInactive SubscriptionStatus = "INACTIVE"
)

// Deletable сообщает, можно ли удалить подписку напрямую.
func (s SubscriptionStatus) Deletable() bool {
	return s == StatusPending || s == StatusInactive
}

// PlanDetails — описание тарифа внутри подписки.
type PlanDetails struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Features []string `json:"features,omitempty"`
}

// Subscription — подписка пользователя.
type Subscription struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId,omitempty"`
	Status          SubscriptionStatus `json:"status"`
	Tier            string             `json:"tier"`
	BillingCycle    string             `json:"billingCycle"`
	PlanDetails     PlanDetails        `json:"planDetails"`
	DeliveryDay     string             `json:"deliveryDay,omitempty"`
	NextBillingDate *time.Time         `json:"nextBillingDate,omitempty"`
	CreatedAt       *time.Time         `json:"createdAt,omitempty"`
}

// CreateSubscriptionRequest — тело запроса на создание подписки.
type CreateSubscriptionRequest struct {
	Tier            string  `json:"tier" validate:"required,oneof=ESSENTIALS STANDARD PREMIUM"`
	BillingCycle    string  `json:"billingCycle" validate:"required,oneof=MONTHLY YEARLY"`
	PaymentMethodID string  `json:"paymentMethodId,omitempty"`
	Price           float64 `json:"price,omitempty" validate:"gte=0"`
	DeliveryDay     string  `json:"deliveryDay,omitempty"`
}
