package models

import "time"

// Статусы платежа.
const (
	PaymentPending    = "PENDING"
	PaymentProcessing = "PROCESSING"
	PaymentPaid       = "PAID"
	PaymentFailed     = "FAILED"
)

// Payment — платеж прямого дебета.
type Payment struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	SubscriptionID   string     `json:"subscriptionId"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	PaymentReference string     `json:"paymentReference,omitempty"`
	BankName         string     `json:"bankName,omitempty"`
	AccountNumber    string     `json:"accountNumber,omitempty"` // маскирован бэкендом
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	FailureReason    string     `json:"failureReason,omitempty"`
}

// ProcessPaymentRequest — запрос на инициацию платежа.
type ProcessPaymentRequest struct {
	SubscriptionID string `json:"subscriptionId" validate:"required"`
	BVN            string `json:"bvn" validate:"required,len=11,numeric"`
	AccountNumber  string `json:"accountNumber" validate:"required,len=10,numeric"`
	BankName       string `json:"bankName" validate:"required"`
	PhoneNumber    string `json:"phoneNumber" validate:"required,ngphone"`
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
}
