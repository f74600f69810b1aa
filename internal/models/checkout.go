package models

// DeliveryFrequency — частота доставки.
type DeliveryFrequency string

const (
	DeliveryWeekly  DeliveryFrequency = "weekly"
	DeliveryMonthly DeliveryFrequency = "monthly"
)

// Valid сообщает, что частота входит в допустимый набор.
func (f DeliveryFrequency) Valid() bool {
	return f == DeliveryWeekly || f == DeliveryMonthly
}

// Package — тарифный пакет из каталога.
// Цены указаны за месяц: WeeklyDeliveryPrice — месячная стоимость при
// еженедельной доставке.
type Package struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Tier                 string   `json:"tier"`
	MonthlyDeliveryPrice float64  `json:"monthlyDeliveryPrice"`
	WeeklyDeliveryPrice  float64  `json:"weeklyDeliveryPrice"`
	Features             []string `json:"features,omitempty"`
}

// PriceFor возвращает месячную цену пакета для частоты доставки.
func (p Package) PriceFor(f DeliveryFrequency) float64 {
	if f == DeliveryWeekly {
		return p.WeeklyDeliveryPrice
	}
	return p.MonthlyDeliveryPrice
}

// AddOn — дополнительный товар к заказу, оплачивается отдельно от подписки.
type AddOn struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// PlanChange — запрошенная, но ещё не подтвержденная смена тарифа.
type PlanChange struct {
	SubscriptionID string            `json:"subscriptionId,omitempty"`
	FromTier       string            `json:"fromTier,omitempty"`
	ToPackage      Package           `json:"toPackage"`
	Frequency      DeliveryFrequency `json:"frequency,omitempty"`
}

// AccountForm — данные аккаунта с третьего шага оформления.
type AccountForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone" validate:"required,ngphone"`
}

// CheckoutRegisterRequest — тело запроса /users/checkout-register.
type CheckoutRegisterRequest struct {
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	Phone           string          `json:"phone"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
}

// CheckoutRegisterResult — данные ответа checkout-register.
type CheckoutRegisterResult struct {
	UserID         string `json:"userId,omitempty"`
	Email          string `json:"email,omitempty"`
	Token          string `json:"token,omitempty"`
	AccountCreated bool   `json:"accountCreated,omitempty"`
	Message        string `json:"message,omitempty"`
}
