package models

// Address — адрес доставки.
type Address struct {
	Label        string `json:"label,omitempty"` // home, work, ...
	Street       string `json:"street" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postalCode" validate:"required"`
	Instructions string `json:"instructions,omitempty"`
}

// DeliveryAddress — адрес в формате запроса checkout-register.
type DeliveryAddress struct {
	Type       string `json:"type"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// ToDelivery переводит адрес в формат запроса. Пустая метка становится "home".
func (a *Address) ToDelivery() DeliveryAddress {
	if a == nil {
		return DeliveryAddress{Type: "home"}
	}
	label := a.Label
	if label == "" {
		label = "home"
	}
	return DeliveryAddress{
		Type:       label,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
	}
}
