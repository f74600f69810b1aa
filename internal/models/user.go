package models

import "time"

// AuthData возвращается бэкендом при входе и подтверждении почты.
// Token может отсутствовать, если подтверждение не открывает сессию.
type AuthData struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	UserID    string `json:"userId"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// User — профиль, который хранит сессия после успешного входа.
type User struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UserFromAuth строит профиль сессии из ответа входа.
func UserFromAuth(a AuthData) *User {
	return &User{
		UserID:    a.UserID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

// Profile — полный профиль пользователя из /users/me.
type Profile struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	FullName       string    `json:"fullName"`
	Phone          string    `json:"phone"`
	AvatarID       string    `json:"avatarId,omitempty"`
	SubscriptionID string    `json:"subscriptionId,omitempty"`
	PackagePlan    string    `json:"packagePlan,omitempty"`
	Addresses      []Address `json:"addresses,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RegisterRequest — поля регистрации аккаунта.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone" validate:"required,ngphone"`
}

// LoginRequest — учетные данные для входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
