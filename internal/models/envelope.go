// Package models содержит доменные структуры клиента bukafresh: профиль
// пользователя, пакеты и параметры доставки, подписки и платежи, а также
// конверт ответа бэкенда.
package models

// Envelope описывает стандартный конверт ответа бэкенда.
// Success нужно проверять вместе с HTTP-статусом: бэкенд может ответить 200
// с success=false.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}
