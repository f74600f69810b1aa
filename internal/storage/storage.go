// Package storage описывает долговременное хранилище клиента: строковые
// значения по фиксированным ключам, переживающие перезапуск процесса.
// В нём хранится тройка учетных данных сессии.
package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound возвращается, если ключа нет в хранилище.
var ErrNotFound = errors.New("key not found")

// Ключи учетных данных сессии.
const (
	KeyToken  = "authToken"
	KeyEmail  = "userEmail"
	KeyUserID = "userId"
)

// Store — хранилище строковых значений по ключу.
// Put записывает все значения атомарно.
type Store interface {
	Get(key string) (string, error)
	Put(values map[string]string) error
	Delete(keys ...string) error
	Close() error
}

// Credentials — тройка учетных данных сессии.
type Credentials struct {
	Token  string
	Email  string
	UserID string
}

// Complete сообщает, что есть и токен, и почта.
func (c Credentials) Complete() bool {
	return c.Token != "" && c.Email != ""
}

// LoadCredentials читает учетные данные. Отсутствующие ключи дают пустые поля.
func LoadCredentials(s Store) (Credentials, error) {
	const op = "storage.LoadCredentials"
	var c Credentials
	for key, dst := range map[string]*string{
		KeyToken:  &c.Token,
		KeyEmail:  &c.Email,
		KeyUserID: &c.UserID,
	} {
		v, err := s.Get(key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Credentials{}, fmt.Errorf("%s: %w", op, err)
		}
		*dst = v
	}
	return c, nil
}

// SaveCredentials записывает учетные данные одной транзакцией.
// Пустой UserID удаляет ранее сохраненный идентификатор.
func SaveCredentials(s Store, c Credentials) error {
	const op = "storage.SaveCredentials"
	values := map[string]string{
		KeyToken: c.Token,
		KeyEmail: c.Email,
	}
	if c.UserID != "" {
		values[KeyUserID] = c.UserID
	}
	if err := s.Put(values); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if c.UserID == "" {
		if err := s.Delete(KeyUserID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// ClearCredentials удаляет все три ключа.
func ClearCredentials(s Store) error {
	const op = "storage.ClearCredentials"
	if err := s.Delete(KeyToken, KeyEmail, KeyUserID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TokenReader читает токен сессии из хранилища при каждом запросе.
type TokenReader struct {
	Store Store
}

// Token возвращает сохранённый токен.
func (r TokenReader) Token() (string, bool) {
	v, err := r.Store.Get(KeyToken)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}
