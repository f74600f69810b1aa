// Package bbolt реализует storage.Store поверх файла BBolt.
package bbolt

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/magabrotheeeer/bukafresh-client/internal/storage"
)

var bucketName = []byte("session")

// Store хранит значения в одном бакете файла BBolt.
type Store struct {
	db *bbolt.DB
}

var _ storage.Store = (*Store)(nil)

// New открывает (или создаёт) файл по пути path.
func New(path string) (*Store, error) {
	const op = "storage.bbolt.New"
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketName).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		value = string(data)
		return nil
	})
	return value, err
}

func (s *Store) Put(values map[string]string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		for k, v := range values {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete удаляет ключи. Отсутствующие ключи не считаются ошибкой.
func (s *Store) Delete(keys ...string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close закрывает файл базы.
func (s *Store) Close() error {
	return s.db.Close()
}
