package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fishlog/internal/client/storage"
)

// Compile-time check that Storage implements storage.SessionStorage
var _ storage.SessionStorage = (*Storage)(nil)

// SaveEntries stores all session entries in a single transaction
func (s *Storage) SaveEntries(ctx context.Context, entries *storage.Entries) error {
	if entries == nil {
		return fmt.Errorf("session entries are nil")
	}

	return s.update(func(bucket *bbolt.Bucket) error {
		for _, key := range storage.Keys() {
			value := entries.Value(key)
			// Пустое значение означает отсутствие записи
			if value == "" {
				if err := bucket.Delete([]byte(key)); err != nil {
					return fmt.Errorf("failed to delete %s: %w", key, err)
				}
				continue
			}
			if err := bucket.Put([]byte(key), []byte(value)); err != nil {
				return fmt.Errorf("failed to save %s: %w", key, err)
			}
		}
		return nil
	})
}

// GetEntries retrieves all session entries
func (s *Storage) GetEntries(ctx context.Context) (*storage.Entries, error) {
	entries := &storage.Entries{}

	err := s.view(func(bucket *bbolt.Bucket) error {
		for _, key := range storage.Keys() {
			// Копируем значение: память bbolt валидна только внутри транзакции
			if data := bucket.Get([]byte(key)); data != nil {
				entries.Set(key, string(data))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// GetToken retrieves the access token only
func (s *Storage) GetToken(ctx context.Context) (string, error) {
	var token string

	err := s.view(func(bucket *bbolt.Bucket) error {
		token = string(bucket.Get([]byte(storage.KeyToken)))
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// DeleteEntries removes all session entries (logout)
func (s *Storage) DeleteEntries(ctx context.Context) error {
	return s.update(func(bucket *bbolt.Bucket) error {
		for _, key := range storage.Keys() {
			// Delete отсутствующего ключа в bbolt не является ошибкой
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
		return nil
	})
}

func (s *Storage) update(fn func(bucket *bbolt.Bucket) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}
		return fn(bucket)
	})
}

func (s *Storage) view(fn func(bucket *bbolt.Bucket) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}
		return fn(bucket)
	})
}
