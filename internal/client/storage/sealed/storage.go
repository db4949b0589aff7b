// Package sealed encrypts session entries before they reach the underlying storage.
package sealed

import (
	"context"
	"fmt"

	"github.com/iudanet/fishlog/internal/client/storage"
	"github.com/iudanet/fishlog/internal/crypto"
)

// Storage wraps another SessionStorage and seals every non-empty value
// with AES-256-GCM. Values that fail to open are reported as storage.ErrCorruptEntry.
type Storage struct {
	next storage.SessionStorage
	key  []byte
}

// Compile-time check that Storage implements storage.SessionStorage
var _ storage.SessionStorage = (*Storage)(nil)

// New creates an encrypting decorator. key must be crypto.KeySize bytes.
func New(next storage.SessionStorage, key []byte) (*Storage, error) {
	if len(key) != crypto.KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", crypto.KeySize, len(key))
	}
	return &Storage{next: next, key: key}, nil
}

// NewWithPassphrase derives the key from passphrase and salt
func NewWithPassphrase(next storage.SessionStorage, passphrase string, salt []byte) (*Storage, error) {
	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive storage key: %w", err)
	}
	return New(next, key)
}

func (s *Storage) SaveEntries(ctx context.Context, entries *storage.Entries) error {
	if entries == nil {
		return fmt.Errorf("session entries are nil")
	}

	sealed := &storage.Entries{}
	for _, key := range storage.Keys() {
		value, err := s.seal(entries.Value(key))
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", key, err)
		}
		sealed.Set(key, value)
	}
	return s.next.SaveEntries(ctx, sealed)
}

func (s *Storage) GetEntries(ctx context.Context) (*storage.Entries, error) {
	stored, err := s.next.GetEntries(ctx)
	if err != nil {
		return nil, err
	}

	entries := &storage.Entries{}
	for _, key := range storage.Keys() {
		value, err := s.open(stored.Value(key))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", storage.ErrCorruptEntry, key, err)
		}
		entries.Set(key, value)
	}
	return entries, nil
}

func (s *Storage) GetToken(ctx context.Context) (string, error) {
	stored, err := s.next.GetToken(ctx)
	if err != nil {
		return "", err
	}

	token, err := s.open(stored)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", storage.ErrCorruptEntry, storage.KeyToken, err)
	}
	return token, nil
}

func (s *Storage) DeleteEntries(ctx context.Context) error {
	return s.next.DeleteEntries(ctx)
}

func (s *Storage) Close() error {
	return s.next.Close()
}

// seal оставляет пустые значения пустыми, чтобы они по-прежнему означали отсутствие записи
func (s *Storage) seal(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return crypto.EncryptToBase64([]byte(value), s.key)
}

func (s *Storage) open(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	plaintext, err := crypto.DecryptFromBase64(value, s.key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
