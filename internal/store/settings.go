package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// GetReaderSettings retrieves the reader settings singleton.
// When nothing is stored yet the defaults are returned without being
// persisted, so a fresh install always sees the fixed defaults.
func (s *Store) GetReaderSettings(ctx context.Context) (*domain.ReaderSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var settings domain.ReaderSettings
	err := s.get([]byte(settingsKey), &settings)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.DefaultReaderSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateReaderSettings applies fn to the stored settings inside one
// transaction, starting from the defaults when nothing is stored yet.
// Concurrent partial updates serialize instead of overwriting each
// other's fields; conflicting transactions are retried.
func (s *Store) UpdateReaderSettings(ctx context.Context, fn func(*domain.ReaderSettings)) (*domain.ReaderSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(settingsKey)
	var result *domain.ReaderSettings

	err := s.retryOnConflict(ctx, func(txn *badger.Txn) error {
		settings := domain.DefaultReaderSettings()

		item, err := txn.Get(key)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		if err == nil {
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, settings)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal settings: %w", err)
			}
		}

		fn(settings)

		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		result = settings
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetAppTheme retrieves the app-wide theme, defaulting to light.
func (s *Store) GetAppTheme(ctx context.Context) (domain.AppTheme, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var theme domain.AppTheme
	err := s.get([]byte(themeKey), &theme)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.AppThemeLight, nil
	}
	if err != nil {
		return "", err
	}
	return theme, nil
}

// PutAppTheme replaces the app-wide theme.
func (s *Store) PutAppTheme(ctx context.Context, theme domain.AppTheme) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set([]byte(themeKey), theme)
}

// GetInstance retrieves the installation record.
func (s *Store) GetInstance(ctx context.Context) (*domain.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var instance domain.Instance
	err := s.get([]byte(instanceKey), &instance)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound.WithMessage("instance not configured")
	}
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// EnsureInstance returns the installation record, creating it on first
// startup.
func (s *Store) EnsureInstance(ctx context.Context, name, version string) (*domain.Instance, error) {
	instance, err := s.GetInstance(ctx)
	if err == nil {
		return instance, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	instance = domain.NewInstance(name, version)
	if err := s.set([]byte(instanceKey), instance); err != nil {
		return nil, err
	}
	return instance, nil
}
