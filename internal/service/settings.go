package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// SettingsService manages reader settings and the app theme.
type SettingsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store *store.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:  store,
		logger: logger,
	}
}

// GetSettings returns the reader settings, falling back to the fixed
// defaults when nothing is stored yet.
func (s *SettingsService) GetSettings(ctx context.Context) (*domain.ReaderSettings, error) {
	settings, err := s.store.GetReaderSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// SettingsUpdate contains optional reader settings fields. Only non-nil
// fields are applied.
type SettingsUpdate struct {
	FontSize   *int                `json:"font_size"`
	Theme      *domain.ReaderTheme `json:"theme"`
	ScrollMode *domain.ScrollMode  `json:"scroll_mode"`
}

// UpdateSettings applies a partial settings update and returns the
// result. Unknown values are rejected before anything is written.
func (s *SettingsService) UpdateSettings(ctx context.Context, update *SettingsUpdate) (*domain.ReaderSettings, error) {
	if update.FontSize != nil && !domain.ValidFontSize(*update.FontSize) {
		return nil, domainerrors.Validationf("font size %d is not offered, pick one of %v", *update.FontSize, domain.FontSizes)
	}
	if update.Theme != nil && !update.Theme.Valid() {
		return nil, domainerrors.Validationf("unknown theme %q", *update.Theme)
	}
	if update.ScrollMode != nil && !update.ScrollMode.Valid() {
		return nil, domainerrors.Validationf("unknown scroll mode %q", *update.ScrollMode)
	}

	// Read and write in one store transaction so two concurrent partial
	// updates cannot drop each other's fields.
	settings, err := s.store.UpdateReaderSettings(ctx, func(settings *domain.ReaderSettings) {
		if update.FontSize != nil {
			settings.FontSize = *update.FontSize
		}
		if update.Theme != nil {
			settings.Theme = *update.Theme
		}
		if update.ScrollMode != nil {
			settings.ScrollMode = *update.ScrollMode
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Debug("updated reader settings",
		"font_size", settings.FontSize,
		"theme", settings.Theme,
		"scroll_mode", settings.ScrollMode,
	)
	return settings, nil
}

// GetTheme returns the app-wide theme.
func (s *SettingsService) GetTheme(ctx context.Context) (domain.AppTheme, error) {
	theme, err := s.store.GetAppTheme(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get theme: %w", err)
	}
	return theme, nil
}

// SetTheme replaces the app-wide theme.
func (s *SettingsService) SetTheme(ctx context.Context, theme domain.AppTheme) error {
	if !theme.Valid() {
		return domainerrors.Validationf("unknown theme %q", theme)
	}

	if err := s.store.PutAppTheme(ctx, theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	s.logger.Debug("updated app theme", "theme", theme)
	return nil
}
