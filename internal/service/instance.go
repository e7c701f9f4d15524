package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// Version is the server version advertised to clients.
const Version = "1.0.0"

// InstanceService exposes the server installation record.
type InstanceService struct {
	store  *store.Store
	logger *slog.Logger
	config *config.Config
}

// NewInstanceService creates a new instance service.
func NewInstanceService(store *store.Store, logger *slog.Logger, config *config.Config) *InstanceService {
	return &InstanceService{
		store:  store,
		logger: logger,
		config: config,
	}
}

// Initialize ensures the installation record exists, creating it with a
// fresh identity on first startup.
func (s *InstanceService) Initialize(ctx context.Context) (*domain.Instance, error) {
	instance, err := s.store.EnsureInstance(ctx, s.config.Server.Name, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize instance: %w", err)
	}

	s.logger.Info("instance ready",
		"instance_id", instance.ID,
		"name", instance.Name,
		"version", instance.Version,
	)
	return instance, nil
}

// GetInstance retrieves the installation record.
func (s *InstanceService) GetInstance(ctx context.Context) (*domain.Instance, error) {
	instance, err := s.store.GetInstance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}
	return instance, nil
}
