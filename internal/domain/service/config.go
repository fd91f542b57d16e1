package service

import (
	"context"

	"go.uber.org/zap"
	"jinding-ha/internal/domain/model"
	"jinding-ha/internal/ports"
)

type ConfigService struct {
	store  ports.StateStore
	haPort ports.HomeAssistantPort
	logger *zap.Logger
}

func NewConfigService(store ports.StateStore, haPort ports.HomeAssistantPort, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		store:  store,
		haPort: haPort,
		logger: logger,
	}
}

// GetConfig returns the saved hub connection, or an empty one.
func (s *ConfigService) GetConfig(ctx context.Context) (*model.HassConfig, error) {
	cfg := &model.HassConfig{}
	if _, err := s.store.Load(ctx, model.StoreKeyHassConfig, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateConfig logs into the hub with cfg and saves it once the hub accepts it.
func (s *ConfigService) UpdateConfig(ctx context.Context, cfg *model.HassConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.haPort.Login(ctx, cfg.URL, cfg.Token); err != nil {
		return err
	}
	if err := s.store.Save(ctx, model.StoreKeyHassConfig, cfg); err != nil {
		return err
	}
	s.logger.Info("home assistant connection saved", zap.String("url", cfg.URL))
	return nil
}

// Apply configures the hub client from, in order, the saved connection or the
// given fallback. The fallback is saved when it is used.
func (s *ConfigService) Apply(ctx context.Context, fallback model.HassConfig) error {
	saved, err := s.GetConfig(ctx)
	if err != nil {
		return err
	}
	if saved.URL != "" && saved.Token != "" {
		s.haPort.Configure(saved.URL, saved.Token)
		return nil
	}
	if fallback.URL == "" || fallback.Token == "" {
		return nil
	}
	s.haPort.Configure(fallback.URL, fallback.Token)
	return s.store.Save(ctx, model.StoreKeyHassConfig, &fallback)
}
