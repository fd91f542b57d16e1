package ports

import (
	"context"
	"jinding-ha/internal/domain/model"
)

type HomeAssistantPort interface {
	// Login checks the URL and token against the hub before keeping them.
	Login(ctx context.Context, url, token string) error
	GetDevices(ctx context.Context) ([]model.RawDevice, error)
	GetStates(ctx context.Context) ([]model.RawEntity, error)
	Configure(url, token string)
	IsConfigured() bool
}
