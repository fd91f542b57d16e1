package ports

import (
	"context"
	"jinding-ha/internal/domain/model"
)

type SetupPort interface {
	Refresh(ctx context.Context) error
	GetDevices(ctx context.Context) []model.RawDevice
	GetKeys(ctx context.Context) []model.Key
	GetLights(ctx context.Context) []model.LightOption
	GetBindings(ctx context.Context) []model.BindingEntry
	SetBinding(ctx context.Context, entityID, lightID string) error
	Automations(ctx context.Context) (string, error)
	Summary(ctx context.Context) (model.Summary, error)

	// KNX items
	GetKNXItems(ctx context.Context) ([]model.KNXItem, error)
	SaveKNXItems(ctx context.Context, items []model.KNXItem) error
	KNXText(ctx context.Context) (string, error)

	// Hub connection
	GetConfig(ctx context.Context) (*model.HassConfig, error)
	UpdateConfig(ctx context.Context, cfg *model.HassConfig) error
}
