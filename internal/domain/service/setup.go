package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"jinding-ha/internal/domain/binding"
	"jinding-ha/internal/domain/discovery"
	"jinding-ha/internal/domain/generator"
	"jinding-ha/internal/domain/model"
	"jinding-ha/internal/domain/translator"
	"jinding-ha/internal/ports"
)

// Options tune how fetched devices are filtered and how bindings survive a refresh.
type Options struct {
	// DeviceMarker must appear in one of a device's entity IDs for the device
	// to be considered. Empty disables the check.
	DeviceMarker string
	// RestoreBindings re-applies saved bindings after each refresh.
	RestoreBindings bool
}

// SetupService owns the state derived from the last applied hub fetch.
type SetupService struct {
	*ConfigService

	haPort            ports.HomeAssistantPort
	store             ports.StateStore
	translatorFactory *translator.Factory
	logger            *zap.Logger
	opts              Options

	seq atomic.Uint64

	mu       sync.RWMutex
	applied  uint64
	devices  []model.RawDevice
	keys     model.KeyedEntityMap
	lights   []model.LightOption
	bindings *binding.Model
}

func NewSetupService(haPort ports.HomeAssistantPort, store ports.StateStore, logger *zap.Logger, opts Options) *SetupService {
	return &SetupService{
		ConfigService:     NewConfigService(store, haPort, logger),
		haPort:            haPort,
		store:             store,
		translatorFactory: translator.NewFactory(),
		logger:            logger,
		opts:              opts,
		keys:              model.KeyedEntityMap{},
		bindings:          binding.NewModel(nil),
	}
}

// Refresh fetches devices and states and rebuilds keys, lights and bindings
// from them. A failed fetch counts as an empty one: the state is still rebuilt
// and the fetch error is returned. When refreshes overlap, only the most
// recently started one is applied.
func (s *SetupService) Refresh(ctx context.Context) error {
	if !s.haPort.IsConfigured() {
		return ErrNotConfigured
	}
	ticket := s.seq.Add(1)

	devices, devErr := s.haPort.GetDevices(ctx)
	if devErr != nil {
		s.logger.Warn("fetching devices failed", zap.Error(devErr))
		devices = nil
	}
	states, stateErr := s.haPort.GetStates(ctx)
	if stateErr != nil {
		s.logger.Warn("fetching states failed", zap.Error(stateErr))
		states = nil
	}

	var saved []model.BindingEntry
	if s.opts.RestoreBindings {
		if _, err := s.store.Load(ctx, model.StoreKeyBindings, &saved); err != nil {
			s.logger.Warn("loading saved bindings failed", zap.Error(err))
			saved = nil
		}
	}

	s.apply(ticket, devices, states, saved)

	if err := errors.Join(devErr, stateErr); err != nil {
		return fmt.Errorf("refreshing from home assistant: %w", err)
	}
	return nil
}

func (s *SetupService) apply(ticket uint64, devices []model.RawDevice, states []model.RawEntity, saved []model.BindingEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket <= s.applied {
		s.logger.Debug("discarding stale refresh", zap.Uint64("ticket", ticket), zap.Uint64("applied", s.applied))
		return false
	}
	s.applied = ticket

	s.devices = discovery.FilterDevices(devices, s.opts.DeviceMarker)
	s.keys = discovery.BuildKeyMap(s.devices, states)
	s.lights = discovery.LightOptions(states, s.translatorFactory)
	s.bindings.Initialize(discovery.Keys(s.keys))
	restored := s.bindings.Restore(saved)

	s.logger.Info("setup state rebuilt",
		zap.Int("devices", len(s.devices)),
		zap.Int("keys", len(s.keys)),
		zap.Int("lights", len(s.lights)),
		zap.Int("restored_bindings", restored),
	)
	return true
}

func (s *SetupService) GetDevices(ctx context.Context) []model.RawDevice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RawDevice(nil), s.devices...)
}

// GetKeys lists matched keys in binding order with their live state and light.
func (s *SetupService) GetKeys(ctx context.Context) []model.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]model.Key, 0, s.bindings.Len())
	for _, id := range s.bindings.Keys() {
		f := s.keys[id]
		k := model.Key{
			EntityID:   id,
			Name:       discovery.KeyName(f),
			DeviceID:   f.DeviceID,
			DeviceName: f.DeviceName,
		}
		if f.Entity != nil {
			k.State = s.translatorFactory.ToHue(*f.Entity)
		}
		k.LightID, _ = s.bindings.Binding(id)
		keys = append(keys, k)
	}
	return keys
}

func (s *SetupService) GetLights(ctx context.Context) []model.LightOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.LightOption(nil), s.lights...)
}

// GetBindings returns the keys that currently have a light.
func (s *SetupService) GetBindings(ctx context.Context) []model.BindingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bindings.CurrentBindings()
}

// SetBinding binds a key to a light, or unbinds it when lightID is empty, and
// saves the resulting bindings. Saved bindings of keys absent from the last
// fetch are kept. A failed save leaves the binding unchanged.
func (s *SetupService) SetBinding(ctx context.Context, entityID, lightID string) error {
	if lightID != "" && !strings.HasPrefix(lightID, discovery.LightPrefix) {
		return fmt.Errorf("%w: %s", ErrInvalidLight, lightID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var saved []model.BindingEntry
	if _, err := s.store.Load(ctx, model.StoreKeyBindings, &saved); err != nil {
		return fmt.Errorf("loading saved bindings: %w", err)
	}

	previous, _ := s.bindings.Binding(entityID)
	if err := s.bindings.SetBinding(entityID, lightID); err != nil {
		return err
	}
	if err := s.store.Save(ctx, model.StoreKeyBindings, s.bindings.Merge(saved)); err != nil {
		// Keep memory in line with what is stored
		s.bindings.SetBinding(entityID, previous)
		return fmt.Errorf("saving bindings: %w", err)
	}
	return nil
}

// Automations renders the automation file for the current bindings.
func (s *SetupService) Automations(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return generator.BatchGenScripts(s.keys, s.lights, s.bindings.CurrentBindings())
}

func (s *SetupService) Summary(ctx context.Context) (model.Summary, error) {
	items, err := s.GetKNXItems(ctx)
	if err != nil {
		return model.Summary{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Summary{
		KNXItems: len(items),
		Devices:  len(s.devices),
		Keys:     len(s.keys),
		Bound:    len(s.bindings.CurrentBindings()),
	}, nil
}

// GetKNXItems returns the saved KNX items, or none.
func (s *SetupService) GetKNXItems(ctx context.Context) ([]model.KNXItem, error) {
	items := []model.KNXItem{}
	if _, err := s.store.Load(ctx, model.StoreKeyKNXItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveKNXItems validates and saves the whole KNX item list. Shared addresses
// are allowed and only logged.
func (s *SetupService) SaveKNXItems(ctx context.Context, items []model.KNXItem) error {
	if err := model.ValidateKNXItems(items); err != nil {
		return err
	}
	if dups := model.DuplicateAddresses(items); len(dups) > 0 {
		s.logger.Warn("knx items share group addresses", zap.Strings("addresses", dups))
	}
	if items == nil {
		items = []model.KNXItem{}
	}
	return s.store.Save(ctx, model.StoreKeyKNXItems, items)
}

// KNXText renders the KNX declaration for the saved items.
func (s *SetupService) KNXText(ctx context.Context) (string, error) {
	items, err := s.GetKNXItems(ctx)
	if err != nil {
		return "", err
	}
	return generator.ToKNXText(items), nil
}
