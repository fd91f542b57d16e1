package model

import (
	"errors"
	"fmt"
)

// ErrInvalidHassConfig is returned when the hub URL or token is missing or malformed.
var ErrInvalidHassConfig = errors.New("invalid home assistant config")

// Store keys for user-owned state.
const (
	StoreKeyKNXItems   = "knxItems"
	StoreKeyBindings   = "bindings"
	StoreKeyHassConfig = "homeAssistantConfig"
)

// HassConfig is the hub connection remembered between runs.
type HassConfig struct {
	URL   string `json:"hass_url" validate:"required,url"`
	Token string `json:"hass_token" validate:"required"`
}

// Validate checks that both URL and token are set and the URL is well formed.
func (c HassConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHassConfig, err)
	}
	return nil
}
