package model

import (
	"strings"

	"github.com/amimof/huego"
)

// Entity domains handled by the setup pipeline.
const (
	DomainSwitch = "switch"
	DomainLight  = "light"
)

// RawEntity is one record of the hub's /api/states payload.
type RawEntity struct {
	EntityID   string                 `json:"entity_id"`
	State      string                 `json:"state,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// FriendlyName returns attributes.friendly_name when it is a non-empty string.
func (e RawEntity) FriendlyName() (string, bool) {
	name, ok := e.Attributes["friendly_name"].(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Domain returns the part of the entity ID before the first dot.
func (e RawEntity) Domain() string {
	return Domain(e.EntityID)
}

// Domain returns the part of an entity ID before the first dot, or the whole
// ID when it has no dot.
func Domain(entityID string) string {
	domain, _, _ := strings.Cut(entityID, ".")
	return domain
}

// RawDevice is a hub device together with the entity IDs it owns.
type RawDevice struct {
	DeviceID string   `json:"deviceId"`
	Name     string   `json:"name"`
	Entities []string `json:"entities"`
}

// FlattenedEntity pairs a switch entity with its owning device. Entity is nil
// when the hub no longer reports the entity in its state list.
type FlattenedEntity struct {
	EntityID   string     `json:"entityId"`
	DeviceID   string     `json:"deviceId"`
	DeviceName string     `json:"deviceName"`
	Entity     *RawEntity `json:"entity,omitempty"`
}

// KeyedEntityMap holds the switch keys matched by button label, by entity ID.
type KeyedEntityMap map[string]FlattenedEntity

// LightOption is a selectable light target.
type LightOption struct {
	Label string       `json:"label"`
	Value string       `json:"value"`
	State *huego.State `json:"state,omitempty"`
}

// Key is a matched switch key as presented to the user, with its live state
// and current binding.
type Key struct {
	EntityID   string       `json:"entity_id"`
	Name       string       `json:"name"`
	DeviceID   string       `json:"device_id"`
	DeviceName string       `json:"device_name"`
	State      *huego.State `json:"state,omitempty"`
	LightID    string       `json:"light_id,omitempty"`
}

// Summary counts what the assistant currently knows about.
type Summary struct {
	KNXItems int `json:"knx_items"`
	Devices  int `json:"devices"`
	Keys     int `json:"keys"`
	Bound    int `json:"bound"`
}
