// Package binding holds the user's choice of light for each switch key.
package binding

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"jinding-ha/internal/domain/model"
)

// ErrUnknownKey is returned when a binding targets an entity that is not a
// known switch key.
var ErrUnknownKey = errors.New("binding: unknown key")

// Model keeps one entry per switch key, in key order. It is not safe for
// concurrent use.
type Model struct {
	entries []model.BindingEntry
	index   map[string]int
}

// NewModel returns a model initialised with keys.
func NewModel(keys []string) *Model {
	m := &Model{}
	m.Initialize(keys)
	return m
}

// Initialize discards every entry and creates an unset one per key. Repeated
// keys keep their first position.
func (m *Model) Initialize(keys []string) {
	m.entries = make([]model.BindingEntry, 0, len(keys))
	m.index = make(map[string]int, len(keys))
	for _, k := range keys {
		if _, dup := m.index[k]; dup {
			continue
		}
		m.index[k] = len(m.entries)
		m.entries = append(m.entries, model.BindingEntry{EntityID: k})
	}
}

// SetBinding points the key at lightID. An empty lightID clears the binding.
func (m *Model) SetBinding(entityID, lightID string) error {
	i, ok := m.index[entityID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, entityID)
	}
	m.entries[i].KNXItemID = lightID
	return nil
}

// Has reports whether entityID is one of the model's keys.
func (m *Model) Has(entityID string) bool {
	_, ok := m.index[entityID]
	return ok
}

// Binding returns the light bound to a key.
func (m *Model) Binding(entityID string) (string, bool) {
	i, ok := m.index[entityID]
	if !ok || m.entries[i].KNXItemID == "" {
		return "", false
	}
	return m.entries[i].KNXItemID, true
}

// CurrentBindings returns the entries that have a light, in key order.
func (m *Model) CurrentBindings() []model.BindingEntry {
	out := make([]model.BindingEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.Bound() {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns a copy of all entries, bound or not.
func (m *Model) Entries() []model.BindingEntry {
	return append([]model.BindingEntry(nil), m.entries...)
}

// Keys returns the key set in order.
func (m *Model) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.EntityID
	}
	return keys
}

func (m *Model) Len() int {
	return len(m.entries)
}

// Restore applies saved bindings whose key is still present and returns how
// many were applied. Entries for vanished keys are dropped.
func (m *Model) Restore(saved []model.BindingEntry) int {
	n := 0
	for _, b := range saved {
		if !b.Bound() {
			continue
		}
		if err := m.SetBinding(b.EntityID, b.KNXItemID); err == nil {
			n++
		}
	}
	return n
}

// Merge returns the current bindings followed by the bound saved entries for
// keys the model does not hold. Keys missing from one fetch keep their saved
// light; keys the model holds are taken from the model, bound or not.
func (m *Model) Merge(saved []model.BindingEntry) []model.BindingEntry {
	detached := lo.Filter(saved, func(b model.BindingEntry, _ int) bool {
		return b.Bound() && !m.Has(b.EntityID)
	})
	detached = lo.UniqBy(detached, func(b model.BindingEntry) string {
		return b.EntityID
	})
	return append(m.CurrentBindings(), detached...)
}
