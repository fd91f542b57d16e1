package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jinding-ha/internal/domain/model"
)

func TestModel_Initialize(t *testing.T) {
	m := NewModel([]string{"switch.a", "switch.b", "switch.a"})

	assert.Equal(t, []string{"switch.a", "switch.b"}, m.Keys())
	assert.Equal(t, 2, m.Len())
	assert.Empty(t, m.CurrentBindings())
	for _, e := range m.Entries() {
		assert.False(t, e.Bound())
	}
}

func TestModel_InitializeIsIdempotent(t *testing.T) {
	keys := []string{"switch.a", "switch.b"}

	once := NewModel(keys)

	twice := NewModel(nil)
	twice.Initialize(keys)
	require.NoError(t, twice.SetBinding("switch.a", "light.x"))
	twice.Initialize(keys)

	assert.Equal(t, once.Entries(), twice.Entries())
	assert.Empty(t, twice.CurrentBindings())
}

func TestModel_SetBinding(t *testing.T) {
	m := NewModel([]string{"switch.a", "switch.b", "switch.c"})

	require.NoError(t, m.SetBinding("switch.c", "light.1"))
	require.NoError(t, m.SetBinding("switch.a", "light.2"))
	require.NoError(t, m.SetBinding("switch.a", "light.2"))

	assert.Equal(t, []model.BindingEntry{
		{EntityID: "switch.a", KNXItemID: "light.2"},
		{EntityID: "switch.c", KNXItemID: "light.1"},
	}, m.CurrentBindings())

	light, ok := m.Binding("switch.a")
	assert.True(t, ok)
	assert.Equal(t, "light.2", light)

	require.NoError(t, m.SetBinding("switch.a", ""))
	_, ok = m.Binding("switch.a")
	assert.False(t, ok)
	assert.Len(t, m.CurrentBindings(), 1)
}

func TestModel_SetBindingUnknownKey(t *testing.T) {
	m := NewModel([]string{"switch.a"})

	err := m.SetBinding("switch.zzz", "light.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKey))
	assert.Contains(t, err.Error(), "switch.zzz")
	assert.Empty(t, m.CurrentBindings())
}

func TestModel_CurrentBindingsBounded(t *testing.T) {
	keys := []string{"switch.a", "switch.b"}
	m := NewModel(keys)
	for _, k := range keys {
		require.NoError(t, m.SetBinding(k, "light.x"))
	}
	assert.LessOrEqual(t, len(m.CurrentBindings()), len(keys))
	for _, b := range m.CurrentBindings() {
		assert.NotEmpty(t, b.KNXItemID)
	}
}

func TestModel_Restore(t *testing.T) {
	m := NewModel([]string{"switch.a", "switch.b"})

	n := m.Restore([]model.BindingEntry{
		{EntityID: "switch.b", KNXItemID: "light.1"},
		{EntityID: "switch.gone", KNXItemID: "light.2"},
		{EntityID: "switch.a"},
	})

	assert.Equal(t, 1, n)
	assert.Equal(t, []model.BindingEntry{{EntityID: "switch.b", KNXItemID: "light.1"}}, m.CurrentBindings())
}

func TestModel_Merge(t *testing.T) {
	m := NewModel([]string{"switch.a", "switch.b"})
	require.NoError(t, m.SetBinding("switch.a", "light.new"))

	merged := m.Merge([]model.BindingEntry{
		{EntityID: "switch.a", KNXItemID: "light.old"},
		{EntityID: "switch.b", KNXItemID: "light.cleared"},
		{EntityID: "switch.away", KNXItemID: "light.kept"},
		{EntityID: "switch.away", KNXItemID: "light.dup"},
		{EntityID: "switch.unset"},
	})

	assert.Equal(t, []model.BindingEntry{
		{EntityID: "switch.a", KNXItemID: "light.new"},
		{EntityID: "switch.away", KNXItemID: "light.kept"},
	}, merged)
	assert.True(t, m.Has("switch.b"))
	assert.False(t, m.Has("switch.away"))
	assert.Equal(t, m.CurrentBindings(), m.Merge(nil))
}

func TestModel_EntriesIsACopy(t *testing.T) {
	m := NewModel([]string{"switch.a"})
	entries := m.Entries()
	entries[0].KNXItemID = "light.hacked"
	assert.Empty(t, m.CurrentBindings())
}
