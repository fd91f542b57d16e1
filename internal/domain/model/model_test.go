package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawEntity_FriendlyName(t *testing.T) {
	e := RawEntity{EntityID: "switch.a", Attributes: map[string]interface{}{"friendly_name": "按键1"}}
	name, ok := e.FriendlyName()
	assert.True(t, ok)
	assert.Equal(t, "按键1", name)

	_, ok = RawEntity{EntityID: "switch.a"}.FriendlyName()
	assert.False(t, ok)

	_, ok = RawEntity{Attributes: map[string]interface{}{"friendly_name": 12.0}}.FriendlyName()
	assert.False(t, ok)
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "switch", Domain("switch.a.b"))
	assert.Equal(t, "light", RawEntity{EntityID: "light.x"}.Domain())
	assert.Equal(t, "nodot", Domain("nodot"))
}

func TestValidateKNXItem(t *testing.T) {
	assert.NoError(t, ValidateKNXItem(KNXItem{Name: "主灯", Address: "1/1/1"}))
	assert.NoError(t, ValidateKNXItem(KNXItem{Name: "x", Address: "31/7/255"}))

	for _, item := range []KNXItem{
		{Address: "1/1/1"},
		{Name: "x"},
		{Name: "x", Address: "1/1"},
		{Name: "x", Address: "1/a/1"},
		{Name: "x", Address: "1/1/1/1"},
		{Name: "x", Address: " 1/1/1"},
	} {
		err := ValidateKNXItem(item)
		require.Error(t, err, "%+v", item)
		assert.True(t, errors.Is(err, ErrInvalidKNXItem))
	}
}

func TestValidateKNXItems(t *testing.T) {
	err := ValidateKNXItems([]KNXItem{{Name: "a", Address: "1/1/1"}, {Name: "b", Address: "bad"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")
	assert.NoError(t, ValidateKNXItems(nil))
}

func TestDuplicateAddresses(t *testing.T) {
	items := []KNXItem{
		{Name: "a", Address: "1/1/1"},
		{Name: "b", Address: "1/1/2"},
		{Name: "c", Address: "1/1/1"},
		{Name: "d", Address: "1/1/1"},
		{Name: "e"},
		{Name: "f"},
	}
	assert.Equal(t, []string{"1/1/1"}, DuplicateAddresses(items))
	assert.Empty(t, DuplicateAddresses(items[:2]))
}

func TestHassConfig_Validate(t *testing.T) {
	assert.NoError(t, HassConfig{URL: "http://192.168.50.116:8123", Token: "t"}.Validate())
	assert.ErrorIs(t, HassConfig{URL: "http://ha:8123"}.Validate(), ErrInvalidHassConfig)
	assert.Error(t, HassConfig{URL: "not a url", Token: "t"}.Validate())
}
