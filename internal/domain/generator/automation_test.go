package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"jinding-ha/internal/domain/model"
)

func keyMap() model.KeyedEntityMap {
	k1 := model.RawEntity{EntityID: "switch.k1", Attributes: map[string]interface{}{"friendly_name": "客厅开关一键"}}
	k2 := model.RawEntity{EntityID: "switch.k2", Attributes: map[string]interface{}{"friendly_name": "客厅开关二键"}}
	return model.KeyedEntityMap{
		"switch.k1": {EntityID: "switch.k1", DeviceID: "d1", DeviceName: "Panel", Entity: &k1},
		"switch.k2": {EntityID: "switch.k2", DeviceID: "d1", DeviceName: "Panel", Entity: &k2},
		"switch.k3": {EntityID: "switch.k3", DeviceID: "d1", DeviceName: "Panel"},
	}
}

var lights = []model.LightOption{
	{Label: "主灯", Value: "light.main"},
	{Label: "筒灯", Value: "light.spot"},
}

func TestBatchGenScripts_OneUnitPerBoundKey(t *testing.T) {
	bindings := []model.BindingEntry{
		{EntityID: "switch.k1", KNXItemID: "light.main"},
		{EntityID: "switch.k2"},
		{EntityID: "switch.k3", KNXItemID: "light.spot"},
	}

	out, err := BatchGenScripts(keyMap(), lights, bindings)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "- id: "))

	var parsed []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed, 2)
	assert.Equal(t, "客厅开关一键 ⇄ 主灯", parsed[0]["alias"])
	assert.Equal(t, AutomationID("switch.k1", "light.main"), parsed[0]["id"])
	assert.Equal(t, "switch.k3 ⇄ 筒灯", parsed[1]["alias"])

	triggers := parsed[0]["trigger"].([]interface{})
	require.Len(t, triggers, 2)
	assert.Equal(t, "switch.k1", triggers[0].(map[string]interface{})["entity_id"])
	assert.Equal(t, "light.main", triggers[1].(map[string]interface{})["entity_id"])

	assert.Contains(t, out, "light.turn_{{ trigger.to_state.state }}")
	assert.Contains(t, out, "switch.turn_{{ trigger.to_state.state }}")
}

func TestBatchGenScripts_Deterministic(t *testing.T) {
	bindings := []model.BindingEntry{
		{EntityID: "switch.k2", KNXItemID: "light.spot"},
		{EntityID: "switch.k1", KNXItemID: "light.main"},
	}

	first, err := BatchGenScripts(keyMap(), lights, bindings)
	require.NoError(t, err)
	second, err := BatchGenScripts(keyMap(), lights, bindings)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Less(t, strings.Index(first, "switch.k2"), strings.Index(first, "switch.k1"))
}

func TestBatchGenScripts_UnknownLightPlaceholder(t *testing.T) {
	out, err := BatchGenScripts(keyMap(), nil, []model.BindingEntry{
		{EntityID: "switch.k1", KNXItemID: "light.removed"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "- id: "))
	assert.Contains(t, out, "UNKNOWN(light.removed)")
}

func TestBatchGenScripts_NoBindings(t *testing.T) {
	out, err := BatchGenScripts(keyMap(), lights, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestAutomationID_Stable(t *testing.T) {
	assert.Equal(t, AutomationID("switch.a", "light.b"), AutomationID("switch.a", "light.b"))
	assert.NotEqual(t, AutomationID("switch.a", "light.b"), AutomationID("switch.a", "light.c"))
}
