package discovery

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"jinding-ha/internal/domain/model"
)

// KeyLabels are the friendly-name fragments that identify one button of a
// multi-key wall switch. The first four come from the older panels, the rest
// from the newer generation.
var KeyLabels = []string{
	"开关一键", "开关二键", "开关三键", "开关四键",
	"按键1", "按键2", "按键3", "按键4",
}

// IsKeyName reports whether a friendly name carries one of the key labels.
func IsKeyName(name string) bool {
	return lo.ContainsBy(KeyLabels, func(label string) bool {
		return strings.Contains(name, label)
	})
}

// MatchKeys attaches live switch states to the flattened entities and keeps
// those named like a physical key. A later duplicate entity ID overwrites an
// earlier one. The result is never nil.
func MatchKeys(flattened []model.FlattenedEntity, switches []model.RawEntity) model.KeyedEntityMap {
	live := lo.KeyBy(switches, func(e model.RawEntity) string {
		return e.EntityID
	})

	return lo.Reduce(flattened, func(keys model.KeyedEntityMap, f model.FlattenedEntity, _ int) model.KeyedEntityMap {
		if e, ok := live[f.EntityID]; ok {
			f.Entity = &e
		}
		if f.Entity == nil {
			return keys
		}
		name, ok := f.Entity.FriendlyName()
		if !ok || !IsKeyName(name) {
			return keys
		}
		keys[f.EntityID] = f
		return keys
	}, model.KeyedEntityMap{})
}

// BuildKeyMap runs the whole pipeline over one device fetch and one state fetch.
func BuildKeyMap(devices []model.RawDevice, entities []model.RawEntity) model.KeyedEntityMap {
	return MatchKeys(Flatten(devices), SwitchEntities(entities))
}

// Keys lists the map's entity IDs ordered by device name, then entity ID.
func Keys(keys model.KeyedEntityMap) []string {
	ids := lo.Keys(keys)
	sort.Slice(ids, func(i, j int) bool {
		a, b := keys[ids[i]], keys[ids[j]]
		if a.DeviceName != b.DeviceName {
			return a.DeviceName < b.DeviceName
		}
		return a.EntityID < b.EntityID
	})
	return ids
}

// KeyName returns the friendly name of a matched key, or its entity ID.
func KeyName(f model.FlattenedEntity) string {
	if f.Entity != nil {
		if name, ok := f.Entity.FriendlyName(); ok {
			return name
		}
	}
	return f.EntityID
}
