package discovery

import (
	"strings"

	"github.com/samber/lo"
	"jinding-ha/internal/domain/model"
)

// Flatten expands devices into one record per owned switch entity.
func Flatten(devices []model.RawDevice) []model.FlattenedEntity {
	return lo.FlatMap(devices, func(d model.RawDevice, _ int) []model.FlattenedEntity {
		var out []model.FlattenedEntity
		for _, id := range d.Entities {
			if !strings.HasPrefix(id, SwitchPrefix) {
				continue
			}
			out = append(out, model.FlattenedEntity{
				EntityID:   id,
				DeviceID:   d.DeviceID,
				DeviceName: d.Name,
			})
		}
		return out
	})
}

// FilterDevices keeps devices owning at least one switch entity and at least
// one entity whose ID contains marker. An empty marker only applies the switch
// rule.
func FilterDevices(devices []model.RawDevice, marker string) []model.RawDevice {
	return lo.Filter(devices, func(d model.RawDevice, _ int) bool {
		hasSwitch := lo.ContainsBy(d.Entities, func(id string) bool {
			return strings.HasPrefix(id, SwitchPrefix)
		})
		if !hasSwitch || marker == "" {
			return hasSwitch
		}
		return lo.ContainsBy(d.Entities, func(id string) bool {
			return strings.Contains(id, marker)
		})
	})
}
