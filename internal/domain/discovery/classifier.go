// Package discovery turns the hub's device and state lists into the set of
// switch keys and light targets the user can bind together.
package discovery

import (
	"strings"

	"github.com/samber/lo"
	"jinding-ha/internal/domain/model"
	"jinding-ha/internal/domain/translator"
)

// Entity ID prefixes.
const (
	SwitchPrefix = model.DomainSwitch + "."
	LightPrefix  = model.DomainLight + "."
)

// FilterByDomain keeps the entities whose ID starts with prefix, in input order.
func FilterByDomain(entities []model.RawEntity, prefix string) []model.RawEntity {
	return lo.Filter(entities, func(e model.RawEntity, _ int) bool {
		return strings.HasPrefix(e.EntityID, prefix)
	})
}

// SwitchEntities keeps switch-domain entities.
func SwitchEntities(entities []model.RawEntity) []model.RawEntity {
	return FilterByDomain(entities, SwitchPrefix)
}

// LightEntities keeps light-domain entities.
func LightEntities(entities []model.RawEntity) []model.RawEntity {
	return FilterByDomain(entities, LightPrefix)
}

// LightOptions builds one selectable option per light entity. The label is the
// friendly name, or the entity ID when the hub reports none.
func LightOptions(entities []model.RawEntity, states *translator.Factory) []model.LightOption {
	return lo.Map(LightEntities(entities), func(e model.RawEntity, _ int) model.LightOption {
		label, ok := e.FriendlyName()
		if !ok {
			label = e.EntityID
		}
		opt := model.LightOption{Label: label, Value: e.EntityID}
		if states != nil {
			opt.State = states.ToHue(e)
		}
		return opt
	})
}
