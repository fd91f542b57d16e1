package translator

import (
	"github.com/amimof/huego"
	"jinding-ha/internal/domain/model"
)

type Factory struct {
	strategies map[string]Translator
}

func NewFactory() *Factory {
	return &Factory{
		strategies: map[string]Translator{
			model.DomainLight:  &LightStrategy{},
			model.DomainSwitch: &SwitchStrategy{},
		},
	}
}

// GetTranslator picks the strategy for the entity's domain, falling back to
// the switch strategy which only looks at on/off.
func (f *Factory) GetTranslator(domain string) Translator {
	if t, ok := f.strategies[domain]; ok {
		return t
	}
	return f.strategies[model.DomainSwitch]
}

// ToHue translates an entity with the strategy for its own domain.
func (f *Factory) ToHue(entity model.RawEntity) *huego.State {
	return f.GetTranslator(entity.Domain()).ToHue(entity)
}
