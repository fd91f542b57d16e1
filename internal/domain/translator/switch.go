package translator

import (
	"github.com/amimof/huego"
	"jinding-ha/internal/domain/model"
)

// SwitchStrategy maps a plain on/off entity. A switch key has no brightness.
type SwitchStrategy struct{}

func (s *SwitchStrategy) ToHue(entity model.RawEntity) *huego.State {
	return &huego.State{
		On:        entity.State == "on",
		Reachable: reachable(entity.State),
	}
}
