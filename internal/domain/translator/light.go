package translator

import (
	"github.com/amimof/huego"
	"jinding-ha/internal/domain/model"
)

type LightStrategy struct{}

func (s *LightStrategy) ToHue(entity model.RawEntity) *huego.State {
	state := &huego.State{}
	state.On = (entity.State == "on")
	if bri, ok := entity.Attributes["brightness"].(float64); ok {
		if bri > 254 {
			bri = 254
		}
		if bri < 0 {
			bri = 0
		}
		state.Bri = uint8(bri)
	}
	if mode, ok := entity.Attributes["color_mode"].(string); ok {
		state.ColorMode = mode
	}
	state.Reachable = reachable(entity.State)
	return state
}
