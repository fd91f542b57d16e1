package translator

import (
	"github.com/amimof/huego"
	"jinding-ha/internal/domain/model"
)

// Translator converts a hub entity state into a Hue-style state for display
type Translator interface {
	ToHue(entity model.RawEntity) *huego.State
}

func reachable(state string) bool {
	return state != "" && state != "unavailable" && state != "unknown"
}
