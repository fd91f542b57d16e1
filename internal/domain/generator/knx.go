// Package generator renders the configuration text the hub consumes.
package generator

import (
	"strings"

	"jinding-ha/internal/domain/model"
)

const knxHeader = "knx:\n  light:"

// ToKNXText renders the KNX light declaration for configuration.yaml. Items
// without a name or address are skipped. Command and status share the same
// group address. Values are written verbatim between quotes.
func ToKNXText(items []model.KNXItem) string {
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		if item.Name == "" || item.Address == "" {
			continue
		}
		blocks = append(blocks, strings.Join([]string{
			`    - name: "` + item.Name + `"`,
			`      address: "` + item.Address + `"`,
			`      state_address: "` + item.Address + `"`,
		}, "\n"))
	}
	return strings.TrimSpace("\n" + knxHeader + "\n" + strings.Join(blocks, "\n") + "\n")
}
