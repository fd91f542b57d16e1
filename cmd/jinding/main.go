// Command jinding helps wire Jinding wall-switch keys to Home Assistant
// lights: it lists keys and lights, stores bindings and KNX light items, and
// renders the matching automation and KNX YAML.
//
// Usage:
//
//	jinding login http://192.168.1.10:8123 <token>
//	jinding keys
//	jinding bind switch.giot_panel_k1 light.living_room
//	jinding scripts -o automations.yaml
//	jinding serve
package main

var version = "dev"

func main() {
	Execute(version)
}
