package generator

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"jinding-ha/internal/domain/model"
)

// UnknownLightLabel marks a bound light the hub did not report.
const UnknownLightLabel = "UNKNOWN"

// aliasSeparator joins the key and light names in an automation alias.
const aliasSeparator = " ⇄ "

// Trigger ids used to tell which side changed.
const (
	triggerKey   = "key"
	triggerLight = "light"
)

var automationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("jinding-ha/automation"))

type automation struct {
	ID        string      `yaml:"id"`
	Alias     string      `yaml:"alias"`
	Mode      string      `yaml:"mode"`
	Trigger   []trigger   `yaml:"trigger"`
	Condition []condition `yaml:"condition"`
	Action    []action    `yaml:"action"`
}

type trigger struct {
	Platform string `yaml:"platform"`
	EntityID string `yaml:"entity_id"`
	ID       string `yaml:"id"`
}

type condition struct {
	Condition     string `yaml:"condition"`
	ID            string `yaml:"id,omitempty"`
	ValueTemplate string `yaml:"value_template,omitempty"`
}

type action struct {
	Choose []choice `yaml:"choose"`
}

type choice struct {
	Conditions []condition   `yaml:"conditions"`
	Sequence   []serviceCall `yaml:"sequence"`
}

type serviceCall struct {
	Service string `yaml:"service"`
	Target  target `yaml:"target"`
}

type target struct {
	EntityID string `yaml:"entity_id"`
}

// AutomationID derives a stable automation id from the bound pair.
func AutomationID(switchID, lightID string) string {
	return uuid.NewSHA1(automationNamespace, []byte(switchID+"->"+lightID)).String()
}

// BatchGenScripts renders one two-way sync automation per bound key, in the
// order of bindings. A light missing from lightOptions still gets its
// automation, labelled UNKNOWN(<entity id>).
func BatchGenScripts(entities model.KeyedEntityMap, lightOptions []model.LightOption, bindings []model.BindingEntry) (string, error) {
	labels := make(map[string]string, len(lightOptions))
	for _, opt := range lightOptions {
		labels[opt.Value] = opt.Label
	}

	units := make([]automation, 0, len(bindings))
	for _, b := range bindings {
		if !b.Bound() {
			continue
		}
		units = append(units, syncAutomation(switchLabel(entities, b.EntityID), b.EntityID, lightLabel(labels, b.KNXItemID), b.KNXItemID))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(units); err != nil {
		return "", fmt.Errorf("encoding automations: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding automations: %w", err)
	}
	return buf.String(), nil
}

func syncAutomation(switchName, switchID, lightName, lightID string) automation {
	return automation{
		ID:    AutomationID(switchID, lightID),
		Alias: switchName + aliasSeparator + lightName,
		Mode:  "queued",
		Trigger: []trigger{
			{Platform: "state", EntityID: switchID, ID: triggerKey},
			{Platform: "state", EntityID: lightID, ID: triggerLight},
		},
		Condition: []condition{
			{Condition: "template", ValueTemplate: "{{ trigger.to_state.state in ['on', 'off'] }}"},
		},
		Action: []action{{Choose: []choice{
			{
				Conditions: []condition{{Condition: "trigger", ID: triggerKey}},
				Sequence:   []serviceCall{followState(model.DomainLight, lightID)},
			},
			{
				Conditions: []condition{{Condition: "trigger", ID: triggerLight}},
				Sequence:   []serviceCall{followState(model.DomainSwitch, switchID)},
			},
		}}},
	}
}

// followState turns the target on or off to match the entity that fired.
func followState(domain, entityID string) serviceCall {
	return serviceCall{
		Service: domain + ".turn_{{ trigger.to_state.state }}",
		Target:  target{EntityID: entityID},
	}
}

func switchLabel(entities model.KeyedEntityMap, entityID string) string {
	f, ok := entities[entityID]
	if !ok || f.Entity == nil {
		return entityID
	}
	if name, ok := f.Entity.FriendlyName(); ok {
		return name
	}
	return entityID
}

func lightLabel(labels map[string]string, lightID string) string {
	if label, ok := labels[lightID]; ok && label != "" {
		return label
	}
	return fmt.Sprintf("%s(%s)", UnknownLightLabel, lightID)
}
