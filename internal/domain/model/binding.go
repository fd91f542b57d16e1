package model

// BindingEntry associates a switch key with the light it drives. KNXItemID
// holds the light entity ID and is empty while unset.
type BindingEntry struct {
	EntityID  string `json:"entityId"`
	KNXItemID string `json:"knxItemId,omitempty"`
}

// Bound reports whether a light has been chosen for the key.
func (b BindingEntry) Bound() bool {
	return b.KNXItemID != ""
}
