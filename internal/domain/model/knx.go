package model

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidKNXItem is returned when a KNX item fails validation.
var ErrInvalidKNXItem = errors.New("knx: invalid item")

var (
	validate = validator.New()

	knxAddressPattern = regexp.MustCompile(`^\d+/\d+/\d+$`)
)

func init() {
	_ = validate.RegisterValidation("knxaddr", func(fl validator.FieldLevel) bool {
		return knxAddressPattern.MatchString(fl.Field().String())
	})
}

// KNXItem is a user-declared KNX light: a display name and the group address
// used for both command and status.
type KNXItem struct {
	Name    string `json:"name" yaml:"name" validate:"required"`
	Address string `json:"address" yaml:"address" validate:"required,knxaddr"`
}

// ValidateKNXItem checks that both fields are present and the address has the
// main/middle/sub form, e.g. "1/1/1".
func ValidateKNXItem(item KNXItem) error {
	if err := validate.Struct(item); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %q)", ErrInvalidKNXItem, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidKNXItem, err)
	}
	return nil
}

// ValidateKNXItems validates every item and reports the first failure with its index.
func ValidateKNXItems(items []KNXItem) error {
	for i, item := range items {
		if err := ValidateKNXItem(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// DuplicateAddresses returns the addresses used by more than one item, in
// order of first repetition.
func DuplicateAddresses(items []KNXItem) []string {
	seen := make(map[string]int, len(items))
	var dups []string
	for _, item := range items {
		if item.Address == "" {
			continue
		}
		seen[item.Address]++
		if seen[item.Address] == 2 {
			dups = append(dups, item.Address)
		}
	}
	return dups
}
