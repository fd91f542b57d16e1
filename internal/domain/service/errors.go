package service

import "errors"

var (
	// ErrNotConfigured is returned when the hub URL or token is missing.
	ErrNotConfigured = errors.New("home assistant is not configured")

	// ErrInvalidLight is returned when a binding target is not a light entity.
	ErrInvalidLight = errors.New("binding target is not a light entity")
)
