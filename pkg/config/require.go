package config

import (
	"fmt"
	"slices"
)

func NonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

func OneOf(value, envName string, allowed ...string) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("env %s must be one of %v, got %q", envName, allowed, value)
	}
	return nil
}
