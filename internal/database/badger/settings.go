// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	"errors"
	"fmt"
	"path/filepath"
)

var ErrPathNotSet = errors.New("path is not set")

// Settings is the database settings.
type Settings struct {
	// Path is the database directory path to use.
	// It must be set unless InMemory is true.
	Path *string
	// InMemory runs the database in memory only.
	// It defaults to false.
	InMemory *bool
}

// SetDefaults sets the default values on the settings.
func (s *Settings) SetDefaults() {
	if s.Path == nil {
		s.Path = new(string)
	}

	if s.InMemory == nil {
		s.InMemory = new(bool)
	}
}

// Validate validates the settings.
func (s Settings) Validate() (err error) {
	if *s.InMemory {
		return nil
	}

	if *s.Path == "" {
		return fmt.Errorf("%w", ErrPathNotSet)
	}

	_, err = filepath.Abs(*s.Path)
	if err != nil {
		return fmt.Errorf("changing path to absolute path: %w", err)
	}

	return nil
}
