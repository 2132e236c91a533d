// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"path/filepath"
	"runtime"
	"strconv"
)

// callerSettings selects the caller details appended to each line.
// A nil field is not set and takes the parent or default value.
type callerSettings struct {
	file *bool
	line *bool
}

func (c *callerSettings) mergeWith(other callerSettings) {
	c.file = orBool(c.file, other.file)
	c.line = orBool(c.line, other.line)
}

func (c *callerSettings) overrideWith(other callerSettings) {
	c.file = orBool(other.file, c.file)
	c.line = orBool(other.line, c.line)
}

func (c *callerSettings) setDefaults() {
	disabled := false
	c.file = orBool(c.file, &disabled)
	c.line = orBool(c.line, &disabled)
}

// orBool returns a copy of the first non nil value.
func orBool(first, second *bool) *bool {
	for _, value := range [...]*bool{first, second} {
		if value != nil {
			copied := *value
			return &copied
		}
	}
	return nil
}

// callerString returns the file and line of the code calling the
// exported logging method, formatted as "file.go:L12".
func callerString(settings callerSettings) string {
	if !*settings.file && !*settings.line {
		return ""
	}

	const depth = 3
	_, file, line, ok := runtime.Caller(depth)
	if !ok {
		return "error"
	}

	var s string
	if *settings.file {
		s = filepath.Base(file)
	}
	if *settings.line {
		if s != "" {
			s += ":"
		}
		s += "L" + strconv.Itoa(line)
	}
	return s
}
