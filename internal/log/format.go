// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import "strings"

// Format is the format to use for the logger.
type Format uint8

const (
	// FormatConsole writes lines with a coloured level.
	FormatConsole Format = iota
	// FormatText writes plain text lines, for files and tests.
	FormatText
)

const levelWidth = 8

func (format Format) levelString(level Level) string {
	s := level.String()
	var padding string
	if n := levelWidth - len(s); n > 0 {
		padding = strings.Repeat(" ", n)
	}

	if format == FormatConsole {
		s = level.ColouredString()
	}
	return s + padding
}
