// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color" //nolint:misspell
)

// Level is the level of the logger.
type Level uint8

const (
	// Trace is the trace (trce) level, used for per signature details.
	Trace Level = iota
	// Debug is the debug (dbug) level.
	Debug
	// Info is the info level.
	Info
	// Warn is the warn level.
	Warn
	// Error is the error (eror) level.
	Error
)

var levelNames = [...]string{
	Trace: "TRACE",
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
}

var levelColours = [...]color.Attribute{
	Trace: color.FgHiCyan,
	Debug: color.FgHiBlue,
	Info:  color.FgCyan,
	Warn:  color.FgYellow,
	Error: color.FgHiRed,
}

func (level Level) String() string {
	if int(level) >= len(levelNames) {
		return "???"
	}
	return levelNames[level]
}

// ColouredString returns the level string coloured for terminals.
func (level Level) ColouredString() string {
	attribute := color.Reset
	if int(level) < len(levelColours) {
		attribute = levelColours[level]
	}
	return color.New(attribute).Sprint(level.String())
}

// ErrLevelNotRecognised is an error returned if the level string is
// not recognised by the ParseLevel function.
var ErrLevelNotRecognised = errors.New("level is not recognised")

// ParseLevel parses a level name, case insensitive, in its long form or
// one of the short forms trce, dbug and eror.
func ParseLevel(s string) (level Level, err error) {
	switch strings.ToUpper(s) {
	case "TRCE":
		return Trace, nil
	case "DBUG":
		return Debug, nil
	case "EROR":
		return Error, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrLevelNotRecognised, s)
}
