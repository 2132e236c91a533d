// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package exported

import "time"

// Status is the status of a light client.
type Status byte

const (
	// Unknown is the status of a client whose latest consensus state is missing.
	Unknown Status = iota
	// Active clients accept updates and proof verification.
	Active
	// Expired clients saw no update within their trusting period.
	Expired
	// Frozen clients proved misbehaviour and accept no updates.
	Frozen
)

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Expired:
		return "Expired"
	case Frozen:
		return "Frozen"
	default:
		return "Unknown"
	}
}

// ClientStatus returns Frozen if the frozen height is set, Expired if the
// latest consensus state is at least the trusting period old, and Active
// otherwise. A zero trusting period never expires.
func ClientStatus(frozenHeight Height, trustingPeriod time.Duration,
	latest ConsensusState, now time.Time) Status {
	switch {
	case !frozenHeight.IsZero():
		return Frozen
	case latest == nil:
		return Unknown
	case trustingPeriod > 0 && now.Sub(latest.Timestamp()) >= trustingPeriod:
		return Expired
	default:
		return Active
	}
}
