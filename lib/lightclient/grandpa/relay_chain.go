// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"
	"strings"
)

// RelayChain identifies the relay chain finalizing the parachain.
type RelayChain byte

const (
	Polkadot RelayChain = iota
	Kusama
	Rococo
	Westend
)

func (r RelayChain) String() string {
	switch r {
	case Polkadot:
		return "polkadot"
	case Kusama:
		return "kusama"
	case Rococo:
		return "rococo"
	case Westend:
		return "westend"
	default:
		return fmt.Sprintf("RelayChain(%d)", byte(r))
	}
}

// ParseRelayChain parses the lower case name of a relay chain.
func ParseRelayChain(s string) (RelayChain, error) {
	for _, r := range []RelayChain{Polkadot, Kusama, Rococo, Westend} {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRelayChain, s)
}
