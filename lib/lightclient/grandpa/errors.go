// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import "errors"

var (
	ErrUnknownRelayChain      = errors.New("unknown relay chain")
	ErrBrokenHeaderChain      = errors.New("unknown headers do not form a chain")
	ErrRelayBlockNotInChain   = errors.New("relay block is not in the finalized chain")
	ErrSkippedAuthorityChange = errors.New("finality proof skips an authority set change")
	ErrNoParachainHeaders     = errors.New("no parachain headers")
	ErrDuplicateParaHeight    = errors.New("duplicate parachain height")
	ErrLatestParaHeight       = errors.New("latest parachain height mismatch")
	ErrParaHead               = errors.New("invalid parachain head proof")
	ErrTimestamp              = errors.New("invalid timestamp proof")
)
