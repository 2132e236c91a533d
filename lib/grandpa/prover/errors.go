// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package prover

import "errors"

var (
	ErrNoFinalityProof  = errors.New("no finality proof for block")
	ErrMissingBlockHash = errors.New("missing block hash")
	ErrMissingHeader    = errors.New("missing header")
	ErrInvalidRange     = errors.New("invalid block range")
)
