// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package simulated

import "errors"

var (
	ErrUnknownBlock    = errors.New("unknown block")
	ErrNotEnoughVoters = errors.New("not enough voters")
	ErrInvalidRange    = errors.New("invalid block range")
)
