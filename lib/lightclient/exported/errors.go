// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package exported

import "errors"

// Errors shared by the light client protocols and the keeper.
var (
	ErrClientFrozen           = errors.New("client is frozen")
	ErrClientExpired          = errors.New("client is expired")
	ErrHeightNotMonotonic     = errors.New("height is not above the latest height")
	ErrConsensusStateNotFound = errors.New("consensus state not found")
	ErrInvalidHeader          = errors.New("invalid header")
	ErrInvalidMisbehaviour    = errors.New("invalid misbehaviour")
	ErrInvalidClientState     = errors.New("invalid client state")
	ErrInvalidClientType      = errors.New("invalid client type")
	ErrInvalidHeight          = errors.New("invalid height")
	ErrInvalidUpgrade         = errors.New("invalid upgrade")
)
