// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package beefy

import "errors"

var (
	ErrUnknownAuthoritySet   = errors.New("commitment signed by unknown authority set")
	ErrMissingMmrRoot        = errors.New("commitment payload has no mmr root")
	ErrInvalidAuthorityIndex = errors.New("authority index out of range")
	ErrDuplicateAuthority    = errors.New("duplicate authority signature")
	ErrSignatureInvalid      = errors.New("invalid authority signature")
	ErrAuthorityNotInSet     = errors.New("authority not in set")
	ErrQuorumNotReached      = errors.New("signatures do not reach quorum")
	ErrInvalidMmrLeaf        = errors.New("invalid mmr leaf")
	ErrAuthoritySetMismatch  = errors.New("mmr leaf next authority set mismatch")
)
