// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commitment

import "errors"

var (
	ErrMalformedProof      = errors.New("malformed proof")
	ErrRootMismatch        = errors.New("calculated root does not match")
	ErrInvalidProof        = errors.New("invalid proof")
	ErrUnknownSpec         = errors.New("unknown proof spec")
	ErrAbsenceNotSupported = errors.New("absence proofs are not supported")
)
