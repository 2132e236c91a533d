// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package tendermint

import "errors"

var (
	ErrChainIDMismatch       = errors.New("chain id mismatch")
	ErrRevisionMismatch      = errors.New("revision number mismatch")
	ErrValidatorHashMismatch = errors.New("validator set hash mismatch")
	ErrInvalidTrustLevel     = errors.New("invalid trust level")
	ErrTrustingPeriod        = errors.New("invalid trusting period")
	ErrDecodeProto           = errors.New("cannot decode protobuf")
)
