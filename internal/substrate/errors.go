// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package substrate

import "errors"

var (
	ErrTimestampNotFound      = errors.New("timestamp extrinsic not found")
	ErrExtrinsicsRootMismatch = errors.New("extrinsics root mismatch")
	ErrBlockNotFound          = errors.New("block not found")
)
