// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package lightclient

import "errors"

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrClientExists       = errors.New("client already exists")
	ErrInvalidClientID    = errors.New("invalid client id")
	ErrUnknownTypeURL     = errors.New("unknown type url")
	ErrWasmDepthExceeded  = errors.New("wasm nesting exceeds maximum depth")
	ErrClientNotActive    = errors.New("client is not active")
	ErrClientTypeMismatch = errors.New("client type mismatch")
)
