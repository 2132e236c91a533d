// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package config

import "errors"

var (
	ErrInvalidEndpoint        = errors.New("invalid endpoint")
	ErrInvalidParaID          = errors.New("invalid parachain id")
	ErrInvalidClientID        = errors.New("invalid client id")
	ErrEmptyChainID           = errors.New("empty chain id")
	ErrInvalidTrustingPeriod  = errors.New("invalid trusting period")
	ErrUnknownDatabaseBackend = errors.New("unknown database backend")
	ErrUnknownLogFormat       = errors.New("unknown log format")
)
