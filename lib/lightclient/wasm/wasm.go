// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package wasm defines the envelopes wrapping client states, consensus
// states and client messages verified by a Wasm light client contract.
package wasm

import (
	"errors"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// ClientType is the client type of Wasm wrapped clients.
const ClientType = "08-wasm"

// Type URLs of the Wasm envelopes.
const (
	ClientStateTypeURL    = "/ibc.lightclients.wasm.v1.ClientState"
	ConsensusStateTypeURL = "/ibc.lightclients.wasm.v1.ConsensusState"
	ClientMessageTypeURL  = "/ibc.lightclients.wasm.v1.ClientMessage"
)

var ErrEmptyData = errors.New("empty wasm data")

// ClientState wraps the encoded inner client state together with the
// hash of the contract verifying it.
type ClientState struct {
	Data     []byte
	CodeHash [32]byte
	Latest   exported.Height
}

func (c ClientState) Validate() error {
	switch {
	case len(c.Data) == 0:
		return fmt.Errorf("%w: %w", exported.ErrInvalidClientState, ErrEmptyData)
	case c.CodeHash == [32]byte{}:
		return fmt.Errorf("%w: empty code hash", exported.ErrInvalidClientState)
	}
	return nil
}

// ConsensusState wraps an encoded inner consensus state.
type ConsensusState struct {
	Data []byte
}

// ClientMessage wraps an encoded inner header or misbehaviour.
type ClientMessage struct {
	Data []byte
}

// DecodeClientState decodes and validates a SCALE encoded client state.
func DecodeClientState(encoded []byte) (clientState ClientState, err error) {
	err = common.DecodeScale(encoded, &clientState)
	if err != nil {
		return clientState, fmt.Errorf("%w: decoding wasm client state: %w", exported.ErrInvalidClientState, err)
	}
	return clientState, clientState.Validate()
}

func DecodeConsensusState(encoded []byte) (consensusState ConsensusState, err error) {
	err = common.DecodeScale(encoded, &consensusState)
	if err == nil && len(consensusState.Data) == 0 {
		err = ErrEmptyData
	}
	if err != nil {
		return consensusState, fmt.Errorf("%w: decoding wasm consensus state: %w", exported.ErrInvalidClientState, err)
	}
	return consensusState, nil
}

func DecodeClientMessage(encoded []byte) (message ClientMessage, err error) {
	err = common.DecodeScale(encoded, &message)
	if err == nil && len(message.Data) == 0 {
		err = ErrEmptyData
	}
	if err != nil {
		return message, fmt.Errorf("%w: decoding wasm client message: %w", exported.ErrInvalidHeader, err)
	}
	return message, nil
}

// Encode SCALE encodes a Wasm envelope.
func Encode(value interface{}) ([]byte, error) {
	switch value.(type) {
	case ClientState, ConsensusState, ClientMessage:
		return codec.Encode(value)
	default:
		return nil, fmt.Errorf("%w: %T", exported.ErrInvalidClientType, value)
	}
}
