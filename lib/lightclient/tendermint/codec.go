// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package tendermint

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// Type URLs of the Tendermint client types.
const (
	ClientStateTypeURL    = "/ibc.lightclients.tendermint.v1.ClientState"
	ConsensusStateTypeURL = "/ibc.lightclients.tendermint.v1.ConsensusState"
	HeaderTypeURL         = "/ibc.lightclients.tendermint.v1.Header"
	MisbehaviourTypeURL   = "/ibc.lightclients.tendermint.v1.Misbehaviour"
)

// DecodeClientState decodes and validates a SCALE encoded client state.
func DecodeClientState(encoded []byte) (clientState ClientState, err error) {
	err = common.DecodeScale(encoded, &clientState)
	if err != nil {
		return clientState, fmt.Errorf("%w: decoding: %w", exported.ErrInvalidClientState, err)
	}
	return clientState, clientState.Validate()
}

// DecodeConsensusState decodes a SCALE encoded consensus state.
func DecodeConsensusState(encoded []byte) (consensusState ConsensusState, err error) {
	err = common.DecodeScale(encoded, &consensusState)
	if err != nil {
		return consensusState, fmt.Errorf("%w: decoding consensus state: %w", exported.ErrInvalidClientState, err)
	}
	return consensusState, nil
}

// DecodeHeader decodes a SCALE encoded header.
func DecodeHeader(encoded []byte) (header Header, err error) {
	err = common.DecodeScale(encoded, &header)
	if err != nil {
		return header, fmt.Errorf("%w: decoding: %w", exported.ErrInvalidHeader, err)
	}
	return header, nil
}

// DecodeMisbehaviour decodes a SCALE encoded misbehaviour.
func DecodeMisbehaviour(encoded []byte) (misbehaviour Misbehaviour, err error) {
	err = common.DecodeScale(encoded, &misbehaviour)
	if err != nil {
		return misbehaviour, fmt.Errorf("%w: decoding: %w", exported.ErrInvalidMisbehaviour, err)
	}
	return misbehaviour, nil
}

// Encode SCALE encodes a Tendermint client state, consensus state or client message.
func Encode(value interface{}) ([]byte, error) {
	switch value.(type) {
	case ClientState, ConsensusState, Header, Misbehaviour:
		return codec.Encode(value)
	default:
		return nil, fmt.Errorf("%w: %T", exported.ErrInvalidClientType, value)
	}
}

// TypeURL returns the type URL of a Tendermint client state, consensus
// state or client message.
func TypeURL(value interface{}) (string, error) {
	switch value.(type) {
	case ClientState:
		return ClientStateTypeURL, nil
	case ConsensusState:
		return ConsensusStateTypeURL, nil
	case Header:
		return HeaderTypeURL, nil
	case Misbehaviour:
		return MisbehaviourTypeURL, nil
	default:
		return "", fmt.Errorf("%w: %T", exported.ErrInvalidClientType, value)
	}
}
