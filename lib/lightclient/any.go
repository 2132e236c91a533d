// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package lightclient dispatches encoded client states, consensus states
// and client messages to their light client protocol, and persists the
// clients through a Keeper.
package lightclient

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/gogo/protobuf/types"

	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/beefy"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/tendermint"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/wasm"
)

// MaxWasmDepth is the maximum number of Wasm envelopes around a value.
const MaxWasmDepth = 3

// Any is an encoded value tagged with the type URL of its protocol type.
type Any struct {
	TypeURL string
	Value   []byte
}

// NewAny encodes a client state, consensus state or client message of
// any supported protocol.
func NewAny(value interface{}) (Any, error) {
	var (
		typeURL string
		encoded []byte
		err     error
	)
	switch value.(type) {
	case grandpa.ClientState, grandpa.ConsensusState, grandpa.Header, grandpa.Misbehaviour:
		typeURL, err = grandpa.TypeURL(value)
		if err == nil {
			encoded, err = grandpa.Encode(value)
		}
	case tendermint.ClientState, tendermint.ConsensusState, tendermint.Header, tendermint.Misbehaviour:
		typeURL, err = tendermint.TypeURL(value)
		if err == nil {
			encoded, err = tendermint.Encode(value)
		}
	case beefy.ClientState, beefy.ConsensusState, beefy.Header, beefy.Misbehaviour:
		typeURL, err = beefy.TypeURL(value)
		if err == nil {
			encoded, err = beefy.Encode(value)
		}
	case wasm.ClientState:
		typeURL = wasm.ClientStateTypeURL
		encoded, err = wasm.Encode(value)
	case wasm.ConsensusState:
		typeURL = wasm.ConsensusStateTypeURL
		encoded, err = wasm.Encode(value)
	case wasm.ClientMessage:
		typeURL = wasm.ClientMessageTypeURL
		encoded, err = wasm.Encode(value)
	default:
		return Any{}, fmt.Errorf("%w: %T", exported.ErrInvalidClientType, value)
	}
	if err != nil {
		return Any{}, err
	}
	return Any{TypeURL: typeURL, Value: encoded}, nil
}

// Marshal returns the protobuf encoding of the value as a google.protobuf.Any.
func (a Any) Marshal() ([]byte, error) {
	return proto.Marshal(&types.Any{TypeUrl: a.TypeURL, Value: a.Value})
}

// UnmarshalAny decodes a protobuf encoded google.protobuf.Any.
func UnmarshalAny(encoded []byte) (Any, error) {
	var message types.Any
	err := proto.Unmarshal(encoded, &message)
	if err != nil {
		return Any{}, fmt.Errorf("%w: %s", ErrUnknownTypeURL, err)
	}
	if message.TypeUrl == "" {
		return Any{}, fmt.Errorf("%w: empty type url", ErrUnknownTypeURL)
	}
	return Any{TypeURL: message.TypeUrl, Value: message.Value}, nil
}

// WrapWasm wraps the value in a Wasm envelope of the same kind.
func WrapWasm(value Any, codeHash [32]byte, latest exported.Height) (Any, error) {
	data, err := value.Marshal()
	if err != nil {
		return Any{}, err
	}

	switch value.TypeURL {
	case grandpa.ClientStateTypeURL, tendermint.ClientStateTypeURL,
		beefy.ClientStateTypeURL, wasm.ClientStateTypeURL:
		return NewAny(wasm.ClientState{Data: data, CodeHash: codeHash, Latest: latest})
	case grandpa.ConsensusStateTypeURL, tendermint.ConsensusStateTypeURL,
		beefy.ConsensusStateTypeURL, wasm.ConsensusStateTypeURL:
		return NewAny(wasm.ConsensusState{Data: data})
	default:
		return NewAny(wasm.ClientMessage{Data: data})
	}
}

// UnwrapRecursive strips the Wasm envelopes around the value.
func UnwrapRecursive(value Any) (Any, error) {
	inner, _, err := unwrap(value)
	return inner, err
}

// unwrap strips the Wasm envelopes around the value and returns the
// client state envelopes, outermost first.
func unwrap(value Any) (inner Any, envelopes []wasm.ClientState, err error) {
	for depth := 0; ; depth++ {
		var data []byte
		switch value.TypeURL {
		case wasm.ClientStateTypeURL:
			clientState, err := wasm.DecodeClientState(value.Value)
			if err != nil {
				return Any{}, nil, err
			}
			envelopes = append(envelopes, clientState)
			data = clientState.Data
		case wasm.ConsensusStateTypeURL:
			consensusState, err := wasm.DecodeConsensusState(value.Value)
			if err != nil {
				return Any{}, nil, err
			}
			data = consensusState.Data
		case wasm.ClientMessageTypeURL:
			message, err := wasm.DecodeClientMessage(value.Value)
			if err != nil {
				return Any{}, nil, err
			}
			data = message.Data
		default:
			return value, envelopes, nil
		}

		if depth == MaxWasmDepth {
			return Any{}, nil, fmt.Errorf("%w: %d", ErrWasmDepthExceeded, MaxWasmDepth)
		}
		value, err = UnmarshalAny(data)
		if err != nil {
			return Any{}, nil, fmt.Errorf("unwrapping wasm envelope %d: %w", depth, err)
		}
	}
}

// DecodeClientState decodes and validates the client state, unwrapping
// any Wasm envelope.
func DecodeClientState(value Any) (exported.ClientState, error) {
	clientState, _, err := decodeClientState(value)
	return clientState, err
}

func decodeClientState(value Any) (exported.ClientState, []wasm.ClientState, error) {
	inner, envelopes, err := unwrap(value)
	if err != nil {
		return nil, nil, err
	}

	var clientState exported.ClientState
	switch inner.TypeURL {
	case grandpa.ClientStateTypeURL:
		clientState, err = grandpa.DecodeClientState(inner.Value)
	case tendermint.ClientStateTypeURL:
		clientState, err = tendermint.DecodeClientState(inner.Value)
	case beefy.ClientStateTypeURL:
		clientState, err = beefy.DecodeClientState(inner.Value)
	default:
		return nil, nil, fmt.Errorf("%w: client state %q", ErrUnknownTypeURL, inner.TypeURL)
	}
	if err != nil {
		return nil, nil, err
	}
	return clientState, envelopes, nil
}

// DecodeConsensusState decodes and validates the consensus state,
// unwrapping any Wasm envelope.
func DecodeConsensusState(value Any) (exported.ConsensusState, error) {
	inner, err := UnwrapRecursive(value)
	if err != nil {
		return nil, err
	}

	var consensusState exported.ConsensusState
	switch inner.TypeURL {
	case grandpa.ConsensusStateTypeURL:
		consensusState, err = grandpa.DecodeConsensusState(inner.Value)
	case tendermint.ConsensusStateTypeURL:
		consensusState, err = tendermint.DecodeConsensusState(inner.Value)
	case beefy.ConsensusStateTypeURL:
		consensusState, err = beefy.DecodeConsensusState(inner.Value)
	default:
		return nil, fmt.Errorf("%w: consensus state %q", ErrUnknownTypeURL, inner.TypeURL)
	}
	if err != nil {
		return nil, err
	}
	return consensusState, consensusState.ValidateBasic()
}

// DecodeClientMessage decodes the header or misbehaviour, unwrapping any
// Wasm envelope.
func DecodeClientMessage(value Any) (exported.ClientMessage, error) {
	inner, err := UnwrapRecursive(value)
	if err != nil {
		return nil, err
	}

	switch inner.TypeURL {
	case grandpa.HeaderTypeURL:
		return grandpa.DecodeHeader(inner.Value)
	case grandpa.MisbehaviourTypeURL:
		return grandpa.DecodeMisbehaviour(inner.Value)
	case tendermint.HeaderTypeURL:
		return tendermint.DecodeHeader(inner.Value)
	case tendermint.MisbehaviourTypeURL:
		return tendermint.DecodeMisbehaviour(inner.Value)
	case beefy.HeaderTypeURL:
		return beefy.DecodeHeader(inner.Value)
	case beefy.MisbehaviourTypeURL:
		return beefy.DecodeMisbehaviour(inner.Value)
	default:
		return nil, fmt.Errorf("%w: client message %q", ErrUnknownTypeURL, inner.TypeURL)
	}
}

// encodeClientState encodes the client state inside the envelopes,
// outermost first, updating their latest height.
func encodeClientState(clientState exported.ClientState, envelopes []wasm.ClientState) (Any, error) {
	value, err := NewAny(clientState)
	if err != nil {
		return Any{}, err
	}
	for i := len(envelopes) - 1; i >= 0; i-- {
		value, err = WrapWasm(value, envelopes[i].CodeHash, clientState.LatestHeight())
		if err != nil {
			return Any{}, err
		}
	}
	return value, nil
}
