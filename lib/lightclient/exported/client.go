// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package exported defines the contract every light client protocol
// implements, together with the heights and statuses they share.
package exported

import (
	"time"

	"github.com/ChainSafe/ibc-light-clients/lib/commitment"
)

// MessageKind is the kind of a client message.
type MessageKind byte

const (
	// KindHeader messages advance the client.
	KindHeader MessageKind = iota + 1
	// KindMisbehaviour messages prove conflicting finalizations.
	KindMisbehaviour
)

func (k MessageKind) String() string {
	switch k {
	case KindHeader:
		return "Header"
	case KindMisbehaviour:
		return "Misbehaviour"
	default:
		return "Unknown"
	}
}

// Host is the chain running the light client.
type Host interface {
	// Now returns the current host time.
	Now() time.Time
	// Height returns the current host height.
	Height() Height
}

// ClientStore is the read only view of the consensus states of one client.
type ClientStore interface {
	// ConsensusState returns the consensus state at the height, or an
	// error wrapping ErrConsensusStateNotFound.
	ConsensusState(height Height) (ConsensusState, error)
	// PreviousConsensusState returns the consensus state with the greatest
	// height below the given height.
	PreviousConsensusState(height Height) (Height, ConsensusState, error)
	// NextConsensusState returns the consensus state with the lowest
	// height above the given height.
	NextConsensusState(height Height) (Height, ConsensusState, error)
}

// ConsensusState is the verified state of the counterparty chain at a height.
type ConsensusState interface {
	ClientType() string
	Timestamp() time.Time
	Root() []byte
	ValidateBasic() error
}

// ClientMessage is a header or a misbehaviour submitted to a client.
type ClientMessage interface {
	ClientType() string
	Kind() MessageKind
}

// ConsensusUpdate is a consensus state written by a client update.
type ConsensusUpdate struct {
	Height Height
	State  ConsensusState
}

// ClientState is the state of a light client. Implementations are values:
// every transition returns a new client state and leaves the receiver as is.
type ClientState interface {
	ClientType() string
	LatestHeight() Height
	// FrozenHeight returns the zero height if the client is not frozen.
	FrozenHeight() Height
	Validate() error
	TrustingPeriod() time.Duration
	Status(latest ConsensusState, now time.Time) Status

	// VerifyClientMessage verifies a header or misbehaviour against the
	// client state and its stored consensus states.
	VerifyClientMessage(host Host, store ClientStore, msg ClientMessage) error
	// CheckForMisbehaviour returns true if the verified message proves
	// misbehaviour.
	CheckForMisbehaviour(host Host, store ClientStore, msg ClientMessage) (bool, error)
	// UpdateState applies a verified header, returning the new client
	// state and the consensus states to store.
	UpdateState(host Host, store ClientStore, msg ClientMessage) (
		ClientState, []ConsensusUpdate, error)
	// Freeze returns the client state frozen at the height.
	Freeze(height Height) ClientState

	VerifyMembership(consensus ConsensusState, proof []byte,
		path commitment.MerklePath, value []byte) error
	VerifyNonMembership(consensus ConsensusState, proof []byte,
		path commitment.MerklePath) error
}

// Upgradable clients accept a new client and consensus state through
// governance.
type Upgradable interface {
	VerifyUpgrade(upgraded ClientState, consensus ConsensusState) error
}
