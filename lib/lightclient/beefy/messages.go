// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package beefy

import (
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	"github.com/ChainSafe/ibc-light-clients/pkg/mmr"
)

// Header is a signed commitment together with the latest MMR leaf under
// the signed root, which carries the next authority set.
type Header struct {
	SignedCommitment SignedCommitment
	Leaf             MmrLeaf
	LeafProof        mmr.Proof
}

var _ exported.ClientMessage = Header{}

func (Header) ClientType() string { return ClientType }

func (Header) Kind() exported.MessageKind { return exported.KindHeader }

// Misbehaviour holds two commitments signed by the same authority set
// for the same block with different payloads.
type Misbehaviour struct {
	First  SignedCommitment
	Second SignedCommitment
}

var _ exported.ClientMessage = Misbehaviour{}

func (Misbehaviour) ClientType() string { return ClientType }

func (Misbehaviour) Kind() exported.MessageKind { return exported.KindMisbehaviour }
