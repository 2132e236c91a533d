// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package beefy implements a light client following the MMR root of a
// relay chain through commitments signed by its BEEFY authorities.
package beefy

import (
	"fmt"
	"time"

	"github.com/ChainSafe/ibc-light-clients/internal/log"
	"github.com/ChainSafe/ibc-light-clients/lib/commitment"
	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// ClientType is the client type of BEEFY clients.
const ClientType = "11-beefy"

var logger = log.NewFromGlobal(log.AddContext("pkg", "lightclient/beefy"))

// ProofSpecs prove MMR leaves under the consensus state root. The path
// is the decimal leaf index and the value the SCALE encoded leaf.
var ProofSpecs = commitment.ProofSpecs{commitment.SpecBeefyMmr}

// ClientState tracks the latest MMR root signed by the BEEFY authorities
// together with the current and next authority sets.
type ClientState struct {
	LatestBeefyHeight uint32
	MmrRootHash       common.Hash
	AuthoritySet      AuthoritySet
	NextAuthoritySet  AuthoritySet
	Frozen            exported.Height
}

var _ exported.ClientState = ClientState{}

func (ClientState) ClientType() string { return ClientType }

// LatestHeight returns the latest BEEFY block number at revision 0.
func (c ClientState) LatestHeight() exported.Height {
	return exported.NewHeight(0, uint64(c.LatestBeefyHeight))
}

func (c ClientState) FrozenHeight() exported.Height { return c.Frozen }

// TrustingPeriod is zero: BEEFY clients do not expire.
func (ClientState) TrustingPeriod() time.Duration { return 0 }

func (c ClientState) Status(latest exported.ConsensusState, now time.Time) exported.Status {
	return exported.ClientStatus(c.Frozen, 0, latest, now)
}

func (c ClientState) Validate() error {
	switch {
	case c.AuthoritySet.Len == 0:
		return fmt.Errorf("%w: empty authority set", exported.ErrInvalidClientState)
	case c.NextAuthoritySet.Len == 0:
		return fmt.Errorf("%w: empty next authority set", exported.ErrInvalidClientState)
	case c.NextAuthoritySet.ID != c.AuthoritySet.ID+1:
		return fmt.Errorf("%w: next authority set id %d does not follow %d",
			exported.ErrInvalidClientState, c.NextAuthoritySet.ID, c.AuthoritySet.ID)
	case c.MmrRootHash.IsEmpty():
		return fmt.Errorf("%w: empty mmr root", exported.ErrInvalidClientState)
	}
	return nil
}

func (c ClientState) Freeze(height exported.Height) exported.ClientState {
	c.Frozen = height
	return c
}

// VerifyMembership verifies the encoded MMR leaf is at the index given by
// the path under the root of the consensus state.
func (c ClientState) VerifyMembership(consensus exported.ConsensusState, proof []byte,
	path commitment.MerklePath, value []byte) error {
	merkleProof, err := c.merkleProof(consensus, proof)
	if err != nil {
		return err
	}
	return commitment.VerifyMembership(ProofSpecs, consensus.Root(), merkleProof, path, value)
}

// VerifyNonMembership always fails: MMR proofs cannot show absence.
func (c ClientState) VerifyNonMembership(consensus exported.ConsensusState, proof []byte,
	path commitment.MerklePath) error {
	merkleProof, err := c.merkleProof(consensus, proof)
	if err != nil {
		return err
	}
	return commitment.VerifyNonMembership(ProofSpecs, consensus.Root(), merkleProof, path)
}

func (c ClientState) merkleProof(consensus exported.ConsensusState, proof []byte) (
	commitment.MerkleProof, error) {
	if !c.Frozen.IsZero() {
		return commitment.MerkleProof{}, exported.ErrClientFrozen
	}
	if _, ok := consensus.(ConsensusState); !ok {
		return commitment.MerkleProof{}, fmt.Errorf("%w: %T", exported.ErrInvalidClientType, consensus)
	}
	return commitment.DecodeMerkleProof(proof)
}
