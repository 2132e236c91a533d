// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package grandpa implements a light client for parachains finalized by a
// relay chain running GRANDPA.
package grandpa

import (
	"fmt"
	"time"

	"github.com/ChainSafe/ibc-light-clients/internal/log"
	"github.com/ChainSafe/ibc-light-clients/lib/commitment"
	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// ClientType is the client type of GRANDPA clients.
const ClientType = "10-grandpa"

var logger = log.NewFromGlobal(log.AddContext("pkg", "lightclient/grandpa"))

// ProofSpecs are the commitment proof specs of parachain state.
var ProofSpecs = commitment.ProofSpecs{commitment.SpecSubstrateTrie}

// ClientState tracks the finalized relay chain and the parachain heads
// included in it.
type ClientState struct {
	ChainID    string
	RelayChain RelayChain
	ParaID     uint32

	LatestRelayHash   common.Hash
	LatestRelayHeight uint32
	LatestParaHeight  uint32

	CurrentSetID       uint64
	CurrentAuthorities grandpa.AuthorityList
	// PendingChanges are authority set changes signalled in finalized
	// blocks and not enacted yet, in signal order.
	PendingChanges []grandpa.AuthorityChange

	Frozen           exported.Height
	TrustingPeriodNs uint64

	HeaderHashes grandpa.HeaderHashes
}

var _ exported.ClientState = ClientState{}

func (ClientState) ClientType() string { return ClientType }

// LatestHeight returns the latest parachain height, using the parachain id
// as revision number.
func (c ClientState) LatestHeight() exported.Height {
	return exported.NewHeight(uint64(c.ParaID), uint64(c.LatestParaHeight))
}

func (c ClientState) FrozenHeight() exported.Height { return c.Frozen }

func (c ClientState) TrustingPeriod() time.Duration {
	return time.Duration(c.TrustingPeriodNs)
}

func (c ClientState) Status(latest exported.ConsensusState, now time.Time) exported.Status {
	return exported.ClientStatus(c.Frozen, c.TrustingPeriod(), latest, now)
}

// Validate checks the client state is well formed.
func (c ClientState) Validate() error {
	if c.ChainID == "" {
		return fmt.Errorf("%w: empty chain id", exported.ErrInvalidClientState)
	}
	if c.RelayChain > Westend {
		return fmt.Errorf("%w: %s", ErrUnknownRelayChain, c.RelayChain)
	}
	if c.LatestRelayHash.IsEmpty() {
		return fmt.Errorf("%w: empty latest relay hash", exported.ErrInvalidClientState)
	}
	if c.TrustingPeriodNs > uint64(1<<63-1) {
		return fmt.Errorf("%w: trusting period overflows", exported.ErrInvalidClientState)
	}
	err := c.CurrentAuthorities.Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", exported.ErrInvalidClientState, err)
	}
	for _, change := range c.PendingChanges {
		err = change.Authorities.Validate()
		if err != nil {
			return fmt.Errorf("%w: pending change signalled at %d: %w",
				exported.ErrInvalidClientState, change.SignalNumber, err)
		}
	}
	return nil
}

// Freeze returns a copy of the client state frozen at the height.
func (c ClientState) Freeze(height exported.Height) exported.ClientState {
	frozen := c.clone()
	frozen.Frozen = height
	return frozen
}

func (c ClientState) clone() ClientState {
	clone := c
	clone.CurrentAuthorities = append(grandpa.AuthorityList(nil), c.CurrentAuthorities...)
	clone.PendingChanges = append([]grandpa.AuthorityChange(nil), c.PendingChanges...)
	clone.HeaderHashes = *c.HeaderHashes.Clone()
	return clone
}

func (c ClientState) authoritySet() (*grandpa.AuthoritySet, error) {
	return grandpa.NewAuthoritySet(c.CurrentAuthorities, c.CurrentSetID)
}

// VerifyMembership verifies the value is stored at the path of the
// parachain state committed to by the consensus state.
func (c ClientState) VerifyMembership(consensus exported.ConsensusState, proof []byte,
	path commitment.MerklePath, value []byte) error {
	merkleProof, err := c.merkleProof(consensus, proof)
	if err != nil {
		return err
	}
	return commitment.VerifyMembership(ProofSpecs, consensus.Root(), merkleProof, path, value)
}

// VerifyNonMembership verifies nothing is stored at the path of the
// parachain state committed to by the consensus state.
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
