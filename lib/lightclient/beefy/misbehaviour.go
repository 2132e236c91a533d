// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package beefy

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// verifyMisbehaviour checks both commitments are signed by a quorum of the
// same known authority set for the same block and differ.
func (c ClientState) verifyMisbehaviour(misbehaviour Misbehaviour) error {
	first := misbehaviour.First.Commitment
	second := misbehaviour.Second.Commitment

	switch {
	case first.BlockNumber != second.BlockNumber:
		return fmt.Errorf("%w: commitments for blocks %d and %d",
			exported.ErrInvalidMisbehaviour, first.BlockNumber, second.BlockNumber)
	case first.ValidatorSetID != second.ValidatorSetID:
		return fmt.Errorf("%w: commitments by authority sets %d and %d",
			exported.ErrInvalidMisbehaviour, first.ValidatorSetID, second.ValidatorSetID)
	}

	firstHash, err := first.Hash()
	if err != nil {
		return err
	}
	secondHash, err := second.Hash()
	if err != nil {
		return err
	}
	if firstHash == secondHash {
		return fmt.Errorf("%w: identical commitments", exported.ErrInvalidMisbehaviour)
	}

	set, _, err := c.signingSet(first.ValidatorSetID)
	if err != nil {
		return fmt.Errorf("%w: %w", exported.ErrInvalidMisbehaviour, err)
	}
	err = verifySignatures(misbehaviour.First, set)
	if err != nil {
		return fmt.Errorf("%w: first commitment: %w", exported.ErrInvalidMisbehaviour, err)
	}
	err = verifySignatures(misbehaviour.Second, set)
	if err != nil {
		return fmt.Errorf("%w: second commitment: %w", exported.ErrInvalidMisbehaviour, err)
	}
	return nil
}

// CheckForMisbehaviour returns true for a verified Misbehaviour, and for a
// header whose MMR root differs from the one stored at the same height.
func (c ClientState) CheckForMisbehaviour(_ exported.Host, store exported.ClientStore,
	msg exported.ClientMessage) (bool, error) {
	switch msg := msg.(type) {
	case Misbehaviour:
		return true, nil
	case Header:
		commitment := msg.SignedCommitment.Commitment
		root, err := commitment.MmrRoot()
		if err != nil {
			return false, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
		}

		height := exported.NewHeight(0, uint64(commitment.BlockNumber))
		existing, err := store.ConsensusState(height)
		switch {
		case errors.Is(err, exported.ErrConsensusStateNotFound):
			return false, nil
		case err != nil:
			return false, err
		}

		stored, ok := existing.(ConsensusState)
		if !ok || stored.MmrRoot != root {
			logger.Debugf("conflicting mmr root at height %s", height)
			return true, nil
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: %T", exported.ErrInvalidClientType, msg)
	}
}
