// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// verifyMisbehaviour checks both finality proofs are valid under the
// current authority set and finalize different blocks at the same height.
func (c ClientState) verifyMisbehaviour(misbehaviour Misbehaviour) error {
	set, err := c.authoritySet()
	if err != nil {
		return fmt.Errorf("%w: %w", exported.ErrInvalidClientState, err)
	}

	first, err := grandpa.DecodeAndVerifyJustification(misbehaviour.First.Justification,
		misbehaviour.First.Block, set)
	if err != nil {
		return fmt.Errorf("%w: first finality proof: %w", exported.ErrInvalidMisbehaviour, err)
	}
	second, err := grandpa.DecodeAndVerifyJustification(misbehaviour.Second.Justification,
		misbehaviour.Second.Block, set)
	if err != nil {
		return fmt.Errorf("%w: second finality proof: %w", exported.ErrInvalidMisbehaviour, err)
	}

	switch {
	case first.Commit.TargetNumber != second.Commit.TargetNumber:
		return fmt.Errorf("%w: finalized blocks %d and %d have different numbers",
			exported.ErrInvalidMisbehaviour, first.Commit.TargetNumber, second.Commit.TargetNumber)
	case misbehaviour.First.Block == misbehaviour.Second.Block:
		return fmt.Errorf("%w: both proofs finalize %s",
			exported.ErrInvalidMisbehaviour, misbehaviour.First.Block)
	}
	return nil
}

// CheckForMisbehaviour returns true for a verified Misbehaviour, and for a
// header whose consensus states conflict with each other or with the stored
// ones: a different state at the same height, or a timestamp out of order
// with its neighbours.
func (c ClientState) CheckForMisbehaviour(_ exported.Host, store exported.ClientStore,
	msg exported.ClientMessage) (bool, error) {
	switch msg := msg.(type) {
	case Misbehaviour:
		return true, nil
	case Header:
		verified, err := c.verifyHeader(msg)
		if err != nil {
			return false, err
		}
		if !timestampsIncreasing(verified.updates) {
			return true, nil
		}
		for _, update := range verified.updates {
			conflict, err := conflictsWithStore(store, update)
			if err != nil || conflict {
				return conflict, err
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: %T", exported.ErrInvalidClientType, msg)
	}
}

// timestampsIncreasing reports whether the timestamps of updates sorted by
// ascending height strictly increase.
func timestampsIncreasing(updates []exported.ConsensusUpdate) bool {
	for i := 1; i < len(updates); i++ {
		if !updates[i].State.Timestamp().After(updates[i-1].State.Timestamp()) {
			logger.Debugf("timestamp at height %s is not after height %s",
				updates[i].Height, updates[i-1].Height)
			return false
		}
	}
	return true
}

func conflictsWithStore(store exported.ClientStore, update exported.ConsensusUpdate) (bool, error) {
	timestamp := update.State.Timestamp()

	existing, err := store.ConsensusState(update.Height)
	switch {
	case err == nil:
		if existing != update.State {
			logger.Debugf("conflicting consensus state at height %s", update.Height)
			return true, nil
		}
	case !errors.Is(err, exported.ErrConsensusStateNotFound):
		return false, err
	}

	_, previous, err := store.PreviousConsensusState(update.Height)
	switch {
	case err == nil:
		if !timestamp.After(previous.Timestamp()) {
			logger.Debugf("timestamp at height %s is not after the previous consensus state", update.Height)
			return true, nil
		}
	case !errors.Is(err, exported.ErrConsensusStateNotFound):
		return false, err
	}

	_, next, err := store.NextConsensusState(update.Height)
	switch {
	case err == nil:
		if !timestamp.Before(next.Timestamp()) {
			logger.Debugf("timestamp at height %s is not before the next consensus state", update.Height)
			return true, nil
		}
	case !errors.Is(err, exported.ErrConsensusStateNotFound):
		return false, err
	}
	return false, nil
}
