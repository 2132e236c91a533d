// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package tendermint

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// verifyMisbehaviour verifies both headers against their trusted consensus
// states and checks they conflict: different blocks at the same height, or
// a higher block whose time is not after the lower one.
func (c ClientState) verifyMisbehaviour(host exported.Host, store exported.ClientStore,
	misbehaviour Misbehaviour) error {
	first, err := c.verifyHeader(host, store, misbehaviour.Header1)
	if err != nil {
		return fmt.Errorf("%w: first header: %w", exported.ErrInvalidMisbehaviour, err)
	}
	second, err := c.verifyHeader(host, store, misbehaviour.Header2)
	if err != nil {
		return fmt.Errorf("%w: second header: %w", exported.ErrInvalidMisbehaviour, err)
	}

	firstHeight := c.headerHeight(first.signedHeader)
	secondHeight := c.headerHeight(second.signedHeader)
	switch {
	case firstHeight.LT(secondHeight):
		return fmt.Errorf("%w: first header height %s is below second header height %s",
			exported.ErrInvalidMisbehaviour, firstHeight, secondHeight)
	case firstHeight == secondHeight:
		if bytes.Equal(first.signedHeader.Commit.BlockID.Hash, second.signedHeader.Commit.BlockID.Hash) {
			return fmt.Errorf("%w: both headers commit block %X at height %s",
				exported.ErrInvalidMisbehaviour, first.signedHeader.Commit.BlockID.Hash, firstHeight)
		}
	case first.signedHeader.Time.After(second.signedHeader.Time):
		return fmt.Errorf("%w: headers at %s and %s keep time monotonic",
			exported.ErrInvalidMisbehaviour, firstHeight, secondHeight)
	}
	return nil
}

// CheckForMisbehaviour returns true for a verified Misbehaviour, and for a
// header whose consensus state conflicts with the stored ones.
func (c ClientState) CheckForMisbehaviour(host exported.Host, store exported.ClientStore,
	msg exported.ClientMessage) (bool, error) {
	switch msg := msg.(type) {
	case Misbehaviour:
		return true, nil
	case Header:
		decoded, err := c.verifyHeader(host, store, msg)
		if err != nil {
			return false, err
		}
		return conflictsWithStore(store, c.headerHeight(decoded.signedHeader),
			consensusState(decoded.signedHeader))
	default:
		return false, fmt.Errorf("%w: %T", exported.ErrInvalidClientType, msg)
	}
}

func conflictsWithStore(store exported.ClientStore, height exported.Height,
	update ConsensusState) (bool, error) {
	timestamp := update.Timestamp()

	existing, err := store.ConsensusState(height)
	switch {
	case err == nil:
		existingState, ok := existing.(ConsensusState)
		if !ok || !existingState.Equal(update) {
			logger.Debugf("conflicting consensus state at height %s", height)
			return true, nil
		}
		return false, nil
	case !errors.Is(err, exported.ErrConsensusStateNotFound):
		return false, err
	}

	_, previous, err := store.PreviousConsensusState(height)
	switch {
	case err == nil:
		if !timestamp.After(previous.Timestamp()) {
			logger.Debugf("time at height %s is not after the previous consensus state", height)
			return true, nil
		}
	case !errors.Is(err, exported.ErrConsensusStateNotFound):
		return false, err
	}

	_, next, err := store.NextConsensusState(height)
	switch {
	case err == nil:
		if !timestamp.Before(next.Timestamp()) {
			logger.Debugf("time at height %s is not before the next consensus state", height)
			return true, nil
		}
	case !errors.Is(err, exported.ErrConsensusStateNotFound):
		return false, err
	}
	return false, nil
}
