// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

// VerifyJustification verifies the commit of the justification against
// the authority set, then verifies every precommit target descends from
// the commit target using the vote ancestries. Every vote ancestry header
// must be used by at least one precommit.
func VerifyJustification(justification Justification, set *AuthoritySet) error {
	commit := justification.Commit
	_, err := VerifyCommit(commit, set, justification.Round)
	if err != nil {
		return fmt.Errorf("verifying commit: %w", err)
	}

	ancestry, err := BuildAncestryMap(justification.VotesAncestries)
	if err != nil {
		return fmt.Errorf("building ancestry map: %w", err)
	}

	visited, err := walkAncestry(commit, ancestry, commit.TargetHash, commit.TargetNumber)
	if err != nil {
		logger.Debugf("ancestry verification failed for block %s: %s", commit.TargetHash, err)
		return fmt.Errorf("verifying ancestry: %w", err)
	}

	if len(visited) != len(ancestry) {
		for hash := range ancestry {
			if _, ok := visited[hash]; !ok {
				return fmt.Errorf("%w: %s", ErrUnusedAncestryHeader, hash)
			}
		}
	}

	return nil
}

// DecodeAndVerifyJustification decodes the justification, checks it
// finalizes the expected block and verifies it against the authority set.
func DecodeAndVerifyJustification(encoded []byte, expectedHash common.Hash,
	set *AuthoritySet) (Justification, error) {
	justification, err := DecodeJustification(encoded)
	if err != nil {
		return Justification{}, err
	}

	if justification.Commit.TargetHash != expectedHash {
		return Justification{}, fmt.Errorf("%w: justification targets %s instead of %s",
			ErrBlockHashMismatch, justification.Commit.TargetHash, expectedHash)
	}

	err = VerifyJustification(justification, set)
	if err != nil {
		return Justification{}, err
	}
	return justification, nil
}
