// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

// AncestryMap maps header hashes to their headers
type AncestryMap map[common.Hash]types.Header

// BuildAncestryMap hashes the headers and indexes them by hash.
// A header appearing twice is reported as a duplicate.
func BuildAncestryMap(headers []types.Header) (AncestryMap, error) {
	ancestry := make(AncestryMap, len(headers))
	for i, header := range headers {
		hash, err := HeaderHash(header)
		if err != nil {
			return nil, fmt.Errorf("hashing header at index %d: %w", i, err)
		}

		if _, ok := ancestry[hash]; ok {
			return nil, fmt.Errorf("%w: %s at index %d", ErrDuplicateHeader, hash, i)
		}
		ancestry[hash] = header
	}
	return ancestry, nil
}

// VerifyAncestry verifies every precommit target of the commit is the
// finalized block or one of its descendants, following parent links
// through the ancestry map.
func VerifyAncestry(commit Commit, ancestry AncestryMap,
	finalizedHash common.Hash, finalizedNumber uint32) error {
	_, err := walkAncestry(commit, ancestry, finalizedHash, finalizedNumber)
	return err
}

// walkAncestry returns the set of ancestry headers visited.
func walkAncestry(commit Commit, ancestry AncestryMap,
	finalizedHash common.Hash, finalizedNumber uint32) (
	visited map[common.Hash]struct{}, err error) {
	visited = make(map[common.Hash]struct{})
	checked := make(map[Precommit]struct{}, len(commit.Precommits))

	for _, signed := range commit.Precommits {
		target := signed.Precommit
		if _, ok := checked[target]; ok {
			continue
		}
		checked[target] = struct{}{}

		err = walkToBase(target, ancestry, finalizedHash, finalizedNumber, visited)
		if err != nil {
			return nil, fmt.Errorf("precommit target %s number %d: %w",
				target.TargetHash, target.TargetNumber, err)
		}
	}

	return visited, nil
}

// walkToBase follows parent links from the target down to the base.
// The walk visits at most target number - base number + 1 headers.
func walkToBase(target Precommit, ancestry AncestryMap,
	baseHash common.Hash, baseNumber uint32, visited map[common.Hash]struct{}) error {
	if target.TargetHash == baseHash {
		if target.TargetNumber != baseNumber {
			return fmt.Errorf("%w: base has number %d", ErrPrecommitTargetMismatch, baseNumber)
		}
		return nil
	}

	if target.TargetNumber <= baseNumber {
		return fmt.Errorf("%w: number %d is not above base number %d",
			ErrNotAnAncestor, target.TargetNumber, baseNumber)
	}

	maxSteps := uint64(target.TargetNumber-baseNumber) + 1
	current, currentNumber := target.TargetHash, target.TargetNumber
	for steps := uint64(0); ; steps++ {
		if steps >= maxSteps {
			return fmt.Errorf("%w: more than %d steps", ErrAncestryLoopOrTooLong, maxSteps)
		}

		if current == baseHash {
			if currentNumber != baseNumber {
				return fmt.Errorf("%w: base reached at number %d instead of %d",
					ErrNotAnAncestor, currentNumber, baseNumber)
			}
			return nil
		}

		if currentNumber <= baseNumber {
			return fmt.Errorf("%w: reached number %d without finding base %s",
				ErrNotAnAncestor, currentNumber, baseHash)
		}

		header, ok := ancestry[current]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAncestryHeader, current)
		}

		if uint32(header.Number) != currentNumber {
			return fmt.Errorf("%w: header %s has number %d instead of %d",
				ErrNotAnAncestor, current, header.Number, currentNumber)
		}

		visited[current] = struct{}{}
		current = common.Hash(header.ParentHash)
		currentNumber--
	}
}
