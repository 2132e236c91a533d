// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/internal/log"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto/ed25519"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "grandpa"))

// VerifyCommit verifies every precommit of the commit was signed by a
// distinct voter of the authority set for the given round, and that their
// accumulated weight reaches the quorum. It returns the accumulated weight.
// Ancestry of the precommit targets is checked by VerifyAncestry.
func VerifyCommit(commit Commit, set *AuthoritySet, round uint64) (weight uint64, err error) {
	if len(commit.Precommits) == 0 {
		return 0, ErrEmptyCommit
	}

	verifier := crypto.NewSignatureVerifier(logger)
	voted := make(map[AuthorityID]struct{}, len(commit.Precommits))
	for i, signed := range commit.Precommits {
		voterWeight, ok := set.Weight(signed.ID)
		if !ok {
			return 0, fmt.Errorf("%w: %s at index %d", ErrUnknownAuthority, signed.ID, i)
		}

		if _, ok := voted[signed.ID]; ok {
			return 0, fmt.Errorf("%w: from %s at index %d", ErrDuplicateVote, signed.ID, i)
		}
		voted[signed.ID] = struct{}{}

		msg, err := PrecommitPayload(signed.Precommit, round, set.SetID())
		if err != nil {
			return 0, fmt.Errorf("encoding precommit payload at index %d: %w", i, err)
		}

		id, signature := signed.ID, signed.Signature
		verifier.Add(&crypto.SignatureInfo{
			PubKey:     id[:],
			Sign:       signature[:],
			Msg:        msg,
			VerifyFunc: ed25519.VerifySignature,
		})

		// weights are bounded by the set total which cannot overflow
		weight += voterWeight
	}

	err = verifier.Finish()
	if errors.Is(err, crypto.ErrSignatureVerificationFailed) {
		return 0, fmt.Errorf("%w: %s", ErrSignatureInvalid, err)
	} else if err != nil {
		return 0, err
	}

	threshold := set.Threshold()
	if weight < threshold {
		logger.Debugf(
			"quorum not reached for commit of block %s number %d: need weight %d and got %d",
			commit.TargetHash, commit.TargetNumber, threshold, weight)
		return weight, fmt.Errorf("%w: weight %d is below threshold %d",
			ErrQuorumNotReached, weight, threshold)
	}

	logger.Tracef("verified commit of block %s number %d with weight %d, round %d and set id %d",
		commit.TargetHash, commit.TargetNumber, weight, round, set.SetID())
	return weight, nil
}
