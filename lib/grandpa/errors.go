// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"errors"
	"fmt"
)

// ErrInvalidAuthoritySet is returned when an authority list is empty or its weights overflow
var ErrInvalidAuthoritySet = errors.New("invalid authority set")

// ErrDuplicateAuthority is returned when an authority key appears twice in an authority list
var ErrDuplicateAuthority = errors.New("duplicate authority")

// ErrUnknownAuthority is returned when a precommit is signed by a key outside the authority set
var ErrUnknownAuthority = errors.New("authority is not in authority set")

// ErrDuplicateVote is returned when an authority has more than one precommit in a commit
var ErrDuplicateVote = errors.New("duplicate vote")

// ErrSignatureInvalid is returned when a precommit signature does not verify
var ErrSignatureInvalid = errors.New("signature is not valid")

// ErrEmptyCommit is returned when a commit carries no precommits
var ErrEmptyCommit = errors.New("commit has no precommits")

// ErrQuorumNotReached is returned when the weight of the precommits is not above two thirds of the total weight
var ErrQuorumNotReached = errors.New("quorum not reached")

// ErrDuplicateHeader is returned when two headers of an ancestry proof share a hash
var ErrDuplicateHeader = errors.New("duplicate header")

// ErrAncestry is wrapped by every ancestry verification failure
var ErrAncestry = errors.New("ancestry verification failed")

var (
	ErrNotAnAncestor           = fmt.Errorf("%w: not an ancestor", ErrAncestry)
	ErrMissingAncestryHeader   = fmt.Errorf("%w: missing ancestry header", ErrAncestry)
	ErrAncestryLoopOrTooLong   = fmt.Errorf("%w: ancestry loop or chain too long", ErrAncestry)
	ErrUnusedAncestryHeader    = fmt.Errorf("%w: unused ancestry header", ErrAncestry)
	ErrPrecommitTargetMismatch = fmt.Errorf("%w: precommit target number mismatch", ErrAncestry)
)

// ErrBlockHashMismatch is returned when a justification does not finalize the expected block
var ErrBlockHashMismatch = errors.New("block hash mismatch")

// ErrDecodeJustification is returned when justification bytes cannot be decoded
var ErrDecodeJustification = errors.New("cannot decode justification")

// ErrDecodeHeader is returned when header bytes cannot be decoded
var ErrDecodeHeader = errors.New("cannot decode header")

// ErrHeaderAlreadyProcessed is returned when a relay chain header hash was already recorded
var ErrHeaderAlreadyProcessed = errors.New("header already processed")

// ErrInvalidTimestampExtrinsic is returned when a timestamp extrinsic cannot be decoded
var ErrInvalidTimestampExtrinsic = errors.New("invalid timestamp extrinsic")

// ErrInvalidConsensusLog is returned when a GRANDPA consensus digest cannot be decoded
var ErrInvalidConsensusLog = errors.New("invalid grandpa consensus log")
