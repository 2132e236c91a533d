// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/lib/crypto/ed25519"
)

// Subround is the GRANDPA voting stage a message belongs to
type Subround byte

const (
	PrevoteStage Subround = iota
	PrecommitStage
	PrimaryProposalStage
)

// FullVote is the payload signed by an authority
type FullVote struct {
	Stage Subround
	Vote  Precommit
	Round uint64
	SetID uint64
}

// PrecommitPayload returns the SCALE encoded message signed for the precommit.
// Round and set id are part of it to prevent replays across rounds and sets.
func PrecommitPayload(precommit Precommit, round, setID uint64) ([]byte, error) {
	return codec.Encode(FullVote{
		Stage: PrecommitStage,
		Vote:  precommit,
		Round: round,
		SetID: setID,
	})
}

// VerifyPrecommit verifies the signature of a precommit by the given authority.
func VerifyPrecommit(precommit Precommit, id AuthorityID,
	signature AuthoritySignature, round, setID uint64) error {
	msg, err := PrecommitPayload(precommit, round, setID)
	if err != nil {
		return fmt.Errorf("encoding precommit payload: %w", err)
	}

	err = ed25519.VerifySignature(id[:], signature[:], msg)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSignatureInvalid, err)
	}
	return nil
}
