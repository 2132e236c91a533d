// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

// AuthorityID is the ed25519 public key of a GRANDPA authority
type AuthorityID [32]byte

// String returns the hex representation of the authority id
func (id AuthorityID) String() string {
	return fmt.Sprintf("0x%x", id[:])
}

// AuthoritySignature is an ed25519 signature by a GRANDPA authority
type AuthoritySignature [64]byte

// Authority is a GRANDPA voter and its voting weight
type Authority struct {
	Key    AuthorityID
	Weight uint64
}

// Precommit is a vote for a block hash and number
type Precommit struct {
	TargetHash   common.Hash
	TargetNumber uint32
}

// SignedPrecommit is a precommit signed by an authority
type SignedPrecommit struct {
	Precommit Precommit
	Signature AuthoritySignature
	ID        AuthorityID
}

// Commit is a set of signed precommits finalizing the target block
type Commit struct {
	TargetHash   common.Hash
	TargetNumber uint32
	Precommits   []SignedPrecommit
}

// Justification proves a GRANDPA round finalized the commit target
type Justification struct {
	Round           uint64
	Commit          Commit
	VotesAncestries []types.Header
}

// DecodeJustification decodes a SCALE encoded justification
func DecodeJustification(encoded []byte) (justification Justification, err error) {
	err = common.DecodeScale(encoded, &justification)
	if err != nil {
		return Justification{}, fmt.Errorf("%w: %s", ErrDecodeJustification, err)
	}
	return justification, nil
}

// Encode returns the SCALE encoding of the justification
func (j *Justification) Encode() ([]byte, error) {
	return codec.Encode(j)
}

// HeaderHash returns the blake2b hash of the SCALE encoded header
func HeaderHash(header types.Header) (common.Hash, error) {
	encoded, err := codec.Encode(header)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding header: %w", err)
	}
	return common.Blake2bHash(encoded)
}

// DecodeHeader decodes a SCALE encoded substrate header
func DecodeHeader(encoded []byte) (header types.Header, err error) {
	err = common.DecodeScale(encoded, &header)
	if err != nil {
		return types.Header{}, fmt.Errorf("%w: %s", ErrDecodeHeader, err)
	}
	return header, nil
}
