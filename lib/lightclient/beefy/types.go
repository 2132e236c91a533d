// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package beefy

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto/secp256k1"
)

// MmrRootID is the payload id of the MMR root.
var MmrRootID = [2]byte{'m', 'h'}

// AuthoritySet commits to the addresses of a BEEFY authority set with
// the keccak binary merkle root of their leaves.
type AuthoritySet struct {
	ID   uint64
	Len  uint32
	Root common.Hash
}

// NewAuthoritySet builds the authority set of the given addresses.
func NewAuthoritySet(id uint64, addresses [][secp256k1.AddressLength]byte) AuthoritySet {
	return AuthoritySet{
		ID:   id,
		Len:  uint32(len(addresses)),
		Root: merkleRoot(authorityLeaves(addresses)),
	}
}

// quorum is the minimum number of signatures, more than two thirds.
func (s AuthoritySet) quorum() uint32 {
	return s.Len - (s.Len-1)/3
}

// PayloadItem is a payload entry of a commitment.
type PayloadItem struct {
	ID   [2]byte
	Data []byte
}

// Commitment is the message signed by BEEFY authorities.
type Commitment struct {
	Payload        []PayloadItem
	BlockNumber    uint32
	ValidatorSetID uint64
}

// MmrRoot returns the MMR root carried by the payload.
func (c Commitment) MmrRoot() (common.Hash, error) {
	for _, item := range c.Payload {
		if item.ID != MmrRootID {
			continue
		}
		if len(item.Data) != len(common.Hash{}) {
			return common.Hash{}, fmt.Errorf("%w: root is %d bytes", ErrMissingMmrRoot, len(item.Data))
		}
		return common.NewHash(item.Data), nil
	}
	return common.Hash{}, ErrMissingMmrRoot
}

// Hash returns the keccak256 hash of the SCALE encoded commitment,
// which is the message authorities sign.
func (c Commitment) Hash() (common.Hash, error) {
	encoded, err := codec.Encode(c)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding commitment: %w", err)
	}
	return common.Keccak256(encoded), nil
}

// AuthoritySignature is the signature of one authority together with its
// address and the merkle proof of the address in the authority set.
type AuthoritySignature struct {
	Signature      [secp256k1.SignatureLength]byte
	AuthorityIndex uint32
	Address        [secp256k1.AddressLength]byte
	Proof          []common.Hash
}

// SignedCommitment is a commitment with the signatures of its authorities.
type SignedCommitment struct {
	Commitment Commitment
	Signatures []AuthoritySignature
}

// MmrLeaf is the leaf the relay chain appends to its MMR for every block.
type MmrLeaf struct {
	Version          uint8
	ParentNumber     uint32
	ParentHash       common.Hash
	NextAuthoritySet AuthoritySet
	LeafExtra        common.Hash
}

// Bytes returns the SCALE encoding of the leaf.
func (l MmrLeaf) Bytes() ([]byte, error) {
	return codec.Encode(l)
}

// Hash returns the keccak256 hash of the encoded leaf.
func (l MmrLeaf) Hash() (common.Hash, error) {
	encoded, err := l.Bytes()
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding mmr leaf: %w", err)
	}
	return common.Keccak256(encoded), nil
}
