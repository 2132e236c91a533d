// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package beefy

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto/secp256k1"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	"github.com/ChainSafe/ibc-light-clients/pkg/mmr"
)

type verifiedHeader struct {
	blockNumber uint32
	mmrRoot     common.Hash
	// rotated is true if the commitment is signed by the next authority set.
	rotated bool
	nextSet AuthoritySet
}

// VerifyClientMessage verifies a Header or a Misbehaviour against the
// current and next authority sets.
func (c ClientState) VerifyClientMessage(_ exported.Host, _ exported.ClientStore,
	msg exported.ClientMessage) error {
	if !c.Frozen.IsZero() {
		return exported.ErrClientFrozen
	}

	switch msg := msg.(type) {
	case Header:
		_, err := c.verifyHeader(msg)
		return err
	case Misbehaviour:
		return c.verifyMisbehaviour(msg)
	default:
		return fmt.Errorf("%w: %T", exported.ErrInvalidClientType, msg)
	}
}

// signingSet returns the authority set with the id, either the current
// or the next one.
func (c ClientState) signingSet(id uint64) (set AuthoritySet, rotated bool, err error) {
	switch id {
	case c.AuthoritySet.ID:
		return c.AuthoritySet, false, nil
	case c.NextAuthoritySet.ID:
		return c.NextAuthoritySet, true, nil
	default:
		return AuthoritySet{}, false, fmt.Errorf("%w: set id %d, current %d",
			ErrUnknownAuthoritySet, id, c.AuthoritySet.ID)
	}
}

func (c ClientState) verifyHeader(header Header) (verified verifiedHeader, err error) {
	commitment := header.SignedCommitment.Commitment
	if commitment.BlockNumber <= c.LatestBeefyHeight {
		return verified, fmt.Errorf("%w: block %d is not after %d",
			exported.ErrHeightNotMonotonic, commitment.BlockNumber, c.LatestBeefyHeight)
	}

	set, rotated, err := c.signingSet(commitment.ValidatorSetID)
	if err != nil {
		return verified, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
	}

	mmrRoot, err := commitment.MmrRoot()
	if err != nil {
		return verified, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
	}

	err = verifySignatures(header.SignedCommitment, set)
	if err != nil {
		return verified, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
	}

	nextSet, err := c.verifyLeaf(header, mmrRoot, rotated)
	if err != nil {
		return verified, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
	}

	logger.Debugf("verified commitment at block %d signed by authority set %d",
		commitment.BlockNumber, commitment.ValidatorSetID)
	return verifiedHeader{
		blockNumber: commitment.BlockNumber,
		mmrRoot:     mmrRoot,
		rotated:     rotated,
		nextSet:     nextSet,
	}, nil
}

// verifySignatures checks every signature recovers to an authority of the
// set and that more than two thirds of the set signed.
func verifySignatures(signed SignedCommitment, set AuthoritySet) error {
	message, err := signed.Commitment.Hash()
	if err != nil {
		return err
	}

	signers := make(map[uint32]struct{}, len(signed.Signatures))
	for _, signature := range signed.Signatures {
		index := signature.AuthorityIndex
		if index >= set.Len {
			return fmt.Errorf("%w: %d for %d authorities", ErrInvalidAuthorityIndex, index, set.Len)
		}
		if _, ok := signers[index]; ok {
			return fmt.Errorf("%w: authority %d", ErrDuplicateAuthority, index)
		}

		publicKey, err := secp256k1.RecoverPublicKey(message[:], signature.Signature[:])
		if err != nil {
			return fmt.Errorf("%w: authority %d: %w", ErrSignatureInvalid, index, err)
		}
		if publicKey.Address() != signature.Address {
			return fmt.Errorf("%w: authority %d: signer is 0x%x, not 0x%x",
				ErrSignatureInvalid, index, publicKey.Address(), signature.Address)
		}
		if !verifyAuthorityProof(set, signature.Address, index, signature.Proof) {
			return fmt.Errorf("%w: authority %d: 0x%x in set %d",
				ErrAuthorityNotInSet, index, signature.Address, set.ID)
		}
		signers[index] = struct{}{}
	}

	if uint32(len(signers)) < set.quorum() {
		return fmt.Errorf("%w: %d signatures for %d authorities, need %d",
			ErrQuorumNotReached, len(signers), set.Len, set.quorum())
	}
	return nil
}

// verifyLeaf checks the leaf is the latest leaf under the signed MMR root
// and returns the next authority set once the header is applied.
func (c ClientState) verifyLeaf(header Header, mmrRoot common.Hash, rotated bool) (AuthoritySet, error) {
	leaf := header.Leaf
	proof := header.LeafProof
	blockNumber := header.SignedCommitment.Commitment.BlockNumber

	switch {
	case leaf.ParentNumber+1 != blockNumber:
		return AuthoritySet{}, fmt.Errorf("%w: leaf parent %d is not the parent of block %d",
			ErrInvalidMmrLeaf, leaf.ParentNumber, blockNumber)
	case proof.LeafCount == 0 || proof.LeafIndex+1 != proof.LeafCount:
		return AuthoritySet{}, fmt.Errorf("%w: leaf %d is not the latest of %d",
			ErrInvalidMmrLeaf, proof.LeafIndex, proof.LeafCount)
	}

	leafHash, err := leaf.Hash()
	if err != nil {
		return AuthoritySet{}, err
	}
	err = mmr.VerifyProof(sha3.NewLegacyKeccak256(), mmrRoot.ToBytes(), leafHash.ToBytes(), proof)
	if err != nil {
		return AuthoritySet{}, fmt.Errorf("%w: %w", ErrInvalidMmrLeaf, err)
	}

	if !rotated {
		if leaf.NextAuthoritySet != c.NextAuthoritySet {
			return AuthoritySet{}, fmt.Errorf("%w: leaf has set %d, client has set %d",
				ErrAuthoritySetMismatch, leaf.NextAuthoritySet.ID, c.NextAuthoritySet.ID)
		}
		return c.NextAuthoritySet, nil
	}

	if leaf.NextAuthoritySet.ID != c.NextAuthoritySet.ID+1 || leaf.NextAuthoritySet.Len == 0 {
		return AuthoritySet{}, fmt.Errorf("%w: leaf has set %d after rotation to set %d",
			ErrAuthoritySetMismatch, leaf.NextAuthoritySet.ID, c.NextAuthoritySet.ID)
	}
	return leaf.NextAuthoritySet, nil
}
