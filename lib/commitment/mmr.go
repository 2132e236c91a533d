// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commitment

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/sha3"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/pkg/mmr"
)

// mmrVerifier checks SCALE encoded keccak MMR leaf proofs. The layer key
// is the decimal leaf index and the value is the encoded leaf.
type mmrVerifier struct{}

func (mmrVerifier) CalculateRoot(encoded, key, value []byte) ([]byte, error) {
	var proof mmr.Proof
	err := common.DecodeScale(encoded, &proof)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding mmr proof: %s", ErrMalformedProof, err)
	}

	index, err := strconv.ParseUint(string(key), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: leaf index %q: %s", ErrMalformedProof, key, err)
	}
	if index != proof.LeafIndex {
		return nil, fmt.Errorf("%w: proof is for leaf %d instead of %d", ErrInvalidProof, proof.LeafIndex, index)
	}

	leaf := common.Keccak256(value)
	root, err := mmr.CalculateRoot(sha3.NewLegacyKeccak256(), leaf.ToBytes(), proof)
	switch {
	case errors.Is(err, mmr.ErrInvalidProof):
		return nil, fmt.Errorf("%w: %s", ErrInvalidProof, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %s", ErrMalformedProof, err)
	}
	return root, nil
}

func (mmrVerifier) AbsenceRoot([]byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: by mmr proofs", ErrAbsenceNotSupported)
}

func (mmrVerifier) VerifyAbsence([]byte, []byte, []byte) error {
	return fmt.Errorf("%w: by mmr proofs", ErrAbsenceNotSupported)
}
