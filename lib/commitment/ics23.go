// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commitment

import (
	"fmt"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/gogo/protobuf/proto"
)

type ics23Verifier struct {
	spec *ics23.ProofSpec
}

func decodeCommitmentProof(encoded []byte) (*ics23.CommitmentProof, error) {
	var proof ics23.CommitmentProof
	err := proto.Unmarshal(encoded, &proof)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding ics23 proof: %s", ErrMalformedProof, err)
	}
	return &proof, nil
}

func (v ics23Verifier) CalculateRoot(encoded, key, value []byte) ([]byte, error) {
	proof, err := decodeCommitmentProof(encoded)
	if err != nil {
		return nil, err
	}
	if proof.GetExist() == nil {
		return nil, fmt.Errorf("%w: not an existence proof", ErrInvalidProof)
	}

	root, err := proof.Calculate()
	if err != nil {
		return nil, fmt.Errorf("%w: calculating root: %s", ErrInvalidProof, err)
	}

	if !ics23.VerifyMembership(v.spec, root, proof, key, value) {
		return nil, fmt.Errorf("%w: membership of key %q", ErrInvalidProof, key)
	}
	return root, nil
}

func (v ics23Verifier) AbsenceRoot(encoded []byte) ([]byte, error) {
	proof, err := decodeCommitmentProof(encoded)
	if err != nil {
		return nil, err
	}
	if proof.GetNonexist() == nil {
		return nil, fmt.Errorf("%w: not a non-existence proof", ErrInvalidProof)
	}

	root, err := proof.Calculate()
	if err != nil {
		return nil, fmt.Errorf("%w: calculating root: %s", ErrInvalidProof, err)
	}
	return root, nil
}

func (v ics23Verifier) VerifyAbsence(encoded, root, key []byte) error {
	proof, err := decodeCommitmentProof(encoded)
	if err != nil {
		return err
	}

	if !ics23.VerifyNonMembership(v.spec, root, proof, key) {
		return fmt.Errorf("%w: non-membership of key %q", ErrInvalidProof, key)
	}
	return nil
}
