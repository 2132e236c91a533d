// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commitment

import (
	"bytes"
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/tendermint/tendermint/crypto/merkle"
	tmcrypto "github.com/tendermint/tendermint/proto/tendermint/crypto"
)

var proofRuntime = merkle.DefaultProofRuntime()

// simpleMerkleVerifier runs tendermint proof operator chains. The
// first operator must prove the layer key.
type simpleMerkleVerifier struct{}

func decodeProofOperators(encoded []byte) (merkle.ProofOperators, error) {
	var ops tmcrypto.ProofOps
	err := proto.Unmarshal(encoded, &ops)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding proof operations: %s", ErrMalformedProof, err)
	}
	if len(ops.Ops) == 0 {
		return nil, fmt.Errorf("%w: no proof operations", ErrMalformedProof)
	}

	operators, err := proofRuntime.DecodeProof(&ops)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedProof, err)
	}
	return operators, nil
}

func (simpleMerkleVerifier) CalculateRoot(encoded, key, value []byte) ([]byte, error) {
	operators, err := decodeProofOperators(encoded)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(operators[0].GetKey(), key) {
		return nil, fmt.Errorf("%w: proof is for key %q instead of %q",
			ErrInvalidProof, operators[0].GetKey(), key)
	}

	args := [][]byte{value}
	for i, operator := range operators {
		args, err = operator.Run(args)
		if err != nil {
			return nil, fmt.Errorf("%w: operation %d: %s", ErrInvalidProof, i, err)
		}
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %d roots calculated", ErrInvalidProof, len(args))
	}
	return args[0], nil
}

func (simpleMerkleVerifier) AbsenceRoot([]byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: by simple merkle proofs", ErrAbsenceNotSupported)
}

func (simpleMerkleVerifier) VerifyAbsence([]byte, []byte, []byte) error {
	return fmt.Errorf("%w: by simple merkle proofs", ErrAbsenceNotSupported)
}
