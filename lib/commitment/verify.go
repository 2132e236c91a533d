// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commitment

import (
	"bytes"
	"fmt"
)

func validateLayers(specs ProofSpecs, proof MerkleProof, path MerklePath) error {
	switch {
	case len(proof.Proofs) == 0:
		return fmt.Errorf("%w: empty proof", ErrMalformedProof)
	case len(proof.Proofs) != len(specs):
		return fmt.Errorf("%w: %d proof layers for %d specs",
			ErrMalformedProof, len(proof.Proofs), len(specs))
	case len(path.KeyPath) != len(specs):
		return fmt.Errorf("%w: %d path segments for %d specs",
			ErrMalformedProof, len(path.KeyPath), len(specs))
	}
	return nil
}

// VerifyMembership verifies the value is committed at the path under the
// root, chaining the root of each layer as the value of the next one.
func VerifyMembership(specs ProofSpecs, root []byte, proof MerkleProof,
	path MerklePath, value []byte) error {
	err := validateLayers(specs, proof, path)
	if err != nil {
		return err
	}

	return verifyChained(specs, root, proof, path, 0, value)
}

// VerifyNonMembership verifies nothing is committed at the path under the
// root. The innermost layer proves the absence of its key and the outer
// layers prove membership of the innermost root.
func VerifyNonMembership(specs ProofSpecs, root []byte, proof MerkleProof,
	path MerklePath) error {
	err := validateLayers(specs, proof, path)
	if err != nil {
		return err
	}

	verifier, err := specs[0].verifier()
	if err != nil {
		return err
	}

	innerRoot, err := verifier.AbsenceRoot(proof.Proofs[0])
	if err != nil {
		return fmt.Errorf("layer 0: %w", err)
	}
	err = verifier.VerifyAbsence(proof.Proofs[0], innerRoot, path.key(0))
	if err != nil {
		return fmt.Errorf("layer 0: %w", err)
	}

	if len(specs) == 1 {
		return compareRoots(root, innerRoot)
	}
	return verifyChained(specs, root, proof, path, 1, innerRoot)
}

func verifyChained(specs ProofSpecs, root []byte, proof MerkleProof,
	path MerklePath, first int, value []byte) error {
	for layer := first; layer < len(specs); layer++ {
		verifier, err := specs[layer].verifier()
		if err != nil {
			return err
		}

		value, err = verifier.CalculateRoot(proof.Proofs[layer], path.key(layer), value)
		if err != nil {
			return fmt.Errorf("layer %d: %w", layer, err)
		}
	}
	return compareRoots(root, value)
}

func compareRoots(expected, calculated []byte) error {
	if !bytes.Equal(expected, calculated) {
		return fmt.Errorf("%w: expected 0x%x, calculated 0x%x", ErrRootMismatch, expected, calculated)
	}
	return nil
}
