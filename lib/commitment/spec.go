// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commitment

import (
	"fmt"
	"strings"

	ics23 "github.com/cosmos/ics23/go"
)

// ProofSpec identifies the commitment scheme of one proof layer.
type ProofSpec byte

const (
	// SpecIAVL is the ICS23 spec of IAVL trees.
	SpecIAVL ProofSpec = iota + 1
	// SpecTendermint is the ICS23 spec of tendermint simple merkle trees.
	SpecTendermint
	// SpecSimpleMerkle is a tendermint merkle value operation chain.
	SpecSimpleMerkle
	// SpecSubstrateTrie is a substrate base-16 patricia merkle trie.
	SpecSubstrateTrie
	// SpecBeefyMmr is the keccak merkle mountain range of BEEFY leaves.
	SpecBeefyMmr
)

func (s ProofSpec) String() string {
	switch s {
	case SpecIAVL:
		return "iavl"
	case SpecTendermint:
		return "tendermint"
	case SpecSimpleMerkle:
		return "simple"
	case SpecSubstrateTrie:
		return "substrate"
	case SpecBeefyMmr:
		return "mmr"
	default:
		return fmt.Sprintf("ProofSpec(%d)", byte(s))
	}
}

// ParseProofSpec parses the string representation of a proof spec.
func ParseProofSpec(s string) (ProofSpec, error) {
	for _, spec := range []ProofSpec{SpecIAVL, SpecTendermint, SpecSimpleMerkle, SpecSubstrateTrie, SpecBeefyMmr} {
		if strings.EqualFold(s, spec.String()) {
			return spec, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpec, s)
}

// ProofSpecs lists the proof spec of each layer, innermost first.
type ProofSpecs []ProofSpec

// SDKSpecs are the proof specs of a cosmos-sdk chain: an IAVL store
// tree nested in a tendermint multistore tree.
var SDKSpecs = ProofSpecs{SpecIAVL, SpecTendermint}

// Validate checks every spec is known.
func (s ProofSpecs) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no proof specs", ErrUnknownSpec)
	}
	for i, spec := range s {
		_, err := spec.verifier()
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// Verifier computes and checks the root of a single proof layer.
type Verifier interface {
	// CalculateRoot returns the root committing to the key with the value.
	CalculateRoot(proof, key, value []byte) (root []byte, err error)
	// AbsenceRoot returns the root an absence proof is computed against.
	AbsenceRoot(proof []byte) (root []byte, err error)
	// VerifyAbsence checks the proof shows the key is absent under the root.
	VerifyAbsence(proof, root, key []byte) error
}

func (s ProofSpec) verifier() (Verifier, error) {
	switch s {
	case SpecIAVL:
		return ics23Verifier{spec: ics23.IavlSpec}, nil
	case SpecTendermint:
		return ics23Verifier{spec: ics23.TendermintSpec}, nil
	case SpecSimpleMerkle:
		return simpleMerkleVerifier{}, nil
	case SpecSubstrateTrie:
		return substrateTrieVerifier{}, nil
	case SpecBeefyMmr:
		return mmrVerifier{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpec, s)
	}
}
