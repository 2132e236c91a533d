// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commitment

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

// MerklePath is the key of each proof layer, outermost first.
type MerklePath struct {
	KeyPath []string
}

// NewMerklePath returns the merkle path of the given keys, outermost first.
func NewMerklePath(keyPath ...string) MerklePath {
	return MerklePath{KeyPath: keyPath}
}

// key returns the key of the layer, counting from the innermost layer.
func (p MerklePath) key(layer int) []byte {
	return []byte(p.KeyPath[len(p.KeyPath)-1-layer])
}

func (p MerklePath) String() string {
	return fmt.Sprintf("%q", p.KeyPath)
}

// MerkleProof holds the proof of each layer, innermost first.
type MerkleProof struct {
	Proofs [][]byte
}

// Encode returns the SCALE encoding of the proof layers.
func (p MerkleProof) Encode() ([]byte, error) {
	return codec.Encode(p.Proofs)
}

// DecodeMerkleProof decodes SCALE encoded proof layers.
func DecodeMerkleProof(encoded []byte) (proof MerkleProof, err error) {
	err = common.DecodeScale(encoded, &proof.Proofs)
	if err != nil {
		return proof, fmt.Errorf("%w: %s", ErrMalformedProof, err)
	}
	return proof, nil
}
