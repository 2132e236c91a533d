// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

var (
	ErrDuplicateParachainHeader = errors.New("duplicate parachain header proof for relay block")
	ErrTooManyParachainHeaders  = errors.New("too many parachain header proofs")
)

// maxParachainHeaders bounds the number of entries decoded from untrusted input.
const maxParachainHeaders = 1 << 16

// FinalityProof carries an encoded justification for Block and the relay
// chain headers between the previously proven block and Block, ascending.
type FinalityProof struct {
	Block          common.Hash
	Justification  []byte
	UnknownHeaders []types.Header
}

// ParachainHeaderProofs proves the parachain head stored at a relay chain
// block, together with the parachain timestamp extrinsic and its inclusion proof.
type ParachainHeaderProofs struct {
	StateProof     [][]byte
	Extrinsic      []byte
	ExtrinsicProof [][]byte
}

// ParachainHeadersWithFinalityProof is the artifact assembled by the prover
// and consumed by the GRANDPA light client.
type ParachainHeadersWithFinalityProof struct {
	FinalityProof    FinalityProof
	ParachainHeaders map[common.Hash]ParachainHeaderProofs
	LatestParaHeight uint32
}

// RelayHashes returns the relay chain block hashes carrying parachain
// header proofs, sorted in ascending byte order.
func (p ParachainHeadersWithFinalityProof) RelayHashes() []common.Hash {
	hashes := make([]common.Hash, 0, len(p.ParachainHeaders))
	for hash := range p.ParachainHeaders {
		hashes = append(hashes, hash)
	}
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})
	return hashes
}

// Encode encodes the parachain headers map as a vector of pairs
// sorted by relay block hash.
func (p ParachainHeadersWithFinalityProof) Encode(encoder scale.Encoder) error {
	err := encoder.Encode(p.FinalityProof)
	if err != nil {
		return fmt.Errorf("encoding finality proof: %w", err)
	}

	hashes := p.RelayHashes()
	err = encoder.EncodeUintCompact(*big.NewInt(int64(len(hashes))))
	if err != nil {
		return fmt.Errorf("encoding parachain headers length: %w", err)
	}

	for _, hash := range hashes {
		err = encoder.Encode(hash)
		if err != nil {
			return fmt.Errorf("encoding relay hash %s: %w", hash, err)
		}
		err = encoder.Encode(p.ParachainHeaders[hash])
		if err != nil {
			return fmt.Errorf("encoding parachain header proofs for %s: %w", hash, err)
		}
	}

	return encoder.Encode(p.LatestParaHeight)
}

// Decode decodes the structure encoded by Encode.
func (p *ParachainHeadersWithFinalityProof) Decode(decoder scale.Decoder) error {
	err := decoder.Decode(&p.FinalityProof)
	if err != nil {
		return fmt.Errorf("decoding finality proof: %w", err)
	}

	length, err := common.DecodeCompact(&decoder)
	if err != nil {
		return fmt.Errorf("decoding parachain headers length: %w", err)
	}
	if length > maxParachainHeaders {
		return fmt.Errorf("%w: %d", ErrTooManyParachainHeaders, length)
	}

	p.ParachainHeaders = make(map[common.Hash]ParachainHeaderProofs, length)
	for i := uint64(0); i < length; i++ {
		var hash common.Hash
		err = decoder.Decode(&hash)
		if err != nil {
			return fmt.Errorf("decoding relay hash at index %d: %w", i, err)
		}

		var proofs ParachainHeaderProofs
		err = decoder.Decode(&proofs)
		if err != nil {
			return fmt.Errorf("decoding parachain header proofs at index %d: %w", i, err)
		}

		if _, ok := p.ParachainHeaders[hash]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateParachainHeader, hash)
		}
		p.ParachainHeaders[hash] = proofs
	}

	return decoder.Decode(&p.LatestParaHeight)
}

// EncodeParachainHeadersWithFinalityProof returns the SCALE encoding of the proof.
func EncodeParachainHeadersWithFinalityProof(p ParachainHeadersWithFinalityProof) ([]byte, error) {
	return codec.Encode(p)
}

// DecodeParachainHeadersWithFinalityProof decodes a SCALE encoded proof.
func DecodeParachainHeadersWithFinalityProof(encoded []byte) (
	p ParachainHeadersWithFinalityProof, err error) {
	err = common.DecodeScale(encoded, &p)
	if err != nil {
		return ParachainHeadersWithFinalityProof{}, err
	}
	return p, nil
}
