// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package prover

import (
	"bytes"
	"context"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/ChainSafe/ibc-light-clients/internal/log"
	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "prover"))

// Prover assembles GRANDPA finality proofs together with parachain header
// proofs. It holds no mutable state and is safe for concurrent use.
type Prover struct {
	relay  RelayChain
	para   Parachain
	paraID uint32
	logger log.LeveledLogger
}

// New creates a prover for the given parachain.
func New(relay RelayChain, para Parachain, paraID uint32) *Prover {
	return &Prover{
		relay:  relay,
		para:   para,
		paraID: paraID,
		logger: logger,
	}
}

// ParaID returns the parachain id of the prover.
func (p *Prover) ParaID() uint32 {
	return p.paraID
}

// QueryFinalityProof returns a finality proof for the latest finalized block
// and the relay headers from previousFinalized up to it. If justification is
// nil, one is fetched for latestFinalized. The justification commit target
// overrides latestFinalized.
func (p *Prover) QueryFinalityProof(ctx context.Context, previousFinalized,
	latestFinalized uint32, justification *grandpa.Justification) (
	proof grandpa.FinalityProof, err error) {
	if justification == nil {
		justification, err = p.fetchJustification(ctx, latestFinalized)
		if err != nil {
			return proof, err
		}
	}

	target := justification.Commit
	if target.TargetNumber != latestFinalized {
		p.logger.Debugf("justification finalizes block %d instead of requested block %d",
			target.TargetNumber, latestFinalized)
	}
	latestFinalized = target.TargetNumber

	if previousFinalized > latestFinalized {
		return proof, fmt.Errorf("%w: previous finalized %d is above latest finalized %d",
			ErrInvalidRange, previousFinalized, latestFinalized)
	}

	encodedJustification, err := justification.Encode()
	if err != nil {
		return proof, fmt.Errorf("encoding justification: %w", err)
	}

	unknownHeaders := make([]types.Header, 0, latestFinalized-previousFinalized+1)
	for number := previousFinalized; ; number++ {
		header, err := p.headerByNumber(ctx, number)
		if err != nil {
			return proof, err
		}
		unknownHeaders = append(unknownHeaders, header)

		if number == latestFinalized {
			break
		}
	}

	return grandpa.FinalityProof{
		Block:          target.TargetHash,
		Justification:  encodedJustification,
		UnknownHeaders: unknownHeaders,
	}, nil
}

func (p *Prover) fetchJustification(ctx context.Context, number uint32) (
	*grandpa.Justification, error) {
	encoded, err := p.relay.ProveFinality(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("proving finality of block %d: %w", number, err)
	}
	if len(encoded) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoFinalityProof, number)
	}

	var finalityProof grandpa.FinalityProof
	err = common.DecodeScale(encoded, &finalityProof)
	if err != nil {
		return nil, fmt.Errorf("decoding finality proof of block %d: %w", number, err)
	}

	justification, err := grandpa.DecodeJustification(finalityProof.Justification)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", number, err)
	}
	return &justification, nil
}

func (p *Prover) headerByNumber(ctx context.Context, number uint32) (types.Header, error) {
	hash, err := p.relay.BlockHash(ctx, number)
	if err != nil {
		return types.Header{}, fmt.Errorf("getting hash of block %d: %w", number, err)
	}
	if hash.IsEmpty() {
		return types.Header{}, fmt.Errorf("%w: for block %d", ErrMissingBlockHash, number)
	}

	header, err := p.relay.Header(ctx, hash)
	if err != nil {
		return types.Header{}, fmt.Errorf("getting header %s: %w", hash, err)
	}
	if uint32(header.Number) != number {
		return types.Header{}, fmt.Errorf("%w: header %s has number %d instead of %d",
			ErrMissingHeader, hash, header.Number, number)
	}
	return header, nil
}

// QueryParachainHeadersWithFinalityProof returns a finality proof from
// previousFinalized to latestFinalized together with proofs for each
// requested parachain header whose head was updated on the relay chain
// in that range. Any collaborator failure aborts the whole assembly.
func (p *Prover) QueryParachainHeadersWithFinalityProof(ctx context.Context,
	previousFinalized, latestFinalized uint32, headerNumbers []uint32) (
	result grandpa.ParachainHeadersWithFinalityProof, err error) {
	finalityProof, err := p.QueryFinalityProof(ctx, previousFinalized, latestFinalized, nil)
	if err != nil {
		return result, fmt.Errorf("querying finality proof: %w", err)
	}

	start, err := p.relay.BlockHash(ctx, previousFinalized)
	if err != nil {
		return result, fmt.Errorf("getting hash of block %d: %w", previousFinalized, err)
	}

	key := grandpa.ParaHeadStorageKey(p.paraID)
	changeSets, err := p.relay.QueryStorageChanges(ctx, [][]byte{key}, start, finalityProof.Block)
	if err != nil {
		return result, fmt.Errorf("querying parachain head changes: %w", err)
	}

	requested := make(map[uint32]struct{}, len(headerNumbers))
	for _, number := range headerNumbers {
		requested[number] = struct{}{}
	}

	parachainHeaders := make(map[common.Hash]grandpa.ParachainHeaderProofs)
	var latestParaHeight uint32
	for _, changeSet := range changeSets {
		for _, change := range changeSet.Changes {
			if !bytes.Equal(change.Key, key) || change.Value == nil {
				continue
			}

			header, err := grandpa.DecodeParaHead(change.Value)
			if err != nil {
				return result, fmt.Errorf("at relay block %s: %w", changeSet.Block, err)
			}

			number := uint32(header.Number)
			if number == 0 {
				continue
			}
			if _, ok := requested[number]; !ok {
				continue
			}

			proofs, err := p.parachainHeaderProofs(ctx, key, changeSet.Block, header)
			if err != nil {
				return result, err
			}
			parachainHeaders[changeSet.Block] = proofs

			if number > latestParaHeight {
				latestParaHeight = number
			}
		}
	}

	p.logger.Debugf("assembled %d parachain header proofs up to parachain block %d, finalized relay block %s",
		len(parachainHeaders), latestParaHeight, finalityProof.Block)

	return grandpa.ParachainHeadersWithFinalityProof{
		FinalityProof:    finalityProof,
		ParachainHeaders: parachainHeaders,
		LatestParaHeight: latestParaHeight,
	}, nil
}

func (p *Prover) parachainHeaderProofs(ctx context.Context, key []byte,
	relayBlock common.Hash, header types.Header) (
	proofs grandpa.ParachainHeaderProofs, err error) {
	stateProof, err := p.relay.ReadProof(ctx, [][]byte{key}, relayBlock)
	if err != nil {
		return proofs, fmt.Errorf("reading parachain head proof at %s: %w", relayBlock, err)
	}

	paraHash, err := grandpa.HeaderHash(header)
	if err != nil {
		return proofs, fmt.Errorf("hashing parachain header: %w", err)
	}

	extrinsic, extrinsicProof, err := p.para.TimestampExtrinsicWithProof(ctx, paraHash)
	if err != nil {
		return proofs, fmt.Errorf("getting timestamp extrinsic of parachain block %s: %w",
			paraHash, err)
	}

	return grandpa.ParachainHeaderProofs{
		StateProof:     stateProof,
		Extrinsic:      extrinsic,
		ExtrinsicProof: extrinsicProof,
	}, nil
}
