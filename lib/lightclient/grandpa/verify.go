// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"
	"sort"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

// verifiedHeader is the outcome of a successful header verification.
type verifiedHeader struct {
	target       common.Hash
	targetNumber uint32
	// hashes are the hashes of the relay headers not seen before, in chain order.
	hashes  []common.Hash
	changes []grandpa.AuthorityChange
	// updates are ordered by ascending height.
	updates          []exported.ConsensusUpdate
	latestParaHeight uint32
}

// VerifyClientMessage verifies a Header or a Misbehaviour against the
// current authority set.
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

func (c ClientState) verifyHeader(header Header) (verified verifiedHeader, err error) {
	proof := header.Proof.FinalityProof

	set, err := c.authoritySet()
	if err != nil {
		return verified, fmt.Errorf("%w: %w", exported.ErrInvalidClientState, err)
	}
	justification, err := grandpa.DecodeAndVerifyJustification(proof.Justification, proof.Block, set)
	if err != nil {
		return verified, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
	}
	verified.target = proof.Block
	verified.targetNumber = justification.Commit.TargetNumber

	chain, err := c.verifyHeaderChain(proof, &verified)
	if err != nil {
		return verified, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
	}

	err = c.verifyAuthorityChanges(chain, &verified)
	if err != nil {
		return verified, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
	}

	err = c.verifyParachainHeaders(header, chain, &verified)
	if err != nil {
		return verified, err
	}

	logger.Debugf("verified relay block %d (%s) with %d parachain headers up to parachain block %d",
		verified.targetNumber, verified.target, len(verified.updates), verified.latestParaHeight)
	return verified, nil
}

// verifyHeaderChain checks the unknown headers link the latest relay block
// to the finalized target and returns the linked headers by hash. The first
// unknown header may be the latest relay block itself.
func (c ClientState) verifyHeaderChain(proof grandpa.FinalityProof,
	verified *verifiedHeader) (chain map[common.Hash]types.Header, err error) {
	chain = make(map[common.Hash]types.Header, len(proof.UnknownHeaders))
	parent, parentNumber := c.LatestRelayHash, c.LatestRelayHeight

	for i, header := range proof.UnknownHeaders {
		hash, err := grandpa.HeaderHash(header)
		if err != nil {
			return nil, fmt.Errorf("hashing unknown header %d: %w", i, err)
		}
		if i == 0 && hash == c.LatestRelayHash {
			chain[hash] = header
			continue
		}

		if common.Hash(header.ParentHash) != parent || uint32(header.Number) != parentNumber+1 {
			return nil, fmt.Errorf("%w: header %d (%s) does not follow block %d (%s)",
				ErrBrokenHeaderChain, header.Number, hash, parentNumber, parent)
		}
		if c.HeaderHashes.Contains(hash) {
			return nil, fmt.Errorf("%w: %s", grandpa.ErrHeaderAlreadyProcessed, hash)
		}

		chain[hash] = header
		verified.hashes = append(verified.hashes, hash)
		parent, parentNumber = hash, uint32(header.Number)
	}

	if len(verified.hashes) == 0 {
		return nil, fmt.Errorf("%w: relay block %d is already finalized",
			exported.ErrHeightNotMonotonic, c.LatestRelayHeight)
	}
	if parent != verified.target || parentNumber != verified.targetNumber {
		return nil, fmt.Errorf("%w: chain ends at block %d (%s) instead of finalized block %d (%s)",
			ErrBrokenHeaderChain, parentNumber, parent, verified.targetNumber, verified.target)
	}
	return chain, nil
}

// verifyAuthorityChanges collects the changes signalled by the new headers
// and rejects the proof if a change is enacted below the finalized target,
// since blocks above an enacted change are finalized by the next set.
func (c ClientState) verifyAuthorityChanges(chain map[common.Hash]types.Header,
	verified *verifiedHeader) error {
	for _, hash := range verified.hashes {
		changes, err := grandpa.AuthorityChanges(chain[hash])
		if err != nil {
			return fmt.Errorf("relay block %s: %w", hash, err)
		}
		verified.changes = append(verified.changes, changes...)
	}

	for _, changes := range [][]grandpa.AuthorityChange{c.PendingChanges, verified.changes} {
		for _, change := range changes {
			if change.ActivationNumber() < uint64(verified.targetNumber) {
				return fmt.Errorf("%w: change signalled at %d is enacted at %d below finalized block %d",
					ErrSkippedAuthorityChange, change.SignalNumber, change.ActivationNumber(),
					verified.targetNumber)
			}
		}
	}
	return nil
}

// verifyParachainHeaders verifies the parachain head read proofs against
// the relay chain state and the timestamp extrinsic proofs against the
// parachain headers.
func (c ClientState) verifyParachainHeaders(header Header, chain map[common.Hash]types.Header,
	verified *verifiedHeader) error {
	if len(header.Proof.ParachainHeaders) == 0 {
		return fmt.Errorf("%w: %w", exported.ErrInvalidHeader, ErrNoParachainHeaders)
	}

	key := grandpa.ParaHeadStorageKey(c.ParaID)
	extrinsicKey, err := trie.OrderedKey(0)
	if err != nil {
		return err
	}

	seen := make(map[uint32]struct{}, len(header.Proof.ParachainHeaders))
	for _, relayHash := range header.Proof.RelayHashes() {
		relayHeader, ok := chain[relayHash]
		if !ok {
			return fmt.Errorf("%w: %w: %s", exported.ErrInvalidHeader, ErrRelayBlockNotInChain, relayHash)
		}
		proofs := header.Proof.ParachainHeaders[relayHash]

		value, err := trie.VerifyProof(proofs.StateProof, common.Hash(relayHeader.StateRoot), key)
		if err != nil {
			return fmt.Errorf("%w: %w: at relay block %s: %w",
				exported.ErrInvalidHeader, ErrParaHead, relayHash, err)
		}
		paraHeader, err := grandpa.DecodeParaHead(value)
		if err != nil {
			return fmt.Errorf("%w: %w: at relay block %s: %w",
				exported.ErrInvalidHeader, ErrParaHead, relayHash, err)
		}

		number := uint32(paraHeader.Number)
		if number <= c.LatestParaHeight {
			return fmt.Errorf("%w: parachain block %d is not above %d",
				exported.ErrHeightNotMonotonic, number, c.LatestParaHeight)
		}
		if _, ok := seen[number]; ok {
			return fmt.Errorf("%w: %w: %d", exported.ErrInvalidHeader, ErrDuplicateParaHeight, number)
		}
		seen[number] = struct{}{}

		err = trie.Verify(proofs.ExtrinsicProof, paraHeader.ExtrinsicsRoot[:], extrinsicKey, proofs.Extrinsic)
		if err != nil {
			return fmt.Errorf("%w: %w: parachain block %d: %w",
				exported.ErrInvalidHeader, ErrTimestamp, number, err)
		}
		timestampNs, err := grandpa.DecodeTimestampExtrinsic(proofs.Extrinsic)
		if err != nil {
			return fmt.Errorf("%w: %w: parachain block %d: %w",
				exported.ErrInvalidHeader, ErrTimestamp, number, err)
		}

		verified.updates = append(verified.updates, exported.ConsensusUpdate{
			Height: exported.NewHeight(uint64(c.ParaID), uint64(number)),
			State: ConsensusState{
				TimestampNs: timestampNs,
				StateRoot:   common.Hash(paraHeader.StateRoot),
			},
		})
		if number > verified.latestParaHeight {
			verified.latestParaHeight = number
		}
	}
	sortUpdates(verified.updates)

	if verified.latestParaHeight != header.Proof.LatestParaHeight {
		return fmt.Errorf("%w: %w: proof claims %d, headers reach %d", exported.ErrInvalidHeader,
			ErrLatestParaHeight, header.Proof.LatestParaHeight, verified.latestParaHeight)
	}
	if header.Height != exported.NewHeight(uint64(c.ParaID), uint64(verified.latestParaHeight)) {
		return fmt.Errorf("%w: header height %s does not match parachain %d block %d",
			exported.ErrInvalidHeight, header.Height, c.ParaID, verified.latestParaHeight)
	}
	return nil
}

func sortUpdates(updates []exported.ConsensusUpdate) {
	sort.Slice(updates, func(i, j int) bool {
		return updates[i].Height.LT(updates[j].Height)
	})
}
