// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package simulated provides an in-memory relay chain with one parachain,
// finalized by GRANDPA voters, serving the prover collaborator interfaces.
package simulated

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto/ed25519"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa/prover"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

// TimestampCallIndex is the call index of the parachain timestamp inherent.
var TimestampCallIndex = [2]byte{3, 0}

const (
	// GenesisTimestampMs is the timestamp of the parachain genesis block.
	GenesisTimestampMs = 1_600_000_000_000
	// BlockTimeMs is the time between two parachain blocks.
	BlockTimeMs = 12_000
)

// ParaTimestampNs returns the timestamp of a parachain block in nanoseconds.
func ParaTimestampNs(paraNumber uint32) uint64 {
	return (GenesisTimestampMs + uint64(paraNumber)*BlockTimeMs) * 1_000_000
}

type relayBlock struct {
	header    types.Header
	hash      common.Hash
	state     *trie.Trie
	justified []byte
}

type paraBlock struct {
	header     types.Header
	extrinsics *trie.Trie
	timestamp  []byte
}

// epoch is an authority set and the block after which it finalizes.
type epoch struct {
	voters    []*ed25519.Keypair
	setID     uint64
	enactedAt uint32
}

// Network is an in-memory relay chain and parachain. It implements
// prover.RelayChain and prover.Parachain and is safe for concurrent use.
type Network struct {
	mutex      sync.RWMutex
	paraID     uint32
	epochs     []epoch
	round      uint64
	relay      []relayBlock
	relayIndex map[common.Hash]int
	para       map[common.Hash]paraBlock
	paraHead   types.Header
	finalized  uint32
	pending    types.Digest
}

var (
	_ prover.RelayChain = (*Network)(nil)
	_ prover.Parachain  = (*Network)(nil)
)

// NewNetwork creates a network holding the relay chain and parachain genesis
// blocks, finalized by voterCount voters of weight 1 in set 0.
func NewNetwork(paraID uint32, voterCount int) (*Network, error) {
	voters, err := newVoters(1, voterCount)
	if err != nil {
		return nil, err
	}

	n := &Network{
		paraID:     paraID,
		epochs:     []epoch{{voters: voters}},
		relayIndex: make(map[common.Hash]int),
		para:       make(map[common.Hash]paraBlock),
	}

	n.paraHead, err = n.newParaBlock(types.Header{Digest: types.Digest{}}, 0)
	if err != nil {
		return nil, fmt.Errorf("creating parachain genesis: %w", err)
	}

	err = n.appendRelayBlock()
	if err != nil {
		return nil, fmt.Errorf("creating relay chain genesis: %w", err)
	}
	return n, nil
}

func newVoters(firstSeed, count int) ([]*ed25519.Keypair, error) {
	voters := make([]*ed25519.Keypair, count)
	for i := range voters {
		seed := bytes.Repeat([]byte{byte(firstSeed + i)}, ed25519.SeedLength)
		keypair, err := ed25519.NewKeypairFromSeed(seed)
		if err != nil {
			return nil, err
		}
		voters[i] = keypair
	}
	return voters, nil
}

func authorityList(voters []*ed25519.Keypair) grandpa.AuthorityList {
	authorities := make(grandpa.AuthorityList, len(voters))
	for i, voter := range voters {
		copy(authorities[i].Key[:], voter.Public().Encode())
		authorities[i].Weight = 1
	}
	return authorities
}

// ParaID returns the parachain id.
func (n *Network) ParaID() uint32 { return n.paraID }

// Authorities returns the authority list and set id finalizing the block number.
func (n *Network) Authorities(number uint32) (grandpa.AuthorityList, uint64) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	e := n.epochAt(number)
	return authorityList(e.voters), e.setID
}

func (n *Network) epochAt(number uint32) epoch {
	current := n.epochs[0]
	for _, e := range n.epochs[1:] {
		if number > e.enactedAt {
			current = e
		}
	}
	return current
}

// BestNumber returns the number of the best relay chain block.
func (n *Network) BestNumber() uint32 {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return uint32(len(n.relay) - 1)
}

// ParaHeight returns the number of the best parachain block.
func (n *Network) ParaHeight() uint32 {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return uint32(n.paraHead.Number)
}

// RelayHeader returns the relay chain header and hash at the block number.
func (n *Network) RelayHeader(number uint32) (types.Header, common.Hash, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	if int(number) >= len(n.relay) {
		return types.Header{}, common.Hash{}, fmt.Errorf("%w: number %d", ErrUnknownBlock, number)
	}
	block := n.relay[number]
	return block.header, block.hash, nil
}

// AddRelayBlocks appends count relay chain blocks. If advancePara is true,
// each block includes a new parachain block.
func (n *Network) AddRelayBlocks(count int, advancePara bool) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	for i := 0; i < count; i++ {
		if advancePara {
			header, err := n.newParaBlock(n.paraHead, uint32(n.paraHead.Number)+1)
			if err != nil {
				return err
			}
			n.paraHead = header
		}

		err := n.appendRelayBlock()
		if err != nil {
			return err
		}
	}
	return nil
}

// ScheduleAuthorityChange signals in the next relay chain block a change
// to voterCount new voters, enacted delay blocks later. Blocks above the
// enactment block are finalized by the new set.
func (n *Network) ScheduleAuthorityChange(voterCount int, delay uint32) (
	grandpa.AuthorityList, error) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	last := n.epochs[len(n.epochs)-1]
	voters, err := newVoters(1+(len(n.epochs))*32, voterCount)
	if err != nil {
		return nil, err
	}

	authorities := authorityList(voters)
	item, err := grandpa.NewScheduledChangeDigest(authorities, delay)
	if err != nil {
		return nil, err
	}
	n.pending = append(n.pending, item)

	signalNumber := uint32(len(n.relay))
	n.epochs = append(n.epochs, epoch{
		voters:    voters,
		setID:     last.setID + 1,
		enactedAt: signalNumber + delay,
	})
	return authorities, nil
}

// Finalize finalizes the relay chain block number with a justification
// signed by the first signers voters of the authority set in charge. If
// the block has a child and there are several signers, the last one votes
// for the child.
func (n *Network) Finalize(number uint32, signers int) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if int(number) >= len(n.relay) {
		return fmt.Errorf("%w: number %d", ErrUnknownBlock, number)
	}

	e := n.epochAt(number)
	if signers > len(e.voters) {
		return fmt.Errorf("%w: %d signers for %d voters", ErrNotEnoughVoters, signers, len(e.voters))
	}

	n.round++
	target := n.relay[number]
	justification := grandpa.Justification{
		Round: n.round,
		Commit: grandpa.Commit{
			TargetHash:   target.hash,
			TargetNumber: number,
		},
		VotesAncestries: []types.Header{},
	}

	for i, voter := range e.voters[:signers] {
		precommit := grandpa.Precommit{
			TargetHash:   target.hash,
			TargetNumber: number,
		}
		if i > 0 && i == signers-1 && int(number)+1 < len(n.relay) {
			child := n.relay[number+1]
			precommit = grandpa.Precommit{
				TargetHash:   child.hash,
				TargetNumber: number + 1,
			}
			justification.VotesAncestries = append(justification.VotesAncestries, child.header)
		}

		signed, err := signPrecommit(voter, precommit, n.round, e.setID)
		if err != nil {
			return err
		}
		justification.Commit.Precommits = append(justification.Commit.Precommits, signed)
	}

	encoded, err := justification.Encode()
	if err != nil {
		return fmt.Errorf("encoding justification: %w", err)
	}
	n.relay[number].justified = encoded
	if number > n.finalized {
		n.finalized = number
	}
	return nil
}

func signPrecommit(voter *ed25519.Keypair, precommit grandpa.Precommit,
	round, setID uint64) (signed grandpa.SignedPrecommit, err error) {
	msg, err := grandpa.PrecommitPayload(precommit, round, setID)
	if err != nil {
		return signed, err
	}
	sig, err := voter.Sign(msg)
	if err != nil {
		return signed, fmt.Errorf("signing precommit: %w", err)
	}

	signed.Precommit = precommit
	copy(signed.Signature[:], sig)
	copy(signed.ID[:], voter.Public().Encode())
	return signed, nil
}

func (n *Network) newParaBlock(parent types.Header, number uint32) (types.Header, error) {
	extrinsic, err := grandpa.EncodeTimestampExtrinsic(TimestampCallIndex,
		GenesisTimestampMs+uint64(number)*BlockTimeMs)
	if err != nil {
		return types.Header{}, err
	}

	extrinsics, err := trie.NewOrderedTrie(trie.V0, [][]byte{extrinsic})
	if err != nil {
		return types.Header{}, err
	}
	extrinsicsRoot, err := extrinsics.Hash()
	if err != nil {
		return types.Header{}, err
	}

	var parentHash common.Hash
	if number > 0 {
		parentHash, err = grandpa.HeaderHash(parent)
		if err != nil {
			return types.Header{}, err
		}
	}

	header := types.Header{
		ParentHash:     types.Hash(parentHash),
		Number:         types.BlockNumber(number),
		StateRoot:      types.Hash(common.MustBlake2bHash([]byte{byte(number), byte(number >> 8)})),
		ExtrinsicsRoot: types.Hash(extrinsicsRoot),
		Digest:         types.Digest{},
	}
	hash, err := grandpa.HeaderHash(header)
	if err != nil {
		return types.Header{}, err
	}

	n.para[hash] = paraBlock{
		header:     header,
		extrinsics: extrinsics,
		timestamp:  extrinsic,
	}
	return header, nil
}

func (n *Network) appendRelayBlock() error {
	number := uint32(len(n.relay))

	paraHead, err := grandpa.EncodeParaHead(n.paraHead)
	if err != nil {
		return err
	}

	state := trie.NewTrie(trie.V1)
	state.Put(grandpa.ParaHeadStorageKey(n.paraID), paraHead)
	state.Put([]byte(":relay_number"), []byte{byte(number), byte(number >> 8)})
	stateRoot, err := state.Hash()
	if err != nil {
		return err
	}

	var parentHash common.Hash
	if number > 0 {
		parentHash = n.relay[number-1].hash
	}

	digest := n.pending
	if digest == nil {
		digest = types.Digest{}
	}
	n.pending = nil

	header := types.Header{
		ParentHash:     types.Hash(parentHash),
		Number:         types.BlockNumber(number),
		StateRoot:      types.Hash(stateRoot),
		ExtrinsicsRoot: types.Hash(trie.EmptyHash),
		Digest:         digest,
	}
	hash, err := grandpa.HeaderHash(header)
	if err != nil {
		return err
	}

	n.relay = append(n.relay, relayBlock{
		header: header,
		hash:   hash,
		state:  state,
	})
	n.relayIndex[hash] = int(number)
	return nil
}
