// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package simulated

import (
	"bytes"
	"context"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa/prover"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

// FinalizedHead returns the hash of the latest finalized relay chain block.
func (n *Network) FinalizedHead(context.Context) (common.Hash, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.relay[n.finalized].hash, nil
}

// Header returns the relay chain header with the given hash.
func (n *Network) Header(_ context.Context, hash common.Hash) (types.Header, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	index, ok := n.relayIndex[hash]
	if !ok {
		return types.Header{}, fmt.Errorf("%w: %s", ErrUnknownBlock, hash)
	}
	return n.relay[index].header, nil
}

// BlockHash returns the hash of the relay chain block number, or the
// empty hash if there is no such block.
func (n *Network) BlockHash(_ context.Context, number uint32) (common.Hash, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	if int(number) >= len(n.relay) {
		return common.Hash{}, nil
	}
	return n.relay[number].hash, nil
}

// ProveFinality returns the encoded finality proof of the first justified
// block at or above the block number, or nil if there is none.
func (n *Network) ProveFinality(_ context.Context, number uint32) ([]byte, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	for i := int(number); i < len(n.relay); i++ {
		block := n.relay[i]
		if block.justified == nil {
			continue
		}

		headers := make([]types.Header, 0, i-int(number)+1)
		for j := int(number); j <= i; j++ {
			headers = append(headers, n.relay[j].header)
		}
		return codec.Encode(grandpa.FinalityProof{
			Block:          block.hash,
			Justification:  block.justified,
			UnknownHeaders: headers,
		})
	}
	return nil, nil
}

// QueryStorageChanges returns the values of the keys at the from block and
// their changes in each following block up to the to block.
func (n *Network) QueryStorageChanges(_ context.Context, keys [][]byte,
	from, to common.Hash) ([]prover.StorageChangeSet, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	start, ok := n.relayIndex[from]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, from)
	}
	end, ok := n.relayIndex[to]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, to)
	}
	if start > end {
		return nil, fmt.Errorf("%w: from %d to %d", ErrInvalidRange, start, end)
	}

	var changeSets []prover.StorageChangeSet
	for i := start; i <= end; i++ {
		block := n.relay[i]
		changeSet := prover.StorageChangeSet{Block: block.hash}
		for _, key := range keys {
			value := block.state.Get(key)
			if i > start && bytes.Equal(value, n.relay[i-1].state.Get(key)) {
				continue
			}
			changeSet.Changes = append(changeSet.Changes, prover.StorageChange{
				Key:   bytes.Clone(key),
				Value: value,
			})
		}

		if len(changeSet.Changes) > 0 {
			changeSets = append(changeSets, changeSet)
		}
	}
	return changeSets, nil
}

// ReadProof returns the proof of the keys in the state of the relay chain block.
func (n *Network) ReadProof(_ context.Context, keys [][]byte, at common.Hash) ([][]byte, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	index, ok := n.relayIndex[at]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, at)
	}
	return n.relay[index].state.GenerateProof(keys)
}

// TimestampExtrinsicWithProof returns the timestamp extrinsic of the
// parachain block and its proof against the extrinsics root.
func (n *Network) TimestampExtrinsicWithProof(_ context.Context, at common.Hash) (
	extrinsic []byte, proof [][]byte, err error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	block, ok := n.para[at]
	if !ok {
		return nil, nil, fmt.Errorf("%w: parachain block %s", ErrUnknownBlock, at)
	}

	key, err := trie.OrderedKey(0)
	if err != nil {
		return nil, nil, err
	}
	proof, err = block.extrinsics.GenerateProof([][]byte{key})
	if err != nil {
		return nil, nil, fmt.Errorf("generating extrinsic proof: %w", err)
	}
	return bytes.Clone(block.timestamp), proof, nil
}

// Storage returns the value of the key in the state of the relay chain block.
func (n *Network) Storage(_ context.Context, key []byte, at common.Hash) ([]byte, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	index, ok := n.relayIndex[at]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, at)
	}
	return n.relay[index].state.Get(key), nil
}

// GrandpaAuthorities returns the authorities and set id finalizing the
// blocks after the relay chain block.
func (n *Network) GrandpaAuthorities(_ context.Context, at common.Hash) (
	grandpa.AuthorityList, uint64, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	index, ok := n.relayIndex[at]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownBlock, at)
	}
	e := n.epochAt(uint32(index) + 1)
	return authorityList(e.voters), e.setID, nil
}
