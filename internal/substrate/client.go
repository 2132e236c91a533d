// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package substrate adapts the go-substrate-rpc-client API to the relay
// chain and parachain collaborators of the finality proof prover.
package substrate

import (
	"context"
	"fmt"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/internal/log"
	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa/prover"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "substrate"))

// rpcCaller is the raw JSON-RPC call surface of the substrate client.
type rpcCaller interface {
	Call(result interface{}, method string, args ...interface{}) error
}

// Client is a substrate node RPC client serving both the relay chain and
// the parachain collaborator interfaces.
type Client struct {
	api          *gsrpc.SubstrateAPI
	caller       rpcCaller
	stateVersion trie.Version
	logger       log.LeveledLogger
}

var (
	_ prover.RelayChain = (*Client)(nil)
	_ prover.Parachain  = (*Client)(nil)
)

// Dial connects to the substrate node at the websocket or http url.
// The state version is the trie layout of the node extrinsics tries.
func Dial(url string, stateVersion trie.Version) (*Client, error) {
	api, err := gsrpc.NewSubstrateAPI(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}

	logger.Debugf("connected to substrate node at %s", url)
	return &Client{
		api:          api,
		caller:       api.Client,
		stateVersion: stateVersion,
		logger:       logger,
	}, nil
}

// call runs the blocking RPC function, returning early if the context is done.
func call[T any](ctx context.Context, f func() (T, error)) (result T, err error) {
	err = ctx.Err()
	if err != nil {
		return result, err
	}

	type outcome struct {
		result T
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := f()
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return result, ctx.Err()
	case o := <-done:
		return o.result, o.err
	}
}

// FinalizedHead returns the hash of the latest finalized block.
func (c *Client) FinalizedHead(ctx context.Context) (common.Hash, error) {
	hash, err := call(ctx, c.api.RPC.Chain.GetFinalizedHead)
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(hash), nil
}

// Header returns the header of the block with the given hash.
func (c *Client) Header(ctx context.Context, hash common.Hash) (types.Header, error) {
	header, err := call(ctx, func() (*types.Header, error) {
		return c.api.RPC.Chain.GetHeader(types.Hash(hash))
	})
	if err != nil {
		return types.Header{}, err
	}
	if header == nil {
		return types.Header{}, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
	}
	return *header, nil
}

// BlockHash returns the hash of the canonical block with the given number.
func (c *Client) BlockHash(ctx context.Context, number uint32) (common.Hash, error) {
	hash, err := call(ctx, func() (types.Hash, error) {
		return c.api.RPC.Chain.GetBlockHash(uint64(number))
	})
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(hash), nil
}

// ProveFinality returns the encoded finality proof for the block number,
// or nil if the node has none.
func (c *Client) ProveFinality(ctx context.Context, number uint32) ([]byte, error) {
	encoded, err := call(ctx, func() (*string, error) {
		var result *string
		err := c.caller.Call(&result, "grandpa_proveFinality", number)
		return result, err
	})
	if err != nil {
		return nil, err
	}
	if encoded == nil {
		return nil, nil
	}
	return codec.HexDecodeString(*encoded)
}

// QueryStorageChanges returns the changes of the storage keys from the
// from block up to the to block, with the values at the from block first.
func (c *Client) QueryStorageChanges(ctx context.Context, keys [][]byte,
	from, to common.Hash) ([]prover.StorageChangeSet, error) {
	storageKeys := make([]types.StorageKey, len(keys))
	for i, key := range keys {
		storageKeys[i] = types.NewStorageKey(key)
	}

	changeSets, err := call(ctx, func() ([]types.StorageChangeSet, error) {
		return c.api.RPC.State.QueryStorage(storageKeys, types.Hash(from), types.Hash(to))
	})
	if err != nil {
		return nil, err
	}

	result := make([]prover.StorageChangeSet, len(changeSets))
	for i, changeSet := range changeSets {
		result[i].Block = common.Hash(changeSet.Block)
		result[i].Changes = make([]prover.StorageChange, len(changeSet.Changes))
		for j, change := range changeSet.Changes {
			result[i].Changes[j].Key = change.StorageKey
			if change.HasStorageData {
				result[i].Changes[j].Value = []byte(change.StorageData)
			}
		}
	}
	return result, nil
}

type readProof struct {
	At    string   `json:"at"`
	Proof []string `json:"proof"`
}

// ReadProof returns the storage proof of the keys at the given block.
func (c *Client) ReadProof(ctx context.Context, keys [][]byte, at common.Hash) ([][]byte, error) {
	hexKeys := make([]string, len(keys))
	for i, key := range keys {
		hexKeys[i] = codec.HexEncodeToString(key)
	}

	result, err := call(ctx, func() (readProof, error) {
		var result readProof
		err := c.caller.Call(&result, "state_getReadProof", hexKeys, codec.HexEncodeToString(at[:]))
		return result, err
	})
	if err != nil {
		return nil, err
	}

	return decodeHexList(result.Proof)
}

// Storage returns the raw storage value of the key at the given block,
// or nil if the key is not set.
func (c *Client) Storage(ctx context.Context, key []byte, at common.Hash) ([]byte, error) {
	value, err := call(ctx, func() (*types.StorageDataRaw, error) {
		return c.api.RPC.State.GetStorageRaw(types.NewStorageKey(key), types.Hash(at))
	})
	if err != nil {
		return nil, err
	}
	if value == nil || len(*value) == 0 {
		return nil, nil
	}
	return []byte(*value), nil
}

// currentSetIDKey is the storage key of Grandpa::CurrentSetId.
func currentSetIDKey() ([]byte, error) {
	pallet, err := common.Twox128Hash([]byte("Grandpa"))
	if err != nil {
		return nil, err
	}
	item, err := common.Twox128Hash([]byte("CurrentSetId"))
	if err != nil {
		return nil, err
	}
	return append(pallet, item...), nil
}

// GrandpaAuthorities returns the GRANDPA authorities and set id in the
// state of the given block.
func (c *Client) GrandpaAuthorities(ctx context.Context, at common.Hash) (
	authorities grandpa.AuthorityList, setID uint64, err error) {
	encoded, err := call(ctx, func() (string, error) {
		var result string
		err := c.caller.Call(&result, "state_call", "GrandpaApi_grandpa_authorities",
			"0x", codec.HexEncodeToString(at[:]))
		return result, err
	})
	if err != nil {
		return nil, 0, err
	}
	authoritiesBytes, err := codec.HexDecodeString(encoded)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding authorities hex at %s: %w", at, err)
	}
	err = common.DecodeScale(authoritiesBytes, &authorities)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding authorities at %s: %w", at, err)
	}

	key, err := currentSetIDKey()
	if err != nil {
		return nil, 0, err
	}
	value, err := c.Storage(ctx, key, at)
	if err != nil {
		return nil, 0, fmt.Errorf("getting set id at %s: %w", at, err)
	}
	if value != nil {
		err = common.DecodeScale(value, &setID)
		if err != nil {
			return nil, 0, fmt.Errorf("decoding set id at %s: %w", at, err)
		}
	}

	c.logger.Debugf("block %s has %d grandpa authorities in set %d", at, len(authorities), setID)
	return authorities, setID, nil
}

type rawBlock struct {
	Block struct {
		Header     types.Header `json:"header"`
		Extrinsics []string     `json:"extrinsics"`
	} `json:"block"`
}

// TimestampExtrinsicWithProof returns the timestamp inherent of the block
// and its proof against the block extrinsics root.
func (c *Client) TimestampExtrinsicWithProof(ctx context.Context, at common.Hash) (
	extrinsic []byte, proof [][]byte, err error) {
	block, err := call(ctx, func() (*rawBlock, error) {
		var result *rawBlock
		err := c.caller.Call(&result, "chain_getBlock", codec.HexEncodeToString(at[:]))
		return result, err
	})
	if err != nil {
		return nil, nil, err
	}
	if block == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrBlockNotFound, at)
	}

	extrinsics, err := decodeHexList(block.Block.Extrinsics)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding extrinsics of block %s: %w", at, err)
	}

	return extrinsicWithProof(extrinsics, common.Hash(block.Block.Header.ExtrinsicsRoot), c.stateVersion)
}

func decodeHexList(values []string) ([][]byte, error) {
	decoded := make([][]byte, len(values))
	for i, value := range values {
		b, err := codec.HexDecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		decoded[i] = b
	}
	return decoded, nil
}
