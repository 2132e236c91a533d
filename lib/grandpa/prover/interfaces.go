// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package prover

import (
	"context"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

// StorageChange is a storage value change. Value is nil if the key was removed.
type StorageChange struct {
	Key   []byte
	Value []byte
}

// StorageChangeSet lists the storage changes of a block.
type StorageChangeSet struct {
	Block   common.Hash
	Changes []StorageChange
}

// RelayChain is the relay chain RPC collaborator.
type RelayChain interface {
	FinalizedHead(ctx context.Context) (common.Hash, error)
	Header(ctx context.Context, hash common.Hash) (types.Header, error)
	BlockHash(ctx context.Context, number uint32) (common.Hash, error)
	// ProveFinality returns the encoded finality proof for the block
	// number, or nil if the node has none.
	ProveFinality(ctx context.Context, number uint32) ([]byte, error)
	QueryStorageChanges(ctx context.Context, keys [][]byte,
		from, to common.Hash) ([]StorageChangeSet, error)
	ReadProof(ctx context.Context, keys [][]byte, at common.Hash) ([][]byte, error)
}

// Parachain is the parachain RPC collaborator.
type Parachain interface {
	// TimestampExtrinsicWithProof returns the timestamp extrinsic of the
	// parachain block and its proof against the block extrinsics root.
	TimestampExtrinsicWithProof(ctx context.Context, at common.Hash) (
		extrinsic []byte, proof [][]byte, err error)
}
