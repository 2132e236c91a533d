// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package substrate

import (
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

// timestampIndex is the position of the timestamp inherent among the
// extrinsics of a parachain block.
const timestampIndex = 0

// extrinsicWithProof returns the timestamp inherent of the block
// extrinsics and its proof against the extrinsics root.
func extrinsicWithProof(extrinsics [][]byte, extrinsicsRoot common.Hash,
	version trie.Version) (extrinsic []byte, proof [][]byte, err error) {
	if len(extrinsics) <= timestampIndex {
		return nil, nil, fmt.Errorf("%w: block has no extrinsics", ErrTimestampNotFound)
	}
	_, err = grandpa.DecodeTimestampExtrinsic(extrinsics[timestampIndex])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrTimestampNotFound, err)
	}

	extrinsicsTrie, err := trie.NewOrderedTrie(version, extrinsics)
	if err != nil {
		return nil, nil, fmt.Errorf("building extrinsics trie: %w", err)
	}

	root, err := extrinsicsTrie.Hash()
	if err != nil {
		return nil, nil, fmt.Errorf("hashing extrinsics trie: %w", err)
	}
	if root != extrinsicsRoot {
		return nil, nil, fmt.Errorf("%w: computed %s, header has %s",
			ErrExtrinsicsRootMismatch, root, extrinsicsRoot)
	}

	key, err := trie.OrderedKey(timestampIndex)
	if err != nil {
		return nil, nil, err
	}
	proof, err = extrinsicsTrie.GenerateProof([][]byte{key})
	if err != nil {
		return nil, nil, fmt.Errorf("generating extrinsic proof: %w", err)
	}
	return extrinsics[timestampIndex], proof, nil
}
