// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

var (
	ErrDecodeHashedValueTooShort = errors.New("hashed storage value too short")
	ErrReadChildrenBitmap        = errors.New("cannot read children bitmap")
	ErrDecodeChildHash           = errors.New("cannot decode child hash")
	ErrDecodeStorageValue        = errors.New("cannot decode storage value")
	ErrCompactEncoding           = errors.New("compact encoded nodes are not supported")
	ErrValueTooLarge             = errors.New("value exceeds maximum length")
	ErrChildTooLarge             = errors.New("child merkle value exceeds hash length")
	ErrBranchWithoutChildren     = errors.New("branch has no children")
	ErrTrailingBytes             = errors.New("trailing bytes after node encoding")
)

// maxValueLength bounds byte strings read from attacker supplied encodings.
const maxValueLength = 1 << 24

// DecodeBytes decodes a full node encoding and rejects trailing data.
func DecodeBytes(encoded []byte) (n Node, err error) {
	reader := bytes.NewReader(encoded)
	n, err = Decode(reader)
	if err != nil {
		return Node{}, err
	}
	if reader.Len() != 0 {
		return Node{}, fmt.Errorf("%w: %d bytes left", ErrTrailingBytes, reader.Len())
	}
	return n, nil
}

// Decode decodes a node from a reader.
// See https://spec.polkadot.network/chap-state#defn-node-header
func Decode(reader io.Reader) (n Node, err error) {
	nodeVariant, partialKeyLength, err := decodeHeader(reader)
	if err != nil {
		return Node{}, fmt.Errorf("decoding header: %w", err)
	}

	switch nodeVariant {
	case emptyVariant:
		return Node{Kind: Empty}, nil
	case compactEncodingVariant:
		return Node{}, ErrCompactEncoding
	}

	partialKey, err := decodeKey(reader, partialKeyLength)
	if err != nil {
		return Node{}, fmt.Errorf("cannot decode key: %w", err)
	}

	switch nodeVariant {
	case leafVariant, leafWithHashedValueVariant:
		n, err = decodeLeaf(reader, nodeVariant, partialKey)
		if err != nil {
			return Node{}, fmt.Errorf("cannot decode leaf: %w", err)
		}
		return n, nil
	default:
		n, err = decodeBranch(reader, nodeVariant, partialKey)
		if err != nil {
			return Node{}, fmt.Errorf("cannot decode branch: %w", err)
		}
		return n, nil
	}
}

func decodeKey(reader io.Reader, partialKeyLength uint16) (nibbles []byte, err error) {
	if partialKeyLength == 0 {
		return []byte{}, nil
	}

	key := make([]byte, partialKeyLength/2+partialKeyLength%2)
	_, err = io.ReadFull(reader, key)
	if err != nil {
		return nil, fmt.Errorf("reading from reader: %w", err)
	}

	nibbles = KeyToNibbles(key)
	return nibbles[partialKeyLength%2:], nil
}

// decodeBranch decodes a branch without decoding its children.
func decodeBranch(reader io.Reader, nodeVariant variant, partialKey []byte) (
	node Node, err error) {
	node = Node{
		Kind:       Branch,
		PartialKey: partialKey,
	}

	childrenBitmap := make([]byte, 2)
	_, err = io.ReadFull(reader, childrenBitmap)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %s", ErrReadChildrenBitmap, err)
	}

	switch nodeVariant {
	case branchWithValueVariant:
		node.Value, err = decodeByteArray(reader)
		if err != nil {
			return Node{}, fmt.Errorf("%w: %s", ErrDecodeStorageValue, err)
		}
	case branchWithHashedValueVariant:
		node.Value, err = decodeHashedValue(reader)
		if err != nil {
			return Node{}, err
		}
		node.HashedValue = true
	}

	for i := 0; i < ChildrenCapacity; i++ {
		if (childrenBitmap[i/8]>>(i%8))&1 != 1 {
			continue
		}

		child, err := decodeByteArray(reader)
		if err != nil {
			return Node{}, fmt.Errorf("%w: at index %d: %s",
				ErrDecodeChildHash, i, err)
		} else if len(child) > common.HashLength {
			return Node{}, fmt.Errorf("%w: at index %d: %d bytes",
				ErrChildTooLarge, i, len(child))
		}
		node.Children[i] = child
	}

	if node.NumChildren() == 0 {
		return Node{}, ErrBranchWithoutChildren
	}

	return node, nil
}

func decodeLeaf(reader io.Reader, nodeVariant variant, partialKey []byte) (node Node, err error) {
	node = Node{
		Kind:       Leaf,
		PartialKey: partialKey,
	}

	if nodeVariant == leafWithHashedValueVariant {
		node.Value, err = decodeHashedValue(reader)
		if err != nil {
			return Node{}, err
		}
		node.HashedValue = true
		return node, nil
	}

	node.Value, err = decodeByteArray(reader)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %s", ErrDecodeStorageValue, err)
	}

	return node, nil
}

func decodeHashedValue(reader io.Reader) ([]byte, error) {
	buffer := make([]byte, common.HashLength)
	n, err := io.ReadFull(reader, buffer)
	if err != nil {
		return nil, fmt.Errorf("%w: expected %d, got: %d: %s",
			ErrDecodeHashedValueTooShort, common.HashLength, n, err)
	}

	return buffer, nil
}

// decodeByteArray reads a SCALE compact length prefixed byte array.
// The returned slice is never nil.
func decodeByteArray(reader io.Reader) ([]byte, error) {
	length, err := common.DecodeCompact(scale.NewDecoder(reader))
	if err != nil {
		return nil, fmt.Errorf("decoding length: %w", err)
	}

	if length > maxValueLength {
		return nil, fmt.Errorf("%w: %d", ErrValueTooLarge, length)
	}

	data := make([]byte, length)
	_, err = io.ReadFull(reader, data)
	if err != nil {
		return nil, fmt.Errorf("reading %d bytes: %w", len(data), err)
	}
	return data, nil
}
