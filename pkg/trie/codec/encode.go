// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

var (
	ErrHashedValueLength = errors.New("hashed value must be 32 bytes")
	ErrLeafWithoutValue  = errors.New("leaf has no value")
)

// EmptyEncoding is the encoding of the empty node.
var EmptyEncoding = []byte{emptyVariant.bits}

// EncodeBytes returns the encoding of the node.
func EncodeBytes(n Node) ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	err := Encode(n, buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Encode writes the encoding of the node to the writer.
func Encode(n Node, writer io.Writer) (err error) {
	if n.Kind == Empty {
		_, err = writer.Write(EmptyEncoding)
		return err
	}

	if n.Kind == Leaf && n.Value == nil {
		return ErrLeafWithoutValue
	}

	if n.HashedValue && len(n.Value) != common.HashLength {
		return fmt.Errorf("%w: got %d bytes", ErrHashedValueLength, len(n.Value))
	}

	err = encodeHeader(n.variant(), len(n.PartialKey), writer)
	if err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}

	_, err = writer.Write(NibblesToKeyLE(n.PartialKey))
	if err != nil {
		return fmt.Errorf("writing partial key: %w", err)
	}

	if n.Kind == Branch {
		var bitmap uint16
		for i, child := range n.Children {
			if child != nil {
				bitmap |= 1 << uint(i)
			}
		}
		_, err = writer.Write([]byte{byte(bitmap), byte(bitmap >> 8)})
		if err != nil {
			return fmt.Errorf("writing children bitmap: %w", err)
		}
	}

	switch {
	case n.Value == nil:
	case n.HashedValue:
		_, err = writer.Write(n.Value)
		if err != nil {
			return fmt.Errorf("writing hashed value: %w", err)
		}
	default:
		err = encodeByteArray(n.Value, writer)
		if err != nil {
			return fmt.Errorf("encoding value: %w", err)
		}
	}

	if n.Kind != Branch {
		return nil
	}

	for i, child := range n.Children {
		if child == nil {
			continue
		}
		err = encodeByteArray(child, writer)
		if err != nil {
			return fmt.Errorf("encoding child at index %d: %w", i, err)
		}
	}

	return nil
}

func encodeByteArray(data []byte, writer io.Writer) error {
	encoder := scale.NewEncoder(writer)
	err := encoder.EncodeUintCompact(*big.NewInt(int64(len(data))))
	if err != nil {
		return err
	}
	return encoder.Write(data)
}

// MerkleValue returns the encoding itself if it is shorter than
// 32 bytes and the node is not the root, or its blake2b digest otherwise.
func MerkleValue(encoding []byte, isRoot bool) ([]byte, error) {
	if !isRoot && len(encoding) < common.HashLength {
		return encoding, nil
	}

	digest, err := common.Blake2bHash(encoding)
	if err != nil {
		return nil, err
	}
	return digest.ToBytes(), nil
}
