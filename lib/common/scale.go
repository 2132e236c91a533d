// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

var (
	// ErrDecodeScale wraps every failure to decode SCALE encoded bytes.
	ErrDecodeScale = errors.New("cannot decode scale")
	// ErrCompactOverflow is returned when a compact integer does not fit in 64 bits.
	ErrCompactOverflow = errors.New("compact integer overflows uint64")
)

// DecodeScale decodes the SCALE encoded bytes into the target pointer.
// The decoder of go-substrate-rpc-client panics on some truncated vector
// lengths; such panics are returned as errors wrapping ErrDecodeScale.
func DecodeScale(encoded []byte, target interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrDecodeScale, r)
		}
	}()

	err = codec.Decode(encoded, target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeScale, err)
	}
	return nil
}

// DecodeCompact reads a compact encoded unsigned integer from the decoder.
// Unlike scale.Decoder.DecodeUintCompact, it fails on an exhausted input.
func DecodeCompact(decoder *scale.Decoder) (value uint64, err error) {
	first, err := decoder.ReadOneByte()
	if err != nil {
		return 0, fmt.Errorf("%w: reading compact prefix: %w", ErrDecodeScale, err)
	}

	switch first & 0b11 {
	case 0b00:
		return uint64(first >> 2), nil
	case 0b01:
		second, err := decoder.ReadOneByte()
		if err != nil {
			return 0, fmt.Errorf("%w: reading two byte compact: %w", ErrDecodeScale, err)
		}
		return uint64(second)<<6 | uint64(first>>2), nil
	case 0b10:
		buffer := []byte{first, 0, 0, 0}
		err = decoder.Read(buffer[1:])
		if err != nil {
			return 0, fmt.Errorf("%w: reading four byte compact: %w", ErrDecodeScale, err)
		}
		return uint64(binary.LittleEndian.Uint32(buffer) >> 2), nil
	default:
		length := int(first>>2) + 4
		if length > 8 {
			return 0, fmt.Errorf("%w: %w: %d bytes", ErrDecodeScale, ErrCompactOverflow, length)
		}
		buffer := make([]byte, 8)
		err = decoder.Read(buffer[:length])
		if err != nil {
			return 0, fmt.Errorf("%w: reading %d byte compact: %w", ErrDecodeScale, length, err)
		}
		return binary.LittleEndian.Uint64(buffer), nil
	}
}
