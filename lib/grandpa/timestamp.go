// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

// unsignedExtrinsicVersion is the version byte of unsigned extrinsics.
const unsignedExtrinsicVersion = 0x04

const nanosecondsPerMillisecond = 1_000_000

// DecodeTimestampExtrinsic decodes the `timestamp.set` inherent of a
// parachain block and returns the timestamp in nanoseconds. The extrinsic
// is length prefixed, unsigned, and its call holds a compact millisecond
// timestamp after the two byte call index.
func DecodeTimestampExtrinsic(extrinsic []byte) (timestampNs uint64, err error) {
	reader := bytes.NewReader(extrinsic)
	decoder := scale.NewDecoder(reader)

	length, err := common.DecodeCompact(decoder)
	if err != nil {
		return 0, fmt.Errorf("%w: decoding length: %s", ErrInvalidTimestampExtrinsic, err)
	}
	if length != uint64(reader.Len()) {
		return 0, fmt.Errorf("%w: length prefix %d does not match %d remaining bytes",
			ErrInvalidTimestampExtrinsic, length, reader.Len())
	}

	header := make([]byte, 3)
	_, err = io.ReadFull(reader, header)
	if err != nil {
		return 0, fmt.Errorf("%w: reading version and call index: %s", ErrInvalidTimestampExtrinsic, err)
	}
	if header[0] != unsignedExtrinsicVersion {
		return 0, fmt.Errorf("%w: version byte 0x%x is not an unsigned extrinsic",
			ErrInvalidTimestampExtrinsic, header[0])
	}

	millis, err := common.DecodeCompact(decoder)
	if err != nil {
		return 0, fmt.Errorf("%w: decoding timestamp: %s", ErrInvalidTimestampExtrinsic, err)
	}
	if reader.Len() != 0 {
		return 0, fmt.Errorf("%w: %d trailing bytes", ErrInvalidTimestampExtrinsic, reader.Len())
	}
	if millis > math.MaxUint64/nanosecondsPerMillisecond {
		return 0, fmt.Errorf("%w: timestamp %d ms overflows", ErrInvalidTimestampExtrinsic, millis)
	}

	return millis * nanosecondsPerMillisecond, nil
}

// EncodeTimestampExtrinsic builds an unsigned timestamp extrinsic with
// the given call index and millisecond timestamp.
func EncodeTimestampExtrinsic(callIndex [2]byte, millis uint64) ([]byte, error) {
	call := bytes.NewBuffer([]byte{unsignedExtrinsicVersion, callIndex[0], callIndex[1]})
	err := scale.NewEncoder(call).EncodeUintCompact(*new(big.Int).SetUint64(millis))
	if err != nil {
		return nil, err
	}

	extrinsic := bytes.NewBuffer(nil)
	encoder := scale.NewEncoder(extrinsic)
	err = encoder.EncodeUintCompact(*big.NewInt(int64(call.Len())))
	if err != nil {
		return nil, err
	}
	err = encoder.Write(call.Bytes())
	if err != nil {
		return nil, err
	}
	return extrinsic.Bytes(), nil
}
