// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"encoding/binary"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

var parasHeadsPrefix = mustStoragePrefix("Paras", "Heads")

func mustStoragePrefix(pallet, item string) []byte {
	palletHash, err := common.Twox128Hash([]byte(pallet))
	if err != nil {
		panic(err)
	}
	itemHash, err := common.Twox128Hash([]byte(item))
	if err != nil {
		panic(err)
	}
	return append(palletHash, itemHash...)
}

// ParaHeadStorageKey returns the relay chain storage key of the head
// data of the parachain: twox128("Paras") ++ twox128("Heads") ++
// twox64(le(paraID)) ++ le(paraID).
func ParaHeadStorageKey(paraID uint32) []byte {
	encodedID := binary.LittleEndian.AppendUint32(nil, paraID)
	suffix, err := common.Twox64Concat(encodedID)
	if err != nil {
		panic(err)
	}

	key := make([]byte, 0, len(parasHeadsPrefix)+len(suffix))
	key = append(key, parasHeadsPrefix...)
	return append(key, suffix...)
}

// DecodeParaHead decodes the parachain header from the head data
// stored on the relay chain, which wraps the encoded header in a vector.
func DecodeParaHead(storageValue []byte) (header types.Header, err error) {
	var headData types.Bytes
	err = common.DecodeScale(storageValue, &headData)
	if err != nil {
		return types.Header{}, fmt.Errorf("%w: decoding head data: %s", ErrDecodeHeader, err)
	}
	return DecodeHeader(headData)
}

// EncodeParaHead wraps the encoded parachain header in a vector as stored on the relay chain.
func EncodeParaHead(header types.Header) ([]byte, error) {
	encoded, err := codec.Encode(header)
	if err != nil {
		return nil, err
	}
	return codec.Encode(types.NewBytes(encoded))
}
