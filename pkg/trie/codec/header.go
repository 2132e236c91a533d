// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package codec

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrPartialKeyTooBig = errors.New("partial key length cannot be larger than 2^16")
	ErrVariantUnknown   = errors.New("node variant is unknown")
)

const maxPartialKeyLength = ^uint16(0)

// encodeHeader writes the variant bits and the partial key length.
// Lengths that do not fit in the header byte are continued with
// bytes of 255 terminated by a byte strictly lower than 255.
func encodeHeader(nodeVariant variant, partialKeyLength int, writer io.Writer) (err error) {
	if partialKeyLength > int(maxPartialKeyLength) {
		return fmt.Errorf("%w: %d", ErrPartialKeyTooBig, partialKeyLength)
	}

	mask := nodeVariant.partialKeyLengthHeaderMask()
	if partialKeyLength < int(mask) {
		_, err = writer.Write([]byte{nodeVariant.bits | byte(partialKeyLength)})
		return err
	}

	buffer := make([]byte, 0, 2+(partialKeyLength-int(mask))/255)
	buffer = append(buffer, nodeVariant.bits|mask)
	remaining := partialKeyLength - int(mask)
	for remaining >= 255 {
		buffer = append(buffer, 255)
		remaining -= 255
	}
	buffer = append(buffer, byte(remaining))

	_, err = writer.Write(buffer)
	return err
}

func decodeHeader(reader io.Reader) (nodeVariant variant,
	partialKeyLength uint16, err error) {
	buffer := make([]byte, 1)
	_, err = io.ReadFull(reader, buffer)
	if err != nil {
		return nodeVariant, 0, fmt.Errorf("reading header byte: %w", err)
	}

	nodeVariant, partialKeyLengthHeader, err := decodeHeaderByte(buffer[0])
	if err != nil {
		return invalidVariant, 0, fmt.Errorf("decoding header byte: %w", err)
	}

	partialKeyLengthHeaderMask := nodeVariant.partialKeyLengthHeaderMask()
	if partialKeyLengthHeaderMask == emptyVariant.bits {
		// empty node or compact encoding, no partial key.
		return nodeVariant, 0, nil
	}

	partialKeyLength = uint16(partialKeyLengthHeader)
	if partialKeyLengthHeader < partialKeyLengthHeaderMask {
		return nodeVariant, partialKeyLength, nil
	}

	var previousKeyLength uint16
	for {
		_, err = io.ReadFull(reader, buffer)
		if err != nil {
			return invalidVariant, 0, fmt.Errorf("reading key length: %w", err)
		}

		previousKeyLength = partialKeyLength
		partialKeyLength += uint16(buffer[0])

		if partialKeyLength < previousKeyLength {
			overflowed := maxPartialKeyLength - previousKeyLength + partialKeyLength
			return invalidVariant, 0, fmt.Errorf("%w: overflowed by %d", ErrPartialKeyTooBig, overflowed)
		}

		if buffer[0] < 255 {
			return nodeVariant, partialKeyLength, nil
		}
	}
}

// variantsOrderedByBitMask lists the variants in ascending order
// of the number of set bits in their mask.
// WARNING: DO NOT MUTATE.
var variantsOrderedByBitMask = [...]variant{
	leafVariant,                  // mask 1100_0000
	branchVariant,                // mask 1100_0000
	branchWithValueVariant,       // mask 1100_0000
	leafWithHashedValueVariant,   // mask 1110_0000
	branchWithHashedValueVariant, // mask 1111_0000
	emptyVariant,                 // mask 1111_1111
	compactEncodingVariant,       // mask 1111_1111
}

func decodeHeaderByte(header byte) (nodeVariant variant,
	partialKeyLengthHeader byte, err error) {
	for i := len(variantsOrderedByBitMask) - 1; i >= 0; i-- {
		nodeVariant = variantsOrderedByBitMask[i]
		if header&nodeVariant.mask != nodeVariant.bits {
			continue
		}

		partialKeyLengthHeader = header & nodeVariant.partialKeyLengthHeaderMask()
		return nodeVariant, partialKeyLengthHeader, nil
	}

	return invalidVariant, 0, fmt.Errorf("%w: for header byte %08b", ErrVariantUnknown, header)
}
