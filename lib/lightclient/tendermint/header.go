// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package tendermint

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmtypes "github.com/tendermint/tendermint/types"

	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// Header is a signed header with its validator set, verified against the
// validator set trusted at TrustedHeight. The signed header and validator
// sets are protobuf encoded.
type Header struct {
	SignedHeader      []byte
	ValidatorSet      []byte
	TrustedHeight     exported.Height
	TrustedValidators []byte
}

var _ exported.ClientMessage = Header{}

func (Header) ClientType() string { return ClientType }

func (Header) Kind() exported.MessageKind { return exported.KindHeader }

// NewHeader protobuf encodes the signed header and validator sets.
func NewHeader(signedHeader *tmtypes.SignedHeader, validators *tmtypes.ValidatorSet,
	trustedHeight exported.Height, trustedValidators *tmtypes.ValidatorSet) (header Header, err error) {
	header.SignedHeader, err = proto.Marshal(signedHeader.ToProto())
	if err != nil {
		return header, fmt.Errorf("encoding signed header: %w", err)
	}
	header.ValidatorSet, err = marshalValidatorSet(validators)
	if err != nil {
		return header, err
	}
	header.TrustedValidators, err = marshalValidatorSet(trustedValidators)
	if err != nil {
		return header, err
	}
	header.TrustedHeight = trustedHeight
	return header, nil
}

func marshalValidatorSet(validators *tmtypes.ValidatorSet) ([]byte, error) {
	pb, err := validators.ToProto()
	if err != nil {
		return nil, fmt.Errorf("converting validator set: %w", err)
	}
	encoded, err := proto.Marshal(pb)
	if err != nil {
		return nil, fmt.Errorf("encoding validator set: %w", err)
	}
	return encoded, nil
}

// decodedHeader holds the tendermint types of a header.
type decodedHeader struct {
	signedHeader      *tmtypes.SignedHeader
	validators        *tmtypes.ValidatorSet
	trustedHeight     exported.Height
	trustedValidators *tmtypes.ValidatorSet
}

func (h Header) decode() (decoded decodedHeader, err error) {
	var signedHeader tmproto.SignedHeader
	err = proto.Unmarshal(h.SignedHeader, &signedHeader)
	if err != nil {
		return decoded, fmt.Errorf("%w: signed header: %w", ErrDecodeProto, err)
	}
	decoded.signedHeader, err = tmtypes.SignedHeaderFromProto(&signedHeader)
	if err != nil {
		return decoded, fmt.Errorf("%w: signed header: %w", ErrDecodeProto, err)
	}

	decoded.validators, err = decodeValidatorSet(h.ValidatorSet)
	if err != nil {
		return decoded, err
	}
	decoded.trustedValidators, err = decodeValidatorSet(h.TrustedValidators)
	if err != nil {
		return decoded, err
	}
	decoded.trustedHeight = h.TrustedHeight
	return decoded, nil
}

func decodeValidatorSet(encoded []byte) (*tmtypes.ValidatorSet, error) {
	var pb tmproto.ValidatorSet
	err := proto.Unmarshal(encoded, &pb)
	if err != nil {
		return nil, fmt.Errorf("%w: validator set: %w", ErrDecodeProto, err)
	}
	validators, err := tmtypes.ValidatorSetFromProto(&pb)
	if err != nil {
		return nil, fmt.Errorf("%w: validator set: %w", ErrDecodeProto, err)
	}
	return validators, nil
}

// Misbehaviour is two headers proving the chain forked or broke time
// monotonicity.
type Misbehaviour struct {
	Header1 Header
	Header2 Header
}

var _ exported.ClientMessage = Misbehaviour{}

func (Misbehaviour) ClientType() string { return ClientType }

func (Misbehaviour) Kind() exported.MessageKind { return exported.KindMisbehaviour }
