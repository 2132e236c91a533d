// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package tendermint

import (
	"bytes"
	"fmt"

	"github.com/tendermint/tendermint/light"
	tmtypes "github.com/tendermint/tendermint/types"

	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// VerifyClientMessage verifies a Header or a Misbehaviour against the
// consensus states trusted by the client.
func (c ClientState) VerifyClientMessage(host exported.Host, store exported.ClientStore,
	msg exported.ClientMessage) error {
	if !c.Frozen.IsZero() {
		return exported.ErrClientFrozen
	}

	switch msg := msg.(type) {
	case Header:
		_, err := c.verifyUpdateHeader(host, store, msg)
		return err
	case Misbehaviour:
		return c.verifyMisbehaviour(host, store, msg)
	default:
		return fmt.Errorf("%w: %T", exported.ErrInvalidClientType, msg)
	}
}

// headerHeight returns the height of a signed header of the chain.
func (c ClientState) headerHeight(signedHeader *tmtypes.SignedHeader) exported.Height {
	return exported.NewHeight(ParseChainID(signedHeader.ChainID), uint64(signedHeader.Height))
}

// verifyHeader verifies the header against the consensus state at its
// trusted height with the tendermint light client rules, and returns the
// decoded header.
func (c ClientState) verifyHeader(host exported.Host, store exported.ClientStore,
	header Header) (decoded decodedHeader, err error) {
	decoded, err = header.decode()
	if err != nil {
		return decoded, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
	}
	signedHeader := decoded.signedHeader

	if signedHeader.ChainID != c.ChainID {
		return decoded, fmt.Errorf("%w: %w: header chain id %q, client chain id %q",
			exported.ErrInvalidHeader, ErrChainIDMismatch, signedHeader.ChainID, c.ChainID)
	}

	height := c.headerHeight(signedHeader)
	if height.RevisionNumber != header.TrustedHeight.RevisionNumber {
		return decoded, fmt.Errorf("%w: %w: header height %s, trusted height %s",
			exported.ErrInvalidHeader, ErrRevisionMismatch, height, header.TrustedHeight)
	}
	if !height.GT(header.TrustedHeight) {
		return decoded, fmt.Errorf("%w: header height %s is not above trusted height %s",
			exported.ErrHeightNotMonotonic, height, header.TrustedHeight)
	}

	trusted, err := store.ConsensusState(header.TrustedHeight)
	if err != nil {
		return decoded, fmt.Errorf("getting trusted consensus state: %w", err)
	}
	trustedState, ok := trusted.(ConsensusState)
	if !ok {
		return decoded, fmt.Errorf("%w: trusted consensus state %T", exported.ErrInvalidClientType, trusted)
	}

	if !bytes.Equal(decoded.trustedValidators.Hash(), trustedState.NextValidatorsHash) {
		return decoded, fmt.Errorf("%w: %w: trusted validators do not match the trusted consensus state",
			exported.ErrInvalidHeader, ErrValidatorHashMismatch)
	}

	// only the height, time and next validators are needed from the trusted header
	trustedHeader := &tmtypes.SignedHeader{
		Header: &tmtypes.Header{
			ChainID:            c.ChainID,
			Height:             int64(header.TrustedHeight.RevisionHeight),
			Time:               trustedState.Timestamp(),
			NextValidatorsHash: trustedState.NextValidatorsHash,
		},
	}

	err = light.Verify(trustedHeader, decoded.trustedValidators, signedHeader, decoded.validators,
		c.TrustingPeriod(), host.Now(), c.maxClockDrift(), c.TrustLevel.fraction())
	if err != nil {
		logger.Debugf("failed to verify header %s of chain %s: %s", height, c.ChainID, err)
		return decoded, fmt.Errorf("%w: %w", exported.ErrInvalidHeader, err)
	}
	return decoded, nil
}

// verifyUpdateHeader verifies a header submitted as an update, which must
// be above the latest height of the client.
func (c ClientState) verifyUpdateHeader(host exported.Host, store exported.ClientStore,
	header Header) (decoded decodedHeader, err error) {
	decoded, err = c.verifyHeader(host, store, header)
	if err != nil {
		return decoded, err
	}
	height := c.headerHeight(decoded.signedHeader)
	if !height.GT(c.Latest) {
		return decoded, fmt.Errorf("%w: header height %s is not above latest height %s",
			exported.ErrHeightNotMonotonic, height, c.Latest)
	}
	return decoded, nil
}

// consensusState returns the consensus state committed by the signed header.
func consensusState(signedHeader *tmtypes.SignedHeader) ConsensusState {
	return ConsensusState{
		TimestampNs:        uint64(signedHeader.Time.UnixNano()),
		AppHash:            append([]byte(nil), signedHeader.AppHash...),
		NextValidatorsHash: append([]byte(nil), signedHeader.NextValidatorsHash...),
	}
}
