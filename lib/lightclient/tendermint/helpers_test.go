// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package tendermint

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/ed25519"
	"github.com/tendermint/tendermint/crypto/tmhash"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmversion "github.com/tendermint/tendermint/proto/tendermint/version"
	tmtypes "github.com/tendermint/tendermint/types"
	"github.com/tendermint/tendermint/version"

	"github.com/ChainSafe/ibc-light-clients/lib/commitment"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

const testChainID = "testchain-1"

var genesisTime = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

// testValidators signs headers with a fixed set of equally weighted validators.
type testValidators struct {
	set  *tmtypes.ValidatorSet
	keys map[string]ed25519.PrivKey
}

func newTestValidators(t *testing.T, count int) testValidators {
	t.Helper()

	keys := make(map[string]ed25519.PrivKey, count)
	validators := make([]*tmtypes.Validator, count)
	for i := range validators {
		key := ed25519.GenPrivKey()
		validators[i] = tmtypes.NewValidator(key.PubKey(), 10)
		keys[string(validators[i].Address)] = key
	}
	return testValidators{
		set:  tmtypes.NewValidatorSet(validators),
		keys: keys,
	}
}

// signedHeader returns a header at the height committed by the first
// signers validators. The others are absent from the commit.
func (v testValidators) signedHeader(t *testing.T, height int64, blockTime time.Time,
	appHash []byte, next testValidators, signers int) *tmtypes.SignedHeader {
	t.Helper()

	header := &tmtypes.Header{
		Version:            tmversion.Consensus{Block: version.BlockProtocol},
		ChainID:            testChainID,
		Height:             height,
		Time:               blockTime,
		ValidatorsHash:     v.set.Hash(),
		NextValidatorsHash: next.set.Hash(),
		ConsensusHash:      tmhash.Sum([]byte("consensus params")),
		AppHash:            appHash,
		ProposerAddress:    v.set.Validators[0].Address,
	}
	blockID := tmtypes.BlockID{
		Hash: header.Hash(),
		PartSetHeader: tmtypes.PartSetHeader{
			Total: 1,
			Hash:  tmhash.Sum([]byte(fmt.Sprintf("parts %d", height))),
		},
	}

	signatures := make([]tmtypes.CommitSig, len(v.set.Validators))
	for i, validator := range v.set.Validators {
		if i >= signers {
			signatures[i] = tmtypes.NewCommitSigAbsent()
			continue
		}

		vote := &tmtypes.Vote{
			Type:             tmproto.PrecommitType,
			Height:           height,
			Round:            1,
			BlockID:          blockID,
			Timestamp:        blockTime,
			ValidatorAddress: validator.Address,
			ValidatorIndex:   int32(i),
		}
		signature, err := v.keys[string(validator.Address)].Sign(
			tmtypes.VoteSignBytes(testChainID, vote.ToProto()))
		require.NoError(t, err)
		signatures[i] = tmtypes.NewCommitSigForBlock(signature, validator.Address, blockTime)
	}

	return &tmtypes.SignedHeader{
		Header: header,
		Commit: tmtypes.NewCommit(height, 1, blockID, signatures),
	}
}

func (v testValidators) header(t *testing.T, height int64, blockTime time.Time, appHash []byte,
	next testValidators, trustedHeight int64, trusted testValidators) Header {
	t.Helper()

	signedHeader := v.signedHeader(t, height, blockTime, appHash, next, len(v.set.Validators))
	header, err := NewHeader(signedHeader, v.set,
		exported.NewHeight(1, uint64(trustedHeight)), trusted.set)
	require.NoError(t, err)
	return header
}

func newTestClientState(latest int64) ClientState {
	return ClientState{
		ChainID:           testChainID,
		TrustLevel:        DefaultTrustLevel,
		TrustingPeriodNs:  uint64(14 * 24 * time.Hour),
		UnbondingPeriodNs: uint64(21 * 24 * time.Hour),
		MaxClockDriftNs:   uint64(10 * time.Second),
		Latest:            exported.NewHeight(1, uint64(latest)),
		ProofSpecs:        commitment.SDKSpecs,
	}
}

func trustedConsensusState(validators testValidators, blockTime time.Time) ConsensusState {
	return ConsensusState{
		TimestampNs:        uint64(blockTime.UnixNano()),
		AppHash:            []byte("app hash"),
		NextValidatorsHash: validators.set.Hash(),
	}
}

type testHost struct {
	now time.Time
}

func (h testHost) Now() time.Time { return h.now }

func (testHost) Height() exported.Height { return exported.NewHeight(0, 100) }

type testStore map[exported.Height]exported.ConsensusState

var _ exported.ClientStore = testStore{}

func (s testStore) ConsensusState(height exported.Height) (exported.ConsensusState, error) {
	state, ok := s[height]
	if !ok {
		return nil, fmt.Errorf("%w: %s", exported.ErrConsensusStateNotFound, height)
	}
	return state, nil
}

func (s testStore) sortedHeights() []exported.Height {
	heights := make([]exported.Height, 0, len(s))
	for height := range s {
		heights = append(heights, height)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i].LT(heights[j]) })
	return heights
}

func (s testStore) PreviousConsensusState(height exported.Height) (
	exported.Height, exported.ConsensusState, error) {
	heights := s.sortedHeights()
	for i := len(heights) - 1; i >= 0; i-- {
		if heights[i].LT(height) {
			return heights[i], s[heights[i]], nil
		}
	}
	return exported.Height{}, nil, exported.ErrConsensusStateNotFound
}

func (s testStore) NextConsensusState(height exported.Height) (
	exported.Height, exported.ConsensusState, error) {
	for _, h := range s.sortedHeights() {
		if h.GT(height) {
			return h, s[h], nil
		}
	}
	return exported.Height{}, nil, exported.ErrConsensusStateNotFound
}
