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

// EngineID is the consensus engine id of GRANDPA digests
var EngineID = [4]byte{'F', 'R', 'N', 'K'}

// consensus log variants
const (
	scheduledChangeLog byte = 1
	forcedChangeLog    byte = 2
	onDisabledLog      byte = 3
	pauseLog           byte = 4
	resumeLog          byte = 5
)

// ScheduledChange schedules a new authority set, enacted once the
// block Delay blocks after the signalling block is finalized.
type ScheduledChange struct {
	Authorities []Authority
	Delay       uint32
}

// ForcedChange is a ScheduledChange enacted without waiting for finality.
type ForcedChange struct {
	BestFinalizedBlockNumber uint32
	Change                   ScheduledChange
}

// AuthorityChange is an authority set change signalled in a header.
type AuthorityChange struct {
	Authorities  AuthorityList
	SignalNumber uint32
	Delay        uint32
	Forced       bool
}

// ActivationNumber returns the block number at which the change is enacted.
func (c AuthorityChange) ActivationNumber() uint64 {
	return uint64(c.SignalNumber) + uint64(c.Delay)
}

func grandpaEngineID() types.ConsensusEngineID {
	return types.ConsensusEngineID(binary.LittleEndian.Uint32(EngineID[:]))
}

// AuthorityChanges returns the scheduled and forced authority set
// changes signalled by GRANDPA consensus digests of the header.
func AuthorityChanges(header types.Header) (changes []AuthorityChange, err error) {
	engineID := grandpaEngineID()
	for i, item := range header.Digest {
		if !item.IsConsensus || item.AsConsensus.ConsensusEngineID != engineID {
			continue
		}

		change, ok, err := decodeConsensusLog(item.AsConsensus.Bytes)
		if err != nil {
			return nil, fmt.Errorf("digest item %d: %w", i, err)
		} else if !ok {
			continue
		}
		change.SignalNumber = uint32(header.Number)
		changes = append(changes, change)
	}
	return changes, nil
}

// decodeConsensusLog returns false if the log is not an authority change.
func decodeConsensusLog(data []byte) (change AuthorityChange, ok bool, err error) {
	if len(data) == 0 {
		return change, false, fmt.Errorf("%w: empty", ErrInvalidConsensusLog)
	}

	switch data[0] {
	case scheduledChangeLog:
		var scheduled ScheduledChange
		err = common.DecodeScale(data[1:], &scheduled)
		if err != nil {
			return change, false, fmt.Errorf("%w: scheduled change: %s", ErrInvalidConsensusLog, err)
		}
		change = AuthorityChange{
			Authorities: scheduled.Authorities,
			Delay:       scheduled.Delay,
		}
	case forcedChangeLog:
		var forced ForcedChange
		err = common.DecodeScale(data[1:], &forced)
		if err != nil {
			return change, false, fmt.Errorf("%w: forced change: %s", ErrInvalidConsensusLog, err)
		}
		change = AuthorityChange{
			Authorities: forced.Change.Authorities,
			Delay:       forced.Change.Delay,
			Forced:      true,
		}
	case onDisabledLog, pauseLog, resumeLog:
		return change, false, nil
	default:
		return change, false, fmt.Errorf("%w: unknown variant %d", ErrInvalidConsensusLog, data[0])
	}

	err = change.Authorities.Validate()
	if err != nil {
		return change, false, fmt.Errorf("%w: %s", ErrInvalidConsensusLog, err)
	}
	return change, true, nil
}

// NewScheduledChangeDigest returns the digest item signalling a scheduled change.
func NewScheduledChangeDigest(authorities AuthorityList, delay uint32) (types.DigestItem, error) {
	encoded, err := codec.Encode(ScheduledChange{
		Authorities: authorities,
		Delay:       delay,
	})
	if err != nil {
		return types.DigestItem{}, err
	}

	return types.DigestItem{
		IsConsensus: true,
		AsConsensus: types.Consensus{
			ConsensusEngineID: grandpaEngineID(),
			Bytes:             append([]byte{scheduledChangeLog}, encoded...),
		},
	}, nil
}
