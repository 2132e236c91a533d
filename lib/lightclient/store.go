// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package lightclient

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

const clientsPrefix = "clients/"

func validateClientID(clientID string) error {
	if clientID == "" || strings.ContainsAny(clientID, "/ ") {
		return fmt.Errorf("%w: %q", ErrInvalidClientID, clientID)
	}
	return nil
}

func clientPrefix(clientID string) string {
	return clientsPrefix + clientID + "/"
}

func clientStateKey(clientID string) []byte {
	return []byte(clientPrefix(clientID) + "clientState")
}

func consensusStatesPrefix(clientID string) []byte {
	return []byte(clientPrefix(clientID) + "consensusStates/")
}

func consensusStateKey(clientID string, height exported.Height) []byte {
	return append(consensusStatesPrefix(clientID), height.Key()...)
}

func processedTimeKey(clientID string, height exported.Height) []byte {
	return append([]byte(clientPrefix(clientID)+"processedTime/"), height.Key()...)
}

func processedHeightKey(clientID string, height exported.Height) []byte {
	return append([]byte(clientPrefix(clientID)+"processedHeight/"), height.Key()...)
}

// clientStore reads the consensus states of one client from the database.
type clientStore struct {
	table    database.Table
	clientID string
}

var _ exported.ClientStore = clientStore{}

func (s clientStore) ConsensusState(height exported.Height) (exported.ConsensusState, error) {
	encoded, err := s.table.Get(consensusStateKey(s.clientID, height))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: client %s at height %s",
			exported.ErrConsensusStateNotFound, s.clientID, height)
	} else if err != nil {
		return nil, err
	}
	return decodeStoredConsensusState(encoded)
}

func decodeStoredConsensusState(encoded []byte) (exported.ConsensusState, error) {
	value, err := UnmarshalAny(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding stored consensus state: %w", err)
	}
	return DecodeConsensusState(value)
}

// heights returns the heights of the stored consensus states in ascending order.
func (s clientStore) heights() (heights []exported.Height, err error) {
	prefix := consensusStatesPrefix(s.clientID)
	iterator := s.table.NewIterator(prefix)
	defer iterator.Release()

	for iterator.Next() {
		height, err := exported.HeightFromKey(iterator.Key()[len(prefix):])
		if err != nil {
			return nil, fmt.Errorf("consensus state key of client %s: %w", s.clientID, err)
		}
		heights = append(heights, height)
	}
	return heights, nil
}

func (s clientStore) PreviousConsensusState(height exported.Height) (
	exported.Height, exported.ConsensusState, error) {
	heights, err := s.heights()
	if err != nil {
		return exported.Height{}, nil, err
	}

	for i := len(heights) - 1; i >= 0; i-- {
		if heights[i].LT(height) {
			consensusState, err := s.ConsensusState(heights[i])
			return heights[i], consensusState, err
		}
	}
	return exported.Height{}, nil, fmt.Errorf("%w: below height %s",
		exported.ErrConsensusStateNotFound, height)
}

func (s clientStore) NextConsensusState(height exported.Height) (
	exported.Height, exported.ConsensusState, error) {
	heights, err := s.heights()
	if err != nil {
		return exported.Height{}, nil, err
	}

	for _, h := range heights {
		if h.GT(height) {
			consensusState, err := s.ConsensusState(h)
			return h, consensusState, err
		}
	}
	return exported.Height{}, nil, fmt.Errorf("%w: above height %s",
		exported.ErrConsensusStateNotFound, height)
}

// ProcessedTime returns the host time at which the consensus state at the
// height was stored.
func (s clientStore) ProcessedTime(height exported.Height) (time.Time, error) {
	encoded, err := s.table.Get(processedTimeKey(s.clientID, height))
	if errors.Is(err, database.ErrKeyNotFound) {
		return time.Time{}, fmt.Errorf("%w: processed time of client %s at height %s",
			exported.ErrConsensusStateNotFound, s.clientID, height)
	} else if err != nil {
		return time.Time{}, err
	}
	if len(encoded) != 8 {
		return time.Time{}, fmt.Errorf("processed time of client %s at height %s has %d bytes",
			s.clientID, height, len(encoded))
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(encoded))).UTC(), nil
}

// ProcessedHeight returns the host height at which the consensus state at
// the height was stored.
func (s clientStore) ProcessedHeight(height exported.Height) (exported.Height, error) {
	encoded, err := s.table.Get(processedHeightKey(s.clientID, height))
	if errors.Is(err, database.ErrKeyNotFound) {
		return exported.Height{}, fmt.Errorf("%w: processed height of client %s at height %s",
			exported.ErrConsensusStateNotFound, s.clientID, height)
	} else if err != nil {
		return exported.Height{}, err
	}
	return exported.HeightFromKey(encoded)
}

// setConsensusState writes the consensus state with the host metadata.
func setConsensusState(batch database.Writer, clientID string, update exported.ConsensusUpdate,
	host exported.Host) error {
	value, err := NewAny(update.State)
	if err != nil {
		return err
	}
	encoded, err := value.Marshal()
	if err != nil {
		return err
	}

	err = batch.Set(consensusStateKey(clientID, update.Height), encoded)
	if err != nil {
		return err
	}
	processedTime := binary.BigEndian.AppendUint64(nil, uint64(host.Now().UnixNano()))
	err = batch.Set(processedTimeKey(clientID, update.Height), processedTime)
	if err != nil {
		return err
	}
	return batch.Set(processedHeightKey(clientID, update.Height), host.Height().Key())
}

func deleteConsensusState(batch database.Writer, clientID string, height exported.Height) error {
	for _, key := range [][]byte{
		consensusStateKey(clientID, height),
		processedTimeKey(clientID, height),
		processedHeightKey(clientID, height),
	} {
		err := batch.Delete(key)
		if err != nil {
			return err
		}
	}
	return nil
}
