// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package lightclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
	"github.com/ChainSafe/ibc-light-clients/internal/log"
	"github.com/ChainSafe/ibc-light-clients/internal/metrics"
	"github.com/ChainSafe/ibc-light-clients/lib/commitment"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/wasm"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "lightclient"))

// FrozenHeight is the height clients are frozen at on misbehaviour.
var FrozenHeight = exported.NewHeight(0, 1)

// Metrics records the outcome of keeper operations.
type Metrics interface {
	ClientUpdated(clientType, outcome string)
	MisbehaviourDetected(clientType string)
	ConsensusStatesPruned(clientType string, count int)
}

// Keeper persists light clients and runs their state transitions. Every
// transition of a client is written in a single write batch, and
// transitions of the same client never interleave.
type Keeper struct {
	table   database.Table
	host    exported.Host
	metrics Metrics
	logger  log.LeveledLogger

	locksMutex sync.Mutex
	locks      map[string]*clientLock
}

// clientLock serializes the transitions of one client. It is removed
// from the keeper once no caller holds or waits for it.
type clientLock struct {
	sync.Mutex
	references int
}

// NewKeeper returns a keeper storing clients in the table. A nil metrics
// discards metrics.
func NewKeeper(table database.Table, host exported.Host, metricsRecorder Metrics) *Keeper {
	if metricsRecorder == nil {
		metricsRecorder = metrics.NoOp{}
	}
	return &Keeper{
		table:   table,
		host:    host,
		metrics: metricsRecorder,
		logger:  logger,
		locks:   make(map[string]*clientLock),
	}
}

// lock locks the client and returns its unlock function.
func (k *Keeper) lock(clientID string) (unlock func()) {
	k.locksMutex.Lock()
	lock, ok := k.locks[clientID]
	if !ok {
		lock = new(clientLock)
		k.locks[clientID] = lock
	}
	lock.references++
	k.locksMutex.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()

		k.locksMutex.Lock()
		defer k.locksMutex.Unlock()
		lock.references--
		if lock.references == 0 {
			delete(k.locks, clientID)
		}
	}
}

func (k *Keeper) store(clientID string) clientStore {
	return clientStore{table: k.table, clientID: clientID}
}

func (k *Keeper) loadClientState(clientID string) (exported.ClientState, []wasm.ClientState, error) {
	err := validateClientID(clientID)
	if err != nil {
		return nil, nil, err
	}

	encoded, err := k.table.Get(clientStateKey(clientID))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
	} else if err != nil {
		return nil, nil, fmt.Errorf("getting client state of %s: %w", clientID, err)
	}

	value, err := UnmarshalAny(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding client state of %s: %w", clientID, err)
	}
	return decodeClientState(value)
}

func setClientState(batch database.Writer, clientID string, clientState exported.ClientState,
	envelopes []wasm.ClientState) error {
	value, err := encodeClientState(clientState, envelopes)
	if err != nil {
		return err
	}
	encoded, err := value.Marshal()
	if err != nil {
		return err
	}
	return batch.Set(clientStateKey(clientID), encoded)
}

// ClientState returns the client state of the client.
func (k *Keeper) ClientState(clientID string) (exported.ClientState, error) {
	clientState, _, err := k.loadClientState(clientID)
	return clientState, err
}

// ConsensusState returns the consensus state of the client at the height.
func (k *Keeper) ConsensusState(clientID string, height exported.Height) (exported.ConsensusState, error) {
	err := validateClientID(clientID)
	if err != nil {
		return nil, err
	}
	return k.store(clientID).ConsensusState(height)
}

// CreateClient stores a new client with its consensus state at its
// latest height.
func (k *Keeper) CreateClient(ctx context.Context, clientID string,
	clientStateValue, consensusStateValue Any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := validateClientID(clientID)
	if err != nil {
		return err
	}

	clientState, envelopes, err := decodeClientState(clientStateValue)
	if err != nil {
		return err
	}
	consensusState, err := DecodeConsensusState(consensusStateValue)
	if err != nil {
		return err
	}
	if clientState.ClientType() != consensusState.ClientType() {
		return fmt.Errorf("%w: client state %s, consensus state %s",
			ErrClientTypeMismatch, clientState.ClientType(), consensusState.ClientType())
	}
	if !clientState.FrozenHeight().IsZero() {
		return exported.ErrClientFrozen
	}

	unlock := k.lock(clientID)
	defer unlock()

	has, err := k.table.Has(clientStateKey(clientID))
	if err != nil {
		return err
	} else if has {
		return fmt.Errorf("%w: %s", ErrClientExists, clientID)
	}

	batch := k.table.NewWriteBatch()
	defer batch.Cancel()

	err = setClientState(batch, clientID, clientState, envelopes)
	if err != nil {
		return fmt.Errorf("writing client state: %w", err)
	}
	update := exported.ConsensusUpdate{Height: clientState.LatestHeight(), State: consensusState}
	err = setConsensusState(batch, clientID, update, k.host)
	if err != nil {
		return fmt.Errorf("writing consensus state: %w", err)
	}

	err = batch.Flush()
	if err != nil {
		return fmt.Errorf("flushing client %s: %w", clientID, err)
	}

	k.logger.Infof("created %s client %s at height %s",
		clientState.ClientType(), clientID, clientState.LatestHeight())
	return nil
}

// UpdateClient verifies the client message and either freezes the client
// on misbehaviour or applies the header, pruning the oldest expired
// consensus state. It returns the new client state.
func (k *Keeper) UpdateClient(ctx context.Context, clientID string, message Any) (
	updated exported.ClientState, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msg, err := DecodeClientMessage(message)
	if err != nil {
		return nil, err
	}

	unlock := k.lock(clientID)
	defer unlock()

	clientState, envelopes, err := k.loadClientState(clientID)
	if err != nil {
		return nil, err
	}
	clientType := clientState.ClientType()
	defer func() {
		if err != nil {
			k.metrics.ClientUpdated(clientType, metrics.OutcomeRejected)
		}
	}()

	store := k.store(clientID)
	err = k.requireActive(clientID, clientState, store)
	if err != nil {
		return nil, err
	}

	err = clientState.VerifyClientMessage(k.host, store, msg)
	if err != nil {
		k.logger.Debugf("client %s rejected %s: %s", clientID, msg.Kind(), err)
		return nil, err
	}

	misbehaviour, err := clientState.CheckForMisbehaviour(k.host, store, msg)
	if err != nil {
		return nil, err
	}

	batch := k.table.NewWriteBatch()
	defer batch.Cancel()

	if misbehaviour {
		updated = clientState.Freeze(FrozenHeight)
		err = setClientState(batch, clientID, updated, envelopes)
		if err != nil {
			return nil, fmt.Errorf("writing frozen client state: %w", err)
		}
		err = batch.Flush()
		if err != nil {
			return nil, fmt.Errorf("flushing client %s: %w", clientID, err)
		}

		k.logger.Warnf("client %s frozen on misbehaviour", clientID)
		k.metrics.MisbehaviourDetected(clientType)
		k.metrics.ClientUpdated(clientType, metrics.OutcomeFrozen)
		return updated, nil
	}

	updated, updates, err := clientState.UpdateState(k.host, store, msg)
	if err != nil {
		return nil, err
	}
	for _, update := range updates {
		err = setConsensusState(batch, clientID, update, k.host)
		if err != nil {
			return nil, fmt.Errorf("writing consensus state at height %s: %w", update.Height, err)
		}
	}
	err = setClientState(batch, clientID, updated, envelopes)
	if err != nil {
		return nil, fmt.Errorf("writing client state: %w", err)
	}

	pruned, err := k.pruneOldest(batch, clientID, updated, store)
	if err != nil {
		return nil, fmt.Errorf("pruning: %w", err)
	}

	err = batch.Flush()
	if err != nil {
		return nil, fmt.Errorf("flushing client %s: %w", clientID, err)
	}

	if pruned {
		k.metrics.ConsensusStatesPruned(clientType, 1)
	}
	k.metrics.ClientUpdated(clientType, metrics.OutcomeUpdated)
	k.logger.Debugf("client %s updated to height %s with %d consensus states",
		clientID, updated.LatestHeight(), len(updates))
	return updated, nil
}

// requireActive returns an error if the client is frozen, expired or
// misses its latest consensus state.
func (k *Keeper) requireActive(clientID string, clientState exported.ClientState,
	store clientStore) error {
	if !clientState.FrozenHeight().IsZero() {
		return exported.ErrClientFrozen
	}

	latest, err := store.ConsensusState(clientState.LatestHeight())
	if err != nil {
		return err
	}
	switch status := clientState.Status(latest, k.host.Now()); status {
	case exported.Active:
		return nil
	case exported.Expired:
		return fmt.Errorf("%w: %s", exported.ErrClientExpired, clientID)
	default:
		return fmt.Errorf("%w: %s is %s", ErrClientNotActive, clientID, status)
	}
}

// pruneOldest deletes the oldest consensus state if it was stored more than
// a trusting period ago. The consensus state at the latest height is never
// pruned.
func (k *Keeper) pruneOldest(batch database.Writer, clientID string,
	clientState exported.ClientState, store clientStore) (pruned bool, err error) {
	trustingPeriod := clientState.TrustingPeriod()
	if trustingPeriod <= 0 {
		return false, nil
	}

	heights, err := store.heights()
	if err != nil {
		return false, err
	}
	if len(heights) == 0 {
		return false, nil
	}
	oldest := heights[0]
	if !oldest.LT(clientState.LatestHeight()) {
		return false, nil
	}

	processedTime, err := store.ProcessedTime(oldest)
	if err != nil {
		return false, err
	}
	if k.host.Now().Sub(processedTime) <= trustingPeriod {
		return false, nil
	}

	err = deleteConsensusState(batch, clientID, oldest)
	if err != nil {
		return false, err
	}
	k.logger.Debugf("pruned consensus state of client %s at height %s", clientID, oldest)
	return true, nil
}

// PruneOldestConsensusState deletes the oldest consensus state of the
// client if it expired. It is a no-op if no consensus state expired.
func (k *Keeper) PruneOldestConsensusState(ctx context.Context, clientID string) (pruned bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	unlock := k.lock(clientID)
	defer unlock()

	clientState, _, err := k.loadClientState(clientID)
	if err != nil {
		return false, err
	}

	batch := k.table.NewWriteBatch()
	defer batch.Cancel()

	pruned, err = k.pruneOldest(batch, clientID, clientState, k.store(clientID))
	if err != nil || !pruned {
		return false, err
	}
	err = batch.Flush()
	if err != nil {
		return false, fmt.Errorf("flushing client %s: %w", clientID, err)
	}
	k.metrics.ConsensusStatesPruned(clientState.ClientType(), 1)
	return true, nil
}

// FreezeClient freezes the client at the height.
func (k *Keeper) FreezeClient(ctx context.Context, clientID string, height exported.Height) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if height.IsZero() {
		return fmt.Errorf("%w: cannot freeze at zero height", exported.ErrInvalidHeight)
	}

	unlock := k.lock(clientID)
	defer unlock()

	clientState, envelopes, err := k.loadClientState(clientID)
	if err != nil {
		return err
	}
	if !clientState.FrozenHeight().IsZero() {
		return exported.ErrClientFrozen
	}

	batch := k.table.NewWriteBatch()
	defer batch.Cancel()

	err = setClientState(batch, clientID, clientState.Freeze(height), envelopes)
	if err != nil {
		return err
	}
	err = batch.Flush()
	if err != nil {
		return fmt.Errorf("flushing client %s: %w", clientID, err)
	}
	k.logger.Warnf("client %s frozen at height %s", clientID, height)
	return nil
}

// UpgradeClient replaces the client state and stores the consensus state
// at its latest height, if the current client state accepts the upgrade.
func (k *Keeper) UpgradeClient(ctx context.Context, clientID string,
	clientStateValue, consensusStateValue Any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	upgradedClient, envelopes, err := decodeClientState(clientStateValue)
	if err != nil {
		return err
	}
	upgradedConsensus, err := DecodeConsensusState(consensusStateValue)
	if err != nil {
		return err
	}

	unlock := k.lock(clientID)
	defer unlock()

	clientState, _, err := k.loadClientState(clientID)
	if err != nil {
		return err
	}
	if !clientState.FrozenHeight().IsZero() {
		return exported.ErrClientFrozen
	}
	upgradable, ok := clientState.(exported.Upgradable)
	if !ok {
		return fmt.Errorf("%w: %s clients cannot be upgraded", exported.ErrInvalidUpgrade, clientState.ClientType())
	}
	err = upgradable.VerifyUpgrade(upgradedClient, upgradedConsensus)
	if err != nil {
		return err
	}

	batch := k.table.NewWriteBatch()
	defer batch.Cancel()

	err = setClientState(batch, clientID, upgradedClient, envelopes)
	if err != nil {
		return err
	}
	update := exported.ConsensusUpdate{Height: upgradedClient.LatestHeight(), State: upgradedConsensus}
	err = setConsensusState(batch, clientID, update, k.host)
	if err != nil {
		return err
	}
	err = batch.Flush()
	if err != nil {
		return fmt.Errorf("flushing client %s: %w", clientID, err)
	}
	k.logger.Infof("upgraded client %s to height %s", clientID, upgradedClient.LatestHeight())
	return nil
}

// Status returns the status of the client.
func (k *Keeper) Status(clientID string) (exported.Status, error) {
	clientState, _, err := k.loadClientState(clientID)
	if err != nil {
		return exported.Unknown, err
	}

	latest, err := k.store(clientID).ConsensusState(clientState.LatestHeight())
	switch {
	case errors.Is(err, exported.ErrConsensusStateNotFound):
		latest = nil
	case err != nil:
		return exported.Unknown, err
	}
	return clientState.Status(latest, k.host.Now()), nil
}

// VerifyMembership verifies the value is stored at the path of the
// counterparty state committed to at the height.
func (k *Keeper) VerifyMembership(clientID string, height exported.Height, proof []byte,
	path commitment.MerklePath, value []byte) error {
	clientState, consensusState, err := k.verificationStates(clientID, height)
	if err != nil {
		return err
	}
	return clientState.VerifyMembership(consensusState, proof, path, value)
}

// VerifyNonMembership verifies nothing is stored at the path of the
// counterparty state committed to at the height.
func (k *Keeper) VerifyNonMembership(clientID string, height exported.Height, proof []byte,
	path commitment.MerklePath) error {
	clientState, consensusState, err := k.verificationStates(clientID, height)
	if err != nil {
		return err
	}
	return clientState.VerifyNonMembership(consensusState, proof, path)
}

func (k *Keeper) verificationStates(clientID string, height exported.Height) (
	exported.ClientState, exported.ConsensusState, error) {
	clientState, _, err := k.loadClientState(clientID)
	if err != nil {
		return nil, nil, err
	}
	if clientState.LatestHeight().LT(height) {
		return nil, nil, fmt.Errorf("%w: height %s is above latest height %s",
			exported.ErrInvalidHeight, height, clientState.LatestHeight())
	}
	consensusState, err := k.store(clientID).ConsensusState(height)
	if err != nil {
		return nil, nil, err
	}
	return clientState, consensusState, nil
}
