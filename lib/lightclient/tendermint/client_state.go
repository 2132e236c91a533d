// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package tendermint implements a light client for Tendermint chains
// following the skipping verification of the tendermint light client.
package tendermint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tmmath "github.com/tendermint/tendermint/libs/math"
	"github.com/tendermint/tendermint/light"

	"github.com/ChainSafe/ibc-light-clients/internal/log"
	"github.com/ChainSafe/ibc-light-clients/lib/commitment"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// ClientType is the client type of Tendermint clients.
const ClientType = "07-tendermint"

var logger = log.NewFromGlobal(log.AddContext("pkg", "lightclient/tendermint"))

// TrustLevel is the fraction of the trusted validator power that must
// sign a non adjacent header.
type TrustLevel struct {
	Numerator   uint64
	Denominator uint64
}

// DefaultTrustLevel is one third, as the tendermint light client uses.
var DefaultTrustLevel = TrustLevel{Numerator: 1, Denominator: 3}

func (t TrustLevel) fraction() tmmath.Fraction {
	return tmmath.Fraction{Numerator: t.Numerator, Denominator: t.Denominator}
}

// ClientState tracks a Tendermint chain.
type ClientState struct {
	ChainID           string
	TrustLevel        TrustLevel
	TrustingPeriodNs  uint64
	UnbondingPeriodNs uint64
	MaxClockDriftNs   uint64
	Latest            exported.Height
	Frozen            exported.Height
	ProofSpecs        commitment.ProofSpecs
}

var _ exported.ClientState = ClientState{}
var _ exported.Upgradable = ClientState{}

func (ClientState) ClientType() string { return ClientType }

func (c ClientState) LatestHeight() exported.Height { return c.Latest }

func (c ClientState) FrozenHeight() exported.Height { return c.Frozen }

func (c ClientState) TrustingPeriod() time.Duration {
	return time.Duration(c.TrustingPeriodNs)
}

func (c ClientState) maxClockDrift() time.Duration {
	return time.Duration(c.MaxClockDriftNs)
}

func (c ClientState) Status(latest exported.ConsensusState, now time.Time) exported.Status {
	return exported.ClientStatus(c.Frozen, c.TrustingPeriod(), latest, now)
}

// Validate checks the client state is well formed.
func (c ClientState) Validate() error {
	switch {
	case strings.TrimSpace(c.ChainID) == "":
		return fmt.Errorf("%w: empty chain id", exported.ErrInvalidClientState)
	case c.TrustingPeriodNs == 0 || c.TrustingPeriodNs >= c.UnbondingPeriodNs:
		return fmt.Errorf("%w: %w: trusting period %s must be positive and below unbonding period %s",
			exported.ErrInvalidClientState, ErrTrustingPeriod,
			time.Duration(c.TrustingPeriodNs), time.Duration(c.UnbondingPeriodNs))
	case c.UnbondingPeriodNs > uint64(1<<63-1):
		return fmt.Errorf("%w: unbonding period overflows", exported.ErrInvalidClientState)
	case c.MaxClockDriftNs == 0 || c.MaxClockDriftNs > uint64(1<<63-1):
		return fmt.Errorf("%w: invalid max clock drift", exported.ErrInvalidClientState)
	case c.Latest.RevisionHeight == 0:
		return fmt.Errorf("%w: zero latest height", exported.ErrInvalidClientState)
	case c.Latest.RevisionNumber != ParseChainID(c.ChainID):
		return fmt.Errorf("%w: %w: latest height %s for chain %s",
			exported.ErrInvalidClientState, ErrRevisionMismatch, c.Latest, c.ChainID)
	}

	err := light.ValidateTrustLevel(c.TrustLevel.fraction())
	if err != nil {
		return fmt.Errorf("%w: %w: %w", exported.ErrInvalidClientState, ErrInvalidTrustLevel, err)
	}
	err = c.ProofSpecs.Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", exported.ErrInvalidClientState, err)
	}
	return nil
}

// Freeze returns a copy of the client state frozen at the height.
func (c ClientState) Freeze(height exported.Height) exported.ClientState {
	frozen := c
	frozen.ProofSpecs = append(commitment.ProofSpecs(nil), c.ProofSpecs...)
	frozen.Frozen = height
	return frozen
}

// VerifyUpgrade accepts an upgraded client state of the same chain with a
// greater latest height.
func (c ClientState) VerifyUpgrade(upgraded exported.ClientState,
	consensus exported.ConsensusState) error {
	upgradedState, ok := upgraded.(ClientState)
	if !ok {
		return fmt.Errorf("%w: %w: %T", exported.ErrInvalidUpgrade, exported.ErrInvalidClientType, upgraded)
	}
	if _, ok := consensus.(ConsensusState); !ok {
		return fmt.Errorf("%w: %w: %T", exported.ErrInvalidUpgrade, exported.ErrInvalidClientType, consensus)
	}
	if !upgradedState.Latest.GT(c.Latest) {
		return fmt.Errorf("%w: upgraded height %s is not above %s",
			exported.ErrInvalidUpgrade, upgradedState.Latest, c.Latest)
	}
	return upgradedState.Validate()
}

// VerifyMembership verifies the value is stored at the path of the
// application state committed to by the consensus state.
func (c ClientState) VerifyMembership(consensus exported.ConsensusState, proof []byte,
	path commitment.MerklePath, value []byte) error {
	merkleProof, err := c.merkleProof(consensus, proof)
	if err != nil {
		return err
	}
	return commitment.VerifyMembership(c.ProofSpecs, consensus.Root(), merkleProof, path, value)
}

// VerifyNonMembership verifies nothing is stored at the path of the
// application state committed to by the consensus state.
func (c ClientState) VerifyNonMembership(consensus exported.ConsensusState, proof []byte,
	path commitment.MerklePath) error {
	merkleProof, err := c.merkleProof(consensus, proof)
	if err != nil {
		return err
	}
	return commitment.VerifyNonMembership(c.ProofSpecs, consensus.Root(), merkleProof, path)
}

func (c ClientState) merkleProof(consensus exported.ConsensusState, proof []byte) (
	commitment.MerkleProof, error) {
	if !c.Frozen.IsZero() {
		return commitment.MerkleProof{}, exported.ErrClientFrozen
	}
	if _, ok := consensus.(ConsensusState); !ok {
		return commitment.MerkleProof{}, fmt.Errorf("%w: %T", exported.ErrInvalidClientType, consensus)
	}
	return commitment.DecodeMerkleProof(proof)
}

var revisionFormat = regexp.MustCompile(`^.*[^\n-]-{1}[1-9][0-9]*$`)

// ParseChainID returns the revision number of a chain id of the form
// {name}-{revision}, or 0 if the chain id is not in that form.
func ParseChainID(chainID string) uint64 {
	if !revisionFormat.MatchString(chainID) {
		return 0
	}
	index := strings.LastIndex(chainID, "-")
	revision, err := strconv.ParseUint(chainID[index+1:], 10, 64)
	if err != nil {
		return 0
	}
	return revision
}
