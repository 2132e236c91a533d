// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package tendermint

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// UpdateState applies a verified header above the latest height. A header
// already stored leaves the client as is.
func (c ClientState) UpdateState(host exported.Host, store exported.ClientStore,
	msg exported.ClientMessage) (exported.ClientState, []exported.ConsensusUpdate, error) {
	header, ok := msg.(Header)
	if !ok {
		return nil, nil, fmt.Errorf("%w: cannot update with %T", exported.ErrInvalidClientType, msg)
	}
	if !c.Frozen.IsZero() {
		return nil, nil, exported.ErrClientFrozen
	}

	decoded, err := c.verifyUpdateHeader(host, store, header)
	if err != nil {
		return nil, nil, err
	}
	height := c.headerHeight(decoded.signedHeader)

	_, err = store.ConsensusState(height)
	switch {
	case err == nil:
		logger.Debugf("consensus state at height %s already stored", height)
		return c, nil, nil
	case !errors.Is(err, exported.ErrConsensusStateNotFound):
		return nil, nil, err
	}

	updated := c
	updated.ProofSpecs = append(updated.ProofSpecs[:0:0], c.ProofSpecs...)
	updated.Latest = height
	return updated, []exported.ConsensusUpdate{{
		Height: height,
		State:  consensusState(decoded.signedHeader),
	}}, nil
}
