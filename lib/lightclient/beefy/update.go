// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package beefy

import (
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// UpdateState applies a verified header: it records the signed MMR root
// and rotates the authority sets if the next set signed the commitment.
// The consensus state is timestamped with the host time.
func (c ClientState) UpdateState(host exported.Host, _ exported.ClientStore,
	msg exported.ClientMessage) (exported.ClientState, []exported.ConsensusUpdate, error) {
	header, ok := msg.(Header)
	if !ok {
		return nil, nil, fmt.Errorf("%w: cannot update with %T", exported.ErrInvalidClientType, msg)
	}
	if !c.Frozen.IsZero() {
		return nil, nil, exported.ErrClientFrozen
	}

	verified, err := c.verifyHeader(header)
	if err != nil {
		return nil, nil, err
	}

	updated := c
	updated.LatestBeefyHeight = verified.blockNumber
	updated.MmrRootHash = verified.mmrRoot
	if verified.rotated {
		updated.AuthoritySet = c.NextAuthoritySet
		logger.Infof("rotated to authority set %d with %d authorities at block %d",
			updated.AuthoritySet.ID, updated.AuthoritySet.Len, verified.blockNumber)
	}
	updated.NextAuthoritySet = verified.nextSet

	update := exported.ConsensusUpdate{
		Height: updated.LatestHeight(),
		State: ConsensusState{
			TimestampNs: uint64(host.Now().UnixNano()),
			MmrRoot:     verified.mmrRoot,
		},
	}
	return updated, []exported.ConsensusUpdate{update}, nil
}
