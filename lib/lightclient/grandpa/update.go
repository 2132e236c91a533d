// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"
	"sort"

	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// UpdateState applies a verified header. It advances the relay and
// parachain heights, records the new relay header hashes and enacts the
// authority set changes up to the finalized block.
func (c ClientState) UpdateState(_ exported.Host, _ exported.ClientStore,
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

	updated := c.clone()
	updated.LatestRelayHash = verified.target
	updated.LatestRelayHeight = verified.targetNumber
	updated.LatestParaHeight = verified.latestParaHeight

	for _, hash := range verified.hashes {
		err = updated.HeaderHashes.Insert(hash)
		if err != nil {
			return nil, nil, err
		}
	}

	updated.enactChanges(append(updated.PendingChanges, verified.changes...), verified.targetNumber)
	return updated, verified.updates, nil
}

// enactChanges applies the changes enacted at or below the finalized block
// in activation order and keeps the others pending.
func (c *ClientState) enactChanges(changes []grandpa.AuthorityChange, finalized uint32) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].ActivationNumber() < changes[j].ActivationNumber()
	})

	var pending []grandpa.AuthorityChange
	for _, change := range changes {
		if change.ActivationNumber() > uint64(finalized) {
			pending = append(pending, change)
			continue
		}
		c.CurrentAuthorities = change.Authorities
		c.CurrentSetID++
		logger.Infof("enacted authority set %d with %d authorities at relay block %d",
			c.CurrentSetID, len(change.Authorities), finalized)
	}
	c.PendingChanges = pending
}
