// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package beefy

import (
	"fmt"
	"time"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// ConsensusState is the MMR root signed at a BEEFY height, timestamped
// with the host time it was recorded at.
type ConsensusState struct {
	TimestampNs uint64
	MmrRoot     common.Hash
}

var _ exported.ConsensusState = ConsensusState{}

func (ConsensusState) ClientType() string { return ClientType }

func (c ConsensusState) Timestamp() time.Time {
	return time.Unix(0, int64(c.TimestampNs)).UTC()
}

func (c ConsensusState) Root() []byte { return c.MmrRoot.ToBytes() }

func (c ConsensusState) ValidateBasic() error {
	switch {
	case c.TimestampNs == 0:
		return fmt.Errorf("%w: zero timestamp", exported.ErrInvalidClientState)
	case c.MmrRoot.IsEmpty():
		return fmt.Errorf("%w: empty mmr root", exported.ErrInvalidClientState)
	}
	return nil
}
