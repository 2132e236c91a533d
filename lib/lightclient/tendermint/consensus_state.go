// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package tendermint

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tendermint/tendermint/crypto/tmhash"

	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// ConsensusState is the application hash, block time and next validator
// set hash of a verified block.
type ConsensusState struct {
	TimestampNs        uint64
	AppHash            []byte
	NextValidatorsHash []byte
}

var _ exported.ConsensusState = ConsensusState{}

func (ConsensusState) ClientType() string { return ClientType }

func (c ConsensusState) Timestamp() time.Time {
	return time.Unix(0, int64(c.TimestampNs)).UTC()
}

func (c ConsensusState) Root() []byte { return c.AppHash }

func (c ConsensusState) ValidateBasic() error {
	switch {
	case c.TimestampNs == 0:
		return fmt.Errorf("%w: zero timestamp", exported.ErrInvalidClientState)
	case len(c.AppHash) == 0:
		return fmt.Errorf("%w: empty root", exported.ErrInvalidClientState)
	case len(c.NextValidatorsHash) != tmhash.Size:
		return fmt.Errorf("%w: next validators hash has %d bytes",
			exported.ErrInvalidClientState, len(c.NextValidatorsHash))
	}
	return nil
}

// Equal returns true if both consensus states hold the same values.
func (c ConsensusState) Equal(other ConsensusState) bool {
	return c.TimestampNs == other.TimestampNs &&
		bytes.Equal(c.AppHash, other.AppHash) &&
		bytes.Equal(c.NextValidatorsHash, other.NextValidatorsHash)
}
