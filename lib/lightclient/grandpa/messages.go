// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

// Header carries parachain headers together with the relay chain
// finality proof of the relay blocks including them.
type Header struct {
	Proof grandpa.ParachainHeadersWithFinalityProof
	// Height is the parachain id and the latest parachain height proven.
	Height exported.Height
}

var _ exported.ClientMessage = Header{}

func (Header) ClientType() string { return ClientType }

func (Header) Kind() exported.MessageKind { return exported.KindHeader }

// Misbehaviour holds two finality proofs valid under the current
// authority set which finalize different relay blocks at the same height.
type Misbehaviour struct {
	First  grandpa.FinalityProof
	Second grandpa.FinalityProof
}

var _ exported.ClientMessage = Misbehaviour{}

func (Misbehaviour) ClientType() string { return ClientType }

func (Misbehaviour) Kind() exported.MessageKind { return exported.KindMisbehaviour }
