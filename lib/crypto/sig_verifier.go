// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package crypto

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/internal/log"
)

// ErrSignatureVerificationFailed is returned if a signature of the batch is invalid.
var ErrSignatureVerificationFailed = errors.New("signature verification failed")

// VerifyFunc verifies a signature given a public key and message.
// It returns a non nil error if the signature is not valid.
type VerifyFunc func(pubkey, sig, msg []byte) error

// SignatureInfo holds the information to verify a signature.
type SignatureInfo struct {
	PubKey     []byte
	Sign       []byte
	Msg        []byte
	VerifyFunc VerifyFunc
}

// SignatureVerifier collects signatures and verifies them all at once.
// It is not safe for concurrent use: each caller owns its verifier.
type SignatureVerifier struct {
	batch  []*SignatureInfo
	logger log.LeveledLogger
}

// NewSignatureVerifier initialises a SignatureVerifier.
// Signatures are added to the batch using Add() and verified with Finish().
func NewSignatureVerifier(logger log.LeveledLogger) *SignatureVerifier {
	return &SignatureVerifier{
		logger: logger,
	}
}

// Add adds a signature to the batch.
func (sv *SignatureVerifier) Add(s *SignatureInfo) {
	sv.batch = append(sv.batch, s)
}

// Len returns the number of signatures in the batch.
func (sv *SignatureVerifier) Len() int {
	return len(sv.batch)
}

// Finish verifies the signatures in the order they were added and
// resets the batch. It stops at the first invalid signature and returns
// an error wrapping ErrSignatureVerificationFailed with its index.
func (sv *SignatureVerifier) Finish() error {
	defer sv.Reset()

	for i, sig := range sv.batch {
		err := sig.VerifyFunc(sig.PubKey, sig.Sign, sig.Msg)
		if err != nil {
			sv.logger.Debugf("signature %d of %d with public key 0x%x is invalid: %s",
				i, len(sv.batch), sig.PubKey, err)
			return fmt.Errorf("%w: at index %d: %s", ErrSignatureVerificationFailed, i, err)
		}
	}
	return nil
}

// Reset empties the batch for reuse.
func (sv *SignatureVerifier) Reset() {
	sv.batch = nil
}
