// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ed25519

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto"
)

const (
	// PublicKeyLength is the expected public key length for ed25519.
	PublicKeyLength = 32
	// SeedLength is the expected seed length for ed25519.
	SeedLength = 32
	// PrivateKeyLength is the expected private key length for ed25519.
	PrivateKeyLength = 64
	// SignatureLength is the expected signature length for ed25519.
	SignatureLength = 64
)

var (
	ErrInvalidPublicKeyLength = errors.New("invalid public key length")
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrInvalidSeedLength      = errors.New("invalid seed length")
	ErrSignatureVerification  = errors.New("failed to verify signature")
)

// Keypair is a ed25519 public-private keypair
type Keypair struct {
	public  *PublicKey
	private *PrivateKey
}

// PrivateKey is a ed25519 private key
type PrivateKey ed25519.PrivateKey

// PublicKey is a ed25519 public key
type PublicKey ed25519.PublicKey

// PublicKeyBytes is an encoded ed25519 public key
type PublicKeyBytes [PublicKeyLength]byte

// NewKeypair returns an Ed25519 keypair given a ed25519 private key
func NewKeypair(pk ed25519.PrivateKey) *Keypair {
	pubkey := pk.Public().(ed25519.PublicKey)
	priv := PrivateKey(pk)
	pub := PublicKey(pubkey)
	return &Keypair{
		public:  &pub,
		private: &priv,
	}
}

// NewKeypairFromSeed generates a new ed25519 keypair from a 32 bytes seed
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeedLength, len(seed))
	}
	return NewKeypair(ed25519.NewKeyFromSeed(seed)), nil
}

// GenerateKeypair returns a new ed25519 keypair
func GenerateKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return NewKeypair(priv), nil
}

// NewPublicKey returns an ed25519 public key that consists of the input bytes
// Input length must be 32 bytes
func NewPublicKey(in []byte) (*PublicKey, error) {
	if len(in) != PublicKeyLength {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidPublicKeyLength, PublicKeyLength, len(in))
	}
	pub := PublicKey(append([]byte(nil), in...))
	return &pub, nil
}

// Verify returns true if the signature is valid for the given message and public key, false otherwise
// It returns an error if the signature length is not 64 bytes.
func Verify(pub *PublicKey, msg, sig []byte) (bool, error) {
	if len(sig) != SignatureLength {
		return false, fmt.Errorf("%w: expected %d, got %d", ErrInvalidSignatureLength, SignatureLength, len(sig))
	}
	return ed25519.Verify(ed25519.PublicKey(*pub), msg, sig), nil
}

// VerifySignature verifies a signature given a public key and a message.
// It has the crypto.VerifyFunc signature.
func VerifySignature(publicKey, signature, message []byte) error {
	pubKey, err := NewPublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("ed25519: %w", err)
	}

	ok, err := pubKey.Verify(message, signature)
	if err != nil {
		return fmt.Errorf("ed25519: %w", err)
	} else if !ok {
		return fmt.Errorf("ed25519: %w: for message 0x%x, signature 0x%x and public key 0x%x",
			ErrSignatureVerification, message, signature, publicKey)
	}
	return nil
}

// Type returns Ed25519Type
func (kp *Keypair) Type() crypto.KeyType {
	return crypto.Ed25519Type
}

// Sign uses the keypair to sign the message using the ed25519 signature algorithm
func (kp *Keypair) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(ed25519.PrivateKey(*kp.private), msg), nil
}

// Public returns the keypair's public key
func (kp *Keypair) Public() crypto.PublicKey {
	return kp.public
}

// Private returns the keypair's private key
func (kp *Keypair) Private() crypto.PrivateKey {
	return kp.private
}

// Sign uses the ed25519 signature algorithm to sign the message
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(ed25519.PrivateKey(*k), msg), nil
}

// Public returns the public key corresponding to the ed25519 private key
func (k *PrivateKey) Public() (crypto.PublicKey, error) {
	kp := NewKeypair(ed25519.PrivateKey(*k))
	return kp.Public(), nil
}

// Encode returns the bytes underlying the ed25519 PrivateKey
func (k *PrivateKey) Encode() []byte {
	return append([]byte(nil), *k...)
}

// Decode turns the input bytes into an ed25519 PrivateKey
// the input must be 64 bytes, or the function will return an error
func (k *PrivateKey) Decode(in []byte) error {
	if len(in) != PrivateKeyLength {
		return fmt.Errorf("cannot decode key: invalid length %d", len(in))
	}
	*k = PrivateKey(ed25519.PrivateKey(append([]byte(nil), in...)))
	return nil
}

// Hex returns the private key as a '0x' prefixed hex string
func (k *PrivateKey) Hex() string {
	return common.BytesToHex(k.Encode())
}

// Verify checks that Ed25519PublicKey was used to create the signature for the message
func (k *PublicKey) Verify(msg, sig []byte) (bool, error) {
	return Verify(k, msg, sig)
}

// Encode returns the encoding of the ed25519 PublicKey
func (k *PublicKey) Encode() []byte {
	return append([]byte(nil), *k...)
}

// Decode turns the input bytes into an ed25519 PublicKey
// the input must be 32 bytes, or the function will return and error
func (k *PublicKey) Decode(in []byte) error {
	pub, err := NewPublicKey(in)
	if err != nil {
		return err
	}
	*k = *pub
	return nil
}

// AsBytes returns the public key as its fixed size bytes representation
func (k *PublicKey) AsBytes() (b PublicKeyBytes) {
	copy(b[:], *k)
	return b
}

// Hex returns the public key as a '0x' prefixed hex string
func (k *PublicKey) Hex() string {
	return common.BytesToHex(k.Encode())
}
