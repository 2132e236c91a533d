// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package secp256k1

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto"
	secp256k1 "github.com/ethereum/go-ethereum/crypto"
)

const (
	// PrivateKeyLength is the fixed Private Key Length
	PrivateKeyLength = 32
	// SignatureLength is the fixed Signature Length, including the recovery id
	SignatureLength = 65
	// SignatureLengthNoRecovery is the signature length without the recovery id
	SignatureLengthNoRecovery = 64
	// MessageLength is the fixed Message Length, the message being a 32 bytes hash
	MessageLength = 32
	// PublicKeyLength is the length of a compressed public key
	PublicKeyLength = 33
	// AddressLength is the length of an ethereum address
	AddressLength = 20
)

var (
	ErrInvalidMessageLength   = errors.New("invalid message length")
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrSignatureVerification  = errors.New("failed to verify signature")
)

// Keypair holds the pub,pk keys
type Keypair struct {
	public  *PublicKey
	private *PrivateKey
}

// PublicKey struct for PublicKey
type PublicKey struct {
	key ecdsa.PublicKey
}

// PrivateKey struct for PrivateKey
type PrivateKey struct {
	key ecdsa.PrivateKey
}

// NewKeypair will returned a Keypair from a PrivateKey
func NewKeypair(pk ecdsa.PrivateKey) *Keypair {
	return &Keypair{
		public:  &PublicKey{key: pk.PublicKey},
		private: &PrivateKey{key: pk},
	}
}

// GenerateKeypair will generate a Keypair
func GenerateKeypair() (*Keypair, error) {
	priv, err := secp256k1.GenerateKey()
	if err != nil {
		return nil, err
	}
	return NewKeypair(*priv), nil
}

// NewPrivateKey will return a PrivateKey for a []byte
func NewPrivateKey(in []byte) (*PrivateKey, error) {
	pk := new(PrivateKey)
	err := pk.Decode(in)
	return pk, err
}

// NewPublicKey returns a public key from its 33 bytes compressed form
func NewPublicKey(in []byte) (*PublicKey, error) {
	pub := new(PublicKey)
	err := pub.Decode(in)
	return pub, err
}

// RecoverPublicKey returns the public key of the signer of a
// 32 bytes message given its 65 bytes recoverable signature.
func RecoverPublicKey(msg, sig []byte) (*PublicKey, error) {
	if len(msg) != MessageLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMessageLength, len(msg))
	}
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSignatureLength, len(sig))
	}

	signature := append([]byte(nil), sig...)
	// substrate signatures may carry the recovery id offset by 27
	if signature[64] >= 27 {
		signature[64] -= 27
	}

	pub, err := secp256k1.SigToPub(msg, signature)
	if err != nil {
		return nil, err
	}
	return &PublicKey{key: *pub}, nil
}

// VerifySignature verifies a signature given a public key and a message.
// It has the crypto.VerifyFunc signature.
func VerifySignature(publicKey, signature, message []byte) error {
	pubKey, err := NewPublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("secp256k1: %w", err)
	}

	ok, err := pubKey.Verify(message, signature)
	if err != nil {
		return fmt.Errorf("secp256k1: %w", err)
	} else if !ok {
		return fmt.Errorf("secp256k1: %w: for message 0x%x, signature 0x%x and public key 0x%x",
			ErrSignatureVerification, message, signature, publicKey)
	}
	return nil
}

// Type returns Secp256k1Type
func (kp *Keypair) Type() crypto.KeyType {
	return crypto.Secp256k1Type
}

// Sign a message using the Keypair's private key
func (kp *Keypair) Sign(msg []byte) ([]byte, error) {
	return kp.private.Sign(msg)
}

// Public returns the Keypair's PublicKey
func (kp *Keypair) Public() crypto.PublicKey {
	return kp.public
}

// Private returns the Keypair's PrivateKey
func (kp *Keypair) Private() crypto.PrivateKey {
	return kp.private
}

// Verify verifies a 64 or 65 bytes signature over a 32 bytes message
func (k *PublicKey) Verify(msg, sig []byte) (bool, error) {
	if len(msg) != MessageLength {
		return false, fmt.Errorf("%w: %d", ErrInvalidMessageLength, len(msg))
	}

	switch len(sig) {
	case SignatureLength:
		sig = sig[:SignatureLengthNoRecovery]
	case SignatureLengthNoRecovery:
	default:
		return false, fmt.Errorf("%w: %d", ErrInvalidSignatureLength, len(sig))
	}

	return secp256k1.VerifySignature(k.Encode(), msg, sig), nil
}

// Encode returns the 33 bytes compressed public key
func (k *PublicKey) Encode() []byte {
	return secp256k1.CompressPubkey(&k.key)
}

// Decode decodes a 33 bytes compressed public key
func (k *PublicKey) Decode(in []byte) error {
	pub, err := secp256k1.DecompressPubkey(in)
	if err != nil {
		return err
	}
	k.key = *pub
	return nil
}

// Address returns the ethereum address of the public key
func (k *PublicKey) Address() [AddressLength]byte {
	return secp256k1.PubkeyToAddress(k.key)
}

// Hex returns the public key as a '0x' prefixed hex string
func (k *PublicKey) Hex() string {
	return common.BytesToHex(k.Encode())
}

// Sign signs a 32 bytes message, returning a 65 bytes recoverable signature
func (pk *PrivateKey) Sign(msg []byte) ([]byte, error) {
	if len(msg) != MessageLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMessageLength, len(msg))
	}
	return secp256k1.Sign(msg, &pk.key)
}

// Public returns the PublicKey
func (pk *PrivateKey) Public() (crypto.PublicKey, error) {
	return &PublicKey{key: pk.key.PublicKey}, nil
}

// Encode returns the 32 bytes of the private key
func (pk *PrivateKey) Encode() []byte {
	return secp256k1.FromECDSA(&pk.key)
}

// Decode decodes 32 bytes into the private key
func (pk *PrivateKey) Decode(in []byte) error {
	key, err := secp256k1.ToECDSA(in)
	if err != nil {
		return err
	}
	pk.key = *key
	return nil
}

// Hex returns the private key as a '0x' prefixed hex string
func (pk *PrivateKey) Hex() string {
	return common.BytesToHex(pk.Encode())
}
