package crypto

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-mnemonic/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

// messagePrefix domain-separates signed messages from any other digest a
// derived key might be asked to sign.
const messagePrefix = "Klingnet Signed Message:\n"

// MessageHash returns the digest that SignMessage signs for msg.
func MessageHash(msg []byte) types.Hash {
	buf := make([]byte, 0, len(messagePrefix)+len(msg))
	buf = append(buf, messagePrefix...)
	buf = append(buf, msg...)
	return SHA256(buf)
}

// PrivateKey wraps a secp256k1 private key for Schnorr signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Sign produces a Schnorr signature over a 32-byte hash.
func (pk *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	sig, err := schnorr.Sign(pk.key, hash)
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// SignMessage signs MessageHash(msg).
func (pk *PrivateKey) SignMessage(msg []byte) ([]byte, error) {
	h := MessageHash(msg)
	return pk.Sign(h[:])
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// VerifySignature checks a Schnorr signature against a 32-byte hash
// and a compressed public key. Returns false on any error.
func VerifySignature(hash, signature, publicKey []byte) bool {
	pubKey, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pubKey)
}

// VerifyMessage checks a signature produced by SignMessage.
func VerifyMessage(msg, signature, publicKey []byte) bool {
	h := MessageHash(msg)
	return VerifySignature(h[:], signature, publicKey)
}
