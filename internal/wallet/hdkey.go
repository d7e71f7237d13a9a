package wallet

import (
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip32"

	"github.com/Klingon-tech/klingnet-mnemonic/pkg/bip39"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/crypto"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/types"
)

// ErrPublicOnly is returned when a private key is required but the HDKey
// has been neutered.
var ErrPublicOnly = errors.New("key has no private part")

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != bip39.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", bip39.SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// MasterKeyFromMnemonic creates the master key for a mnemonic's seed.
func MasterKeyFromMnemonic(m *bip39.Mnemonic) (*HDKey, error) {
	seed := m.Seed()
	defer clear(seed)
	return NewMasterKey(seed)
}

// ParseExtendedKey decodes a base58 xprv or xpub.
func ParseExtendedKey(s string) (*HDKey, error) {
	key, err := bip32.B58Deserialize(s)
	if err != nil {
		return nil, fmt.Errorf("parse extended key: %w", err)
	}
	return &HDKey{key: key}, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add bip32.FirstHardenedChild to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	if !k.key.IsPrivate && index >= bip32.FirstHardenedChild {
		return nil, fmt.Errorf("derive child %d: %w", index, ErrPublicOnly)
	}
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along path.
func (k *HDKey) DerivePath(path Path) (*HDKey, error) {
	current := k
	for _, idx := range path {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveAccount derives the key at m/44'/8888'/account'/change/index.
func (k *HDKey) DeriveAccount(account, change, index uint32) (*HDKey, error) {
	return k.DerivePath(AccountPath(account, change, index))
}

// PrivateKeyBytes returns the raw 32-byte private key.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 may carry a leading 0x00 on 33-byte private keys.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	return k.key.PublicKey().Key
}

// Signer returns a Schnorr signing key for this HD key.
func (k *HDKey) Signer() (*crypto.PrivateKey, error) {
	priv := k.PrivateKeyBytes()
	if priv == nil {
		return nil, fmt.Errorf("create signer: %w", ErrPublicOnly)
	}
	return crypto.PrivateKeyFromBytes(priv)
}

// KeyID identifies the key by the BLAKE3 hash of its compressed public key.
func (k *HDKey) KeyID() types.Hash {
	return crypto.Hash(k.PublicKeyBytes())
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Neuter returns a public-key-only copy (for watch-only use).
func (k *HDKey) Neuter() *HDKey {
	if !k.key.IsPrivate {
		return k
	}
	return &HDKey{key: k.key.PublicKey()}
}

// String returns the base58 extended key (xprv or xpub).
func (k *HDKey) String() string {
	return k.key.B58Serialize()
}
