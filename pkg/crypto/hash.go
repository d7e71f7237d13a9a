// Package crypto provides the hash and signature primitives used by the
// mnemonic toolkit.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Klingon-tech/klingnet-mnemonic/pkg/types"
	"github.com/zeebo/blake3"
)

// FingerprintSize is the number of digest bytes kept in a Fingerprint.
const FingerprintSize = 4

// SHA256 computes the SHA-256 digest of data. BIP-39 checksums are taken
// from this digest.
func SHA256(data []byte) types.Hash {
	return sha256.Sum256(data)
}

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// Fingerprint returns a short, non-reversible identifier for secret
// material: the first FingerprintSize bytes of BLAKE3(data), hex encoded.
// Safe to print and log.
func Fingerprint(data []byte) string {
	h := Hash(data)
	return hex.EncodeToString(h[:FingerprintSize])
}
