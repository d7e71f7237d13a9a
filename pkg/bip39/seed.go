package bip39

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	// SeedSize is the length of a derived seed in bytes (512 bits).
	SeedSize = 64

	// SeedIterations is the PBKDF2 round count fixed by BIP-39.
	SeedIterations = 2048

	saltPrefix = "mnemonic"
)

// DeriveSeed derives the 64-byte seed for a phrase and optional passphrase
// using PBKDF2-HMAC-SHA512 with salt "mnemonic"+passphrase. Phrase and salt
// are NFKD-normalised first. The phrase is not validated here.
func DeriveSeed(phrase, passphrase string) []byte {
	password := []byte(norm.NFKD.String(phrase))
	salt := []byte(norm.NFKD.String(saltPrefix + passphrase))
	return pbkdf2.Key(password, salt, SeedIterations, SeedSize, sha512.New)
}
