// Package bip39 converts between entropy and BIP-39 mnemonic phrases and
// derives seeds from them.
//
// Encoding appends the leading ENT/32 bits of SHA-256(entropy) to the
// entropy and splits the result into 11-bit word indices. Decoding reverses
// that and rejects phrases whose embedded checksum does not match.
//
// Wordlists are built once per language on first use and are read-only
// afterwards, so every function in this package is safe for concurrent use.
package bip39

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/Klingon-tech/klingnet-mnemonic/pkg/crypto"
)

// Mnemonic is a validated phrase together with its derived seed.
// The zero value is not usable; construct one with Generate, GenerateFrom,
// FromPhrase or FromEntropy.
type Mnemonic struct {
	phrase string
	seed   []byte
	lang   Language
	spec   KeySpec
}

// Generate creates a mnemonic from fresh entropy read from crypto/rand.
func Generate(spec KeySpec, lang Language, passphrase string) (*Mnemonic, error) {
	return GenerateFrom(rand.Reader, spec, lang, passphrase)
}

// GenerateFrom creates a mnemonic from entropy read from r. A failed or short
// read is reported as ErrRandomnessUnavailable.
func GenerateFrom(r io.Reader, spec KeySpec, lang Language, passphrase string) (*Mnemonic, error) {
	spec, err := KeySpecForWords(spec.Words)
	if err != nil {
		return nil, err
	}

	entropy := make([]byte, spec.EntropyBytes())
	defer wipe(entropy)
	if _, err := io.ReadFull(r, entropy); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRandomnessUnavailable, err)
	}

	phrase, err := EncodeEntropy(entropy, lang)
	if err != nil {
		return nil, err
	}
	return &Mnemonic{
		phrase: phrase,
		seed:   DeriveSeed(phrase, passphrase),
		lang:   lang,
		spec:   spec,
	}, nil
}

// FromPhrase validates phrase and derives its seed. Whitespace between words
// is normalised to single spaces before the seed is derived. No seed is
// computed for an invalid phrase.
func FromPhrase(phrase string, lang Language, passphrase string) (*Mnemonic, error) {
	phrase = NormalizePhrase(phrase)
	if err := ValidatePhrase(phrase, lang); err != nil {
		return nil, err
	}
	spec, err := KeySpecForWords(len(strings.Fields(phrase)))
	if err != nil {
		return nil, err
	}
	return &Mnemonic{
		phrase: phrase,
		seed:   DeriveSeed(phrase, passphrase),
		lang:   lang,
		spec:   spec,
	}, nil
}

// FromEntropy encodes entropy as a phrase and derives its seed.
func FromEntropy(entropy []byte, lang Language, passphrase string) (*Mnemonic, error) {
	phrase, err := EncodeEntropy(entropy, lang)
	if err != nil {
		return nil, err
	}
	return FromPhrase(phrase, lang, passphrase)
}

// Phrase returns the space-separated mnemonic phrase.
func (m *Mnemonic) Phrase() string {
	return m.phrase
}

// Words returns the phrase split into words.
func (m *Mnemonic) Words() []string {
	return strings.Fields(m.phrase)
}

// Seed returns a copy of the 64-byte seed.
func (m *Mnemonic) Seed() []byte {
	out := make([]byte, len(m.seed))
	copy(out, m.seed)
	return out
}

// SeedHex returns the seed as lowercase hex.
func (m *Mnemonic) SeedHex() string {
	return hex.EncodeToString(m.seed)
}

// Language returns the wordlist language of the phrase.
func (m *Mnemonic) Language() Language {
	return m.lang
}

// KeySpec returns the size class of the phrase.
func (m *Mnemonic) KeySpec() KeySpec {
	return m.spec
}

// Entropy decodes the phrase again and returns its entropy. The result is
// not cached.
func (m *Mnemonic) Entropy() ([]byte, error) {
	return DecodePhrase(m.phrase, m.lang)
}

// EntropyHex returns Entropy as lowercase hex.
func (m *Mnemonic) EntropyHex() (string, error) {
	entropy, err := m.Entropy()
	if err != nil {
		return "", err
	}
	defer wipe(entropy)
	return hex.EncodeToString(entropy), nil
}

// Fingerprint returns a short identifier of the seed that is safe to print.
func (m *Mnemonic) Fingerprint() string {
	return crypto.Fingerprint(m.seed)
}

// String describes the mnemonic without revealing the phrase or seed.
func (m *Mnemonic) String() string {
	return fmt.Sprintf("mnemonic(%s, %d words, fingerprint %s)", m.lang, m.spec.Words, m.Fingerprint())
}

// Zero overwrites the seed in memory. The mnemonic must not be used for
// key derivation afterwards.
func (m *Mnemonic) Zero() {
	wipe(m.seed)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
