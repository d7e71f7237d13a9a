package bip39

import (
	"fmt"
	"strings"
)

// EncodeEntropy converts entropy into a phrase in the given language.
// Entropy must be 16, 20, 24, 28 or 32 bytes long.
func EncodeEntropy(entropy []byte, lang Language) (string, error) {
	spec, err := KeySpecForEntropy(len(entropy))
	if err != nil {
		return "", err
	}
	wl, err := lang.Wordlist()
	if err != nil {
		return "", err
	}

	indices, err := entropyToIndices(entropy, spec)
	if err != nil {
		return "", err
	}
	words := make([]string, len(indices))
	for i, idx := range indices {
		words[i] = wl.Word(idx)
	}
	return strings.Join(words, " "), nil
}

// DecodePhrase recovers the entropy encoded in phrase, verifying its
// checksum. Words may be separated by any whitespace.
//
// The word count is checked before any lookup; a single unknown word
// rejects the whole phrase.
func DecodePhrase(phrase string, lang Language) ([]byte, error) {
	words := strings.Fields(phrase)
	spec, err := KeySpecForWords(len(words))
	if err != nil {
		return nil, err
	}
	wl, err := lang.Wordlist()
	if err != nil {
		return nil, err
	}

	indices := make([]uint16, len(words))
	for i, word := range words {
		idx, ok := wl.Index(word)
		if !ok {
			return nil, fmt.Errorf("%w: position %d (%s)", ErrInvalidWord, i+1, lang)
		}
		indices[i] = idx
	}
	return indicesToEntropy(indices, spec)
}

// ValidatePhrase reports whether phrase is a valid mnemonic in lang.
func ValidatePhrase(phrase string, lang Language) error {
	_, err := DecodePhrase(phrase, lang)
	return err
}

// NormalizePhrase collapses runs of whitespace to single spaces and trims
// the ends.
func NormalizePhrase(phrase string) string {
	return strings.Join(strings.Fields(phrase), " ")
}

// entropyToIndices appends the checksum to entropy and splits the stream
// into spec.Words word indices.
func entropyToIndices(entropy []byte, spec KeySpec) ([]uint16, error) {
	sum, sumBits := checksumBits(entropy)
	w := newBitWriter(spec.TotalBits())
	w.writeBytes(entropy)
	w.writeBits(sum, sumBits)
	return unpackIndices(w.bytes(), w.bitLen(), spec.Words)
}

// indicesToEntropy is the inverse of entropyToIndices.
func indicesToEntropy(indices []uint16, spec KeySpec) ([]byte, error) {
	stream, bitLen := packIndices(indices)
	return splitAndVerify(stream, bitLen, spec)
}
