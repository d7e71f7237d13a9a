package bip39

import "fmt"

// WordBits is the number of bits each word encodes.
const WordBits = 11

// WordlistSize is the number of entries in every BIP-39 wordlist.
const WordlistSize = 1 << WordBits

// KeySpec describes one of the five BIP-39 phrase sizes.
type KeySpec struct {
	Words        int
	EntropyBits  int
	ChecksumBits int
}

// EntropyBits = 32*Words/3, ChecksumBits = EntropyBits/32.
var keySpecs = [...]KeySpec{
	{Words: 12, EntropyBits: 128, ChecksumBits: 4},
	{Words: 15, EntropyBits: 160, ChecksumBits: 5},
	{Words: 18, EntropyBits: 192, ChecksumBits: 6},
	{Words: 21, EntropyBits: 224, ChecksumBits: 7},
	{Words: 24, EntropyBits: 256, ChecksumBits: 8},
}

// KeySpecs returns every supported key spec, smallest first.
func KeySpecs() []KeySpec {
	out := make([]KeySpec, len(keySpecs))
	copy(out, keySpecs[:])
	return out
}

// KeySpecForWords returns the key spec for a phrase of n words.
func KeySpecForWords(n int) (KeySpec, error) {
	for _, ks := range keySpecs {
		if ks.Words == n {
			return ks, nil
		}
	}
	return KeySpec{}, fmt.Errorf("%w: got %d", ErrInvalidWordCount, n)
}

// KeySpecForEntropy returns the key spec for n bytes of entropy.
func KeySpecForEntropy(n int) (KeySpec, error) {
	for _, ks := range keySpecs {
		if ks.EntropyBytes() == n {
			return ks, nil
		}
	}
	return KeySpec{}, fmt.Errorf("%w: got %d", ErrUnsupportedEntropyLength, n)
}

// EntropyBytes returns the entropy length in bytes.
func (ks KeySpec) EntropyBytes() int {
	return ks.EntropyBits / 8
}

// TotalBits returns the length of the entropy+checksum stream. Always
// Words*WordBits.
func (ks KeySpec) TotalBits() int {
	return ks.EntropyBits + ks.ChecksumBits
}

func (ks KeySpec) String() string {
	return fmt.Sprintf("%d words (%d-bit entropy)", ks.Words, ks.EntropyBits)
}
