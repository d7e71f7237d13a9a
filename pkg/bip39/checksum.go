package bip39

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-mnemonic/pkg/crypto"
)

// checksumBits returns the leading len(entropy)*8/32 bits of
// SHA-256(entropy) as a right-aligned value, together with that width.
func checksumBits(entropy []byte) (uint16, int) {
	width := len(entropy) * 8 / 32
	digest := crypto.SHA256(entropy)
	sum, err := newBitReader(digest[:], len(digest)*8).readBits(width)
	if err != nil {
		// width <= 16 for any entropy up to 64 bytes.
		panic(fmt.Sprintf("bip39: checksum width %d: %v", width, err))
	}
	return sum, width
}

// splitAndVerify splits an entropy+checksum stream per spec, recomputes the
// checksum of the entropy part and compares it with the embedded one.
//
// The stream length must equal spec.TotalBits(); callers size the stream
// from the word count, so a mismatch is a bug and panics.
func splitAndVerify(stream []byte, bitLen int, spec KeySpec) ([]byte, error) {
	r := newBitReader(stream, bitLen)
	if r.remaining() != spec.TotalBits() {
		panic(fmt.Sprintf("bip39: stream holds %d bits, %s needs %d",
			r.remaining(), spec, spec.TotalBits()))
	}

	entropy := make([]byte, spec.EntropyBytes())
	for i := range entropy {
		entropy[i] = byte(mustReadBits(r, 8))
	}
	embedded := mustReadBits(r, spec.ChecksumBits)

	computed, width := checksumBits(entropy)
	if width != spec.ChecksumBits || computed != embedded {
		return nil, ErrInvalidChecksum
	}
	return entropy, nil
}

func mustReadBits(r *bitReader, width int) uint16 {
	v, err := r.readBits(width)
	if err != nil {
		panic(fmt.Sprintf("bip39: %v", err))
	}
	return v
}
