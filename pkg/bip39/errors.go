package bip39

import "errors"

var (
	// ErrRandomnessUnavailable is returned when the random source fails or
	// returns fewer bytes than requested.
	ErrRandomnessUnavailable = errors.New("randomness unavailable")

	ErrUnsupportedEntropyLength = errors.New("entropy must be 16, 20, 24, 28 or 32 bytes")
	ErrInvalidWordCount         = errors.New("word count must be 12, 15, 18, 21 or 24")

	// ErrInvalidWord is returned when a phrase token is not in the
	// language's wordlist. The wrapped error names the position, never the word.
	ErrInvalidWord = errors.New("word not in wordlist")

	ErrInvalidChecksum = errors.New("invalid mnemonic checksum")

	// ErrInsufficientBits means a bit read ran past the end of its stream.
	// Encoding and decoding size their streams from a KeySpec, so seeing this
	// outside of bit-level tests indicates a bug.
	ErrInsufficientBits = errors.New("insufficient bits in stream")

	ErrUnknownLanguage = errors.New("unknown wordlist language")
)
