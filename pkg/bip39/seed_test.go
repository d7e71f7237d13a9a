package bip39

import (
	"bytes"
	"encoding/hex"
	"testing"

	refbip39 "github.com/tyler-smith/go-bip39"
)

func TestDeriveSeed_Vectors(t *testing.T) {
	for _, tt := range trezorVectors {
		got := hex.EncodeToString(DeriveSeed(tt.phrase, "TREZOR"))
		if got != tt.seed {
			t.Errorf("DeriveSeed(%q) = %s, want %s", tt.phrase, got, tt.seed)
		}
	}
}

func TestDeriveSeed_EmptyPassphrase(t *testing.T) {
	tests := []struct {
		phrase string
		seed   string
	}{
		{
			phrase: parkPhrase,
			seed:   "68c684adfaab5a3946599f93cf8e856530b69d326d0922f55defbf60f8d992cc8832b673c09855e83e215a348950ced65a52403dfc15ec1a7c725d5b8913ff70",
		},
		{
			phrase: trezorVectors[0].phrase,
			seed:   "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4",
		},
	}

	for _, tt := range tests {
		seed := DeriveSeed(tt.phrase, "")
		if len(seed) != SeedSize {
			t.Fatalf("seed length = %d, want %d", len(seed), SeedSize)
		}
		if got := hex.EncodeToString(seed); got != tt.seed {
			t.Errorf("DeriveSeed(%q) = %s, want %s", tt.phrase, got, tt.seed)
		}
	}
}

func TestDeriveSeed_Deterministic(t *testing.T) {
	a := DeriveSeed(parkPhrase, "pass")
	b := DeriveSeed(parkPhrase, "pass")
	if !bytes.Equal(a, b) {
		t.Error("same inputs should derive the same seed")
	}
}

func TestDeriveSeed_PassphraseSensitive(t *testing.T) {
	a := DeriveSeed(parkPhrase, "")
	b := DeriveSeed(parkPhrase, "a")
	c := DeriveSeed(parkPhrase, "A")
	if bytes.Equal(a, b) || bytes.Equal(b, c) {
		t.Error("different passphrases should derive different seeds")
	}
}

func TestDeriveSeed_NFKD(t *testing.T) {
	composed := DeriveSeed(parkPhrase, "caf\u00e9")
	decomposed := DeriveSeed(parkPhrase, "cafe\u0301")
	if !bytes.Equal(composed, decomposed) {
		t.Error("canonically equivalent passphrases should derive the same seed")
	}

	// Compatibility forms fold too: U+FB01 decomposes to "fi".
	if !bytes.Equal(DeriveSeed(parkPhrase, "\ufb01"), DeriveSeed(parkPhrase, "fi")) {
		t.Error("compatibility-equivalent passphrases should derive the same seed")
	}
}

func TestDeriveSeed_NoValidation(t *testing.T) {
	// Any string is accepted; callers validate first.
	if len(DeriveSeed("not a mnemonic", "")) != SeedSize {
		t.Error("DeriveSeed should not reject unvalidated input")
	}
}

func TestDeriveSeed_MatchesReference(t *testing.T) {
	for _, pass := range []string{"", "TREZOR", "correct horse battery staple"} {
		want := refbip39.NewSeed(parkPhrase, pass)
		if got := DeriveSeed(parkPhrase, pass); !bytes.Equal(got, want) {
			t.Errorf("passphrase %q: DeriveSeed() = %x, reference = %x", pass, got, want)
		}
	}
}
