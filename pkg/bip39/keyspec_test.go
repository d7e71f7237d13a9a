package bip39

import (
	"errors"
	"testing"
)

func TestKeySpecs_Invariants(t *testing.T) {
	specs := KeySpecs()
	if len(specs) != 5 {
		t.Fatalf("KeySpecs() returned %d specs, want 5", len(specs))
	}
	for _, ks := range specs {
		if ks.EntropyBits != 32*ks.Words/3 {
			t.Errorf("%d words: EntropyBits = %d, want %d", ks.Words, ks.EntropyBits, 32*ks.Words/3)
		}
		if ks.ChecksumBits != ks.EntropyBits/32 {
			t.Errorf("%d words: ChecksumBits = %d, want %d", ks.Words, ks.ChecksumBits, ks.EntropyBits/32)
		}
		if ks.TotalBits() != ks.Words*WordBits {
			t.Errorf("%d words: TotalBits = %d, want %d", ks.Words, ks.TotalBits(), ks.Words*WordBits)
		}
	}
}

func TestKeySpecs_ReturnsCopy(t *testing.T) {
	specs := KeySpecs()
	specs[0].Words = 99
	if KeySpecs()[0].Words != 12 {
		t.Error("mutating KeySpecs() result should not affect the table")
	}
}

func TestKeySpecForWords(t *testing.T) {
	tests := []struct {
		words       int
		entropyBits int
		wantErr     bool
	}{
		{12, 128, false},
		{15, 160, false},
		{18, 192, false},
		{21, 224, false},
		{24, 256, false},
		{0, 0, true},
		{11, 0, true},
		{13, 0, true},
		{25, 0, true},
	}

	for _, tt := range tests {
		ks, err := KeySpecForWords(tt.words)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidWordCount) {
				t.Errorf("KeySpecForWords(%d) error = %v, want ErrInvalidWordCount", tt.words, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("KeySpecForWords(%d) error: %v", tt.words, err)
		}
		if ks.EntropyBits != tt.entropyBits {
			t.Errorf("KeySpecForWords(%d).EntropyBits = %d, want %d", tt.words, ks.EntropyBits, tt.entropyBits)
		}
	}
}

func TestKeySpecForEntropy(t *testing.T) {
	for _, n := range []int{16, 20, 24, 28, 32} {
		ks, err := KeySpecForEntropy(n)
		if err != nil {
			t.Fatalf("KeySpecForEntropy(%d) error: %v", n, err)
		}
		if ks.EntropyBytes() != n {
			t.Errorf("KeySpecForEntropy(%d).EntropyBytes() = %d", n, ks.EntropyBytes())
		}
	}

	for _, n := range []int{0, 8, 15, 17, 33, 64} {
		if _, err := KeySpecForEntropy(n); !errors.Is(err, ErrUnsupportedEntropyLength) {
			t.Errorf("KeySpecForEntropy(%d) error = %v, want ErrUnsupportedEntropyLength", n, err)
		}
	}
}
