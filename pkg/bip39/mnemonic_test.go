package bip39

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func spec(t *testing.T, words int) KeySpec {
	t.Helper()
	ks, err := KeySpecForWords(words)
	if err != nil {
		t.Fatalf("KeySpecForWords(%d) error: %v", words, err)
	}
	return ks
}

func TestGenerateFrom_Deterministic(t *testing.T) {
	m, err := GenerateFrom(bytes.NewReader(make([]byte, 32)), spec(t, 12), English, "TREZOR")
	if err != nil {
		t.Fatalf("GenerateFrom() error: %v", err)
	}

	if m.Phrase() != trezorVectors[0].phrase {
		t.Errorf("Phrase() = %q, want %q", m.Phrase(), trezorVectors[0].phrase)
	}
	if m.SeedHex() != trezorVectors[0].seed {
		t.Errorf("SeedHex() = %s, want %s", m.SeedHex(), trezorVectors[0].seed)
	}
	if m.Language() != English {
		t.Errorf("Language() = %s, want english", m.Language())
	}
	if m.KeySpec().Words != 12 {
		t.Errorf("KeySpec().Words = %d, want 12", m.KeySpec().Words)
	}
}

func TestGenerateFrom_ConsumesExactEntropy(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0xff}, 40))
	m, err := GenerateFrom(src, spec(t, 24), English, "")
	if err != nil {
		t.Fatalf("GenerateFrom() error: %v", err)
	}
	if m.Phrase() != trezorVectors[5].phrase {
		t.Errorf("Phrase() = %q", m.Phrase())
	}
	if src.Len() != 8 {
		t.Errorf("reader has %d bytes left, want 8", src.Len())
	}
}

func TestGenerateFrom_RandomnessFailure(t *testing.T) {
	tests := []struct {
		name   string
		source func() *bytes.Reader
	}{
		{"short read", func() *bytes.Reader { return bytes.NewReader(make([]byte, 10)) }},
		{"empty", func() *bytes.Reader { return bytes.NewReader(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := GenerateFrom(tt.source(), spec(t, 12), English, "")
			if !errors.Is(err, ErrRandomnessUnavailable) {
				t.Errorf("GenerateFrom() error = %v, want ErrRandomnessUnavailable", err)
			}
			if m != nil {
				t.Error("GenerateFrom() should return nil on failure")
			}
		})
	}

	t.Run("reader error", func(t *testing.T) {
		boom := errors.New("entropy pool closed")
		_, err := GenerateFrom(iotest.ErrReader(boom), spec(t, 12), English, "")
		if !errors.Is(err, ErrRandomnessUnavailable) {
			t.Errorf("error = %v, want ErrRandomnessUnavailable", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, should wrap the reader error", err)
		}
	})
}

func TestGenerate_AllSpecs(t *testing.T) {
	for _, ks := range KeySpecs() {
		m, err := Generate(ks, English, "")
		if err != nil {
			t.Fatalf("Generate(%d) error: %v", ks.Words, err)
		}
		if len(m.Words()) != ks.Words {
			t.Errorf("Generate(%d) produced %d words", ks.Words, len(m.Words()))
		}
		if len(m.Seed()) != SeedSize {
			t.Errorf("seed length = %d, want %d", len(m.Seed()), SeedSize)
		}
		if err := ValidatePhrase(m.Phrase(), English); err != nil {
			t.Errorf("generated phrase does not validate: %v", err)
		}
	}
}

func TestGenerate_Unique(t *testing.T) {
	a, err := Generate(spec(t, 12), English, "")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	b, err := Generate(spec(t, 12), English, "")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if a.Phrase() == b.Phrase() {
		t.Error("two generated mnemonics should differ")
	}
}

func TestGenerate_InvalidSpec(t *testing.T) {
	for _, ks := range []KeySpec{{}, {Words: 13, EntropyBits: 136, ChecksumBits: 4}} {
		if _, err := Generate(ks, English, ""); !errors.Is(err, ErrInvalidWordCount) {
			t.Errorf("Generate(%v) error = %v, want ErrInvalidWordCount", ks, err)
		}
	}
}

func TestGenerate_UnknownLanguage(t *testing.T) {
	if _, err := Generate(spec(t, 12), Language("klingon"), ""); !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("Generate() error = %v, want ErrUnknownLanguage", err)
	}
}

func TestFromPhrase(t *testing.T) {
	m, err := FromPhrase(parkPhrase, English, "")
	if err != nil {
		t.Fatalf("FromPhrase() error: %v", err)
	}
	want := "68c684adfaab5a3946599f93cf8e856530b69d326d0922f55defbf60f8d992cc8832b673c09855e83e215a348950ced65a52403dfc15ec1a7c725d5b8913ff70"
	if m.SeedHex() != want {
		t.Errorf("SeedHex() = %s, want %s", m.SeedHex(), want)
	}
}

func TestFromPhrase_NormalisesWhitespace(t *testing.T) {
	messy := "  " + strings.ReplaceAll(parkPhrase, " ", " \t ") + "\n"

	m, err := FromPhrase(messy, English, "")
	if err != nil {
		t.Fatalf("FromPhrase() error: %v", err)
	}
	if m.Phrase() != parkPhrase {
		t.Errorf("Phrase() = %q, want %q", m.Phrase(), parkPhrase)
	}

	clean, _ := FromPhrase(parkPhrase, English, "")
	if m.SeedHex() != clean.SeedHex() {
		t.Error("whitespace should not change the derived seed")
	}
}

func TestFromPhrase_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		err    error
	}{
		{"word count", "park remain person", ErrInvalidWordCount},
		{"unknown word", strings.Replace(parkPhrase, "mule", "mulex", 1), ErrInvalidWord},
		{"checksum", strings.Replace(trezorVectors[1].phrase, "yellow", "year", 1), ErrInvalidChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromPhrase(tt.phrase, English, "")
			if !errors.Is(err, tt.err) {
				t.Errorf("FromPhrase() error = %v, want %v", err, tt.err)
			}
			if m != nil {
				t.Error("FromPhrase() should return nil for an invalid phrase")
			}
		})
	}
}

func TestFromEntropy(t *testing.T) {
	for _, tt := range trezorVectors {
		m, err := FromEntropy(mustHex(t, tt.entropy), English, "TREZOR")
		if err != nil {
			t.Fatalf("FromEntropy(%s) error: %v", tt.entropy, err)
		}
		if m.Phrase() != tt.phrase {
			t.Errorf("Phrase() = %q, want %q", m.Phrase(), tt.phrase)
		}
		if m.SeedHex() != tt.seed {
			t.Errorf("SeedHex() = %s, want %s", m.SeedHex(), tt.seed)
		}

		entropy, err := m.EntropyHex()
		if err != nil {
			t.Fatalf("EntropyHex() error: %v", err)
		}
		if entropy != tt.entropy {
			t.Errorf("EntropyHex() = %s, want %s", entropy, tt.entropy)
		}
	}
}

func TestFromEntropy_BadLength(t *testing.T) {
	if _, err := FromEntropy(make([]byte, 17), English, ""); !errors.Is(err, ErrUnsupportedEntropyLength) {
		t.Errorf("FromEntropy() error = %v, want ErrUnsupportedEntropyLength", err)
	}
}

func TestMnemonic_EntropyStable(t *testing.T) {
	m, err := FromPhrase(parkPhrase, English, "")
	if err != nil {
		t.Fatalf("FromPhrase() error: %v", err)
	}
	first, _ := m.EntropyHex()
	second, _ := m.EntropyHex()
	if first != second {
		t.Errorf("EntropyHex() changed between calls: %s, %s", first, second)
	}
}

func TestMnemonic_SeedIsCopy(t *testing.T) {
	m, _ := FromPhrase(parkPhrase, English, "")
	seed := m.Seed()
	seed[0] ^= 0xff
	if bytes.Equal(seed, m.Seed()) {
		t.Error("modifying Seed() result should not change the mnemonic")
	}
}

func TestMnemonic_StringRedacts(t *testing.T) {
	m, _ := FromPhrase(parkPhrase, English, "")
	s := m.String()
	for _, w := range m.Words() {
		if strings.Contains(s, w) {
			t.Fatalf("String() = %q leaks word %q", s, w)
		}
	}
	if strings.Contains(s, m.SeedHex()[:16]) {
		t.Errorf("String() = %q leaks the seed", s)
	}
	if !strings.Contains(s, m.Fingerprint()) {
		t.Errorf("String() = %q should include the fingerprint", s)
	}
}

func TestMnemonic_Zero(t *testing.T) {
	m, _ := FromPhrase(parkPhrase, English, "")
	m.Zero()
	if m.SeedHex() != hex.EncodeToString(make([]byte, SeedSize)) {
		t.Error("Zero() should wipe the seed")
	}
}

func TestMnemonic_ConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lang := Languages()[i%len(Languages())]
			m, err := FromEntropy(testEntropy(16, byte(i)), lang, "")
			if err != nil {
				errs <- err
				return
			}
			if _, err := FromPhrase(m.Phrase(), lang, ""); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent roundtrip error: %v", err)
	}
}
