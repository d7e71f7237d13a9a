package wallet

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	klog "github.com/Klingon-tech/klingnet-mnemonic/internal/log"
	"github.com/Klingon-tech/klingnet-mnemonic/internal/storage"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/bip39"
)

const recordVersion = 1

// Keystore namespaces inside the backing DB.
var (
	keystorePrefix = []byte("keystore/")
	walletPrefix   = []byte("w/")
)

var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrInvalidName    = errors.New("invalid wallet name")

	// ErrPassphraseMismatch is returned by Open when the phrase decrypts but
	// the supplied BIP-39 passphrase yields a different seed than the one
	// the wallet was created with.
	ErrPassphraseMismatch = errors.New("passphrase does not match wallet fingerprint")
)

// Info is the non-secret metadata of a stored wallet.
type Info struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Language    bip39.Language `json:"language"`
	Words       int            `json:"words"`
	Fingerprint string         `json:"fingerprint"`
	CreatedAt   time.Time      `json:"created_at"`
}

// record is the stored form of a wallet. Only the phrase is sealed; the
// seed is re-derived on Open.
type record struct {
	Version int    `json:"version"`
	Info    Info   `json:"info"`
	Sealed  []byte `json:"sealed_phrase"`
}

// Keystore stores password-encrypted mnemonics in a storage.DB.
// Safe for concurrent use.
type Keystore struct {
	db     *storage.PrefixDB
	params EncryptionParams

	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewKeystore creates a keystore in db using params for new wallets.
func NewKeystore(db storage.DB, params EncryptionParams) (*Keystore, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Keystore{
		db:      storage.NewPrefixDB(db, keystorePrefix),
		params:  params,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}, nil
}

// ValidateName checks a wallet name: 1-64 characters from [A-Za-z0-9._-],
// not starting with a dot.
func ValidateName(name string) error {
	if name == "" || len(name) > 64 || name[0] == '.' {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

func walletKey(name string) []byte {
	return append(append([]byte{}, walletPrefix...), name...)
}

// Create seals m's phrase under password and stores it as name.
func (ks *Keystore) Create(name string, m *bip39.Mnemonic, password []byte) (*Info, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	exists, err := ks.db.Has(walletKey(name))
	if err != nil {
		return nil, fmt.Errorf("check wallet: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrWalletExists, name)
	}

	phrase := []byte(m.Phrase())
	defer clear(phrase)
	sealed, err := Seal(phrase, password, ks.params)
	if err != nil {
		return nil, fmt.Errorf("seal phrase: %w", err)
	}

	now := ks.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), ks.entropy)
	if err != nil {
		return nil, fmt.Errorf("generate wallet id: %w", err)
	}

	rec := record{
		Version: recordVersion,
		Info: Info{
			ID:          id.String(),
			Name:        name,
			Language:    m.Language(),
			Words:       m.KeySpec().Words,
			Fingerprint: m.Fingerprint(),
			CreatedAt:   now,
		},
		Sealed: sealed,
	}
	if err := ks.put(&rec); err != nil {
		return nil, err
	}

	wlog := klog.WithWallet(name)
	wlog.Info().
		Str("id", rec.Info.ID).
		Str("fingerprint", rec.Info.Fingerprint).
		Int("words", rec.Info.Words).
		Msg("Wallet created")

	info := rec.Info
	return &info, nil
}

// Open decrypts wallet name and rebuilds its mnemonic with passphrase.
// A wrong password yields ErrWrongPassword; a passphrase other than the
// one used at creation yields ErrPassphraseMismatch.
func (ks *Keystore) Open(name string, password []byte, passphrase string) (*bip39.Mnemonic, error) {
	rec, err := ks.get(name)
	if err != nil {
		return nil, err
	}

	phrase, err := Open(rec.Sealed, password)
	if err != nil {
		wlog := klog.WithWallet(name)
		wlog.Warn().Msg("Wallet unlock failed")
		return nil, fmt.Errorf("open wallet %q: %w", name, err)
	}
	defer clear(phrase)

	m, err := bip39.FromPhrase(string(phrase), rec.Info.Language, passphrase)
	if err != nil {
		return nil, fmt.Errorf("stored phrase for %q: %w", name, err)
	}
	if m.Fingerprint() != rec.Info.Fingerprint {
		m.Zero()
		return nil, fmt.Errorf("open wallet %q: %w", name, ErrPassphraseMismatch)
	}

	wlog := klog.WithWallet(name)
	wlog.Debug().Str("fingerprint", rec.Info.Fingerprint).Msg("Wallet unlocked")
	return m, nil
}

// Info returns the metadata of wallet name.
func (ks *Keystore) Info(name string) (*Info, error) {
	rec, err := ks.get(name)
	if err != nil {
		return nil, err
	}
	return &rec.Info, nil
}

// List returns the metadata of all wallets ordered by name.
func (ks *Keystore) List() ([]Info, error) {
	var out []Info
	err := ks.db.ForEach(walletPrefix, func(key, value []byte) error {
		rec, err := decodeRecord(value)
		if err != nil {
			return fmt.Errorf("wallet %q: %w", key[len(walletPrefix):], err)
		}
		out = append(out, rec.Info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return out, nil
}

// Exists reports whether wallet name is stored.
func (ks *Keystore) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	return ks.db.Has(walletKey(name))
}

// Delete removes wallet name.
func (ks *Keystore) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	exists, err := ks.db.Has(walletKey(name))
	if err != nil {
		return fmt.Errorf("check wallet: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err := ks.db.Delete(walletKey(name)); err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}

	wlog := klog.WithWallet(name)
	wlog.Info().Msg("Wallet deleted")
	return nil
}

// ChangePassword re-seals wallet name under newPassword.
func (ks *Keystore) ChangePassword(name string, oldPassword, newPassword []byte) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	rec, err := ks.get(name)
	if err != nil {
		return err
	}
	phrase, err := Open(rec.Sealed, oldPassword)
	if err != nil {
		return fmt.Errorf("open wallet %q: %w", name, err)
	}
	defer clear(phrase)

	sealed, err := Seal(phrase, newPassword, ks.params)
	if err != nil {
		return fmt.Errorf("seal phrase: %w", err)
	}
	rec.Sealed = sealed
	if err := ks.put(rec); err != nil {
		return err
	}

	wlog := klog.WithWallet(name)
	wlog.Info().Msg("Wallet password changed")
	return nil
}

func (ks *Keystore) get(name string) (*record, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := ks.db.Get(walletKey(name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	return decodeRecord(data)
}

func (ks *Keystore) put(rec *record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := ks.db.Put(walletKey(rec.Info.Name), data); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func decodeRecord(data []byte) (*record, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", rec.Version)
	}
	return &rec, nil
}
