// Package config handles klingnet-mnemonic configuration.
//
// Values are layered, lowest priority first: built-in defaults, the TOML
// config file, KLINGNET_MNEMONIC_* environment variables, and command-line
// flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/Klingon-tech/klingnet-mnemonic/internal/wallet"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/bip39"
)

// ConfigFileName is the name of the config file inside the data directory.
const ConfigFileName = "klingnet-mnemonic.toml"

// Config keys, as used in the TOML file and by viper. Environment variables
// use the upper-cased key with dots replaced by underscores, e.g.
// KLINGNET_MNEMONIC_KEYSTORE_BACKEND.
const (
	DataDirKey         = "datadir"
	LanguageKey        = "language"
	WordsKey           = "words"
	KeystoreBackendKey = "keystore.backend"
	KDFMemoryKey       = "keystore.kdf.memory"
	KDFIterationsKey   = "keystore.kdf.iterations"
	KDFParallelismKey  = "keystore.kdf.parallelism"
	LogLevelKey        = "log.level"
	LogFileKey         = "log.file"
	LogJSONKey         = "log.json"
)

// Config holds the tool's runtime configuration.
type Config struct {
	DataDir  string         `mapstructure:"datadir" toml:"datadir"`
	Language string         `mapstructure:"language" toml:"language"`
	Words    int            `mapstructure:"words" toml:"words"`
	Keystore KeystoreConfig `mapstructure:"keystore" toml:"keystore"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

// KeystoreConfig holds wallet storage settings.
type KeystoreConfig struct {
	Backend string    `mapstructure:"backend" toml:"backend"` // badger or memory
	KDF     KDFConfig `mapstructure:"kdf" toml:"kdf"`
}

// KDFConfig holds the Argon2id parameters used when sealing new wallets.
type KDFConfig struct {
	Memory      uint32 `mapstructure:"memory" toml:"memory"` // KiB
	Iterations  uint32 `mapstructure:"iterations" toml:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism" toml:"parallelism"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
	JSON  bool   `mapstructure:"json" toml:"json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-mnemonic
//	macOS:   ~/Library/Application Support/KlingnetMnemonic
//	Windows: %APPDATA%\KlingnetMnemonic
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-mnemonic"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetMnemonic")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetMnemonic")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetMnemonic")
	default:
		return filepath.Join(home, ".klingnet-mnemonic")
	}
}

// KeystoreDir returns the keystore database directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.DataDir, "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, ConfigFileName)
}

// EnsureDataDirs creates the data and keystore directories.
func (c *Config) EnsureDataDirs() error {
	for _, dir := range []string{c.DataDir, c.KeystoreDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Typed accessors (valid only after Validate)
// =============================================================================

// Lang returns the configured wordlist language.
func (c *Config) Lang() bip39.Language {
	return bip39.Language(c.Language)
}

// KeySpec returns the size class for newly generated mnemonics.
func (c *Config) KeySpec() bip39.KeySpec {
	spec, _ := bip39.KeySpecForWords(c.Words)
	return spec
}

// KDFParams returns the keystore encryption parameters.
func (c *Config) KDFParams() wallet.EncryptionParams {
	return wallet.EncryptionParams{
		Memory:      c.Keystore.KDF.Memory,
		Iterations:  c.Keystore.KDF.Iterations,
		Parallelism: c.Keystore.KDF.Parallelism,
	}
}
