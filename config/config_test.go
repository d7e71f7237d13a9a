package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/Klingon-tech/klingnet-mnemonic/pkg/bip39"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	fs.Int(WordsFlag, 12, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, Validate(cfg))
	require.Equal(t, "english", cfg.Language)
	require.Equal(t, 12, cfg.Words)
	require.Equal(t, "badger", cfg.Keystore.Backend)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, uint32(64*1024), cfg.Keystore.KDF.Memory)
}

func TestConfigPaths(t *testing.T) {
	t.Parallel()

	cfg := &Config{DataDir: filepath.Join("base", "dir")}
	require.Equal(t, filepath.Join("base", "dir", "keystore"), cfg.KeystoreDir())
	require.Equal(t, filepath.Join("base", "dir", "logs"), cfg.LogsDir())
	require.Equal(t, filepath.Join("base", "dir", ConfigFileName), cfg.ConfigFile())
}

func TestEnsureDataDirs(t *testing.T) {
	t.Parallel()

	cfg := &Config{DataDir: filepath.Join(t.TempDir(), "nested", "data")}
	require.NoError(t, cfg.EnsureDataDirs())

	info, err := os.Stat(cfg.KeystoreDir())
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		cfg := Default()
		cfg.Language = "ZH-Hans"
		cfg.Keystore.Backend = " Memory"
		cfg.Words = 24
		require.NoError(t, Validate(cfg))
		require.Equal(t, string(bip39.ChineseSimplified), cfg.Language)
		require.Equal(t, "memory", cfg.Keystore.Backend)
		require.Equal(t, 24, cfg.KeySpec().Words)
		require.Equal(t, bip39.ChineseSimplified, cfg.Lang())
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			mutate func(*Config)
			errMsg string
		}{
			{"nil datadir", func(c *Config) { c.DataDir = "" }, "datadir"},
			{"language", func(c *Config) { c.Language = "klingon" }, "language"},
			{"words", func(c *Config) { c.Words = 13 }, "words"},
			{"backend", func(c *Config) { c.Keystore.Backend = "sqlite" }, "keystore.backend"},
			{"kdf memory", func(c *Config) { c.Keystore.KDF.Memory = 0 }, "keystore.kdf"},
			{"kdf parallelism", func(c *Config) { c.Keystore.KDF.Parallelism = 0 }, "keystore.kdf"},
			{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		}

		for _, tt := range tests {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err, tt.name)
			require.Contains(t, err.Error(), tt.errMsg, tt.name)
		}

		require.Error(t, Validate(nil))
	})
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("", testFlags(t, "--datadir", dir))
	require.NoError(t, err)
	require.Equal(t, dir, cfg.DataDir)
	require.Equal(t, "english", cfg.Language)
	require.Equal(t, 12, cfg.Words)
}

func TestLoad_FileInDataDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
language = "spanish"
words = 18

[keystore]
backend = "memory"

[keystore.kdf]
memory = 128
iterations = 2
parallelism = 1

[log]
level = "debug"
`)

	cfg, err := Load("", testFlags(t, "--datadir", dir))
	require.NoError(t, err)
	require.Equal(t, "spanish", cfg.Language)
	require.Equal(t, 18, cfg.Words)
	require.Equal(t, "memory", cfg.Keystore.Backend)
	require.Equal(t, uint32(128), cfg.Keystore.KDF.Memory)
	require.Equal(t, uint32(2), cfg.Keystore.KDF.Iterations)
	require.Equal(t, uint8(1), cfg.Keystore.KDF.Parallelism)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
language = "spanish"
words = 18

[log]
level = "debug"
`)
	t.Setenv("KLINGNET_MNEMONIC_LANGUAGE", "french")
	t.Setenv("KLINGNET_MNEMONIC_LOG_LEVEL", "error")

	// file < env
	cfg, err := Load("", testFlags(t, "--datadir", dir))
	require.NoError(t, err)
	require.Equal(t, "french", cfg.Language)
	require.Equal(t, "error", cfg.Log.Level)
	require.Equal(t, 18, cfg.Words)

	// env < flags
	cfg, err = Load("", testFlags(t, "--datadir", dir, "--language", "italian", "--words", "24"))
	require.NoError(t, err)
	require.Equal(t, "italian", cfg.Language)
	require.Equal(t, 24, cfg.Words)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_EnvNested(t *testing.T) {
	t.Setenv("KLINGNET_MNEMONIC_DATADIR", t.TempDir())
	t.Setenv("KLINGNET_MNEMONIC_KEYSTORE_BACKEND", "memory")
	t.Setenv("KLINGNET_MNEMONIC_KEYSTORE_KDF_PARALLELISM", "2")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Keystore.Backend)
	require.Equal(t, uint8(2), cfg.Keystore.KDF.Parallelism)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`words = 21`), 0600))

	cfg, err := Load("", testFlags(t, "--datadir", dir, "--config", path))
	require.NoError(t, err)
	require.Equal(t, 21, cfg.Words)

	_, err = Load(filepath.Join(dir, "missing.toml"), testFlags(t, "--datadir", dir))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	writeConfig(t, dir, `words = 13`)
	_, err := Load("", testFlags(t, "--datadir", dir))
	require.ErrorIs(t, err, bip39.ErrInvalidWordCount)

	writeConfig(t, dir, `words = [`)
	_, err = Load("", testFlags(t, "--datadir", dir))
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf", ConfigFileName)
	cfg := Default()
	cfg.Language = "japanese"
	cfg.Words = 24
	cfg.Log.File = "/var/log/mnemonic.log"

	require.NoError(t, WriteFile(path, cfg, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "# klingnet-mnemonic configuration"))
	require.Contains(t, string(data), "[keystore.kdf]")

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.Error(t, WriteFile(path, cfg, false), "existing file must not be replaced")
	cfg.Words = 15
	require.NoError(t, WriteFile(path, cfg, true))
	got, err = ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 15, got.Words)
}

func TestReadFile_UnknownKey(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "wordz = 12\n")
	_, err := ReadFile(path)
	require.ErrorContains(t, err, "wordz")
}
