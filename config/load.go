package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Klingon-tech/klingnet-mnemonic/internal/log"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "KLINGNET_MNEMONIC"

// Flag names bound by Load when present in the flag set.
const (
	DataDirFlag         = "datadir"
	ConfigFlag          = "config"
	LanguageFlag        = "language"
	WordsFlag           = "words"
	KeystoreBackendFlag = "keystore-backend"
	LogLevelFlag        = "log-level"
	LogFileFlag         = "log-file"
	LogJSONFlag         = "log-json"
)

var flagKeys = map[string]string{
	DataDirFlag:         DataDirKey,
	LanguageFlag:        LanguageKey,
	WordsFlag:           WordsKey,
	KeystoreBackendFlag: KeystoreBackendKey,
	LogLevelFlag:        LogLevelKey,
	LogFileFlag:         LogFileKey,
	LogJSONFlag:         LogJSONKey,
}

// RegisterFlags adds the global configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(DataDirFlag, def.DataDir, "Data directory")
	fs.String(ConfigFlag, "", "Config file (default <datadir>/"+ConfigFileName+")")
	fs.String(LanguageFlag, def.Language, "Wordlist language")
	fs.String(KeystoreBackendFlag, def.Keystore.Backend, "Keystore backend (badger, memory)")
	fs.String(LogLevelFlag, def.Log.Level, "Log level (trace, debug, info, warn, error)")
	fs.String(LogFileFlag, "", "Also write JSON logs to this file")
	fs.Bool(LogJSONFlag, false, "Log JSON to stderr instead of console format")
}

// Load builds the configuration from defaults, the config file, the
// environment and flags (which may be nil). An explicit path must exist; when
// path is empty the file in the data directory is read if present.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	vip := viper.New()
	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()
	setDefaults(vip, Default())

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := vip.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		if path == "" {
			if f := flags.Lookup(ConfigFlag); f != nil {
				path = f.Value.String()
			}
		}
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(vip.GetString(DataDirKey), ConfigFileName)
	}
	vip.SetConfigFile(path)
	vip.SetConfigType("toml")
	if err := vip.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		log.Config.Debug().Str("path", path).Msg("Config file loaded")
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteFile writes cfg as TOML to path. An existing file is only replaced
// when overwrite is set.
func WriteFile(path string, cfg *Config, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flag, 0600)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer f.Close()

	header := "# klingnet-mnemonic configuration\n" +
		"#\n" +
		"# Environment variables override this file, e.g. " + EnvPrefix + "_LOG_LEVEL=debug,\n" +
		"# and command-line flags override both.\n\n"
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// ReadFile decodes a TOML config file on top of the defaults without
// consulting the environment. Keys not in the file keep their defaults.
func ReadFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
