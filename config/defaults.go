package config

import (
	"github.com/spf13/viper"

	"github.com/Klingon-tech/klingnet-mnemonic/internal/log"
	"github.com/Klingon-tech/klingnet-mnemonic/internal/storage"
	"github.com/Klingon-tech/klingnet-mnemonic/internal/wallet"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/bip39"
)

// Default returns the built-in configuration.
func Default() *Config {
	kdf := wallet.DefaultParams()
	return &Config{
		DataDir:  DefaultDataDir(),
		Language: string(bip39.English),
		Words:    12,
		Keystore: KeystoreConfig{
			Backend: string(storage.BackendBadger),
			KDF: KDFConfig{
				Memory:      kdf.Memory,
				Iterations:  kdf.Iterations,
				Parallelism: kdf.Parallelism,
			},
		},
		Log: LogConfig{
			Level: log.DefaultLevel,
			JSON:  false,
		},
	}
}

// setDefaults registers every key with viper so that environment variables
// are picked up by Unmarshal.
func setDefaults(vip *viper.Viper, cfg *Config) {
	vip.SetDefault(DataDirKey, cfg.DataDir)
	vip.SetDefault(LanguageKey, cfg.Language)
	vip.SetDefault(WordsKey, cfg.Words)
	vip.SetDefault(KeystoreBackendKey, cfg.Keystore.Backend)
	vip.SetDefault(KDFMemoryKey, cfg.Keystore.KDF.Memory)
	vip.SetDefault(KDFIterationsKey, cfg.Keystore.KDF.Iterations)
	vip.SetDefault(KDFParallelismKey, cfg.Keystore.KDF.Parallelism)
	vip.SetDefault(LogLevelKey, cfg.Log.Level)
	vip.SetDefault(LogFileKey, cfg.Log.File)
	vip.SetDefault(LogJSONKey, cfg.Log.JSON)
}
