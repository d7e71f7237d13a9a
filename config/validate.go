package config

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-mnemonic/internal/log"
	"github.com/Klingon-tech/klingnet-mnemonic/internal/storage"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/bip39"
)

// Validate checks cfg for operator mistakes and canonicalises the language
// and backend names.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}

	lang, err := bip39.ParseLanguage(cfg.Language)
	if err != nil {
		return fmt.Errorf("language: %w", err)
	}
	cfg.Language = string(lang)

	if _, err := bip39.KeySpecForWords(cfg.Words); err != nil {
		return fmt.Errorf("words: %w", err)
	}

	backend, err := storage.ParseBackend(cfg.Keystore.Backend)
	if err != nil {
		return fmt.Errorf("keystore.backend: %w", err)
	}
	cfg.Keystore.Backend = string(backend)

	if err := cfg.KDFParams().Validate(); err != nil {
		return fmt.Errorf("keystore.kdf: %w", err)
	}

	if err := log.ValidateLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
