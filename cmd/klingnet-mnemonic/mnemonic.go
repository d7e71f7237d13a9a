package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/klingnet-mnemonic/config"
	klog "github.com/Klingon-tech/klingnet-mnemonic/internal/log"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/bip39"
)

const passphrasePromptFlag = "passphrase-prompt"

type mnemonicJSON struct {
	Phrase      string `json:"phrase"`
	Language    string `json:"language"`
	Words       int    `json:"words"`
	Entropy     string `json:"entropy"`
	Fingerprint string `json:"fingerprint"`
}

func newMnemonicJSON(m *bip39.Mnemonic) (*mnemonicJSON, error) {
	entropy, err := m.EntropyHex()
	if err != nil {
		return nil, err
	}
	return &mnemonicJSON{
		Phrase:      m.Phrase(),
		Language:    m.Language().String(),
		Words:       m.KeySpec().Words,
		Entropy:     entropy,
		Fingerprint: m.Fingerprint(),
	}, nil
}

func newNewCmd(a *app) *cobra.Command {
	var (
		askPassphrase bool
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new mnemonic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			passphrase, err := a.passphrase(askPassphrase, true)
			if err != nil {
				return err
			}
			m, err := bip39.Generate(a.cfg.KeySpec(), a.cfg.Lang(), passphrase)
			if err != nil {
				return fmt.Errorf("generate mnemonic: %w", err)
			}
			defer m.Zero()

			klog.CLI.Debug().Str("language", m.Language().String()).
				Int("words", m.KeySpec().Words).
				Str("fingerprint", m.Fingerprint()).
				Msg("Mnemonic generated")

			if asJSON {
				out, err := newMnemonicJSON(m)
				if err != nil {
					return err
				}
				return a.printJSON(out)
			}
			fmt.Fprintln(a.out, m.Phrase())
			return nil
		},
	}
	cmd.Flags().Int(config.WordsFlag, config.Default().Words, "Number of words (12, 15, 18, 21 or 24)")
	cmd.Flags().BoolVar(&askPassphrase, passphrasePromptFlag, false, "Prompt for a BIP-39 passphrase (affects the fingerprint)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the mnemonic as JSON")
	return cmd
}

// addPhraseFlag registers --phrase and returns a resolver that prefers it
// over positional words and stdin.
func addPhraseFlag(a *app, cmd *cobra.Command) func(args []string) (string, error) {
	var phrase string
	cmd.Flags().StringVar(&phrase, "phrase", "", "Mnemonic phrase (instead of arguments or stdin)")
	return func(args []string) (string, error) {
		if phrase != "" {
			if len(args) > 0 {
				return "", fmt.Errorf("--phrase and positional words are mutually exclusive")
			}
			return phrase, nil
		}
		return a.phraseInput(args)
	}
}

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [word...]",
		Short: "Check a mnemonic's words and checksum",
	}
	input := addPhraseFlag(a, cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		phrase, err := input(args)
		if err != nil {
			return err
		}
		lang := a.cfg.Lang()
		if err := bip39.ValidatePhrase(phrase, lang); err != nil {
			return fmt.Errorf("invalid mnemonic: %w", err)
		}
		words := len(strings.Fields(phrase))
		fmt.Fprintf(a.out, "Valid %d-word %s mnemonic\n", words, lang)
		return nil
	}
	return cmd
}

func newEntropyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entropy [word...]",
		Short: "Print the entropy encoded by a mnemonic",
	}
	input := addPhraseFlag(a, cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		phrase, err := input(args)
		if err != nil {
			return err
		}
		entropy, err := bip39.DecodePhrase(phrase, a.cfg.Lang())
		if err != nil {
			return fmt.Errorf("invalid mnemonic: %w", err)
		}
		fmt.Fprintln(a.out, hex.EncodeToString(entropy))
		return nil
	}
	return cmd
}

func newFromEntropyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "from-entropy <hex>",
		Short: "Encode hex entropy as a mnemonic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entropy, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
			if err != nil {
				return fmt.Errorf("invalid entropy hex: %w", err)
			}
			phrase, err := bip39.EncodeEntropy(entropy, a.cfg.Lang())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, phrase)
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	var (
		askPassphrase bool
		fingerprint   bool
	)
	cmd := &cobra.Command{
		Use:   "seed [word...]",
		Short: "Derive the 64-byte seed of a mnemonic",
	}
	input := addPhraseFlag(a, cmd)
	cmd.Flags().BoolVar(&askPassphrase, passphrasePromptFlag, false, "Prompt for a BIP-39 passphrase")
	cmd.Flags().BoolVar(&fingerprint, "fingerprint", false, "Print only the seed fingerprint")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		phrase, err := input(args)
		if err != nil {
			return err
		}
		passphrase, err := a.passphrase(askPassphrase, false)
		if err != nil {
			return err
		}
		done := klog.Benchmark("seed derivation")
		m, err := bip39.FromPhrase(phrase, a.cfg.Lang(), passphrase)
		done()
		if err != nil {
			return fmt.Errorf("invalid mnemonic: %w", err)
		}
		defer m.Zero()

		if fingerprint {
			fmt.Fprintln(a.out, m.Fingerprint())
			return nil
		}
		fmt.Fprintln(a.out, m.SeedHex())
		return nil
	}
	return cmd
}

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported wordlist languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANGUAGE\tFIRST\tLAST")
			for _, lang := range bip39.Languages() {
				wl, err := lang.Wordlist()
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", lang, wl.Word(0), wl.Word(uint16(wl.Len()-1)))
			}
			return tw.Flush()
		},
	}
}
