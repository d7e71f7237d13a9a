package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Klingon-tech/klingnet-mnemonic/config"
	klog "github.com/Klingon-tech/klingnet-mnemonic/internal/log"
	"github.com/Klingon-tech/klingnet-mnemonic/internal/storage"
	"github.com/Klingon-tech/klingnet-mnemonic/internal/wallet"
)

// app carries the I/O and configuration shared by all commands.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// readSecret reads hidden input. When nil, secrets are read as plain
	// lines from in.
	readSecret func(prompt string) ([]byte, error)

	cfg *config.Config

	// db, when set, is used instead of opening the configured backend.
	db storage.DB
}

func newApp() *app {
	a := &app{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	if term.IsTerminal(int(syscall.Stdin)) {
		a.readSecret = readPassword
	}
	return a
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "klingnet-mnemonic",
		Short:         "BIP-39 mnemonic and keystore tool",
		Long:          "Generate, validate and convert BIP-39 mnemonics, derive seeds, and keep mnemonics in an encrypted keystore.",
		Version:       formatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newNewCmd(a),
		newValidateCmd(a),
		newEntropyCmd(a),
		newFromEntropyCmd(a),
		newSeedCmd(a),
		newLanguagesCmd(a),
		newWalletCmd(a),
		newConfigCmd(a),
	)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root
}

// setup loads the configuration and initializes logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load("", cmd.Flags())
	if err != nil {
		return err
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return err
	}
	a.cfg = cfg
	klog.CLI.Debug().Str("command", cmd.CommandPath()).Str("datadir", cfg.DataDir).Msg("Starting")
	return nil
}

// openKeystore opens the configured keystore. The returned func closes it.
func (a *app) openKeystore() (*wallet.Keystore, func(), error) {
	db := a.db
	closeDB := func() {}

	if db == nil {
		backend, err := storage.ParseBackend(a.cfg.Keystore.Backend)
		if err != nil {
			return nil, nil, err
		}
		if backend == storage.BackendMemory {
			klog.CLI.Warn().Msg("Memory keystore backend: wallets are discarded on exit")
		} else if err := a.cfg.EnsureDataDirs(); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}

		db, err = storage.Open(backend, a.cfg.KeystoreDir())
		if err != nil {
			return nil, nil, err
		}
		closeDB = func() {
			if err := db.Close(); err != nil {
				klog.Storage.Warn().Err(err).Msg("Closing keystore failed")
			}
		}
	}

	ks, err := wallet.NewKeystore(db, a.cfg.KDFParams())
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return ks, closeDB, nil
}

// ── Input helpers ───────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func (a *app) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// secret prompts for hidden input.
func (a *app) secret(prompt string) ([]byte, error) {
	if a.readSecret != nil {
		return a.readSecret(prompt)
	}
	fmt.Fprint(a.errOut, prompt)
	line, err := a.readLine()
	fmt.Fprintln(a.errOut)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return []byte(line), nil
}

// confirmedSecret prompts twice and requires both entries to match.
func (a *app) confirmedSecret(what string, allowEmpty bool) ([]byte, error) {
	first, err := a.secret("Enter " + what + ": ")
	if err != nil {
		return nil, err
	}
	if len(first) == 0 && !allowEmpty {
		return nil, fmt.Errorf("%s must not be empty", what)
	}
	confirm, err := a.secret("Confirm " + what + ": ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(first, confirm) {
		return nil, fmt.Errorf("%ss do not match", what)
	}
	return first, nil
}

// passphrase returns the BIP-39 passphrase, prompting only when asked to.
func (a *app) passphrase(prompt, confirm bool) (string, error) {
	if !prompt {
		return "", nil
	}
	if confirm {
		p, err := a.confirmedSecret("passphrase", true)
		return string(p), err
	}
	p, err := a.secret("Enter passphrase: ")
	return string(p), err
}

// phraseInput takes the phrase from args, or from stdin when args is empty.
func (a *app) phraseInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(a.in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	phrase := strings.TrimSpace(string(data))
	if phrase == "" {
		return "", errors.New("no phrase given (pass the words as arguments or on stdin)")
	}
	return phrase, nil
}

// ── Output helpers ──────────────────────────────────────────────────────

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
