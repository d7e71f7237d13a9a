package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/klingnet-mnemonic/config"
	"github.com/Klingon-tech/klingnet-mnemonic/internal/wallet"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/bip39"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/crypto"
)

// defaultAccountPath is the account level of wallet.DefaultPath.
const defaultAccountPath = "m/44'/8888'/0'"

func newWalletCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage mnemonics in the encrypted keystore",
	}
	cmd.AddCommand(
		newWalletCreateCmd(a),
		newWalletImportCmd(a),
		newWalletListCmd(a),
		newWalletShowCmd(a),
		newWalletDeleteCmd(a),
		newWalletXpubCmd(a),
		newWalletSignCmd(a),
		newWalletVerifyCmd(a),
		newWalletPasswdCmd(a),
	)
	return cmd
}

// store seals m under name after prompting for a new password.
func (a *app) store(ks *wallet.Keystore, name string, m *bip39.Mnemonic) (*wallet.Info, error) {
	password, err := a.confirmedSecret("password", false)
	if err != nil {
		return nil, err
	}
	return ks.Create(name, m, password)
}

// unlock prompts for the password (and passphrase if asked) and opens name.
func (a *app) unlock(ks *wallet.Keystore, name string, askPassphrase bool) (*bip39.Mnemonic, error) {
	if _, err := ks.Info(name); err != nil {
		return nil, err
	}
	password, err := a.secret("Enter password: ")
	if err != nil {
		return nil, err
	}
	passphrase, err := a.passphrase(askPassphrase, false)
	if err != nil {
		return nil, err
	}
	return ks.Open(name, password, passphrase)
}

func (a *app) printCreated(info *wallet.Info) {
	fmt.Fprintf(a.out, "Wallet created: %s\n", info.Name)
	fmt.Fprintf(a.out, "ID:          %s\n", info.ID)
	fmt.Fprintf(a.out, "Fingerprint: %s\n", info.Fingerprint)
}

func newWalletCreateCmd(a *app) *cobra.Command {
	var askPassphrase bool
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Generate a mnemonic and store it encrypted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := wallet.ValidateName(name); err != nil {
				return err
			}
			ks, closeKS, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer closeKS()

			exists, err := ks.Exists(name)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: %q", wallet.ErrWalletExists, name)
			}

			passphrase, err := a.passphrase(askPassphrase, true)
			if err != nil {
				return err
			}
			m, err := bip39.Generate(a.cfg.KeySpec(), a.cfg.Lang(), passphrase)
			if err != nil {
				return fmt.Errorf("generate mnemonic: %w", err)
			}
			defer m.Zero()

			info, err := a.store(ks, name, m)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, "Write down these words and keep them safe. They are shown only once.")
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, m.Phrase())
			fmt.Fprintln(a.out)
			a.printCreated(info)
			return nil
		},
	}
	cmd.Flags().Int(config.WordsFlag, config.Default().Words, "Number of words (12, 15, 18, 21 or 24)")
	cmd.Flags().BoolVar(&askPassphrase, passphrasePromptFlag, false, "Prompt for a BIP-39 passphrase")
	return cmd
}

func newWalletImportCmd(a *app) *cobra.Command {
	var askPassphrase bool
	cmd := &cobra.Command{
		Use:   "import <name> [word...]",
		Short: "Store an existing mnemonic encrypted",
		Long:  "Store an existing mnemonic encrypted. Without words on the command line the phrase is prompted for.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := wallet.ValidateName(name); err != nil {
				return err
			}

			phrase := strings.Join(args[1:], " ")
			if phrase == "" {
				p, err := a.secret("Enter mnemonic: ")
				if err != nil {
					return err
				}
				phrase = string(p)
			}
			passphrase, err := a.passphrase(askPassphrase, true)
			if err != nil {
				return err
			}
			m, err := bip39.FromPhrase(phrase, a.cfg.Lang(), passphrase)
			if err != nil {
				return fmt.Errorf("invalid mnemonic: %w", err)
			}
			defer m.Zero()

			ks, closeKS, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer closeKS()

			info, err := a.store(ks, name, m)
			if err != nil {
				return err
			}
			a.printCreated(info)
			return nil
		},
	}
	cmd.Flags().BoolVar(&askPassphrase, passphrasePromptFlag, false, "Prompt for the BIP-39 passphrase")
	return cmd
}

func newWalletListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored wallets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ks, closeKS, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer closeKS()

			infos, err := ks.List()
			if err != nil {
				return err
			}
			if asJSON {
				if infos == nil {
					infos = []wallet.Info{}
				}
				return a.printJSON(infos)
			}
			if len(infos) == 0 {
				fmt.Fprintln(a.out, "No wallets found.")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tWORDS\tLANGUAGE\tFINGERPRINT\tCREATED")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
					info.Name, info.Words, info.Language, info.Fingerprint,
					info.CreatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newWalletShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a wallet's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, closeKS, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer closeKS()

			info, err := ks.Info(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return a.printJSON(info)
			}
			fmt.Fprintf(a.out, "Name:        %s\n", info.Name)
			fmt.Fprintf(a.out, "ID:          %s\n", info.ID)
			fmt.Fprintf(a.out, "Language:    %s\n", info.Language)
			fmt.Fprintf(a.out, "Words:       %d\n", info.Words)
			fmt.Fprintf(a.out, "Fingerprint: %s\n", info.Fingerprint)
			fmt.Fprintf(a.out, "Created:     %s\n", info.CreatedAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newWalletDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ks, closeKS, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer closeKS()

			if _, err := ks.Info(name); err != nil {
				return err
			}
			if !yes {
				fmt.Fprintf(a.errOut, "Type the wallet name to confirm deletion of %q: ", name)
				answer, err := a.readLine()
				if err != nil {
					return fmt.Errorf("read confirmation: %w", err)
				}
				if strings.TrimSpace(answer) != name {
					return errors.New("deletion not confirmed")
				}
			}
			if err := ks.Delete(name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Wallet deleted: %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newWalletXpubCmd(a *app) *cobra.Command {
	var (
		pathStr       string
		askPassphrase bool
		private       bool
	)
	cmd := &cobra.Command{
		Use:   "xpub <name>",
		Short: "Print the extended public key at a derivation path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := wallet.ParsePath(pathStr)
			if err != nil {
				return err
			}
			key, err := a.deriveKey(args[0], path, askPassphrase)
			if err != nil {
				return err
			}
			if !private {
				key = key.Neuter()
			}
			fmt.Fprintln(a.out, key.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&pathStr, "path", defaultAccountPath, "Derivation path")
	cmd.Flags().BoolVar(&askPassphrase, passphrasePromptFlag, false, "Prompt for the BIP-39 passphrase")
	cmd.Flags().BoolVar(&private, "private", false, "Print the extended private key instead")
	return cmd
}

// deriveKey unlocks name and derives the key at path.
func (a *app) deriveKey(name string, path wallet.Path, askPassphrase bool) (*wallet.HDKey, error) {
	ks, closeKS, err := a.openKeystore()
	if err != nil {
		return nil, err
	}
	defer closeKS()

	m, err := a.unlock(ks, name, askPassphrase)
	if err != nil {
		return nil, err
	}
	defer m.Zero()

	master, err := wallet.MasterKeyFromMnemonic(m)
	if err != nil {
		return nil, err
	}
	return master.DerivePath(path)
}

type signatureJSON struct {
	Path      string `json:"path"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

func newWalletSignCmd(a *app) *cobra.Command {
	var (
		pathStr       string
		askPassphrase bool
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "sign <name> <message>",
		Short: "Sign a message with a derived key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := wallet.ParsePath(pathStr)
			if err != nil {
				return err
			}
			key, err := a.deriveKey(args[0], path, askPassphrase)
			if err != nil {
				return err
			}
			signer, err := key.Signer()
			if err != nil {
				return err
			}
			defer signer.Zero()

			sig, err := signer.SignMessage([]byte(args[1]))
			if err != nil {
				return fmt.Errorf("sign: %w", err)
			}
			out := signatureJSON{
				Path:      path.String(),
				PublicKey: hex.EncodeToString(signer.PublicKey()),
				Signature: hex.EncodeToString(sig),
			}
			if asJSON {
				return a.printJSON(out)
			}
			fmt.Fprintf(a.out, "Path:       %s\n", out.Path)
			fmt.Fprintf(a.out, "Public key: %s\n", out.PublicKey)
			fmt.Fprintf(a.out, "Signature:  %s\n", out.Signature)
			return nil
		},
	}
	cmd.Flags().StringVar(&pathStr, "path", wallet.DefaultPath, "Derivation path")
	cmd.Flags().BoolVar(&askPassphrase, passphrasePromptFlag, false, "Prompt for the BIP-39 passphrase")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newWalletVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <pubkey-hex> <message> <signature-hex>",
		Short: "Verify a message signature",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("invalid public key hex: %w", err)
			}
			sig, err := hex.DecodeString(args[2])
			if err != nil {
				return fmt.Errorf("invalid signature hex: %w", err)
			}
			if !crypto.VerifyMessage([]byte(args[1]), sig, pub) {
				return errors.New("signature is not valid")
			}
			fmt.Fprintln(a.out, "Signature valid")
			return nil
		},
	}
}

func newWalletPasswdCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <name>",
		Short: "Change a wallet's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ks, closeKS, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer closeKS()

			if _, err := ks.Info(name); err != nil {
				return err
			}
			oldPassword, err := a.secret("Enter current password: ")
			if err != nil {
				return err
			}
			newPassword, err := a.confirmedSecret("new password", false)
			if err != nil {
				return err
			}
			if err := ks.ChangePassword(name, oldPassword, newPassword); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Password changed: %s\n", name)
			return nil
		},
	}
}
