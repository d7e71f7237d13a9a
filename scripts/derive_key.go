// derive_key.go prints the pubkey at a derivation path for a mnemonic file.
// Usage: go run scripts/derive_key.go <phrasefile> [path] [language]
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/klingnet-mnemonic/internal/wallet"
	"github.com/Klingon-tech/klingnet-mnemonic/pkg/bip39"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <phrasefile> [path] [language]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pathStr := wallet.DefaultPath
	if len(os.Args) > 2 {
		pathStr = os.Args[2]
	}
	lang := bip39.English
	if len(os.Args) > 3 {
		if lang, err = bip39.ParseLanguage(os.Args[3]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	m, err := bip39.FromPhrase(strings.TrimSpace(string(data)), lang, os.Getenv("BIP39_PASSPHRASE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer m.Zero()

	path, err := wallet.ParsePath(pathStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	master, err := wallet.MasterKeyFromMnemonic(m)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	key, err := master.DerivePath(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("fingerprint=%s\n", m.Fingerprint())
	fmt.Printf("path=%s\n", path)
	fmt.Printf("pubkey=%s\n", hex.EncodeToString(key.PublicKeyBytes()))
	fmt.Printf("keyid=%s\n", key.KeyID())
}
