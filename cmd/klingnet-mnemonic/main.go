// Command klingnet-mnemonic generates, checks and stores BIP-39 mnemonics.
package main

import (
	"fmt"
	"os"

	klog "github.com/Klingon-tech/klingnet-mnemonic/internal/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	a := newApp()
	err := newRootCmd(a).Execute()
	klog.Close()
	if err != nil {
		fatal("%v", err)
	}
}

func formatVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
