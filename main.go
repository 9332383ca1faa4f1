// Package main is the entry point for xpm, the XML prompt editor.
package main

import (
	"fmt"
	"os"

	"github.com/SoloveyLS/xml-prompt-manager/cmd"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	versionString := fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	cmd.SetVersion(versionString)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
