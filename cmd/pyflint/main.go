// Package main is the entry point for the pyflint CLI.
package main

import (
	"errors"
	"os"

	"github.com/flintlabs/pyflint/internal/cli"
	"github.com/flintlabs/pyflint/internal/logging"

	// Import rules package to register built-in rules via init().
	_ "github.com/flintlabs/pyflint/pkg/lint/rules"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrIssuesFound) {
		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCodeFromError(err)
}
