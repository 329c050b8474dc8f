package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flintlabs/pyflint/internal/configloader"
	"github.com/flintlabs/pyflint/internal/logging"
	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/lint"
	_ "github.com/flintlabs/pyflint/pkg/lint/rules" // Register built-in rules
	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
	"github.com/flintlabs/pyflint/pkg/reporter"
	"github.com/flintlabs/pyflint/pkg/runner"
)

type checkFlags struct {
	fix            bool
	unsafeFixes    bool
	format         string
	ignore         []string
	enable         []string
	disable        []string
	strict         bool
	noContext      bool
	compact        bool
	flat           bool
	backup         bool
	sniffNoExt     bool
	followSymlinks bool
}

func newCheckCommand() *cobra.Command {
	var cfg config.Config
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Python files",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, &cfg, flags)
		},
	}

	addCheckFlags(cmd, &cfg, flags)

	return cmd
}

const checkLongDescription = `Check Python files for rule violations and optionally fix them.

By default, checks all .py and .pyi files in the current directory and
subdirectories. Specify paths to check specific files or directories.

Examples:
  pyflint check                    # Check current directory
  pyflint check src/               # Check src directory
  pyflint check app.py             # Check single file
  pyflint check --fix              # Check and apply safe fixes
  pyflint check --fix --unsafe-fixes  # Also apply unsafe fixes
  pyflint check --fix --dry-run --format diff  # Show fixes as a diff
  pyflint check --format json      # Output as JSON for CI
  pyflint check --strict           # Treat warnings as failures`

func runCheck(cmd *cobra.Command, args []string, cfg *config.Config, flags *checkFlags) error {
	logger := logging.Default()

	// Map string flags to typed config values.
	cfg.Format = config.OutputFormat(flags.format)
	cfg.FixMode = fixModeFromFlags(flags)
	cfg.Ignore = flags.ignore
	cfg.EnableRules = flags.enable
	cfg.DisableRules = flags.disable
	cfg.Strict = flags.strict
	cfg.Backups.Enabled = flags.backup

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadOpts := configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	}

	loadResult, err := configloader.Load(ctx, loadOpts)
	if err != nil {
		return fmt.Errorf("%w: load configuration: %w", ErrUsage, err)
	}

	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		logging.FieldFixMode, finalCfg.FixMode,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
	)

	engine := lint.NewEngine(pyparse.NewParser(), lint.DefaultRegistry)
	pipeline := lint.NewPipeline(engine)
	checkRunner := runner.New(pipeline)

	runOpts := runner.Options{
		Paths:               args,
		WorkingDir:          workDir,
		Extensions:          runner.DefaultExtensions(),
		ExcludeGlobs:        finalCfg.Ignore,
		DetectExtensionless: flags.sniffNoExt,
		FollowSymlinks:      flags.followSymlinks,
		Jobs:                finalCfg.Jobs,
		Config:              finalCfg,
	}

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := checkRunner.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("check run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: !flags.flat,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result, finalCfg.Strict) != ExitSuccess {
		return ErrIssuesFound
	}

	return nil
}

// fixModeFromFlags maps the --fix / --unsafe-fixes pair to a fix mode.
func fixModeFromFlags(flags *checkFlags) config.FixMode {
	switch {
	case flags.fix && flags.unsafeFixes:
		return config.FixModeUnsafe
	case flags.fix:
		return config.FixModeSafe
	default:
		// Leave unset so PYFLINT_FIX_MODE can apply.
		return ""
	}
}

func addCheckFlags(cmd *cobra.Command, cfg *config.Config, flags *checkFlags) {
	cmd.Flags().BoolVar(&flags.fix, "fix", false, "apply safe fixes")
	cmd.Flags().BoolVar(&flags.unsafeFixes, "unsafe-fixes", false, "also apply unsafe fixes (requires --fix)")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes without applying them")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, diff")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().IntVar(&cfg.MaxFixIterations, "max-fix-iterations", 0,
		"upper bound on fix passes per file (0 = default)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule codes to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule codes to disable")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "create backups before fixing files")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as failures for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.flat, "flat", false, "do not group diagnostics by file")
	cmd.Flags().BoolVar(&flags.sniffNoExt, "detect-extensionless", false,
		"detect Python scripts without a file extension by content")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "traverse directory symlinks")
}
