package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/internal/configloader"
	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/runner"
)

func testInfo() BuildInfo {
	return BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "pyflint", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand(testInfo())

	for _, name := range []string{"check", "rules", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "subcommand %q", name)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestCheckCommandFlags(t *testing.T) {
	cmd := NewRootCommand(testInfo())
	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	for _, name := range []string{
		"fix", "unsafe-fixes", "dry-run", "format", "jobs",
		"max-fix-iterations", "ignore", "enable", "disable",
		"backup", "strict", "no-context", "compact", "flat",
		"detect-extensionless", "follow-symlinks",
	} {
		assert.NotNil(t, checkCmd.Flags().Lookup(name), "flag %q", name)
	}

	formatFlag := checkCmd.Flags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestFixModeFromFlags(t *testing.T) {
	assert.Equal(t, config.FixMode(""), fixModeFromFlags(&checkFlags{}))
	assert.Equal(t, config.FixModeSafe, fixModeFromFlags(&checkFlags{fix: true}))
	assert.Equal(t, config.FixModeUnsafe, fixModeFromFlags(&checkFlags{fix: true, unsafeFixes: true}))
	// --unsafe-fixes alone does not enable fixing.
	assert.Equal(t, config.FixMode(""), fixModeFromFlags(&checkFlags{unsafeFixes: true}))
}

func TestCheckCommand_FindsIssues(t *testing.T) {
	tmpDir := t.TempDir()
	writeSource(t, tmpDir, "app.py", `greeting = str("hello")`+"\n")
	t.Chdir(tmpDir)

	var out bytes.Buffer
	cmd := NewRootCommand(testInfo())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"check", "--color", "never", "--strict", "app.py"})

	err := cmd.Execute()
	require.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, out.String(), "PF103")
}

func TestCheckCommand_WarningsPassWithoutStrict(t *testing.T) {
	tmpDir := t.TempDir()
	writeSource(t, tmpDir, "app.py", `greeting = str("hello")`+"\n")
	t.Chdir(tmpDir)

	var out bytes.Buffer
	cmd := NewRootCommand(testInfo())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"check", "--color", "never", "app.py"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "PF103")
}

func TestCheckCommand_CleanFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeSource(t, tmpDir, "clean.py", "x = 1\n")
	t.Chdir(tmpDir)

	var out bytes.Buffer
	cmd := NewRootCommand(testInfo())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"check", "--color", "never", "clean.py"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No issues found")
}

func TestCheckCommand_FixWritesFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSource(t, tmpDir, "app.py", `greeting = str("hello")`+"\n")
	t.Chdir(tmpDir)

	var out bytes.Buffer
	cmd := NewRootCommand(testInfo())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"check", "--color", "never", "--fix", "app.py"})

	require.NoError(t, cmd.Execute())

	fixed, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `greeting = "hello"`+"\n", string(fixed))
}

func TestCheckCommand_InvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cmd := NewRootCommand(testInfo())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", "--format", "csv"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCodeFromError(err))
}

func TestInitCommand(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cmd := NewRootCommand(testInfo())
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(tmpDir, ".pyflint.yaml"))
	require.NoError(t, err)

	// A second init without --force refuses to overwrite.
	cmd = NewRootCommand(testInfo())
	cmd.SetArgs([]string{"init"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCodeFromError(err))
}

func TestExitCodeFromResult(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCodeFromResult(nil, false))

	clean := &runner.Result{Stats: runner.Stats{
		DiagnosticsBySeverity: map[string]int{},
	}}
	assert.Equal(t, ExitSuccess, ExitCodeFromResult(clean, false))

	warned := &runner.Result{Stats: runner.Stats{
		DiagnosticsBySeverity: map[string]int{"warning": 2},
	}}
	assert.Equal(t, ExitSuccess, ExitCodeFromResult(warned, false))
	assert.Equal(t, ExitIssues, ExitCodeFromResult(warned, true))

	failed := &runner.Result{Stats: runner.Stats{
		DiagnosticsBySeverity: map[string]int{"error": 1},
	}}
	assert.Equal(t, ExitIssues, ExitCodeFromResult(failed, false))
}

func TestExitCodeFromError(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCodeFromError(nil))
	assert.Equal(t, ExitIssues, ExitCodeFromError(ErrIssuesFound))
	assert.Equal(t, ExitIssues, ExitCodeFromError(fmt.Errorf("wrapped: %w", ErrIssuesFound)))
	assert.Equal(t, ExitUsageError, ExitCodeFromError(fmt.Errorf("%w: bad flag", ErrUsage)))
	assert.Equal(t, ExitUsageError, ExitCodeFromError(&configloader.ValidationError{Message: "bad"}))
	assert.Equal(t, ExitInternalError, ExitCodeFromError(errors.New("boom")))
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
