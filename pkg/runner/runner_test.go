package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/lint"
	"github.com/flintlabs/pyflint/pkg/lint/rules"
	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
)

func newTestRunner() *Runner {
	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	engine := lint.NewEngine(pyparse.NewParser(), registry)
	return New(lint.NewPipeline(engine))
}

func TestRun_AggregatesStats(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"clean.py": "x = 1\n",
		"str.py":   `name = str("joe")` + "\n",
		"loop.py":  "for _, v in d.items():\n    print(v)\n",
	})

	runner := newTestRunner()
	result, err := runner.Run(context.Background(), Options{
		WorkingDir: root,
		Config:     config.NewConfig(),
		Jobs:       2,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Stats.FilesDiscovered)
	assert.Equal(t, 3, result.Stats.FilesProcessed)
	assert.Equal(t, 2, result.Stats.FilesWithIssues)
	assert.Equal(t, 2, result.Stats.DiagnosticsTotal)
	assert.Equal(t, 2, result.Stats.DiagnosticsBySeverity["warning"])
	assert.Equal(t, 0, result.Stats.FilesModified)
	assert.True(t, result.HasIssues())
	assert.False(t, result.HasFailures())

	// Outcomes are ordered by path regardless of worker scheduling.
	require.Len(t, result.Files, 3)
	assert.Equal(t, "clean.py", filepath.Base(result.Files[0].Path))
	assert.Equal(t, "loop.py", filepath.Base(result.Files[1].Path))
	assert.Equal(t, "str.py", filepath.Base(result.Files[2].Path))
}

func TestRun_FixModeWritesFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"str.py": `name = str("joe")` + "\n",
	})

	cfg := config.NewConfig()
	cfg.FixMode = config.FixModeSafe

	runner := newTestRunner()
	result, err := runner.Run(context.Background(), Options{
		WorkingDir: root,
		Config:     cfg,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Equal(t, 1, result.Stats.FixesApplied)
	assert.Equal(t, 0, result.Stats.DiagnosticsTotal)

	content, err := os.ReadFile(filepath.Join(root, "str.py"))
	require.NoError(t, err)
	assert.Equal(t, `name = "joe"`+"\n", string(content))
}

func TestRun_SuppressionCounted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"quiet.py": `name = str("joe")  # noqa: PF103` + "\n",
	})

	runner := newTestRunner()
	result, err := runner.Run(context.Background(), Options{
		WorkingDir: root,
		Config:     config.NewConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stats.DiagnosticsTotal)
	assert.Equal(t, 1, result.Stats.DiagnosticsSuppressed)
}

func TestRun_NoFiles(t *testing.T) {
	runner := newTestRunner()
	result, err := runner.Run(context.Background(), Options{
		WorkingDir: t.TempDir(),
		Config:     config.NewConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stats.FilesDiscovered)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasIssues())
}

func TestRun_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "x = 1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := newTestRunner()
	_, err := runner.Run(ctx, Options{
		WorkingDir: root,
		Config:     config.NewConfig(),
	})
	assert.Error(t, err)
}
