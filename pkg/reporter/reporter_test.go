package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/pkg/analysis"
	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/lint"
	"github.com/flintlabs/pyflint/pkg/lint/rules"
	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
	"github.com/flintlabs/pyflint/pkg/runner"
)

// checkedResult lints the given sources in memory and wraps the
// outcomes in a runner.Result, so reporters see realistic data.
func checkedResult(t *testing.T, sources map[string]string, cfg *config.Config) *runner.Result {
	t.Helper()

	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	pipeline := lint.NewPipeline(lint.NewEngine(pyparse.NewParser(), registry))

	opts := lint.PipelineOptionsFromConfig(cfg)

	result := &runner.Result{}
	// Fixed path order so assertions see stable output.
	for _, path := range []string{"app.py", "clean.py", "loop.py"} {
		source, ok := sources[path]
		if !ok {
			continue
		}
		pr, err := pipeline.ProcessContent(context.Background(), path, []byte(source), cfg, opts)
		require.NoError(t, err)
		result.Files = append(result.Files, runner.FileOutcome{Path: path, Result: pr})
	}

	result.Stats = runnerStats(result)
	return result
}

func runnerStats(result *runner.Result) runner.Stats {
	stats := runner.Stats{DiagnosticsBySeverity: map[string]int{}}
	for _, f := range result.Files {
		if f.Result == nil || f.Result.FileResult == nil {
			continue
		}
		stats.FilesProcessed++
		n := len(f.Result.Diagnostics)
		stats.DiagnosticsTotal += n
		if n > 0 {
			stats.FilesWithIssues++
		}
		for _, d := range f.Result.Diagnostics {
			stats.DiagnosticsBySeverity[string(d.Severity)]++
		}
	}
	return stats
}

func TestNew_FormatSelection(t *testing.T) {
	var buf bytes.Buffer

	for format, want := range map[Format]any{
		FormatText:  &TextReporter{},
		FormatJSON:  &JSONReporter{},
		FormatSARIF: &SARIFReporter{},
		FormatDiff:  &DiffReporter{},
	} {
		r, err := New(Options{Writer: &buf, Format: format})
		require.NoError(t, err)
		assert.IsType(t, want, r, "format %s", format)
	}

	_, err := New(Options{Writer: &buf, Format: "csv"})
	assert.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	result := checkedResult(t, map[string]string{
		"app.py":   `greeting = str("hello")` + "\n",
		"clean.py": "x = 1\n",
	}, config.NewConfig())

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"

	r := NewTextReporter(opts)
	issues, err := r.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, issues)

	out := buf.String()
	assert.Contains(t, out, "app.py (1 issue)")
	assert.Contains(t, out, "app.py:1:12")
	assert.Contains(t, out, "(PF103)")
	assert.Contains(t, out, `greeting = str("hello")`)
	assert.Contains(t, out, "1 issue (1 warnings), in 1 file")
	assert.NotContains(t, out, "clean.py")
}

func TestTextReporter_NoFiles(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"

	r := NewTextReporter(opts)
	issues, err := r.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Equal(t, 0, issues)
	assert.Contains(t, buf.String(), "No files to check.")
}

func TestJSONReporter(t *testing.T) {
	result := checkedResult(t, map[string]string{
		"app.py": `greeting = str("hello")` + "\n",
	}, config.NewConfig())

	var buf bytes.Buffer
	r := NewJSONReporter(Options{Writer: &buf})
	issues, err := r.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, issues)

	var report analysis.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 1, report.Totals.Issues)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "PF103", report.Diagnostics[0].Code)
	assert.Equal(t, "warning", report.Diagnostics[0].Severity)
	assert.Equal(t, 1, report.Diagnostics[0].StartLine)
}

func TestSARIFReporter(t *testing.T) {
	result := checkedResult(t, map[string]string{
		"app.py": `greeting = str("hello")` + "\n",
	}, config.NewConfig())

	var buf bytes.Buffer
	r := NewSARIFReporter(Options{Writer: &buf})
	count, err := r.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var output SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, sarifVersion, output.Version)
	require.Len(t, output.Runs, 1)
	assert.Equal(t, "pyflint", output.Runs[0].Tool.Driver.Name)
	require.Len(t, output.Runs[0].Results, 1)
	assert.Equal(t, "PF103", output.Runs[0].Results[0].RuleID)
	assert.Equal(t, "warning", output.Runs[0].Results[0].Level)
	require.Len(t, output.Runs[0].Tool.Driver.Rules, 1)
}

func TestDiffReporter(t *testing.T) {
	cfg := config.NewConfig()
	cfg.FixMode = config.FixModeSafe
	cfg.DryRun = true

	result := checkedResult(t, map[string]string{
		"app.py": `greeting = str("hello")` + "\n",
	}, cfg)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"

	r := NewDiffReporter(opts)
	files, err := r.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, files)

	out := buf.String()
	assert.Contains(t, out, "diff --git a/app.py b/app.py")
	assert.Contains(t, out, `-greeting = str("hello")`)
	assert.Contains(t, out, `+greeting = "hello"`)
	assert.Contains(t, out, "1 file changed")
}

func TestDiffReporter_NoChanges(t *testing.T) {
	result := checkedResult(t, map[string]string{
		"clean.py": "x = 1\n",
	}, config.NewConfig())

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"

	r := NewDiffReporter(opts)
	files, err := r.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, files)
	assert.Empty(t, buf.String())
}
