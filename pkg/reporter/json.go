package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/flintlabs/pyflint/pkg/analysis"
	"github.com/flintlabs/pyflint/pkg/runner"
)

// JSONReporter emits the analysis report as JSON. The document carries
// the flat diagnostic list plus per-file and per-rule rollups, so
// downstream tooling does not have to re-aggregate.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	report := analysis.Analyze(result, analysis.Options{
		IncludeDiagnostics: true,
		IncludeByFile:      true,
		IncludeByRule:      true,
		SortBy:             analysis.SortByCount,
		SortDesc:           true,
		WorkingDir:         r.opts.WorkingDir,
	})

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(report); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return report.Totals.Issues, nil
}
