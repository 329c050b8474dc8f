package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/flintlabs/pyflint/internal/ui/pretty"
	"github.com/flintlabs/pyflint/pkg/pysrc"
	"github.com/flintlabs/pyflint/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var totalIssues int
	if r.opts.GroupByFile {
		totalIssues = r.reportGrouped(ctx, result)
	} else {
		totalIssues = r.reportFlat(ctx, result)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return totalIssues, nil
}

// reportGrouped writes diagnostics grouped by file.
func (r *TextReporter) reportGrouped(_ context.Context, result *runner.Result) int {
	var total int

	for _, file := range result.Files {
		if file.Error != nil {
			r.writeFileError(file)
			continue
		}
		if file.Result == nil || file.Result.FileResult == nil {
			continue
		}

		diagnostics := file.Result.Diagnostics
		if len(diagnostics) == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path, len(diagnostics)))

		for _, diag := range diagnostics {
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&diag,
				r.opts.ShowContext, r.sourceLine(file, diag.StartLine)))
			total++
		}

		// Blank line between files.
		fmt.Fprintln(r.bw)
	}

	return total
}

// reportFlat writes diagnostics without grouping.
func (r *TextReporter) reportFlat(_ context.Context, result *runner.Result) int {
	var total int

	for _, file := range result.Files {
		if file.Error != nil {
			r.writeFileError(file)
			continue
		}
		if file.Result == nil || file.Result.FileResult == nil {
			continue
		}

		for _, diag := range file.Result.Diagnostics {
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&diag,
				r.opts.ShowContext, r.sourceLine(file, diag.StartLine)))
			total++
		}
	}

	return total
}

func (r *TextReporter) writeFileError(file runner.FileOutcome) {
	fmt.Fprintf(r.bw, "%s: %s\n",
		r.styles.FilePath.Render(file.Path),
		r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
	)
}

// sourceLine extracts the line a diagnostic points at. The parse result
// reflects the final content of the fix loop, so the text matches the
// reported positions.
func (r *TextReporter) sourceLine(file runner.FileOutcome, lineNum int) string {
	if !r.opts.ShowContext {
		return ""
	}
	if file.Result == nil || file.Result.FileResult == nil || file.Result.Parse == nil {
		return ""
	}
	return lineContent(file.Result.Parse.File, lineNum)
}

func lineContent(file *pysrc.File, lineNum int) string {
	if file == nil {
		return ""
	}
	content := file.LineContent(lineNum)
	if content == nil {
		return ""
	}
	return string(content)
}
