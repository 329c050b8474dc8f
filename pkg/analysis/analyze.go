package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/flintlabs/pyflint/pkg/lint"
	"github.com/flintlabs/pyflint/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

const (
	severityError   = "error"
	severityWarning = "warning"
	severityInfo    = "info"
)

// Analyze transforms a runner.Result into a Report. It performs a
// single pass through diagnostics to compute all requested views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}
	if result == nil {
		return report
	}

	report.Totals.FilesModified = result.Stats.FilesModified
	report.Totals.FilesErrored = result.Stats.FilesErrored
	report.Totals.Fixed = result.Stats.FixesApplied
	report.Totals.Suppressed = result.Stats.DiagnosticsSuppressed

	acc := newAccumulator()

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Result == nil || file.Result.FileResult == nil {
			continue
		}
		if len(file.Result.Diagnostics) > 0 {
			report.Totals.FilesWithIssues++
		}

		displayPath := makeRelativePath(file.Path, opts.WorkingDir)
		fa := acc.fileAnalysis(displayPath)

		for _, diag := range file.Result.Diagnostics {
			report.Totals.Issues++
			severity := normalizeSeverity(string(diag.Severity))
			fixable := diag.HasFix()

			countSeverity(severity, &report.Totals, fa)
			if fixable {
				report.Totals.Fixable++
			}

			fa.Issues++
			acc.fileRules[displayPath][diag.Code] = true

			ra := acc.ruleAnalysis(diag.Code, diag.RuleName)
			ra.Issues++
			countRuleSeverity(severity, ra)
			if fixable {
				ra.Fixable = true
			}
			acc.ruleFiles[diag.Code][displayPath] = true

			if opts.IncludeDiagnostics {
				report.Diagnostics = append(report.Diagnostics,
					diagnosticEntry(displayPath, severity, diag))
			}
		}
	}

	if opts.IncludeByRule {
		report.ByRule = acc.buildByRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = acc.buildByFile(opts)
	}
	return report
}

// accumulator holds temporary state during analysis.
type accumulator struct {
	ruleMap   map[string]*RuleAnalysis
	fileMap   map[string]*FileAnalysis
	ruleFiles map[string]map[string]bool
	fileRules map[string]map[string]bool
}

func newAccumulator() *accumulator {
	return &accumulator{
		ruleMap:   make(map[string]*RuleAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		ruleFiles: make(map[string]map[string]bool),
		fileRules: make(map[string]map[string]bool),
	}
}

func (a *accumulator) fileAnalysis(path string) *FileAnalysis {
	if _, ok := a.fileMap[path]; !ok {
		a.fileMap[path] = &FileAnalysis{Path: path}
		a.fileRules[path] = make(map[string]bool)
	}
	return a.fileMap[path]
}

func (a *accumulator) ruleAnalysis(code, ruleName string) *RuleAnalysis {
	if _, ok := a.ruleMap[code]; !ok {
		a.ruleMap[code] = &RuleAnalysis{Code: code, RuleName: ruleName}
		a.ruleFiles[code] = make(map[string]bool)
	}
	return a.ruleMap[code]
}

func (a *accumulator) buildByRule(opts Options) []RuleAnalysis {
	result := make([]RuleAnalysis, 0, len(a.ruleMap))
	for code, ra := range a.ruleMap {
		for f := range a.ruleFiles[code] {
			ra.Files = append(ra.Files, f)
		}
		slices.Sort(ra.Files)
		result = append(result, *ra)
	}
	sortRuleAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

func (a *accumulator) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range a.fileMap {
		if fa.Issues == 0 {
			continue
		}
		for r := range a.fileRules[path] {
			fa.Rules = append(fa.Rules, r)
		}
		slices.Sort(fa.Rules)
		result = append(result, *fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// diagnosticEntry builds a DiagnosticEntry from a lint diagnostic.
func diagnosticEntry(path, severity string, diag lint.Diagnostic) DiagnosticEntry {
	entry := DiagnosticEntry{
		FilePath:    path,
		Code:        diag.Code,
		RuleName:    diag.RuleName,
		Severity:    severity,
		Message:     diag.Message,
		StartLine:   diag.StartLine,
		StartColumn: diag.StartColumn,
		EndLine:     diag.EndLine,
		EndColumn:   diag.EndColumn,
		Suggestion:  diag.Suggestion,
		Fixable:     diag.HasFix(),
	}
	if diag.HasFix() {
		entry.FixSafety = diag.Fix.Applicability.String()
		for _, edit := range diag.Fix.Edits {
			entry.Edits = append(entry.Edits, EditEntry{
				StartOffset: edit.StartOffset,
				EndOffset:   edit.EndOffset,
				NewText:     edit.NewText,
			})
		}
	}
	return entry
}

// makeRelativePath converts an absolute path to a path relative to
// workDir. If workDir is empty or conversion fails, the original path
// is returned.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// normalizeSeverity returns the severity string, defaulting to warning.
func normalizeSeverity(sev string) string {
	if sev == "" {
		return severityWarning
	}
	return sev
}

func countSeverity(severity string, totals *Totals, fa *FileAnalysis) {
	switch severity {
	case severityError:
		totals.Errors++
		fa.Errors++
	case severityWarning:
		totals.Warnings++
		fa.Warnings++
	case severityInfo:
		totals.Infos++
		fa.Infos++
	}
}

func countRuleSeverity(severity string, ra *RuleAnalysis) {
	switch severity {
	case severityError:
		ra.Errors++
	case severityWarning:
		ra.Warnings++
	case severityInfo:
		ra.Infos++
	}
}

func sortRuleAnalysis(rules []RuleAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(rules, func(left, right RuleAnalysis) int {
		switch sortBy {
		case SortByAlpha:
			return cmp.Compare(left.Code, right.Code)
		case SortBySeverity:
			result := cmp.Compare(right.Errors, left.Errors)
			if result == 0 {
				result = cmp.Compare(right.Warnings, left.Warnings)
			}
			if result == 0 {
				result = cmp.Compare(right.Issues, left.Issues)
			}
			return result
		default: // SortByCount
			result := cmp.Compare(left.Issues, right.Issues)
			if desc {
				result = -result
			}
			if result == 0 {
				result = cmp.Compare(left.Code, right.Code)
			}
			return result
		}
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		switch sortBy {
		case SortByAlpha:
			return cmp.Compare(left.Path, right.Path)
		case SortBySeverity:
			result := cmp.Compare(right.Errors, left.Errors)
			if result == 0 {
				result = cmp.Compare(right.Warnings, left.Warnings)
			}
			if result == 0 {
				result = cmp.Compare(right.Issues, left.Issues)
			}
			return result
		default: // SortByCount
			result := cmp.Compare(left.Issues, right.Issues)
			if desc {
				result = -result
			}
			if result == 0 {
				result = cmp.Compare(left.Path, right.Path)
			}
			return result
		}
	})
}
