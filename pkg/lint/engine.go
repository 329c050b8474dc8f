package lint

import (
	"context"
	"fmt"

	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/noqa"
	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
	"github.com/flintlabs/pyflint/pkg/pyast"
	"github.com/flintlabs/pyflint/pkg/pysem"
)

// FileResult contains the results of checking a single file.
type FileResult struct {
	// Parse is the parse result the diagnostics refer to.
	Parse *pyparse.Result

	// Suppressions is the suppression index built for the file.
	Suppressions *noqa.Index

	// Diagnostics contains all surviving issues, ordered by
	// (start offset, end offset, code).
	Diagnostics []Diagnostic

	// SuppressedCount is the number of diagnostics dropped by
	// suppression directives.
	SuppressedCount int

	// RuleErrors maps rule codes to the error that disabled them for
	// this file. Each failure also appears as an internal-error
	// diagnostic.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics survived.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics carrying a fix.
func (fr *FileResult) FixableCount() int {
	count := 0
	for i := range fr.Diagnostics {
		if fr.Diagnostics[i].HasFix() {
			count++
		}
	}
	return count
}

// Engine coordinates parsing and rule execution.
type Engine struct {
	// Parser parses Python source into parse results.
	Parser Parser

	// Registry holds all available rules.
	Registry *Registry
}

// NewEngine creates a new Engine with the given parser and registry.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// CheckFile parses and checks a single file.
//
// The tree is walked exactly once in pre-order. At each node, every
// enabled rule subscribed to the node's kind runs. A rule that returns
// an error or panics is disabled for the remainder of the file and
// leaves one internal-error diagnostic behind. Suppressed diagnostics
// are dropped before they reach the result; internal-error diagnostics
// cannot be suppressed.
func (e *Engine) CheckFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	parse, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	suppressions := noqa.Build(parse.File, parse.Tokens)
	symbols := pysem.BuildTable(parse.Root)

	resolved := ResolveRules(e.Registry, cfg)

	// One context per rule, shared across all nodes of the file.
	contexts := make([]*RuleContext, len(resolved))
	kindIndex := make(map[pyast.NodeKind][]int)
	for i, rr := range resolved {
		rc := NewRuleContext(ctx, parse, cfg, rr.Config)
		rc.Registry = e.Registry
		rc.Symbols = symbols
		rc.Suppressions = suppressions
		contexts[i] = rc

		for _, kind := range rr.Rule.Kinds() {
			kindIndex[kind] = append(kindIndex[kind], i)
		}
	}

	result := &FileResult{
		Parse:        parse,
		Suppressions: suppressions,
		RuleErrors:   make(map[string]error),
	}

	failed := make([]bool, len(resolved))

	walkErr := pyast.Walk(parse.Root, func(node *pyast.Node) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for _, i := range kindIndex[node.Kind] {
			if failed[i] {
				continue
			}
			rr := resolved[i]

			diags, err := checkNode(rr.Rule, contexts[i], node)
			if err != nil {
				failed[i] = true
				result.RuleErrors[rr.Rule.Code()] = err
				result.Diagnostics = append(result.Diagnostics,
					internalError(rr.Rule.Code(), parse, node, err))
				continue
			}

			for _, d := range diags {
				d.Severity = rr.Severity
				if d.FilePath == "" {
					d.FilePath = path
				}
				if d.RuleName == "" {
					d.RuleName = rr.Rule.Name()
				}
				if !rr.AutoFix {
					d.Fix = nil
				}
				if suppressions.IsSuppressed(d.StartLine, d.Code) {
					result.SuppressedCount++
					continue
				}
				result.Diagnostics = append(result.Diagnostics, d)
			}
		}
		return nil
	})
	if walkErr != nil {
		return result, fmt.Errorf("checking cancelled: %w", walkErr)
	}

	SortDiagnostics(result.Diagnostics)
	return result, nil
}

// checkNode runs one rule against one node, converting panics into
// errors so a misbehaving rule cannot take down the whole run.
func checkNode(rule Rule, rc *RuleContext, node *pyast.Node) (diags []Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			diags = nil
			err = fmt.Errorf("rule %s panicked: %v", rule.Code(), r)
		}
	}()
	return rule.Check(rc, node)
}

// internalError builds the engine-produced diagnostic for a failed rule.
func internalError(code string, parse *pyparse.Result, node *pyast.Node, err error) Diagnostic {
	d := NewDiagnosticAt(CodeInternalError, parse.File, node.Range,
		fmt.Sprintf("rule %s failed: %v", code, err)).
		WithSeverity(config.SeverityError).
		Build()
	d.RuleName = "internal-error"
	return d
}
