// Package noqa builds the per-file suppression index from inline
// comment directives. A directive suppresses diagnostics reported on
// its line: the blanket form `# noqa` suppresses everything, the scoped
// form `# noqa: PF101,PF102` suppresses only the listed codes.
//
// Diagnostics inside a multi-line string cannot carry their own
// comment, so lines covered by a multi-line string are remapped to the
// line on which the string ends. A directive trailing the closing quote
// therefore covers the whole literal.
package noqa

import (
	"regexp"
	"strings"

	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

// directiveRe matches a suppression comment anywhere inside a comment
// token. The code list is optional; without it the directive is blanket.
var directiveRe = regexp.MustCompile(`(?i)#\s*noqa(?::\s*(?P<codes>[A-Z]+[0-9]+(?:[,\s]+[A-Z]+[0-9]+)*))?`)

// Directive is a single parsed suppression comment.
type Directive struct {
	// Line is the 1-based line the directive appears on.
	Line int

	// Range is the byte span of the matched directive text.
	Range pysrc.SourceRange

	// All is true for the blanket form with no code list.
	All bool

	// Codes holds the listed codes, normalized to upper case.
	Codes []string
}

// Matches reports whether this directive suppresses the given code.
func (d *Directive) Matches(code string) bool {
	if d.All {
		return true
	}
	code = strings.ToUpper(code)
	for _, c := range d.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// Index is the suppression index for one file. The zero value (or nil)
// suppresses nothing.
type Index struct {
	directives map[int]*Directive
	remap      map[int]int
}

// Build scans the token stream for suppression comments and multi-line
// strings and assembles the index. The tokens must come from the same
// content the file was built from.
func Build(file *pysrc.File, tokens []pyparse.Token) *Index {
	ix := &Index{
		directives: make(map[int]*Directive),
		remap:      make(map[int]int),
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case pyparse.TokComment:
			if d := parseDirective(file, tok); d != nil {
				ix.directives[d.Line] = d
			}
		case pyparse.TokString:
			if tok.Len() == 0 {
				continue
			}
			startLine, _, err := file.LineAt(tok.StartOffset)
			if err != nil {
				continue
			}
			endLine, _, err := file.LineAt(tok.EndOffset - 1)
			if err != nil || endLine == startLine {
				continue
			}
			for line := startLine; line < endLine; line++ {
				ix.remap[line] = endLine
			}
		}
	}

	return ix
}

// parseDirective extracts a directive from one comment token, or nil.
func parseDirective(file *pysrc.File, tok pyparse.Token) *Directive {
	text := string(tok.Text(file.Content))
	m := directiveRe.FindStringSubmatchIndex(text)
	if m == nil {
		return nil
	}

	line, _, err := file.LineAt(tok.StartOffset)
	if err != nil {
		return nil
	}

	d := &Directive{
		Line:  line,
		Range: pysrc.NewRange(tok.StartOffset+m[0], tok.StartOffset+m[1]),
	}

	codesStart, codesEnd := m[2], m[3]
	if codesStart < 0 {
		d.All = true
		return d
	}

	for _, code := range strings.FieldsFunc(text[codesStart:codesEnd], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		d.Codes = append(d.Codes, strings.ToUpper(code))
	}
	if len(d.Codes) == 0 {
		d.All = true
	}
	return d
}

// IsSuppressed reports whether a diagnostic with the given code on the
// given 1-based line is suppressed. A directive on the line itself wins
// over one reached through multi-line string remapping.
func (ix *Index) IsSuppressed(line int, code string) bool {
	d := ix.DirectiveFor(line)
	return d != nil && d.Matches(code)
}

// DirectiveFor returns the directive governing the given line, or nil.
func (ix *Index) DirectiveFor(line int) *Directive {
	if ix == nil || ix.directives == nil {
		return nil
	}
	if d, ok := ix.directives[line]; ok {
		return d
	}
	if mapped, ok := ix.remap[line]; ok {
		return ix.directives[mapped]
	}
	return nil
}

// Len returns the number of directives in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.directives)
}
