package pyparse

import (
	"errors"

	"github.com/flintlabs/pyflint/pkg/pyast"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

// Result holds everything produced by a single parse: the source file,
// the full token stream (trivia included), and the syntax tree root.
type Result struct {
	File   *pysrc.File
	Tokens []Token
	Root   *pyast.Node
}

// Parse tokenizes and parses a source file into a syntax tree. The
// parser is lenient: constructs it does not model become Raw nodes with
// accurate ranges, so a malformed region never aborts the whole file.
func Parse(file *pysrc.File) (*Result, error) {
	if file == nil {
		return nil, errors.New("pyparse: nil file")
	}

	tokens := Tokenize(file.Content)
	p := &parser{
		file:    file,
		content: file.Content,
		b:       pyast.NewBuilder(file),
		lines:   buildLogicalLines(file, tokens),
	}

	var stmts []*pyast.Node
	for p.pos < len(p.lines) {
		stmts = append(stmts, p.parseStatement()...)
	}

	return &Result{File: file, Tokens: tokens, Root: p.b.Module(stmts)}, nil
}

// logicalLine is a physical line or a bracket/backslash-joined run of
// physical lines, reduced to its significant tokens.
type logicalLine struct {
	indent int
	toks   []Token
	start  int
	end    int
}

// buildLogicalLines groups the token stream into logical lines. Newlines
// inside brackets or after a backslash continuation do not end a line;
// comments and whitespace are dropped.
func buildLogicalLines(file *pysrc.File, tokens []Token) []logicalLine {
	var lines []logicalLine
	var cur []Token
	depth := 0
	cont := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		start := cur[0].StartOffset
		indent := 0
		if line, _, err := file.LineAt(start); err == nil {
			if ls, ok := file.LineStart(line); ok {
				indent = start - ls
			}
		}
		lines = append(lines, logicalLine{
			indent: indent,
			toks:   cur,
			start:  start,
			end:    cur[len(cur)-1].EndOffset,
		})
		cur = nil
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case TokWhitespace, TokComment:
			continue
		case TokNewline:
			if depth > 0 || cont {
				cont = false
				continue
			}
			flush()
		case TokOp:
			switch string(tok.Text(file.Content)) {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth > 0 {
					depth--
				}
			case "\\":
				cont = true
				continue
			}
			cur = append(cur, tok)
		default:
			cur = append(cur, tok)
		}
	}
	flush()
	return lines
}

type parser struct {
	file    *pysrc.File
	content []byte
	b       *pyast.Builder
	lines   []logicalLine
	pos     int
}

func (p *parser) text(tok Token) string {
	return string(tok.Text(p.content))
}

// parseStatement consumes one statement (plus any body it owns) and
// returns the resulting nodes. A line with semicolons yields several.
func (p *parser) parseStatement() []*pyast.Node {
	line := p.lines[p.pos]
	toks := line.toks
	if len(toks) == 0 {
		p.pos++
		return nil
	}

	if toks[0].Kind == TokOp && p.text(toks[0]) == "@" {
		return p.parseDecorated()
	}

	if toks[0].Kind == TokKeyword {
		kw := p.text(toks[0])
		if kw == "async" && len(toks) > 1 {
			kw = p.text(toks[1])
		}
		switch kw {
		case "def":
			return []*pyast.Node{p.parseFunctionDef(nil)}
		case "class":
			return []*pyast.Node{p.parseClassDef()}
		case "for":
			return []*pyast.Node{p.parseFor()}
		case "while":
			return []*pyast.Node{p.parseCompound(pyast.KindWhile)}
		case "if", "elif":
			return []*pyast.Node{p.parseCompound(pyast.KindIf)}
		case "else", "try", "except", "finally", "with":
			return []*pyast.Node{p.parseCompound(pyast.KindRaw)}
		}
	}

	p.pos++
	return p.parseSimpleLine(toks)
}

// parseDecorated collects decorator lines and attaches them to the
// following def or class. Stray decorators become a Raw statement.
func (p *parser) parseDecorated() []*pyast.Node {
	var decorators []*pyast.Node
	first := p.lines[p.pos]

	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if len(line.toks) == 0 || line.toks[0].Kind != TokOp || p.text(line.toks[0]) != "@" {
			break
		}
		if deco := p.parseExprTokens(line.toks[1:]); deco != nil {
			decorators = append(decorators, deco)
		}
		p.pos++
	}

	if p.pos < len(p.lines) {
		toks := p.lines[p.pos].toks
		if len(toks) > 0 && toks[0].Kind == TokKeyword {
			kw := p.text(toks[0])
			if kw == "async" && len(toks) > 1 {
				kw = p.text(toks[1])
			}
			switch kw {
			case "def":
				fn := p.parseFunctionDef(decorators)
				fn.Range = pysrc.NewRange(first.start, fn.Range.EndOffset)
				return []*pyast.Node{fn}
			case "class":
				cls := p.parseClassDef()
				cls.Range = pysrc.NewRange(first.start, cls.Range.EndOffset)
				return []*pyast.Node{cls}
			}
		}
	}

	prev := p.lines[p.pos-1]
	return []*pyast.Node{p.b.Node(pyast.KindRaw, first.start, prev.end)}
}

// colonIndex returns the index of the first top-level colon, or -1.
func (p *parser) colonIndex(toks []Token) int {
	depth := 0
	for i, tok := range toks {
		if tok.Kind != TokOp {
			continue
		}
		switch p.text(tok) {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ":":
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseSuite parses the body of a compound statement whose header ends
// at the colon. Tokens after the colon on the same line form an inline
// suite; otherwise the indented block on the following lines is used.
// The current line must already be consumed for the block case.
func (p *parser) parseSuite(rest []Token, parentIndent int) []*pyast.Node {
	if len(rest) > 0 {
		return p.parseSimpleLine(rest)
	}
	if p.pos >= len(p.lines) || p.lines[p.pos].indent <= parentIndent {
		return nil
	}
	return p.parseBlock(p.lines[p.pos].indent)
}

// parseBlock parses consecutive statements at the given indent level.
func (p *parser) parseBlock(blockIndent int) []*pyast.Node {
	var stmts []*pyast.Node
	for p.pos < len(p.lines) && p.lines[p.pos].indent >= blockIndent {
		stmts = append(stmts, p.parseStatement()...)
	}
	return stmts
}

func stmtsEnd(stmts []*pyast.Node, headerEnd int) int {
	if len(stmts) == 0 {
		return headerEnd
	}
	return stmts[len(stmts)-1].Range.EndOffset
}

// parseCompound handles compound statements that need no dedicated
// structure: the header expression (if any) becomes the first child and
// the suite statements follow.
func (p *parser) parseCompound(kind pyast.NodeKind) *pyast.Node {
	line := p.lines[p.pos]
	toks := line.toks
	p.pos++

	c := p.colonIndex(toks)
	if c < 0 {
		return p.b.Node(pyast.KindRaw, line.start, line.end)
	}

	headerStart := 1
	if p.text(toks[0]) == "async" {
		headerStart = 2
	}

	var cond *pyast.Node
	if kind == pyast.KindIf || kind == pyast.KindWhile {
		cond = p.parseExprTokens(toks[headerStart:c])
	}

	body := p.parseSuite(toks[c+1:], line.indent)

	n := p.b.Node(kind, line.start, stmtsEnd(body, line.end))
	if cond != nil {
		n.AppendChild(cond)
	}
	for _, stmt := range body {
		n.AppendChild(stmt)
	}
	return n
}

// parseFor parses a for statement into target, iterable, and body.
func (p *parser) parseFor() *pyast.Node {
	line := p.lines[p.pos]
	toks := line.toks
	p.pos++

	c := p.colonIndex(toks)
	if c < 0 {
		return p.b.Node(pyast.KindRaw, line.start, line.end)
	}

	headerStart := 1
	if p.text(toks[0]) == "async" {
		headerStart = 2
	}

	inIdx := -1
	depth := 0
	for i := headerStart; i < c; i++ {
		tok := toks[i]
		if tok.Kind == TokOp {
			switch p.text(tok) {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
			continue
		}
		if depth == 0 && tok.Kind == TokKeyword && p.text(tok) == "in" {
			inIdx = i
			break
		}
	}
	if inIdx < 0 {
		return p.b.Node(pyast.KindRaw, line.start, line.end)
	}

	target := p.parseExprTokens(toks[headerStart:inIdx])
	iter := p.parseExprTokens(toks[inIdx+1 : c])
	body := p.parseSuite(toks[c+1:], line.indent)

	if target == nil || iter == nil {
		n := p.b.Node(pyast.KindRaw, line.start, stmtsEnd(body, line.end))
		for _, stmt := range body {
			n.AppendChild(stmt)
		}
		return n
	}
	return p.b.ForStmt(target, iter, body, line.start, stmtsEnd(body, line.end))
}

// parseFunctionDef parses a def statement, its parameter list with
// defaults, and its body.
func (p *parser) parseFunctionDef(decorators []*pyast.Node) *pyast.Node {
	line := p.lines[p.pos]
	toks := line.toks
	p.pos++

	idx := 1
	if p.text(toks[0]) == "async" {
		idx = 2
	}
	if idx >= len(toks) || toks[idx].Kind != TokName {
		return p.b.Node(pyast.KindRaw, line.start, line.end)
	}
	name := p.text(toks[idx])

	open := idx + 1
	if open >= len(toks) || p.text(toks[open]) != "(" {
		return p.b.Node(pyast.KindRaw, line.start, line.end)
	}
	closeIdx := p.matchBracket(toks, open)
	if closeIdx < 0 {
		return p.b.Node(pyast.KindRaw, line.start, line.end)
	}

	params := p.parseParams(toks[open+1 : closeIdx])

	c := p.colonIndex(toks[closeIdx+1:])
	if c < 0 {
		return p.b.Node(pyast.KindRaw, line.start, line.end)
	}
	c += closeIdx + 1

	body := p.parseSuite(toks[c+1:], line.indent)

	fn := p.b.FunctionDef(name, params, body, line.start, stmtsEnd(body, line.end))
	if fn.Func != nil {
		fn.Func.Decorators = decorators
	}
	return fn
}

// parseParams parses a parameter list. Annotations are skipped; defaults
// are parsed as expressions. Bare * and ** markers produce no parameter.
func (p *parser) parseParams(toks []Token) []pyast.Param {
	var params []pyast.Param
	for _, seg := range p.splitTopLevel(toks, ",") {
		for len(seg) > 0 && seg[0].Kind == TokOp {
			seg = seg[1:]
		}
		if len(seg) == 0 || seg[0].Kind != TokName {
			continue
		}

		param := pyast.Param{
			Name:  p.text(seg[0]),
			Range: pysrc.NewRange(seg[0].StartOffset, seg[len(seg)-1].EndOffset),
		}

		depth := 0
		for i, tok := range seg {
			if tok.Kind != TokOp {
				continue
			}
			switch p.text(tok) {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			case "=":
				if depth == 0 {
					param.Default = p.parseExprTokens(seg[i+1:])
				}
			}
			if param.Default != nil {
				break
			}
		}

		params = append(params, param)
	}
	return params
}

// parseClassDef parses a class statement. Base classes are not modeled.
func (p *parser) parseClassDef() *pyast.Node {
	line := p.lines[p.pos]
	toks := line.toks
	p.pos++

	if len(toks) < 2 || toks[1].Kind != TokName {
		return p.b.Node(pyast.KindRaw, line.start, line.end)
	}

	c := p.colonIndex(toks)
	if c < 0 {
		return p.b.Node(pyast.KindRaw, line.start, line.end)
	}

	body := p.parseSuite(toks[c+1:], line.indent)

	n := p.b.Node(pyast.KindClassDef, line.start, stmtsEnd(body, line.end))
	n.Ident = p.text(toks[1])
	for _, stmt := range body {
		n.AppendChild(stmt)
	}
	return n
}

// parseSimpleLine parses a run of simple statements separated by
// semicolons.
func (p *parser) parseSimpleLine(toks []Token) []*pyast.Node {
	var stmts []*pyast.Node
	for _, seg := range p.splitTopLevel(toks, ";") {
		if len(seg) == 0 {
			continue
		}
		stmts = append(stmts, p.parseSimple(seg))
	}
	return stmts
}

// augmentedOps are the in-place assignment operators. Their targets are
// both read and written.
var augmentedOps = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "@=": true,
}

// parseSimple parses one simple statement.
func (p *parser) parseSimple(toks []Token) *pyast.Node {
	start := toks[0].StartOffset
	end := toks[len(toks)-1].EndOffset

	if toks[0].Kind == TokKeyword {
		switch p.text(toks[0]) {
		case "return":
			n := p.b.Node(pyast.KindReturn, start, end)
			if len(toks) > 1 {
				n.AppendChild(p.parseExprTokens(toks[1:]))
			}
			return n
		case "pass":
			return p.b.Node(pyast.KindPass, start, end)
		case "import", "from":
			return p.b.Node(pyast.KindImport, start, end)
		case "break", "continue", "del", "global", "nonlocal",
			"assert", "raise", "yield", "lambda", "not", "await":
			return p.rawWithNested(toks)
		}
	}

	// Assignment: split at the first top-level = or augmented operator.
	depth := 0
	for i, tok := range toks {
		if tok.Kind != TokOp {
			continue
		}
		txt := p.text(tok)
		switch txt {
		case "(", "[", "{":
			depth++
			continue
		case ")", "]", "}":
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		if txt == "=" || augmentedOps[txt] {
			return p.parseAssign(toks, i, txt)
		}
	}

	n := p.b.Node(pyast.KindExprStmt, start, end)
	n.AppendChild(p.parseExprTokens(toks))
	return n
}

// parseAssign builds an Assign node from the tokens around the operator
// at index i. An annotated target keeps only the part before the colon.
// Ident records the operator so augmented targets can be treated as
// reads as well as writes.
func (p *parser) parseAssign(toks []Token, i int, op string) *pyast.Node {
	start := toks[0].StartOffset
	end := toks[len(toks)-1].EndOffset

	targetToks := toks[:i]
	if c := p.colonIndex(targetToks); c >= 0 {
		targetToks = targetToks[:c]
	}

	n := p.b.Node(pyast.KindAssign, start, end)
	n.Ident = op
	n.AppendChild(p.parseExprTokens(targetToks))
	n.AppendChild(p.parseExprTokens(toks[i+1:]))
	return n
}

// matchBracket returns the index of the closer matching the opener at
// idx, or -1 if unbalanced.
func (p *parser) matchBracket(toks []Token, idx int) int {
	depth := 0
	for i := idx; i < len(toks); i++ {
		if toks[i].Kind != TokOp {
			continue
		}
		switch p.text(toks[i]) {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits toks at depth-0 occurrences of the separator.
// A trailing empty segment from a trailing separator is dropped.
func (p *parser) splitTopLevel(toks []Token, sep string) [][]Token {
	var parts [][]Token
	depth := 0
	segStart := 0
	for i, tok := range toks {
		if tok.Kind != TokOp {
			continue
		}
		switch txt := p.text(tok); txt {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, toks[segStart:i])
				segStart = i + 1
			}
		}
	}
	if segStart < len(toks) {
		parts = append(parts, toks[segStart:])
	} else if len(parts) == 0 {
		parts = append(parts, nil)
	}
	return parts
}
