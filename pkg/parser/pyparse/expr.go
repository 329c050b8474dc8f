package pyparse

import (
	"strings"

	"github.com/flintlabs/pyflint/pkg/pyast"
)

// parseExprTokens parses an expression from a token slice. A top-level
// comma produces a Tuple. Returns nil for an empty slice.
func (p *parser) parseExprTokens(toks []Token) *pyast.Node {
	if len(toks) == 0 {
		return nil
	}

	parts := p.splitTopLevel(toks, ",")
	if len(parts) > 1 {
		var elems []*pyast.Node
		for _, part := range parts {
			if len(part) == 0 {
				continue
			}
			if e := p.parseComparison(part); e != nil {
				elems = append(elems, e)
			}
		}
		return p.b.TupleExpr(elems, toks[0].StartOffset, toks[len(toks)-1].EndOffset)
	}
	return p.parseComparison(toks)
}

// comparisonOps maps operator token text to its canonical form.
var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

// parseComparison parses a comparison, or falls through to a chain when
// no top-level comparison operator is present. The keyword forms is,
// is not, in, and not in are recognized alongside the symbolic ones.
func (p *parser) parseComparison(toks []Token) *pyast.Node {
	depth := 0
	for i, tok := range toks {
		if tok.Kind == TokOp {
			switch txt := p.text(tok); {
			case txt == "(" || txt == "[" || txt == "{":
				depth++
			case txt == ")" || txt == "]" || txt == "}":
				depth--
			case depth == 0 && comparisonOps[txt]:
				return p.buildCompare(toks, i, txt, 1)
			}
			continue
		}
		if depth != 0 || tok.Kind != TokKeyword || i == 0 {
			continue
		}
		switch p.text(tok) {
		case "is":
			if i+1 < len(toks) && toks[i+1].Kind == TokKeyword && p.text(toks[i+1]) == "not" {
				return p.buildCompare(toks, i, "is not", 2)
			}
			return p.buildCompare(toks, i, "is", 1)
		case "not":
			if i+1 < len(toks) && toks[i+1].Kind == TokKeyword && p.text(toks[i+1]) == "in" {
				return p.buildCompare(toks, i, "not in", 2)
			}
		case "in":
			return p.buildCompare(toks, i, "in", 1)
		}
	}
	return p.parseChain(toks)
}

func (p *parser) buildCompare(toks []Token, i int, op string, width int) *pyast.Node {
	left := p.parseChain(toks[:i])
	right := p.parseComparison(toks[i+width:])
	if left == nil || right == nil {
		return p.rawWithNested(toks)
	}
	return p.b.CompareExpr(op, left, right, toks[0].StartOffset, toks[len(toks)-1].EndOffset)
}

// parseChain parses an atom followed by attribute access, calls, and
// subscripts. Anything beyond that (arithmetic, boolean operators,
// unary prefixes) becomes a Raw node that keeps the parsed pieces as
// children so nested expressions stay visible to traversal.
func (p *parser) parseChain(toks []Token) *pyast.Node {
	if len(toks) == 0 {
		return nil
	}
	chainStart := toks[0].StartOffset

	var node *pyast.Node
	idx := 0

	switch tok := toks[0]; tok.Kind {
	case TokName:
		node = p.b.Name(p.text(tok), tok.StartOffset, tok.EndOffset)
		idx = 1
	case TokNumber:
		node = p.b.Node(pyast.KindNumberLit, tok.StartOffset, tok.EndOffset)
		idx = 1
	case TokString:
		if len(toks) > 1 && toks[1].Kind == TokString {
			// Implicit concatenation is not modeled.
			return p.rawWithNested(toks)
		}
		node = p.stringLit(tok)
		idx = 1
	case TokKeyword:
		switch p.text(tok) {
		case "True", "False", "None":
			node = p.b.Node(pyast.KindRaw, tok.StartOffset, tok.EndOffset)
			idx = 1
		default:
			return p.rawWithNested(toks)
		}
	case TokOp:
		switch p.text(tok) {
		case "(":
			m := p.matchBracket(toks, 0)
			if m < 0 {
				return p.rawWithNested(toks)
			}
			inner := p.parseExprTokens(toks[1:m])
			if inner == nil {
				inner = p.b.TupleExpr(nil, tok.StartOffset, toks[m].EndOffset)
			}
			node = inner
			idx = m + 1
		case "[":
			m := p.matchBracket(toks, 0)
			if m < 0 {
				return p.rawWithNested(toks)
			}
			node = p.collectionLit(pyast.KindListLit, toks[1:m], tok.StartOffset, toks[m].EndOffset)
			idx = m + 1
		case "{":
			m := p.matchBracket(toks, 0)
			if m < 0 {
				return p.rawWithNested(toks)
			}
			inner := toks[1:m]
			kind := pyast.KindSetLit
			if len(inner) == 0 || p.colonIndex(inner) >= 0 {
				kind = pyast.KindDictLit
			}
			node = p.collectionLit(kind, inner, tok.StartOffset, toks[m].EndOffset)
			idx = m + 1
		default:
			return p.rawWithNested(toks)
		}
	default:
		return p.rawWithNested(toks)
	}

	for idx < len(toks) {
		tok := toks[idx]
		if tok.Kind != TokOp {
			break
		}
		switch p.text(tok) {
		case ".":
			if idx+1 >= len(toks) || toks[idx+1].Kind != TokName {
				return p.rawTail(toks, node)
			}
			attr := toks[idx+1]
			node = p.b.Attribute(node, p.text(attr), chainStart, attr.EndOffset)
			idx += 2
		case "(":
			m := p.matchBracket(toks, idx)
			if m < 0 {
				return p.rawTail(toks, node)
			}
			args := p.parseArgs(toks[idx+1 : m])
			node = p.b.CallExpr(node, args, chainStart, toks[m].EndOffset)
			idx = m + 1
		case "[":
			m := p.matchBracket(toks, idx)
			if m < 0 {
				return p.rawTail(toks, node)
			}
			sub := p.b.Node(pyast.KindRaw, chainStart, toks[m].EndOffset)
			sub.AppendChild(node)
			if inner := p.parseExprTokens(toks[idx+1 : m]); inner != nil {
				sub.AppendChild(inner)
			}
			node = sub
			idx = m + 1
		default:
			return p.rawTail(toks, node)
		}
	}

	if idx < len(toks) {
		return p.rawTail(toks, node)
	}
	return node
}

// collectionLit builds a list, set, or dict literal node. Elements are
// parsed loosely; dict entries with colons degrade to Raw children.
func (p *parser) collectionLit(kind pyast.NodeKind, inner []Token, start, end int) *pyast.Node {
	n := p.b.Node(kind, start, end)
	for _, part := range p.splitTopLevel(inner, ",") {
		if len(part) == 0 {
			continue
		}
		if e := p.parseComparison(part); e != nil {
			n.AppendChild(e)
		}
	}
	return n
}

// parseArgs parses a call argument list. Keyword arguments and starred
// arguments are wrapped in Raw nodes so positional matching stays exact
// while their value expressions remain in the tree.
func (p *parser) parseArgs(toks []Token) []*pyast.Node {
	var args []*pyast.Node
	for _, part := range p.splitTopLevel(toks, ",") {
		if len(part) == 0 {
			continue
		}

		if part[0].Kind == TokOp {
			txt := p.text(part[0])
			if txt == "*" || txt == "**" {
				wrap := p.b.Node(pyast.KindRaw, part[0].StartOffset, part[len(part)-1].EndOffset)
				if e := p.parseExprTokens(part[1:]); e != nil {
					wrap.AppendChild(e)
				}
				args = append(args, wrap)
				continue
			}
		}

		if len(part) > 2 && part[0].Kind == TokName &&
			part[1].Kind == TokOp && p.text(part[1]) == "=" {
			wrap := p.b.Node(pyast.KindRaw, part[0].StartOffset, part[len(part)-1].EndOffset)
			if e := p.parseExprTokens(part[2:]); e != nil {
				wrap.AppendChild(e)
			}
			args = append(args, wrap)
			continue
		}

		if e := p.parseComparison(part); e != nil {
			args = append(args, e)
		}
	}
	return args
}

// stringLit builds a StringLit node from a string token, splitting off
// the prefix and quotes.
func (p *parser) stringLit(tok Token) *pyast.Node {
	text := p.text(tok)

	raw := false
	i := 0
	for i < len(text) && text[i] != '"' && text[i] != '\'' {
		if text[i] == 'r' || text[i] == 'R' {
			raw = true
		}
		i++
	}
	body := text[i:]

	triple := strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, "'''")
	q := 1
	if triple {
		q = 3
	}

	value := ""
	if len(body) >= 2*q {
		value = body[q : len(body)-q]
	} else if len(body) > q {
		// Unterminated literal.
		value = body[q:]
	}

	return p.b.StringLit(value, triple, raw, tok.StartOffset, tok.EndOffset)
}

// rawWithNested produces a Raw node spanning toks. Bracketed groups
// inside are still parsed and attached so calls buried in unmodeled
// expressions remain reachable.
func (p *parser) rawWithNested(toks []Token) *pyast.Node {
	if len(toks) == 0 {
		return nil
	}
	n := p.b.Node(pyast.KindRaw, toks[0].StartOffset, toks[len(toks)-1].EndOffset)

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if tok.Kind == TokName {
			// A name starting a chain may be a nested call.
			end := i + 1
			depth := 0
			for end < len(toks) {
				t := toks[end]
				if t.Kind == TokOp {
					switch p.text(t) {
					case "(", "[":
						depth++
					case ")", "]":
						depth--
						if depth == 0 {
							end++
							continue
						}
						if depth < 0 {
							goto done
						}
					case ".":
						if depth == 0 && end+1 < len(toks) && toks[end+1].Kind == TokName {
							end += 2
							continue
						}
						goto done
					default:
						if depth == 0 {
							goto done
						}
					}
					end++
					continue
				}
				if depth == 0 {
					break
				}
				end++
			}
		done:
			if end > i+1 {
				if child := p.parseChain(toks[i:end]); child != nil && child.Kind != pyast.KindRaw {
					n.AppendChild(child)
				}
				i = end - 1
			} else {
				// Bare name: keep it visible as a load.
				n.AppendChild(p.b.Name(p.text(tok), tok.StartOffset, tok.EndOffset))
			}
		}
	}
	return n
}

// rawTail wraps an already-parsed head plus the unparsed remainder of
// toks in a Raw node.
func (p *parser) rawTail(toks []Token, head *pyast.Node) *pyast.Node {
	n := p.b.Node(pyast.KindRaw, toks[0].StartOffset, toks[len(toks)-1].EndOffset)
	if head != nil {
		n.AppendChild(head)
	}
	return n
}
