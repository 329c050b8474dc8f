package pyparse

// Tokenize splits Python source into a contiguous token stream.
// Every byte of the input is covered by exactly one token, so the
// stream can be used to rebuild the source and to map suppression
// comments and multi-line strings back to lines.
func Tokenize(content []byte) []Token {
	t := &tokenizer{content: content}
	return t.run()
}

type tokenizer struct {
	content []byte
	pos     int
	tokens  []Token
}

func (t *tokenizer) run() []Token {
	for t.pos < len(t.content) {
		start := t.pos
		c := t.content[t.pos]

		switch {
		case c == '\n':
			t.pos++
			t.emit(TokNewline, start)
		case c == ' ' || c == '\t' || c == '\r':
			t.lexWhitespace()
			t.emit(TokWhitespace, start)
		case c == '#':
			t.lexComment()
			t.emit(TokComment, start)
		case c == '"' || c == '\'':
			t.lexString(c, false)
			t.emit(TokString, start)
		case isNameStart(c):
			t.lexNameOrString(start)
		case isDigit(c):
			t.lexNumber()
			t.emit(TokNumber, start)
		case isOpByte(c):
			t.lexOp()
			t.emit(TokOp, start)
		default:
			t.pos++
			t.emit(TokOther, start)
		}
	}
	return t.tokens
}

func (t *tokenizer) emit(kind TokenKind, start int) {
	t.tokens = append(t.tokens, Token{Kind: kind, StartOffset: start, EndOffset: t.pos})
}

func (t *tokenizer) lexWhitespace() {
	for t.pos < len(t.content) {
		c := t.content[t.pos]
		if c != ' ' && c != '\t' && c != '\r' {
			break
		}
		t.pos++
	}
}

func (t *tokenizer) lexComment() {
	for t.pos < len(t.content) && t.content[t.pos] != '\n' {
		t.pos++
	}
}

// lexNameOrString handles identifiers, keywords, and prefixed string
// literals such as r"...", b'...', f"...", and their combinations. The
// prefix letters and the quoted body form a single string token.
func (t *tokenizer) lexNameOrString(start int) {
	for t.pos < len(t.content) && isNameByte(t.content[t.pos]) {
		t.pos++
	}

	word := t.content[start:t.pos]
	if t.pos < len(t.content) && isStringPrefix(word) {
		if q := t.content[t.pos]; q == '"' || q == '\'' {
			t.lexString(q, hasRawPrefix(word))
			t.emit(TokString, start)
			return
		}
	}

	kind := TokName
	if keywords[string(word)] {
		kind = TokKeyword
	}
	t.emit(kind, start)
}

// lexString consumes a string literal starting at the opening quote.
// Handles single and triple quotes. Unterminated strings run to the end
// of the line (single-quoted) or end of file (triple-quoted); the parser
// treats the affected statements as raw.
func (t *tokenizer) lexString(quote byte, raw bool) {
	triple := t.pos+2 < len(t.content) &&
		t.content[t.pos+1] == quote && t.content[t.pos+2] == quote

	if triple {
		t.pos += 3
		for t.pos < len(t.content) {
			if !raw && t.content[t.pos] == '\\' {
				t.pos += 2
				continue
			}
			if t.pos+2 < len(t.content) &&
				t.content[t.pos] == quote &&
				t.content[t.pos+1] == quote &&
				t.content[t.pos+2] == quote {
				t.pos += 3
				return
			}
			t.pos++
		}
		return
	}

	t.pos++
	for t.pos < len(t.content) {
		c := t.content[t.pos]
		if c == '\n' {
			return
		}
		if !raw && c == '\\' {
			t.pos += 2
			continue
		}
		t.pos++
		if c == quote {
			return
		}
	}
}

func (t *tokenizer) lexNumber() {
	for t.pos < len(t.content) {
		c := t.content[t.pos]
		if isNameByte(c) || c == '.' {
			t.pos++
			continue
		}
		// Exponent sign, as in 1e-5.
		if (c == '+' || c == '-') && t.pos > 0 {
			prev := t.content[t.pos-1]
			if prev == 'e' || prev == 'E' {
				t.pos++
				continue
			}
		}
		break
	}
}

// twoByteOps are the multi-byte operators recognized before falling back
// to single-byte ones. Three-byte operators reduce to valid two-byte
// prefixes plus '=', which is fine for range-accurate scanning.
var twoByteOps = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true,
	"//": true, "**": true, "->": true, ":=": true,
	"+=": true, "-=": true, "*=": true, "/=": true,
	"%=": true, "&=": true, "|=": true, "^=": true,
	"<<": true, ">>": true, "@=": true,
}

func (t *tokenizer) lexOp() {
	if t.pos+1 < len(t.content) {
		pair := string(t.content[t.pos : t.pos+2])
		if twoByteOps[pair] {
			t.pos += 2
			return
		}
	}
	t.pos++
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameByte(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isOpByte(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '@', '<', '>', '=', '!',
		'&', '|', '^', '~', '(', ')', '[', ']', '{', '}',
		',', ':', '.', ';', '\\':
		return true
	default:
		return false
	}
}

// isStringPrefix reports whether word is a valid string literal prefix
// (any combination of r, b, f, u in either case, at most two letters).
func isStringPrefix(word []byte) bool {
	if len(word) == 0 || len(word) > 2 {
		return false
	}
	for _, c := range word {
		switch c {
		case 'r', 'R', 'b', 'B', 'f', 'F', 'u', 'U':
		default:
			return false
		}
	}
	return true
}

func hasRawPrefix(word []byte) bool {
	for _, c := range word {
		if c == 'r' || c == 'R' {
			return true
		}
	}
	return false
}
