// Package pyparse provides the tokenizer and statement parser that
// produce the syntax tree consumed by the lint engine. It models the
// pragmatic subset of Python surface syntax the bundled rules inspect;
// anything it does not model structurally is preserved as Raw nodes so
// traversal and source ranges stay lossless.
package pyparse

// TokenKind classifies the type of a token in the source.
type TokenKind uint8

// Token kinds cover every byte of the source, including trivia.
const (
	TokName TokenKind = iota
	TokKeyword
	TokNumber
	TokString
	TokOp
	TokComment
	TokNewline
	TokWhitespace
	TokOther
)

// Token represents a classified span of bytes in the source.
// Tokens are contiguous and non-overlapping, covering [0, len(content)).
type Token struct {
	// Kind classifies what this token represents.
	Kind TokenKind

	// StartOffset is the byte index where this token begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where this token ends (exclusive).
	EndOffset int
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content []byte) []byte {
	if t.StartOffset < 0 || t.EndOffset > len(content) || t.StartOffset > t.EndOffset {
		return nil
	}
	return content[t.StartOffset:t.EndOffset]
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// IsTrivia returns true for tokens a statement parser skips.
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case TokComment, TokWhitespace, TokNewline:
		return true
	default:
		return false
	}
}

// keywords is the set of reserved words recognized by the tokenizer.
var keywords = map[string]bool{
	"False": true, "None": true, "True": true,
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

// ValidateTokens checks that a token slice is contiguous and covers
// [0, contentLen). Used by tests and as a parser sanity check.
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}
	if tokens[0].StartOffset != 0 {
		return false
	}
	if tokens[len(tokens)-1].EndOffset != contentLen {
		return false
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i].StartOffset != tokens[i-1].EndOffset {
			return false
		}
	}
	return true
}
