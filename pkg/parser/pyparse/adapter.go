package pyparse

import (
	"context"

	"github.com/flintlabs/pyflint/pkg/pysrc"
)

// SourceParser is the stateless default parser implementation. It is
// safe for concurrent use.
type SourceParser struct{}

// NewParser returns a SourceParser.
func NewParser() *SourceParser {
	return &SourceParser{}
}

// Parse builds a source file from content and parses it.
func (*SourceParser) Parse(ctx context.Context, path string, content []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(pysrc.NewFile(path, content))
}
