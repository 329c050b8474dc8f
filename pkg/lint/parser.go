package lint

import (
	"context"

	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
)

// Parser parses Python content into a parse result.
//
// The lint package defines this interface to keep the dependency
// pointing at the consumer; parser/pyparse provides the concrete
// implementation.
//
// Implementations must be:
//   - deterministic for a given (path, content) pair,
//   - safe for concurrent use by multiple goroutines,
//   - side-effect free (no I/O, no global state mutation).
type Parser interface {
	// Parse converts raw Python bytes into a parse result.
	//
	// The returned result must satisfy:
	//   - result.File.Path == path
	//   - bytes.Equal(result.File.Content, content)
	//   - pyparse.ValidateTokens(result.Tokens, len(content)) == true
	//   - result.Root != nil && result.Root.Kind == pyast.KindModule
	Parse(ctx context.Context, path string, content []byte) (*pyparse.Result, error)
}
