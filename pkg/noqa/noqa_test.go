package noqa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

func buildIndex(t *testing.T, source string) *Index {
	t.Helper()
	file := pysrc.NewFile("test.py", []byte(source))
	return Build(file, pyparse.Tokenize(file.Content))
}

func TestBuild_BlanketDirective(t *testing.T) {
	ix := buildIndex(t, "x = 1  # noqa\ny = 2\n")

	assert.True(t, ix.IsSuppressed(1, "PF101"))
	assert.True(t, ix.IsSuppressed(1, "PF999"))
	assert.False(t, ix.IsSuppressed(2, "PF101"))
}

func TestBuild_ScopedDirective(t *testing.T) {
	ix := buildIndex(t, "x = 1  # noqa: PF101,PF102\n")

	assert.True(t, ix.IsSuppressed(1, "PF101"))
	assert.True(t, ix.IsSuppressed(1, "PF102"))
	assert.False(t, ix.IsSuppressed(1, "PF103"))
}

func TestBuild_CaseInsensitive(t *testing.T) {
	ix := buildIndex(t, "x = 1  # NOQA: pf101\n")

	assert.True(t, ix.IsSuppressed(1, "PF101"))
	assert.True(t, ix.IsSuppressed(1, "pf101"))
}

func TestBuild_SpaceSeparatedCodes(t *testing.T) {
	ix := buildIndex(t, "x = 1  # noqa: PF101 PF102\n")

	assert.True(t, ix.IsSuppressed(1, "PF101"))
	assert.True(t, ix.IsSuppressed(1, "PF102"))
}

func TestBuild_DirectiveAfterOtherComment(t *testing.T) {
	ix := buildIndex(t, "x = 1  # explanation then # noqa: PF104\n")

	assert.True(t, ix.IsSuppressed(1, "PF104"))
	assert.False(t, ix.IsSuppressed(1, "PF101"))
}

func TestBuild_NoDirective(t *testing.T) {
	ix := buildIndex(t, "x = 1  # not a suppression\ny = noqa_lookalike\n")

	assert.Equal(t, 0, ix.Len())
	assert.False(t, ix.IsSuppressed(1, "PF101"))
}

func TestBuild_MultiLineStringRemap(t *testing.T) {
	source := "s = \"\"\"line one\nline two\nline three\"\"\"  # noqa: PF101\nx = 1\n"
	ix := buildIndex(t, source)

	// Lines inside the literal resolve to the directive on its last line.
	assert.True(t, ix.IsSuppressed(1, "PF101"))
	assert.True(t, ix.IsSuppressed(2, "PF101"))
	assert.True(t, ix.IsSuppressed(3, "PF101"))
	assert.False(t, ix.IsSuppressed(4, "PF101"))
	assert.False(t, ix.IsSuppressed(2, "PF102"))
}

func TestBuild_OwnLineDirectiveWinsOverRemap(t *testing.T) {
	source := "s = \"\"\"one  # noqa: PF102\ntwo\"\"\"  # noqa: PF101\n"
	ix := buildIndex(t, source)

	// The comment-looking text on line 1 is inside the string, so only
	// the real directive on line 2 governs both lines.
	assert.True(t, ix.IsSuppressed(1, "PF101"))
	assert.False(t, ix.IsSuppressed(1, "PF102"))
}

func TestDirective_Range(t *testing.T) {
	source := "x = 1  # noqa: PF101\n"
	ix := buildIndex(t, source)

	d := ix.DirectiveFor(1)
	require.NotNil(t, d)
	assert.Equal(t, "# noqa: PF101", source[d.Range.StartOffset:d.Range.EndOffset])
	assert.False(t, d.All)
	assert.Equal(t, []string{"PF101"}, d.Codes)
}

func TestIndex_NilSafe(t *testing.T) {
	var ix *Index
	assert.False(t, ix.IsSuppressed(1, "PF101"))
	assert.Equal(t, 0, ix.Len())
}
