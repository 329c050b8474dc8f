package pyparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/pkg/pyast"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

func parseSource(t *testing.T, source string) *Result {
	t.Helper()
	res, err := Parse(pysrc.NewFile("test.py", []byte(source)))
	require.NoError(t, err)
	require.NotNil(t, res.Root)
	return res
}

func findKind(root *pyast.Node, kind pyast.NodeKind) *pyast.Node {
	var found *pyast.Node
	pyast.Walk(root, func(n *pyast.Node) error {
		if found == nil && n.Kind == kind {
			found = n
		}
		return nil
	})
	return found
}

func TestParse_ForWithTupleTarget(t *testing.T) {
	res := parseSource(t, "for _, value in d.items():\n    print(value)\n")

	forNode := findKind(res.Root, pyast.KindFor)
	require.NotNil(t, forNode)
	require.NotNil(t, forNode.ForLoop)

	target := forNode.ForLoop.Target
	require.Equal(t, pyast.KindTuple, target.Kind)
	elems := target.Children()
	require.Len(t, elems, 2)
	assert.Equal(t, "_", elems[0].Ident)
	assert.Equal(t, "value", elems[1].Ident)
	assert.Equal(t, "_, value", string(target.Text()))

	iter := forNode.ForLoop.Iter
	require.Equal(t, pyast.KindCall, iter.Kind)
	require.NotNil(t, iter.Call)
	assert.Empty(t, iter.Call.Args)

	callee := iter.Call.Callee
	require.Equal(t, pyast.KindAttribute, callee.Kind)
	assert.Equal(t, "items", callee.Ident)
	assert.Equal(t, "d.items", string(callee.Text()))
}

func TestParse_ForBody(t *testing.T) {
	res := parseSource(t, "for x in xs:\n    a = 1\n    b = 2\ndone = True\n")

	forNode := findKind(res.Root, pyast.KindFor)
	require.NotNil(t, forNode)

	// Target, iter, then the two body statements.
	assert.Equal(t, 4, forNode.ChildCount())
	assert.Equal(t, 2, res.Root.ChildCount())
}

func TestParse_FunctionDefWithDefaults(t *testing.T) {
	res := parseSource(t, "def load(path, cache={}, names=[]):\n    return cache\n")

	fn := findKind(res.Root, pyast.KindFunctionDef)
	require.NotNil(t, fn)
	assert.Equal(t, "load", fn.Ident)

	require.NotNil(t, fn.Func)
	params := fn.Func.Params
	require.Len(t, params, 3)

	assert.Equal(t, "path", params[0].Name)
	assert.Nil(t, params[0].Default)

	assert.Equal(t, "cache", params[1].Name)
	require.NotNil(t, params[1].Default)
	assert.Equal(t, pyast.KindDictLit, params[1].Default.Kind)

	assert.Equal(t, "names", params[2].Name)
	require.NotNil(t, params[2].Default)
	assert.Equal(t, pyast.KindListLit, params[2].Default.Kind)
}

func TestParse_FunctionDefAnnotated(t *testing.T) {
	res := parseSource(t, "def f(x: int = 3, *args, **kwargs) -> str:\n    pass\n")

	fn := findKind(res.Root, pyast.KindFunctionDef)
	require.NotNil(t, fn)

	params := fn.Func.Params
	require.Len(t, params, 3)
	assert.Equal(t, "x", params[0].Name)
	require.NotNil(t, params[0].Default)
	assert.Equal(t, pyast.KindNumberLit, params[0].Default.Kind)
	assert.Equal(t, "args", params[1].Name)
	assert.Equal(t, "kwargs", params[2].Name)
}

func TestParse_StrCall(t *testing.T) {
	res := parseSource(t, `greeting = str("hello")` + "\n")

	call := findKind(res.Root, pyast.KindCall)
	require.NotNil(t, call)
	assert.Equal(t, "str", call.Call.Callee.Ident)

	require.Len(t, call.Call.Args, 1)
	arg := call.Call.Args[0]
	require.Equal(t, pyast.KindStringLit, arg.Kind)
	assert.Equal(t, "hello", arg.Str.Value)
	assert.Equal(t, `"hello"`, string(arg.Text()))
}

func TestParse_TypeComparison(t *testing.T) {
	res := parseSource(t, "if type(a) == type(b):\n    pass\n")

	cmp := findKind(res.Root, pyast.KindCompare)
	require.NotNil(t, cmp)
	require.NotNil(t, cmp.Compare)
	assert.Equal(t, "==", cmp.Compare.Op)

	left, right := cmp.Compare.Left, cmp.Compare.Right
	require.Equal(t, pyast.KindCall, left.Kind)
	require.Equal(t, pyast.KindCall, right.Kind)
	assert.Equal(t, "type", left.Call.Callee.Ident)
	assert.Equal(t, "type", right.Call.Callee.Ident)
}

func TestParse_IsNotComparison(t *testing.T) {
	res := parseSource(t, "ok = x is not None\n")

	cmp := findKind(res.Root, pyast.KindCompare)
	require.NotNil(t, cmp)
	assert.Equal(t, "is not", cmp.Compare.Op)
}

func TestParse_InlineSuite(t *testing.T) {
	res := parseSource(t, "if ready: return 1\n")

	ifNode := findKind(res.Root, pyast.KindIf)
	require.NotNil(t, ifNode)

	ret := findKind(ifNode, pyast.KindReturn)
	require.NotNil(t, ret)
	assert.Equal(t, "return 1", string(ret.Text()))
}

func TestParse_NestedBlocks(t *testing.T) {
	source := "class Store:\n" +
		"    def get(self, key):\n" +
		"        if key:\n" +
		"            return self.data[key]\n" +
		"        return None\n"
	res := parseSource(t, source)

	cls := findKind(res.Root, pyast.KindClassDef)
	require.NotNil(t, cls)
	assert.Equal(t, "Store", cls.Ident)

	fn := findKind(cls, pyast.KindFunctionDef)
	require.NotNil(t, fn)
	assert.Equal(t, "get", fn.Ident)

	// if statement plus trailing return.
	ifNode := findKind(fn, pyast.KindIf)
	require.NotNil(t, ifNode)
	assert.Equal(t, pyast.KindFunctionDef, ifNode.Parent.Kind)
}

func TestParse_DeepIndentDedentsToModule(t *testing.T) {
	source := "while ok:\n" +
		"        step()\n" +
		"final()\n"
	res := parseSource(t, source)

	require.Equal(t, 2, res.Root.ChildCount())

	loop := res.Root.FirstChild
	assert.Equal(t, pyast.KindWhile, loop.Kind)
	require.NotNil(t, findKind(loop, pyast.KindCall))

	after := loop.Next
	require.NotNil(t, after)
	assert.Equal(t, pyast.KindExprStmt, after.Kind)
}

func TestParse_BracketContinuation(t *testing.T) {
	res := parseSource(t, "items = [\n    1,\n    2,\n]\nx = 1\n")

	assert.Equal(t, 2, res.Root.ChildCount())

	list := findKind(res.Root, pyast.KindListLit)
	require.NotNil(t, list)
	assert.Equal(t, 2, list.ChildCount())
}

func TestParse_BackslashContinuation(t *testing.T) {
	res := parseSource(t, "total = 1 + \\\n    2\n")

	assert.Equal(t, 1, res.Root.ChildCount())
	assert.Equal(t, pyast.KindAssign, res.Root.FirstChild.Kind)
}

func TestParse_Decorators(t *testing.T) {
	res := parseSource(t, "@cached\n@retry(times=3)\ndef fetch(url):\n    pass\n")

	fn := findKind(res.Root, pyast.KindFunctionDef)
	require.NotNil(t, fn)
	assert.Equal(t, "fetch", fn.Ident)
	require.Len(t, fn.Func.Decorators, 2)
	assert.Equal(t, "cached", fn.Func.Decorators[0].Ident)
}

func TestParse_AssignKinds(t *testing.T) {
	res := parseSource(t, "x = 1\ny += 2\n")

	stmts := res.Root.Children()
	require.Len(t, stmts, 2)
	assert.Equal(t, pyast.KindAssign, stmts[0].Kind)
	assert.Equal(t, "=", stmts[0].Ident)
	assert.Equal(t, pyast.KindAssign, stmts[1].Kind)
	assert.Equal(t, "+=", stmts[1].Ident)
}

func TestParse_UnmodeledConstructsSurvive(t *testing.T) {
	source := "with open(path) as fh:\n" +
		"    data = fh.read()\n" +
		"try:\n" +
		"    import json\n" +
		"except ImportError:\n" +
		"    pass\n" +
		"result = [x * 2 for x in data if x]\n"
	res := parseSource(t, source)

	// Everything parses into some node; nested calls inside unmodeled
	// statements remain reachable.
	call := findKind(res.Root, pyast.KindCall)
	assert.NotNil(t, call)
	assert.NotNil(t, findKind(res.Root, pyast.KindImport))
}

func TestParse_RangesMatchSource(t *testing.T) {
	source := "for _, v in pairs.items():\n    print(v)\n"
	res := parseSource(t, source)

	pyast.Walk(res.Root, func(n *pyast.Node) error {
		assert.GreaterOrEqual(t, n.Range.StartOffset, 0)
		assert.LessOrEqual(t, n.Range.EndOffset, len(source))
		assert.LessOrEqual(t, n.Range.StartOffset, n.Range.EndOffset)
		return nil
	})
}

func TestParse_NilFile(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)
}
