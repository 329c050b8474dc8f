package pyast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/pkg/pysrc"
)

func TestNode_AppendChild(t *testing.T) {
	file := pysrc.NewFile("test.py", []byte("a b c"))
	b := NewBuilder(file)

	parent := b.Node(KindModule, 0, 5)
	first := b.Name("a", 0, 1)
	second := b.Name("b", 2, 3)

	parent.AppendChild(first)
	parent.AppendChild(second)

	assert.Equal(t, first, parent.FirstChild)
	assert.Equal(t, second, parent.LastChild)
	assert.Equal(t, second, first.Next)
	assert.Equal(t, first, second.Prev)
	assert.Equal(t, parent, first.Parent)
	assert.Equal(t, 2, parent.ChildCount())
}

func TestNode_Text(t *testing.T) {
	file := pysrc.NewFile("test.py", []byte("x = value"))
	b := NewBuilder(file)

	n := b.Name("value", 4, 9)
	assert.Equal(t, []byte("value"), n.Text())
}

func TestNode_SourcePosition(t *testing.T) {
	file := pysrc.NewFile("test.py", []byte("first\nsecond\n"))
	b := NewBuilder(file)

	n := b.Name("second", 6, 12)
	pos := n.SourcePosition()
	assert.Equal(t, 2, pos.StartLine)
	assert.Equal(t, 1, pos.StartColumn)
	assert.Equal(t, 2, pos.EndLine)
	assert.Equal(t, 7, pos.EndColumn)
}

func TestNode_Ancestor(t *testing.T) {
	file := pysrc.NewFile("test.py", []byte("def f():\n    for x in y:\n        pass\n"))
	b := NewBuilder(file)

	body := b.Node(KindPass, 33, 37)
	loop := b.ForStmt(b.Name("x", 17, 18), b.Name("y", 22, 23), []*Node{body}, 13, 37)
	fn := b.FunctionDef("f", nil, []*Node{loop}, 0, 37)
	root := b.Module([]*Node{fn})

	assert.Equal(t, loop, body.Ancestor(KindFor))
	assert.Equal(t, fn, body.Ancestor(KindFunctionDef))
	assert.Nil(t, body.Ancestor(KindClassDef))
	assert.Equal(t, fn, body.EnclosingScope())
	assert.Equal(t, root, fn.EnclosingScope())
}

func TestWalk_PreOrder(t *testing.T) {
	file := pysrc.NewFile("test.py", []byte("a b"))
	b := NewBuilder(file)

	child1 := b.Name("a", 0, 1)
	grandchild := b.Name("b", 2, 3)
	child1.AppendChild(grandchild)
	root := b.Module([]*Node{child1})

	var kinds []NodeKind
	err := Walk(root, func(n *Node) error {
		kinds = append(kinds, n.Kind)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []NodeKind{KindModule, KindName, KindName}, kinds)
}

func TestWalkWithContext_EnterLeaveOrder(t *testing.T) {
	file := pysrc.NewFile("test.py", []byte("a"))
	b := NewBuilder(file)

	root := b.Module([]*Node{b.Name("a", 0, 1)})

	var events []string
	err := WalkWithContext(root,
		func(n *Node) error {
			events = append(events, "enter:"+n.Kind.String())
			return nil
		},
		func(n *Node) error {
			events = append(events, "leave:"+n.Kind.String())
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"enter:Module", "enter:Name", "leave:Name", "leave:Module"}, events)
}
