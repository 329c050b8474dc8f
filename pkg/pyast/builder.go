package pyast

import "github.com/flintlabs/pyflint/pkg/pysrc"

// Builder constructs nodes bound to a single source file. It is used by
// parsers producing trees for the engine and by tests building synthetic
// trees without a parser.
type Builder struct {
	file *pysrc.File
}

// NewBuilder creates a Builder for the given file.
func NewBuilder(file *pysrc.File) *Builder {
	return &Builder{file: file}
}

// Node creates a detached node of the given kind covering [start, end).
func (b *Builder) Node(kind NodeKind, start, end int) *Node {
	return &Node{
		Kind:  kind,
		Range: pysrc.NewRange(start, end),
		File:  b.file,
	}
}

// Name creates a Name node for the identifier covering [start, end).
func (b *Builder) Name(ident string, start, end int) *Node {
	n := b.Node(KindName, start, end)
	n.Ident = ident
	return n
}

// Attribute creates an Attribute node with the given receiver and
// attribute name. The receiver becomes the node's only child.
func (b *Builder) Attribute(receiver *Node, attr string, start, end int) *Node {
	n := b.Node(KindAttribute, start, end)
	n.Ident = attr
	n.AppendChild(receiver)
	return n
}

// CallExpr creates a Call node. Callee and args become children.
func (b *Builder) CallExpr(callee *Node, args []*Node, start, end int) *Node {
	n := b.Node(KindCall, start, end)
	n.Call = &CallAttrs{Callee: callee, Args: args}
	n.AppendChild(callee)
	for _, arg := range args {
		n.AppendChild(arg)
	}
	return n
}

// TupleExpr creates a Tuple node from its element expressions.
func (b *Builder) TupleExpr(elems []*Node, start, end int) *Node {
	n := b.Node(KindTuple, start, end)
	for _, e := range elems {
		n.AppendChild(e)
	}
	return n
}

// ForStmt creates a For node. Target and iter become the first two
// children; body statements are appended after them.
func (b *Builder) ForStmt(target, iter *Node, body []*Node, start, end int) *Node {
	n := b.Node(KindFor, start, end)
	n.ForLoop = &ForAttrs{Target: target, Iter: iter}
	n.AppendChild(target)
	n.AppendChild(iter)
	for _, stmt := range body {
		n.AppendChild(stmt)
	}
	return n
}

// FunctionDef creates a FunctionDef node with the given name and params.
// Body statements become children.
func (b *Builder) FunctionDef(name string, params []Param, body []*Node, start, end int) *Node {
	n := b.Node(KindFunctionDef, start, end)
	n.Ident = name
	n.Func = &FuncAttrs{Params: params}
	for _, p := range params {
		if p.Default != nil {
			n.AppendChild(p.Default)
		}
	}
	for _, stmt := range body {
		n.AppendChild(stmt)
	}
	return n
}

// CompareExpr creates a Compare node with the given operator and operands.
func (b *Builder) CompareExpr(op string, left, right *Node, start, end int) *Node {
	n := b.Node(KindCompare, start, end)
	n.Compare = &CompareAttrs{Op: op, Left: left, Right: right}
	n.AppendChild(left)
	n.AppendChild(right)
	return n
}

// StringLit creates a StringLit node.
func (b *Builder) StringLit(value string, triple, raw bool, start, end int) *Node {
	n := b.Node(KindStringLit, start, end)
	n.Str = &StringAttrs{Value: value, Triple: triple, Raw: raw}
	return n
}

// Module creates the root Module node spanning the whole file and appends
// the given statements.
func (b *Builder) Module(stmts []*Node) *Node {
	end := 0
	if b.file != nil {
		end = len(b.file.Content)
	}
	root := b.Node(KindModule, 0, end)
	for _, stmt := range stmts {
		root.AppendChild(stmt)
	}
	return root
}
