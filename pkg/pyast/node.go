// Package pyast provides the syntax tree representation consumed by the
// lint engine: an immutable tree of nodes, each exposing its kind and
// source range, with parent/child/sibling links for ancestor context.
package pyast

import "github.com/flintlabs/pyflint/pkg/pysrc"

// Node represents a single node in the syntax tree.
// Nodes form a tree structure with parent/child/sibling relationships.
// Trees are immutable once handed to the engine.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Range is the byte span this node covers in the source.
	Range pysrc.SourceRange

	// File is a back-reference to the containing source file.
	File *pysrc.File

	// Ident holds the identifier for Name nodes, the attribute name for
	// Attribute nodes, and the bound name for FunctionDef/ClassDef nodes.
	Ident string

	// ForLoop holds attributes for For nodes.
	ForLoop *ForAttrs

	// Func holds attributes for FunctionDef nodes.
	Func *FuncAttrs

	// Call holds attributes for Call nodes.
	Call *CallAttrs

	// Compare holds attributes for Compare nodes.
	Compare *CompareAttrs

	// Str holds attributes for StringLit nodes.
	Str *StringAttrs
}

// ForAttrs holds the structural parts of a for statement.
// Target and Iter are also children of the For node; Body spans the
// remaining children.
type ForAttrs struct {
	// Target is the loop variable expression (Name or Tuple of Names).
	Target *Node

	// Iter is the iterable expression.
	Iter *Node
}

// FuncAttrs holds the structural parts of a function definition.
type FuncAttrs struct {
	// Params are the declared parameters in order.
	Params []Param

	// Decorators are the decorator expressions applied to the function.
	Decorators []*Node
}

// Param describes a single function parameter.
type Param struct {
	// Name is the parameter name.
	Name string

	// Range is the byte span of the parameter, including any default.
	Range pysrc.SourceRange

	// Default is the default value expression, or nil.
	Default *Node
}

// CallAttrs holds the structural parts of a call expression.
type CallAttrs struct {
	// Callee is the called expression (Name or Attribute).
	Callee *Node

	// Args are the positional argument expressions.
	Args []*Node
}

// CompareAttrs holds the structural parts of a comparison expression.
type CompareAttrs struct {
	// Op is the comparison operator ("==", "!=", "is", "is not", ...).
	Op string

	// Left and Right are the operand expressions.
	Left  *Node
	Right *Node
}

// StringAttrs holds attributes for string literals.
type StringAttrs struct {
	// Triple is true for triple-quoted strings.
	Triple bool

	// Raw is true for r-prefixed strings.
	Raw bool

	// Value is the unquoted string content. Escape sequences are kept
	// verbatim; rules that compare values must account for this.
	Value string
}

// SourcePosition returns the line/column range for this node.
// Returns an invalid position if the node has no associated file.
func (n *Node) SourcePosition() pysrc.SourcePosition {
	if n == nil || n.File == nil {
		return pysrc.SourcePosition{}
	}
	return n.File.RangePosition(n.Range)
}

// Text returns the source text for this node.
// Returns nil if the node has no associated file.
func (n *Node) Text() []byte {
	if n == nil || n.File == nil {
		return nil
	}
	return n.File.Slice(n.Range)
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// AppendChild attaches child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	child.Prev = n.LastChild
	child.Next = nil

	if n.LastChild != nil {
		n.LastChild.Next = child
	} else {
		n.FirstChild = child
	}
	n.LastChild = child
}

// Ancestor returns the nearest ancestor of the given kind, or nil.
func (n *Node) Ancestor(kind NodeKind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// EnclosingScope returns the nearest enclosing FunctionDef, ClassDef, or
// Module node. Returns nil only for detached nodes.
func (n *Node) EnclosingScope() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		switch p.Kind {
		case KindFunctionDef, KindClassDef, KindModule:
			return p
		}
	}
	return nil
}
