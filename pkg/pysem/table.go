// Package pysem builds a lightweight name usage table from a syntax
// tree. It classifies every Name node as a load or a store so rules can
// ask whether a binding is ever read inside a region. The table is
// built once per file in a pre-pass and shared by all rules.
package pysem

import (
	"github.com/flintlabs/pyflint/pkg/pyast"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

// Usage records one occurrence of a name.
type Usage struct {
	// Ident is the name text.
	Ident string

	// Range is the byte span of the occurrence.
	Range pysrc.SourceRange

	// Node is the Name node the usage came from.
	Node *pyast.Node
}

// Table holds all name usages of one file, split into loads and stores.
type Table struct {
	loads  []Usage
	stores []Usage
}

// BuildTable walks the tree and records every Name occurrence.
// Augmented assignment targets count as both a load and a store.
func BuildTable(root *pyast.Node) *Table {
	t := &Table{}
	pyast.Walk(root, func(n *pyast.Node) error {
		if n.Kind != pyast.KindName {
			return nil
		}

		usage := Usage{Ident: n.Ident, Range: n.Range, Node: n}
		store, augmented := classify(n)
		if store {
			t.stores = append(t.stores, usage)
			if !augmented {
				return nil
			}
		}
		t.loads = append(t.loads, usage)
		return nil
	})
	return t
}

// classify reports whether a Name node is a store target, and whether
// the store is an augmented assignment. Attribute and subscript targets
// read their base name, so only plain names and tuple elements count as
// stores.
func classify(n *pyast.Node) (store, augmented bool) {
	root := n
	for root.Parent != nil && root.Parent.Kind == pyast.KindTuple {
		root = root.Parent
	}
	parent := root.Parent
	if parent == nil {
		return false, false
	}

	switch parent.Kind {
	case pyast.KindFor:
		if parent.ForLoop != nil && containsNode(parent.ForLoop.Target, n) {
			return true, false
		}
	case pyast.KindAssign:
		if root == parent.FirstChild {
			return true, parent.Ident != "="
		}
	}
	return false, false
}

// containsNode reports whether needle is target itself or a descendant
// of it.
func containsNode(target, needle *pyast.Node) bool {
	for cur := needle; cur != nil; cur = cur.Parent {
		if cur == target {
			return true
		}
	}
	return false
}

// Loads returns all load usages in pre-order.
func (t *Table) Loads() []Usage {
	if t == nil {
		return nil
	}
	return t.loads
}

// Stores returns all store usages in pre-order.
func (t *Table) Stores() []Usage {
	if t == nil {
		return nil
	}
	return t.stores
}

// ReadsIn reports whether ident is loaded anywhere within the given
// byte range.
func (t *Table) ReadsIn(r pysrc.SourceRange, ident string) bool {
	if t == nil {
		return false
	}
	for _, u := range t.loads {
		if u.Ident == ident && r.Contains(u.Range.StartOffset) {
			return true
		}
	}
	return false
}

// ReadsOf returns all load usages of the given name.
func (t *Table) ReadsOf(ident string) []Usage {
	if t == nil {
		return nil
	}
	var out []Usage
	for _, u := range t.loads {
		if u.Ident == ident {
			out = append(out, u)
		}
	}
	return out
}
