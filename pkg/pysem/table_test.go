package pysem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
	"github.com/flintlabs/pyflint/pkg/pyast"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

func buildTable(t *testing.T, source string) (*Table, *pyast.Node) {
	t.Helper()
	file := pysrc.NewFile("test.py", []byte(source))
	res, err := pyparse.Parse(file)
	require.NoError(t, err)
	return BuildTable(res.Root), res.Root
}

func TestBuildTable_LoadsAndStores(t *testing.T) {
	table, _ := buildTable(t, "x = compute()\nprint(x)\n")

	stores := table.Stores()
	require.Len(t, stores, 1)
	assert.Equal(t, "x", stores[0].Ident)

	loads := table.ReadsOf("x")
	require.Len(t, loads, 1)
	assert.Equal(t, len("x = compute()\nprint("), loads[0].Range.StartOffset)
}

func TestBuildTable_LoopTargetIsStore(t *testing.T) {
	table, root := buildTable(t, "for item in items:\n    use(item)\n")

	var forNode *pyast.Node
	pyast.Walk(root, func(n *pyast.Node) error {
		if n.Kind == pyast.KindFor {
			forNode = n
		}
		return nil
	})
	require.NotNil(t, forNode)

	var storeNames []string
	for _, u := range table.Stores() {
		storeNames = append(storeNames, u.Ident)
	}
	assert.Contains(t, storeNames, "item")

	// The load of item inside the body is visible to ReadsIn.
	assert.True(t, table.ReadsIn(forNode.Range, "item"))
	assert.False(t, table.ReadsIn(forNode.Range, "missing"))
}

func TestBuildTable_TupleTargetStores(t *testing.T) {
	table, _ := buildTable(t, "for key, value in d.items():\n    pass\n")

	var names []string
	for _, u := range table.Stores() {
		names = append(names, u.Ident)
	}
	assert.Contains(t, names, "key")
	assert.Contains(t, names, "value")

	// The iterable base is a load, not a store.
	assert.NotContains(t, names, "d")
	assert.Len(t, table.ReadsOf("d"), 1)
}

func TestBuildTable_AugmentedTargetIsAlsoLoad(t *testing.T) {
	table, _ := buildTable(t, "total += 1\n")

	assert.Len(t, table.ReadsOf("total"), 1)

	var names []string
	for _, u := range table.Stores() {
		names = append(names, u.Ident)
	}
	assert.Contains(t, names, "total")
}

func TestBuildTable_UnreadLoopVariable(t *testing.T) {
	table, root := buildTable(t, "for i in range(10):\n    do_work()\n")

	var forNode *pyast.Node
	pyast.Walk(root, func(n *pyast.Node) error {
		if n.Kind == pyast.KindFor {
			forNode = n
		}
		return nil
	})
	require.NotNil(t, forNode)

	assert.False(t, table.ReadsIn(forNode.Range, "i"))
	assert.True(t, table.ReadsIn(forNode.Range, "do_work"))
}

func TestTable_NilSafe(t *testing.T) {
	var table *Table
	assert.Nil(t, table.Loads())
	assert.False(t, table.ReadsIn(pysrc.NewRange(0, 10), "x"))
}
