package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rand0mdevel0per/pyser/node"
)

func TestTableByParentPreservesAppendOrder(t *testing.T) {
	assert := assert.New(t)
	tbl := NewTable()

	tbl.Append(Edge{ParentID: 1, Slot: Slot{Kind: SlotIndex, Index: 0}, ChildID: 10})
	tbl.Append(Edge{ParentID: 2, Slot: Slot{Kind: SlotAttr, Attr: "x"}, ChildID: 20})
	tbl.Append(Edge{ParentID: 1, Slot: Slot{Kind: SlotIndex, Index: 1}, ChildID: 11})

	order, groups := tbl.ByParent()
	require.Equal(t, []node.ID{1, 2}, order)
	require.Len(t, groups[1], 2)
	assert.Equal(node.ID(10), groups[1][0].ChildID)
	assert.Equal(node.ID(11), groups[1][1].ChildID)
	require.Len(t, groups[2], 1)
}

func TestSlotString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("[3]", Slot{Kind: SlotIndex, Index: 3}.String())
	assert.Equal(".foo", Slot{Kind: SlotAttr, Attr: "foo"}.String())
	assert.Equal("{key=7}", Slot{Kind: SlotKey, KeyNodeID: 7}.String())
}

func TestTableLen(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, 0, tbl.Len())
	tbl.Append(Edge{})
	assert.Equal(t, 1, tbl.Len())
}
