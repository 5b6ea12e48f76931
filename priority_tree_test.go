package http2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityTreeDefaultParentIsRoot(t *testing.T) {
	pt := NewPriorityTree()
	require.NoError(t, pt.Reparent(1, 0, false, defaultWeight))
	assert.Equal(t, []uint32{1}, pt.children(0))
}

func TestPriorityTreeSelfDependencyRejected(t *testing.T) {
	pt := NewPriorityTree()
	err := pt.Reparent(5, 5, false, defaultWeight)
	assert.Error(t, err)
}

// TestPriorityTreeExclusiveReparent walks spec.md section 8 example 5:
// starting from root->A->{B,C}, an exclusive PRIORITY for D depending on
// A must produce root->A->D->{B,C}.
func TestPriorityTreeExclusiveReparent(t *testing.T) {
	pt := NewPriorityTree()
	require.NoError(t, pt.Reparent(1, 0, false, defaultWeight)) // A
	require.NoError(t, pt.Reparent(3, 1, false, defaultWeight)) // B under A
	require.NoError(t, pt.Reparent(5, 1, false, defaultWeight)) // C under A

	require.NoError(t, pt.Reparent(7, 1, true, 15)) // D exclusive under A, weight 16

	assert.Equal(t, []uint32{7}, pt.children(1))
	dChildren := pt.children(7)
	assert.ElementsMatch(t, []uint32{3, 5}, dChildren)
	assert.Equal(t, byte(15), pt.Weight(7))
}

func TestPriorityTreeRemoveReparentsChildrenToGrandparent(t *testing.T) {
	pt := NewPriorityTree()
	require.NoError(t, pt.Reparent(1, 0, false, defaultWeight))
	require.NoError(t, pt.Reparent(3, 1, false, defaultWeight))
	require.NoError(t, pt.Reparent(5, 3, false, defaultWeight))

	pt.Remove(3)

	assert.Equal(t, []uint32{5}, pt.children(1))
}

func TestPriorityTreeTraverseOrdersByWeightDescending(t *testing.T) {
	pt := NewPriorityTree()
	require.NoError(t, pt.Reparent(1, 0, false, 5))
	require.NoError(t, pt.Reparent(3, 0, false, 200))
	require.NoError(t, pt.Reparent(5, 0, false, 50))

	order := pt.Traverse(func(uint32) bool { return true })
	assert.Equal(t, []uint32{3, 5, 1}, order)
}

func TestPriorityTreeTraverseSkipsIneligibleButDescendsThem(t *testing.T) {
	pt := NewPriorityTree()
	require.NoError(t, pt.Reparent(1, 0, false, defaultWeight))
	require.NoError(t, pt.Reparent(3, 1, false, defaultWeight))

	order := pt.Traverse(func(id uint32) bool { return id == 3 })
	assert.Equal(t, []uint32{3}, order)
}
