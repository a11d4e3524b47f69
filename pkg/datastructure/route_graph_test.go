package datastructure

import (
	"testing"

	"github.com/lintang-b-s/rwroute/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildChain builds 0 -> 1 -> ... -> n-1 with node i at tile (i, 0).
func buildChain(n int) *RouteGraph {
	g := NewRouteGraph(n)
	for i := 0; i < n; i++ {
		g.AddNode(Index(i), int16(i), 0, int16(i+1), 0, 1, 1, pkg.WIRE, false)
	}
	for i := 0; i+1 < n; i++ {
		g.AddEdge(Index(i), Index(i+1))
	}
	return g
}

func TestRouteGraphConstruction(t *testing.T) {
	g := buildChain(5)
	g.AddEdge(0, 4)
	g.AddEdge(0, 4)

	assert.Equal(t, 5, g.NumberOfNodes())
	assert.Equal(t, 6, g.NumberOfEdges())
	assert.Equal(t, []Index{1, 4, 4}, g.GetNode(0).GetChildren())

	var heads []Index
	g.ForChildrenOf(0, func(v Index, n *RouteNode) {
		heads = append(heads, v)
		assert.Equal(t, v, n.GetId())
	})
	assert.Equal(t, []Index{1, 4, 4}, heads)

	g.SetChildren(0, []Index{2, 3})
	assert.Equal(t, []Index{2, 3}, g.GetNode(0).GetChildren())
	g.ClearChildren(0)
	assert.Equal(t, 0, g.GetNode(0).GetChildrenSize())
}

func TestRouteGraphSealed(t *testing.T) {
	g := buildChain(3)
	require.False(t, g.IsSealed())
	g.Seal()
	require.True(t, g.IsSealed())

	assert.Panics(t, func() { g.AddEdge(0, 2) })
	assert.Panics(t, func() { g.AddNode(3, 0, 0, 0, 0, 1, 1, pkg.WIRE, false) })
	assert.Panics(t, func() { g.SetChildren(0, nil) })
	assert.Panics(t, func() { g.ClearChildren(0) })

	// congestion state stays writable after sealing
	g.GetNode(1).IncrementOccupancy()
	assert.Equal(t, int32(1), g.GetNode(1).GetOccupancy())
}

func TestRouteGraphEdgeOutOfRange(t *testing.T) {
	g := buildChain(2)
	assert.Panics(t, func() { g.AddEdge(0, 2) })
	assert.Panics(t, func() { g.AddEdge(5, 0) })
	assert.Panics(t, func() { g.SetChildren(0, []Index{1, 7}) })
}

func TestRouteGraphForNodesInRange(t *testing.T) {
	g := buildChain(6)
	var seen []Index
	g.ForNodesInRange(2, 5, func(i Index, n *RouteNode) {
		seen = append(seen, i)
	})
	assert.Equal(t, []Index{2, 3, 4}, seen)

	count := 0
	g.ForNodes(func(i Index, n *RouteNode) {
		count++
	})
	assert.Equal(t, 6, count)
}

func TestRouteGraphResetCongestion(t *testing.T) {
	g := buildChain(2)
	n := g.GetNode(0)
	n.IncrementOccupancy()
	n.IncrementOccupancy()
	n.UpdatePresentCongestionCost(3)
	n.SetHistoricalCongestionCost(4)
	n.SetNeedUpdateBatchStamp(2)

	g.ResetCongestion()
	assert.Equal(t, int32(0), n.GetOccupancy())
	assert.Equal(t, float32(1), n.GetPresentCongestionCost())
	assert.Equal(t, float32(1), n.GetHistoricalCongestionCost())
	assert.Equal(t, pkg.UNSET_STAMP, n.GetNeedUpdateBatchStamp())
	assert.Equal(t, []Index{1}, n.GetChildren())
}
