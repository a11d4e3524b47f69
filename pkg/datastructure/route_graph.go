package datastructure

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/rwroute/pkg"
	"github.com/lintang-b-s/rwroute/pkg/util"
)

type Index uint32

const (
	INVALID_NODE_ID Index = math.MaxUint32
)

/*
RouteGraph is the routing resource graph. nodes live in one contiguous arena and refer to each other by
arena index, so edges and search back references are plain integers.

the graph is built by a single goroutine. Seal ends construction; afterwards the topology is read only and
may be traversed by any number of concurrent searches without synchronization. pointers returned by
GetNode stay valid as long as no node is added, which is always the case once the graph is sealed.
*/
type RouteGraph struct {
	nodes  []RouteNode
	sealed bool
}

func NewRouteGraph(expectedNodes int) *RouteGraph {
	return &RouteGraph{
		nodes: make([]RouteNode, 0, expectedNodes),
	}
}

// AddNode appends a routing resource to the arena and returns its index.
func (g *RouteGraph) AddNode(id Index, beginTileX, beginTileY, endTileX, endTileY int16, baseCost float32,
	length int16, nodeType pkg.NodeType, isNodePinBounce bool) Index {
	util.AssertPanic(!g.sealed, "route graph: AddNode after Seal")
	util.AssertPanic(uint64(len(g.nodes)) < uint64(INVALID_NODE_ID), "route graph: too many nodes")

	g.nodes = append(g.nodes, RouteNode{})
	idx := Index(len(g.nodes) - 1)
	g.nodes[idx].init(id, beginTileX, beginTileY, endTileX, endTileY, baseCost, length, nodeType, isNodePinBounce)
	return idx
}

func (g *RouteGraph) AddEdge(from, to Index) {
	util.AssertPanic(!g.sealed, "route graph: AddEdge after Seal")
	g.checkIndex(from)
	g.checkIndex(to)
	g.nodes[from].AddChildren(to)
}

func (g *RouteGraph) SetChildren(from Index, cs []Index) {
	util.AssertPanic(!g.sealed, "route graph: SetChildren after Seal")
	g.checkIndex(from)
	for _, c := range cs {
		g.checkIndex(c)
	}
	g.nodes[from].SetChildren(cs)
}

func (g *RouteGraph) ClearChildren(from Index) {
	util.AssertPanic(!g.sealed, "route graph: ClearChildren after Seal")
	g.checkIndex(from)
	g.nodes[from].ClearChildren()
}

func (g *RouteGraph) checkIndex(i Index) {
	if int(i) >= len(g.nodes) {
		panic(fmt.Sprintf("route graph: node index %d out of range [0, %d)", i, len(g.nodes)))
	}
}

// Seal marks the end of graph construction.
func (g *RouteGraph) Seal() {
	g.sealed = true
}

func (g *RouteGraph) IsSealed() bool {
	return g.sealed
}

func (g *RouteGraph) GetNode(i Index) *RouteNode {
	return &g.nodes[i]
}

func (g *RouteGraph) NumberOfNodes() int {
	return len(g.nodes)
}

func (g *RouteGraph) NumberOfEdges() int {
	m := 0
	for i := range g.nodes {
		m += g.nodes[i].GetChildrenSize()
	}
	return m
}

func (g *RouteGraph) ForNodes(handle func(i Index, n *RouteNode)) {
	for i := range g.nodes {
		handle(Index(i), &g.nodes[i])
	}
}

// ForNodesInRange iterates the nodes with index in [from, to).
func (g *RouteGraph) ForNodesInRange(from, to Index, handle func(i Index, n *RouteNode)) {
	for i := from; i < to; i++ {
		handle(i, &g.nodes[i])
	}
}

func (g *RouteGraph) ForChildrenOf(u Index, handle func(v Index, n *RouteNode)) {
	g.nodes[u].ForChildren(func(v Index) {
		handle(v, &g.nodes[v])
	})
}

// ResetCongestion puts occupancy, congestion costs and batch stamps of every node back to their initial values.
func (g *RouteGraph) ResetCongestion() {
	for i := range g.nodes {
		g.nodes[i].resetCongestion()
	}
}
