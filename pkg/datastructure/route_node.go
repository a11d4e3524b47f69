package datastructure

import (
	"sync/atomic"

	"github.com/lintang-b-s/rwroute/pkg"
	"github.com/lintang-b-s/rwroute/pkg/util"
)

/*
RouteNode is a single routing resource (wire segment or pin) of the interconnect graph.

the topology and static attributes are written once while the graph is built and only read afterwards.
occupancy is the only field many path searches write concurrently. the congestion costs and the batch
stamp are plain fields; they are rewritten between search batches, when no search is in flight.

hot fields come first so a search touching a node mostly stays in the node's first cache line.
*/
type RouteNode struct {
	// go's sync/atomic operations are sequentially consistent. the router only needs each add to be
	// atomic and tolerates stale reads across nodes, so no stronger ordering is relied upon.
	occupancy                atomic.Int32
	needUpdateBatchStamp     int32
	presentCongestionCost    float32
	historicalCongestionCost float32

	id                   Index
	endTileXCoordinate   int16
	endTileYCoordinate   int16
	beginTileXCoordinate int16
	beginTileYCoordinate int16
	length               int16
	baseCost             float32
	nodeType             pkg.NodeType
	isAccessibleWire     bool
	isNodePinBounce      bool

	children children
}

func NewRouteNode(id Index, beginTileX, beginTileY, endTileX, endTileY int16, baseCost float32, length int16,
	nodeType pkg.NodeType, isNodePinBounce bool) *RouteNode {
	n := &RouteNode{}
	n.init(id, beginTileX, beginTileY, endTileX, endTileY, baseCost, length, nodeType, isNodePinBounce)
	return n
}

func (n *RouteNode) init(id Index, beginTileX, beginTileY, endTileX, endTileY int16, baseCost float32, length int16,
	nodeType pkg.NodeType, isNodePinBounce bool) {
	n.id = id
	n.beginTileXCoordinate = beginTileX
	n.beginTileYCoordinate = beginTileY
	n.endTileXCoordinate = endTileX
	n.endTileYCoordinate = endTileY
	n.baseCost = baseCost
	n.length = length
	n.nodeType = nodeType
	n.isNodePinBounce = isNodePinBounce
	n.resetCongestion()
}

func (n *RouteNode) resetCongestion() {
	n.occupancy.Store(0)
	n.needUpdateBatchStamp = pkg.UNSET_STAMP
	n.presentCongestionCost = pkg.INITIAL_CONGESTION_COST
	n.historicalCongestionCost = pkg.INITIAL_CONGESTION_COST
}

func (n *RouteNode) GetId() Index {
	return n.id
}

// SetId relabels the node. only meant for graph construction.
func (n *RouteNode) SetId(id Index) {
	n.id = id
}

func (n *RouteNode) GetCapacity() int32 {
	return pkg.NODE_CAPACITY
}

func (n *RouteNode) GetEndTileXCoordinate() int16 {
	return n.endTileXCoordinate
}

func (n *RouteNode) GetEndTileYCoordinate() int16 {
	return n.endTileYCoordinate
}

func (n *RouteNode) GetBeginTileXCoordinate() int16 {
	return n.beginTileXCoordinate
}

func (n *RouteNode) GetBeginTileYCoordinate() int16 {
	return n.beginTileYCoordinate
}

func (n *RouteNode) GetLength() int16 {
	return n.length
}

func (n *RouteNode) GetIsAccessibleWire() bool {
	return n.isAccessibleWire
}

func (n *RouteNode) GetBaseCost() float32 {
	return n.baseCost
}

func (n *RouteNode) GetNodeType() pkg.NodeType {
	return n.nodeType
}

func (n *RouteNode) GetIsNodePinBounce() bool {
	return n.isNodePinBounce
}

func (n *RouteNode) SetEndTileXCoordinate(x int16) {
	n.endTileXCoordinate = x
}

func (n *RouteNode) SetEndTileYCoordinate(y int16) {
	n.endTileYCoordinate = y
}

func (n *RouteNode) SetBeginTileXCoordinate(x int16) {
	n.beginTileXCoordinate = x
}

func (n *RouteNode) SetBeginTileYCoordinate(y int16) {
	n.beginTileYCoordinate = y
}

func (n *RouteNode) SetLength(length int16) {
	n.length = length
}

func (n *RouteNode) SetIsAccessibleWire(accessible bool) {
	n.isAccessibleWire = accessible
}

func (n *RouteNode) SetBaseCost(cost float32) {
	n.baseCost = cost
}

func (n *RouteNode) SetNodeType(nodeType pkg.NodeType) {
	n.nodeType = nodeType
}

func (n *RouteNode) SetIsNodePinBounce(pinBounce bool) {
	n.isNodePinBounce = pinBounce
}

// GetChildren returns a copy of the outgoing edges in insertion order.
func (n *RouteNode) GetChildren() []Index {
	return n.children.appendTo(make([]Index, 0, n.children.size()))
}

func (n *RouteNode) GetChildrenSize() int {
	return n.children.size()
}

func (n *RouteNode) ChildAt(i int) Index {
	return n.children.at(i)
}

// ForChildren iterates the outgoing edges in insertion order without allocating.
func (n *RouteNode) ForChildren(handle func(child Index)) {
	n.children.forEach(handle)
}

// AddChildren appends an outgoing edge. parallel edges are kept.
func (n *RouteNode) AddChildren(child Index) {
	n.children.add(child)
}

func (n *RouteNode) ClearChildren() {
	n.children.clear()
}

func (n *RouteNode) SetChildren(cs []Index) {
	n.children.clear()
	for _, c := range cs {
		n.children.add(c)
	}
}

func (n *RouteNode) GetPresentCongestionCost() float32 {
	return n.presentCongestionCost
}

func (n *RouteNode) SetPresentCongestionCost(cost float32) {
	n.presentCongestionCost = cost
}

func (n *RouteNode) UpdatePresentCongestionCost(presFac float32) {
	n.presentCongestionCost = PresentCongestionCost(n.GetOccupancy(), presFac)
}

func (n *RouteNode) GetHistoricalCongestionCost() float32 {
	return n.historicalCongestionCost
}

func (n *RouteNode) SetHistoricalCongestionCost(cost float32) {
	n.historicalCongestionCost = cost
}

func (n *RouteNode) GetOccupancy() int32 {
	return n.occupancy.Load()
}

func (n *RouteNode) IsOverUsed() bool {
	return pkg.NODE_CAPACITY < n.GetOccupancy()
}

func (n *RouteNode) IncrementOccupancy() {
	n.occupancy.Add(1)
}

func (n *RouteNode) DecrementOccupancy() {
	n.occupancy.Add(-1)
}

func (n *RouteNode) SetNeedUpdateBatchStamp(batchStamp int32) {
	n.needUpdateBatchStamp = batchStamp
}

func (n *RouteNode) GetNeedUpdateBatchStamp() int32 {
	return n.needUpdateBatchStamp
}

/*
PresentCongestionCost. negotiated congestion present cost:

	p = 1                                   if occ < capacity
	p = 1 + (occ - capacity + 1) * presFac  otherwise

a resource used exactly at capacity already pays presFac, so a second user sees it as expensive before
it actually becomes overused.
*/
func PresentCongestionCost(occupancy int32, presFac float32) float32 {
	if occupancy < pkg.NODE_CAPACITY {
		return 1
	}
	return 1 + float32(occupancy-pkg.NODE_CAPACITY+1)*presFac
}

// ManhattanDistance between the end tile of a and the begin tile of b.
func ManhattanDistance(a, b *RouteNode) int {
	return util.Abs(int(a.endTileXCoordinate)-int(b.beginTileXCoordinate)) +
		util.Abs(int(a.endTileYCoordinate)-int(b.beginTileYCoordinate))
}
