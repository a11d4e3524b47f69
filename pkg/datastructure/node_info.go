package datastructure

import (
	"sync/atomic"

	"github.com/lintang-b-s/rwroute/pkg"
)

/*
NodeInfo is the per search state of one routing resource.

prev, cost, partialCost, isVisited and isTarget belong to a single search and must not be shared by two
searches running at the same time. the pending occupancy change is different: it is scoped to a batch of
concurrent searches, many of which may record changes on the same node. it is stored together with the
batch stamp it was recorded against in one atomic word, and a record whose stamp differs from the
queried batch reads as zero. this lets a new batch start without clearing every NodeInfo.
*/
type NodeInfo struct {
	occChange atomic.Uint64 // batch stamp in the high 32 bits, signed delta in the low 32 bits

	prev        Index
	cost        float64
	partialCost float64
	isVisited   int32
	isTarget    int32
}

func NewNodeInfo() *NodeInfo {
	ni := &NodeInfo{}
	ni.init()
	return ni
}

func (ni *NodeInfo) init() {
	ni.occChange.Store(packOccChange(pkg.UNSET_STAMP, 0))
	ni.Reset()
}

// Reset restores the search scoped fields. the pending occupancy change survives.
func (ni *NodeInfo) Reset() {
	ni.prev = INVALID_NODE_ID
	ni.cost = 0
	ni.partialCost = 0
	ni.isVisited = pkg.UNSET_STAMP
	ni.isTarget = pkg.UNSET_STAMP
}

func (ni *NodeInfo) Erase() {
	ni.Reset()
}

func (ni *NodeInfo) Write(prev Index, cost, partialCost float64, isVisited, isTarget int32) {
	ni.prev = prev
	ni.cost = cost
	ni.partialCost = partialCost
	ni.isVisited = isVisited
	ni.isTarget = isTarget
}

func (ni *NodeInfo) WriteFrom(other *NodeInfo) {
	ni.Write(other.prev, other.cost, other.partialCost, other.isVisited, other.isTarget)
}

func (ni *NodeInfo) GetPrev() Index {
	return ni.prev
}

func (ni *NodeInfo) GetCost() float64 {
	return ni.cost
}

func (ni *NodeInfo) GetPartialCost() float64 {
	return ni.partialCost
}

func (ni *NodeInfo) GetIsVisited() int32 {
	return ni.isVisited
}

func (ni *NodeInfo) GetIsTarget() int32 {
	return ni.isTarget
}

func (ni *NodeInfo) SetIsVisited(token int32) {
	ni.isVisited = token
}

func (ni *NodeInfo) SetIsTarget(token int32) {
	ni.isTarget = token
}

// GetOccChange returns the pending occupancy change recorded for batchStamp, or 0 if the stored
// record belongs to another batch.
func (ni *NodeInfo) GetOccChange(batchStamp int32) int32 {
	stamp, delta := unpackOccChange(ni.occChange.Load())
	if stamp != batchStamp {
		return 0
	}
	return delta
}

func (ni *NodeInfo) IncOccChange(batchStamp int32) {
	ni.addOccChange(batchStamp, 1)
}

func (ni *NodeInfo) DecOccChange(batchStamp int32) {
	ni.addOccChange(batchStamp, -1)
}

// addOccChange starts a fresh record on the first touch in a new batch, otherwise accumulates.
func (ni *NodeInfo) addOccChange(batchStamp, d int32) {
	for {
		old := ni.occChange.Load()
		stamp, delta := unpackOccChange(old)
		if stamp != batchStamp {
			delta = d
		} else {
			delta += d
		}
		if ni.occChange.CompareAndSwap(old, packOccChange(batchStamp, delta)) {
			return
		}
	}
}

func packOccChange(batchStamp, delta int32) uint64 {
	return uint64(uint32(batchStamp))<<32 | uint64(uint32(delta))
}

func unpackOccChange(v uint64) (int32, int32) {
	return int32(uint32(v >> 32)), int32(uint32(v))
}

// BatchStamp identifies batch batchId of routing iteration iter.
func BatchStamp(iter, numBatches, batchId int) int32 {
	return int32(iter*numBatches + batchId)
}

// NodeInfoTable holds one NodeInfo per routing resource, indexed by node index.
type NodeInfoTable struct {
	infos []NodeInfo
}

func NewNodeInfoTable(numberOfNodes int) *NodeInfoTable {
	infos := make([]NodeInfo, numberOfNodes)
	for i := range infos {
		infos[i].init()
	}
	return &NodeInfoTable{infos: infos}
}

func (t *NodeInfoTable) Get(id Index) *NodeInfo {
	return &t.infos[id]
}

func (t *NodeInfoTable) Len() int {
	return len(t.infos)
}

// ResetAll resets the search scoped fields of every entry.
func (t *NodeInfoTable) ResetAll() {
	for i := range t.infos {
		t.infos[i].Reset()
	}
}

// ForPendingOccChanges calls handle for every node in [from, to) with a non zero change recorded for batchStamp.
func (t *NodeInfoTable) ForPendingOccChanges(from, to Index, batchStamp int32, handle func(id Index, delta int32)) {
	for id := from; id < to; id++ {
		if delta := t.infos[id].GetOccChange(batchStamp); delta != 0 {
			handle(id, delta)
		}
	}
}
