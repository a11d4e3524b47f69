package datastructure

import (
	"sync"
	"testing"

	"github.com/lintang-b-s/rwroute/pkg"
	"github.com/stretchr/testify/assert"
)

func TestNodeInfoInitialState(t *testing.T) {
	ni := NewNodeInfo()
	assert.Equal(t, INVALID_NODE_ID, ni.GetPrev())
	assert.Equal(t, 0.0, ni.GetCost())
	assert.Equal(t, 0.0, ni.GetPartialCost())
	assert.Equal(t, pkg.UNSET_STAMP, ni.GetIsVisited())
	assert.Equal(t, pkg.UNSET_STAMP, ni.GetIsTarget())
	assert.Equal(t, int32(0), ni.GetOccChange(pkg.UNSET_STAMP))
}

func TestOccChangeBatchVersioning(t *testing.T) {
	ni := NewNodeInfo()
	assert.Equal(t, int32(0), ni.GetOccChange(7))

	ni.IncOccChange(7)
	ni.IncOccChange(7)
	ni.IncOccChange(7)
	assert.Equal(t, int32(3), ni.GetOccChange(7))

	assert.Equal(t, int32(0), ni.GetOccChange(8))

	ni.DecOccChange(8)
	assert.Equal(t, int32(-1), ni.GetOccChange(8))
	assert.Equal(t, int32(0), ni.GetOccChange(7))
}

func TestOccChangeFirstTouchDiscardsStaleValue(t *testing.T) {
	ni := NewNodeInfo()
	for i := 0; i < 5; i++ {
		ni.DecOccChange(1)
	}
	ni.IncOccChange(2)
	assert.Equal(t, int32(1), ni.GetOccChange(2))
	ni.DecOccChange(2)
	ni.DecOccChange(2)
	assert.Equal(t, int32(-1), ni.GetOccChange(2))
}

func TestResetKeepsOccChange(t *testing.T) {
	ni := NewNodeInfo()
	ni.IncOccChange(5)
	ni.Write(3, 1.5, 0.5, 2, 2)

	ni.Reset()
	assert.Equal(t, int32(1), ni.GetOccChange(5))
	assert.Equal(t, INVALID_NODE_ID, ni.GetPrev())
	assert.Equal(t, 0.0, ni.GetCost())
	assert.Equal(t, 0.0, ni.GetPartialCost())
	assert.Equal(t, pkg.UNSET_STAMP, ni.GetIsVisited())
	assert.Equal(t, pkg.UNSET_STAMP, ni.GetIsTarget())

	ni.IncOccChange(5)
	ni.Erase()
	assert.Equal(t, int32(2), ni.GetOccChange(5))
}

func TestNodeInfoWrite(t *testing.T) {
	src := NewNodeInfo()
	src.Write(4, 10.5, 3.25, 9, 8)

	assert.Equal(t, Index(4), src.GetPrev())
	assert.Equal(t, 10.5, src.GetCost())
	assert.Equal(t, 3.25, src.GetPartialCost())
	assert.Equal(t, int32(9), src.GetIsVisited())
	assert.Equal(t, int32(8), src.GetIsTarget())

	dst := NewNodeInfo()
	dst.IncOccChange(1)
	dst.WriteFrom(src)
	assert.Equal(t, src.GetPrev(), dst.GetPrev())
	assert.Equal(t, src.GetCost(), dst.GetCost())
	assert.Equal(t, src.GetPartialCost(), dst.GetPartialCost())
	assert.Equal(t, src.GetIsVisited(), dst.GetIsVisited())
	assert.Equal(t, src.GetIsTarget(), dst.GetIsTarget())
	assert.Equal(t, int32(1), dst.GetOccChange(1), "WriteFrom must not copy the pending occupancy change")
}

func TestOccChangeConcurrent(t *testing.T) {
	ni := NewNodeInfo()
	const workers, rounds = 32, 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				if w%4 == 0 {
					ni.DecOccChange(3)
				} else {
					ni.IncOccChange(3)
				}
			}
		}(w)
	}
	wg.Wait()

	// 24 incrementing workers, 8 decrementing workers
	assert.Equal(t, int32((24-8)*rounds), ni.GetOccChange(3))
}

func TestOccChangeNegativeStampsAndDeltas(t *testing.T) {
	ni := NewNodeInfo()
	ni.IncOccChange(-5)
	assert.Equal(t, int32(1), ni.GetOccChange(-5))
	assert.Equal(t, int32(0), ni.GetOccChange(pkg.UNSET_STAMP))

	for i := 0; i < 3; i++ {
		ni.DecOccChange(1 << 30)
	}
	assert.Equal(t, int32(-3), ni.GetOccChange(1<<30))
}

func TestBatchStamp(t *testing.T) {
	assert.Equal(t, int32(0), BatchStamp(0, 4, 0))
	assert.Equal(t, int32(3), BatchStamp(0, 4, 3))
	assert.Equal(t, int32(9), BatchStamp(2, 4, 1))
}

func TestNodeInfoTable(t *testing.T) {
	table := NewNodeInfoTable(20)
	assert.Equal(t, 20, table.Len())
	assert.Equal(t, INVALID_NODE_ID, table.Get(19).GetPrev())

	table.Get(2).IncOccChange(4)
	table.Get(2).IncOccChange(4)
	table.Get(5).DecOccChange(4)
	table.Get(7).IncOccChange(3)
	table.Get(11).IncOccChange(4)
	table.Get(11).DecOccChange(4)

	got := map[Index]int32{}
	table.ForPendingOccChanges(0, 20, 4, func(id Index, delta int32) {
		got[id] = delta
	})
	assert.Equal(t, map[Index]int32{2: 2, 5: -1}, got)

	got = map[Index]int32{}
	table.ForPendingOccChanges(3, 20, 4, func(id Index, delta int32) {
		got[id] = delta
	})
	assert.Equal(t, map[Index]int32{5: -1}, got)

	table.Get(1).Write(0, 1, 1, 1, 1)
	table.ResetAll()
	assert.Equal(t, INVALID_NODE_ID, table.Get(1).GetPrev())
	assert.Equal(t, int32(2), table.Get(2).GetOccChange(4))
}
