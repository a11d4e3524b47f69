package customizer

import (
	"context"
	"sync/atomic"

	"github.com/lintang-b-s/rwroute/pkg"
	"github.com/lintang-b-s/rwroute/pkg/concurrent"
	"github.com/lintang-b-s/rwroute/pkg/costfunction"
	da "github.com/lintang-b-s/rwroute/pkg/datastructure"
	"github.com/lintang-b-s/rwroute/pkg/metrics"
	"github.com/lintang-b-s/rwroute/pkg/util"
	"go.uber.org/zap"
)

/*
Customizer runs the congestion update between search batches: it commits the occupancy changes staged by
the searches of a batch, grows historical cost of overused resources and recomputes present cost.

every method here writes plain node fields, so it must only run while no search is in flight. the node
arena is split into disjoint index ranges, one per worker, so workers never write the same node.
*/
type Customizer struct {
	logger     *zap.Logger
	graph      *da.RouteGraph
	model      *costfunction.CongestionCostModel
	numWorkers int
	recorder   *metrics.Recorder

	lastCommitted int32
}

func NewCustomizer(graph *da.RouteGraph, model *costfunction.CongestionCostModel, numWorkers int,
	logger *zap.Logger) *Customizer {
	return &Customizer{
		logger:     logger,
		graph:      graph,
		model:      model,
		numWorkers: max(numWorkers, 1),

		lastCommitted: pkg.UNSET_STAMP,
	}
}

func (c *Customizer) SetRecorder(r *metrics.Recorder) {
	c.recorder = r
}

// CommitOccupancy applies every occupancy change staged in table for batchStamp to the node occupancy.
// returns the number of nodes whose occupancy changed.
//
// staged changes stay readable for batchStamp after the commit, so a batch is committed at most once:
// committing the most recently committed stamp again fails with util.ErrBatchAlreadyCommitted and leaves
// occupancy untouched. a commit that fails midway is not recorded.
func (c *Customizer) CommitOccupancy(ctx context.Context, table *da.NodeInfoTable, batchStamp int32) (int, error) {
	if batchStamp == c.lastCommitted {
		return 0, util.WrapErrorf(nil, util.ErrBatchAlreadyCommitted, "batch %d is already committed", batchStamp)
	}
	n := min(table.Len(), c.graph.NumberOfNodes())
	var committed atomic.Int64

	err := concurrent.ParallelFor(ctx, n, c.numWorkers, func(ctx context.Context, r concurrent.Range) error {
		count := 0
		table.ForPendingOccChanges(da.Index(r.From), da.Index(r.To), batchStamp, func(id da.Index, delta int32) {
			node := c.graph.GetNode(id)
			for ; delta > 0; delta-- {
				node.IncrementOccupancy()
			}
			for ; delta < 0; delta++ {
				node.DecrementOccupancy()
			}
			count++
		})
		committed.Add(int64(count))
		return ctx.Err()
	})
	if err != nil {
		return int(committed.Load()), err
	}
	c.lastCommitted = batchStamp
	return int(committed.Load()), nil
}

// UpdatePresentCosts recomputes the present cost of every node not yet refreshed for batchStamp.
// returns the number of nodes recomputed.
func (c *Customizer) UpdatePresentCosts(ctx context.Context, batchStamp int32, presFac float32) (int, error) {
	return c.updatePresentCosts(ctx, batchStamp, presFac, false)
}

// RecomputePresentCosts recomputes the present cost of every node regardless of earlier refreshes in
// batchStamp, and stamps every node with batchStamp.
func (c *Customizer) RecomputePresentCosts(ctx context.Context, batchStamp int32, presFac float32) (int, error) {
	return c.updatePresentCosts(ctx, batchStamp, presFac, true)
}

func (c *Customizer) updatePresentCosts(ctx context.Context, batchStamp int32, presFac float32,
	force bool) (int, error) {
	var updated atomic.Int64

	err := concurrent.ParallelFor(ctx, c.graph.NumberOfNodes(), c.numWorkers, func(ctx context.Context, r concurrent.Range) error {
		count := 0
		c.graph.ForNodesInRange(da.Index(r.From), da.Index(r.To), func(_ da.Index, n *da.RouteNode) {
			if refreshPresentCost(n, batchStamp, presFac, force) {
				count++
			}
		})
		updated.Add(int64(count))
		return ctx.Err()
	})
	return int(updated.Load()), err
}

// UpdatePresentCostsOf refreshes only the given nodes, typically the nodes on paths routed in a batch.
// a node listed several times is recomputed once.
func (c *Customizer) UpdatePresentCostsOf(nodes []da.Index, batchStamp int32, presFac float32) int {
	updated := 0
	for _, id := range nodes {
		if refreshPresentCost(c.graph.GetNode(id), batchStamp, presFac, false) {
			updated++
		}
	}
	return updated
}

func refreshPresentCost(n *da.RouteNode, batchStamp int32, presFac float32, force bool) bool {
	if !force && n.GetNeedUpdateBatchStamp() == batchStamp {
		return false
	}
	n.UpdatePresentCongestionCost(presFac)
	n.SetNeedUpdateBatchStamp(batchStamp)
	return true
}

// CollectStats summarizes the occupancy of the whole graph.
func (c *Customizer) CollectStats() metrics.CongestionStats {
	ranges := concurrent.Chunks(c.graph.NumberOfNodes(), c.numWorkers)

	partial := concurrent.Map(c.numWorkers, ranges, func(r concurrent.Range) metrics.CongestionStats {
		return metrics.CollectStats(c.graph, da.Index(r.From), da.Index(r.To))
	})

	var stats metrics.CongestionStats
	for _, s := range partial {
		stats.Merge(s)
	}
	return stats
}

type IterationResult struct {
	Iteration         int
	PresentFactor     float32
	CommittedNodes    int
	HistoricalUpdated int
	PresentUpdated    int
	Stats             metrics.CongestionStats
}

/*
EndIteration closes routing iteration iter:

 1. commits the occupancy changes staged in table for batchStamp (skipped when table is nil),
 2. grows the historical cost of every node that is still overused,
 3. recomputes the present cost of every node with the pressure factor of iteration iter+1, including
    nodes already refreshed earlier in the batch, since their occupancy or factor may have changed.

the returned statistics describe the occupancy after the commit.
*/
func (c *Customizer) EndIteration(ctx context.Context, iter int, table *da.NodeInfoTable,
	batchStamp int32) (IterationResult, error) {
	res := IterationResult{Iteration: iter}
	var err error

	if table != nil {
		res.CommittedNodes, err = c.CommitOccupancy(ctx, table, batchStamp)
		if err != nil {
			return res, err
		}
	}

	res.HistoricalUpdated, err = c.UpdateHistoricalCosts(ctx)
	if err != nil {
		return res, err
	}

	res.PresentFactor = c.model.PresentFactor(iter + 1)
	res.PresentUpdated, err = c.RecomputePresentCosts(ctx, batchStamp, res.PresentFactor)
	if err != nil {
		return res, err
	}

	res.Stats = c.CollectStats()

	c.logger.Info("congestion update finished",
		zap.Int("iteration", iter),
		zap.Int32("batch_stamp", batchStamp),
		zap.Float32("present_factor", res.PresentFactor),
		zap.Int("committed_nodes", res.CommittedNodes),
		zap.Int("historical_updated", res.HistoricalUpdated),
		zap.Int("present_updated", res.PresentUpdated),
		zap.Int("used_nodes", res.Stats.UsedNodes),
		zap.Int("overused_nodes", res.Stats.OverusedNodes),
		zap.Int64("total_overuse", res.Stats.TotalOveruse),
	)

	if c.recorder != nil {
		c.recorder.ObserveIteration(res.Stats, res.PresentFactor, res.PresentUpdated, res.CommittedNodes)
	}
	return res, nil
}
