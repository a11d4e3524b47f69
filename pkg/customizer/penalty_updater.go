package customizer

import (
	"context"
	"sync/atomic"

	"github.com/lintang-b-s/rwroute/pkg/concurrent"
	da "github.com/lintang-b-s/rwroute/pkg/datastructure"
)

// UpdateHistoricalCosts grows the historical cost of every overused node by the model's policy.
// returns the number of nodes penalized.
func (c *Customizer) UpdateHistoricalCosts(ctx context.Context) (int, error) {
	var penalized atomic.Int64

	err := concurrent.ParallelFor(ctx, c.graph.NumberOfNodes(), c.numWorkers, func(ctx context.Context, r concurrent.Range) error {
		count := 0
		c.graph.ForNodesInRange(da.Index(r.From), da.Index(r.To), func(_ da.Index, n *da.RouteNode) {
			if c.model.UpdateHistoricalCost(n) {
				count++
			}
		})
		penalized.Add(int64(count))
		return ctx.Err()
	})
	return int(penalized.Load()), err
}
