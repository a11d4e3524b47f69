package routing

import (
	"github.com/lintang-b-s/rwroute/pkg/costfunction"
	da "github.com/lintang-b-s/rwroute/pkg/datastructure"
)

// ClaimPath adds one user to every resource on path.
func ClaimPath(g *da.RouteGraph, path []da.Index) {
	for _, id := range path {
		g.GetNode(id).IncrementOccupancy()
	}
}

// ReleasePath undoes ClaimPath.
func ReleasePath(g *da.RouteGraph, path []da.Index) {
	for _, id := range path {
		g.GetNode(id).DecrementOccupancy()
	}
}

// StagePath records a tentative extra user on every resource of path for batchStamp. the change only
// reaches node occupancy when the batch is committed.
func StagePath(table *da.NodeInfoTable, path []da.Index, batchStamp int32) {
	for _, id := range path {
		table.Get(id).IncOccChange(batchStamp)
	}
}

// UnstagePath records the removal of a user from every resource of path for batchStamp, e.g. a net ripped up.
func UnstagePath(table *da.NodeInfoTable, path []da.Index, batchStamp int32) {
	for _, id := range path {
		table.Get(id).DecOccChange(batchStamp)
	}
}

// PathCost sums the congestion aware cost of every resource on path.
func PathCost(g *da.RouteGraph, cf costfunction.CostFunction, path []da.Index) float64 {
	total := 0.0
	for _, id := range path {
		total += float64(cf.GetNodeCost(g.GetNode(id)))
	}
	return total
}
