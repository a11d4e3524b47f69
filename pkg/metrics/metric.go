package metrics

import (
	"github.com/lintang-b-s/rwroute/pkg"
	da "github.com/lintang-b-s/rwroute/pkg/datastructure"
)

// CongestionStats summarizes resource usage over a set of routing resources.
type CongestionStats struct {
	NumberOfNodes int
	UsedNodes     int
	OverusedNodes int
	TotalOveruse  int64
	MaxOccupancy  int32
}

func (s *CongestionStats) Add(n *da.RouteNode) {
	s.NumberOfNodes++
	occ := n.GetOccupancy()
	if occ > 0 {
		s.UsedNodes++
	}
	if occ > pkg.NODE_CAPACITY {
		s.OverusedNodes++
		s.TotalOveruse += int64(occ - pkg.NODE_CAPACITY)
	}
	if occ > s.MaxOccupancy {
		s.MaxOccupancy = occ
	}
}

func (s *CongestionStats) Merge(o CongestionStats) {
	s.NumberOfNodes += o.NumberOfNodes
	s.UsedNodes += o.UsedNodes
	s.OverusedNodes += o.OverusedNodes
	s.TotalOveruse += o.TotalOveruse
	if o.MaxOccupancy > s.MaxOccupancy {
		s.MaxOccupancy = o.MaxOccupancy
	}
}

// OverusedRatio is the share of used nodes that are overused.
func (s CongestionStats) OverusedRatio() float64 {
	if s.UsedNodes == 0 {
		return 0
	}
	return float64(s.OverusedNodes) / float64(s.UsedNodes)
}

// Converged reports whether no resource is overused.
func (s CongestionStats) Converged() bool {
	return s.OverusedNodes == 0
}

func CollectStats(g *da.RouteGraph, from, to da.Index) CongestionStats {
	var s CongestionStats
	g.ForNodesInRange(from, to, func(_ da.Index, n *da.RouteNode) {
		s.Add(n)
	})
	return s
}
