package costfunction

import (
	da "github.com/lintang-b-s/rwroute/pkg/datastructure"
)

type NodeAttributes interface {
	GetBaseCost() float32
	GetPresentCongestionCost() float32
	GetHistoricalCongestionCost() float32
	GetOccupancy() int32
	IsOverUsed() bool
}

var _ NodeAttributes = (*da.RouteNode)(nil)

type CostFunction interface {
	GetNodeCost(n NodeAttributes) float32
}
