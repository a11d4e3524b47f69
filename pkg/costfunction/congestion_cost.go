package costfunction

import (
	"github.com/lintang-b-s/rwroute/pkg"
	da "github.com/lintang-b-s/rwroute/pkg/datastructure"
)

/*
CongestionCostModel is the negotiated congestion (PathFinder) cost policy.

present cost is a pure function of occupancy and the pressure factor of the current iteration. the
pressure factor grows geometrically from one iteration to the next, capped at maxPresFac. historical cost
accumulates across iterations: every node still overused at the end of an iteration gets

	h += histFac * (occ - capacity)

so resources that stay congested become progressively less attractive even when the present cost alone
would not move a net off them.
*/
type CongestionCostModel struct {
	initialPresFac float32
	presFacMult    float32
	maxPresFac     float32
	histFac        float32
}

func NewCongestionCostModel(initialPresFac, presFacMult, maxPresFac, histFac float32) *CongestionCostModel {
	return &CongestionCostModel{
		initialPresFac: initialPresFac,
		presFacMult:    presFacMult,
		maxPresFac:     maxPresFac,
		histFac:        histFac,
	}
}

func (m *CongestionCostModel) InitialPresentFactor() float32 {
	return m.initialPresFac
}

func (m *CongestionCostModel) HistoricalFactor() float32 {
	return m.histFac
}

func (m *CongestionCostModel) NextPresentFactor(presFac float32) float32 {
	next := presFac * m.presFacMult
	if next > m.maxPresFac {
		return m.maxPresFac
	}
	return next
}

// PresentFactor returns the pressure factor of routing iteration iter (0 based).
func (m *CongestionCostModel) PresentFactor(iter int) float32 {
	p := m.initialPresFac
	for i := 0; i < iter && p < m.maxPresFac; i++ {
		p = m.NextPresentFactor(p)
	}
	return p
}

func (m *CongestionCostModel) PresentCost(occupancy int32, presFac float32) float32 {
	return da.PresentCongestionCost(occupancy, presFac)
}

// UpdateHistoricalCost grows the historical cost of an overused node. reports whether it changed.
func (m *CongestionCostModel) UpdateHistoricalCost(n *da.RouteNode) bool {
	overuse := n.GetOccupancy() - pkg.NODE_CAPACITY
	if overuse <= 0 {
		return false
	}
	n.SetHistoricalCongestionCost(n.GetHistoricalCongestionCost() + m.histFac*float32(overuse))
	return true
}

// GetNodeCost is the congestion aware cost of entering a node: b * p * h.
func (m *CongestionCostModel) GetNodeCost(n NodeAttributes) float32 {
	return n.GetBaseCost() * n.GetPresentCongestionCost() * n.GetHistoricalCongestionCost()
}

var _ CostFunction = (*CongestionCostModel)(nil)
