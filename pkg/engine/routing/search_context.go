package routing

import (
	da "github.com/lintang-b-s/rwroute/pkg/datastructure"
)

/*
SearchContext owns the NodeInfo state of one path search at a time. a router runs one SearchContext per
worker goroutine, which gives every concurrently running search its own NodeInfo per node.

visited and target markers hold the token of the search that set them, so "visited in this search" is one
comparison. prev and costs of the nodes touched by the previous search are reset in Begin; untouched
nodes are never swept.

the NodeInfo entries of a SearchContext are private to its searches and never committed. occupancy
changes of a batch are staged into the NodeInfoTable shared by all searches of that batch (StagePath,
UnstagePath) and only that table is passed to the commit; the occChange of an entry returned by Info
stays unused.
*/
type SearchContext struct {
	graph   *da.RouteGraph
	infos   *da.NodeInfoTable
	token   int32
	touched []da.Index
}

func NewSearchContext(graph *da.RouteGraph) *SearchContext {
	return &SearchContext{
		graph:   graph,
		infos:   da.NewNodeInfoTable(graph.NumberOfNodes()),
		touched: make([]da.Index, 0, 1024),
	}
}

// Begin starts a new search and returns its token.
func (sc *SearchContext) Begin() int32 {
	for _, id := range sc.touched {
		sc.infos.Get(id).Reset()
	}
	sc.touched = sc.touched[:0]
	sc.token++
	return sc.token
}

func (sc *SearchContext) GetToken() int32 {
	return sc.token
}

func (sc *SearchContext) Info(id da.Index) *da.NodeInfo {
	return sc.infos.Get(id)
}

func (sc *SearchContext) touch(id da.Index, ni *da.NodeInfo) {
	if ni.GetPrev() == da.INVALID_NODE_ID && ni.GetIsVisited() != sc.token && ni.GetIsTarget() != sc.token {
		sc.touched = append(sc.touched, id)
	}
}

// SetSource makes id a search root. a root is its own predecessor.
func (sc *SearchContext) SetSource(id da.Index, cost, partialCost float64) {
	ni := sc.infos.Get(id)
	sc.touch(id, ni)
	ni.Write(id, cost, partialCost, ni.GetIsVisited(), ni.GetIsTarget())
}

func (sc *SearchContext) IsReached(id da.Index) bool {
	return sc.infos.Get(id).GetPrev() != da.INVALID_NODE_ID
}

// Relax records prev as the predecessor of id if id is unreached or cost improves on its current cost.
func (sc *SearchContext) Relax(id, prev da.Index, cost, partialCost float64) bool {
	ni := sc.infos.Get(id)
	if ni.GetPrev() != da.INVALID_NODE_ID && ni.GetCost() <= cost {
		return false
	}
	sc.touch(id, ni)
	ni.Write(prev, cost, partialCost, ni.GetIsVisited(), ni.GetIsTarget())
	return true
}

func (sc *SearchContext) Visit(id da.Index) {
	ni := sc.infos.Get(id)
	sc.touch(id, ni)
	ni.SetIsVisited(sc.token)
}

func (sc *SearchContext) IsVisited(id da.Index) bool {
	return sc.infos.Get(id).GetIsVisited() == sc.token
}

func (sc *SearchContext) MarkTarget(id da.Index) {
	ni := sc.infos.Get(id)
	sc.touch(id, ni)
	ni.SetIsTarget(sc.token)
}

func (sc *SearchContext) IsTarget(id da.Index) bool {
	return sc.infos.Get(id).GetIsTarget() == sc.token
}

// PathTo follows the predecessors from target back to its root and returns the path root first.
// returns nil if target was not reached in the current search.
func (sc *SearchContext) PathTo(target da.Index) []da.Index {
	if !sc.IsReached(target) {
		return nil
	}

	path := make([]da.Index, 0, 16)
	cur := target
	for i := 0; i <= sc.graph.NumberOfNodes(); i++ {
		path = append(path, cur)
		prev := sc.infos.Get(cur).GetPrev()
		if prev == cur {
			reverse(path)
			return path
		}
		cur = prev
	}
	// predecessor chain does not end in a root.
	return nil
}

func reverse(path []da.Index) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
