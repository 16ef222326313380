package algorithm

import (
	"math"

	"github.com/ttpr0/go-siting/graph"
	. "github.com/ttpr0/go-siting/util"
)

type DistFlag struct {
	Dist    float64
	Visited bool
}

type PQItem struct {
	item int32
	dist float64
}

// Sentinel distance for nodes not reached by a search.
var UNREACHED = math.Inf(1)

// CalcShortestPath returns the length of the shortest path from start to end,
// false if end cannot be reached from start.
func CalcShortestPath(g graph.IGraph, start, end int32) (float64, bool) {
	if !g.IsNode(start) || !g.IsNode(end) {
		return UNREACHED, false
	}
	if start == end {
		return 0, true
	}
	node_flags := NewFlags[DistFlag](int32(g.NodeCount()), DistFlag{UNREACHED, false})
	heap := NewPriorityQueue[PQItem, float64](100)
	explorer := g.GetGraphExplorer()

	node_flags.Get(start).Dist = 0
	heap.Enqueue(PQItem{start, 0}, 0)

	for {
		curr_item, ok := heap.Dequeue()
		if !ok {
			return UNREACHED, false
		}
		curr_id := curr_item.item
		curr_flag := node_flags.Get(curr_id)
		if curr_flag.Visited {
			continue
		}
		curr_flag.Visited = true
		if curr_id == end {
			return curr_flag.Dist, true
		}
		explorer.ForAdjacentEdges(curr_id, graph.FORWARD, func(ref graph.EdgeRef) {
			other_flag := node_flags.Get(ref.OtherID)
			if other_flag.Visited {
				return
			}
			new_length := curr_flag.Dist + explorer.GetEdgeWeight(ref)
			if other_flag.Dist > new_length {
				other_flag.Dist = new_length
				heap.Enqueue(PQItem{ref.OtherID, new_length}, new_length)
			}
		})
	}
}
