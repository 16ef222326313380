package nearest

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/graph"
	. "github.com/ttpr0/go-siting/util"
)

type DistFlag struct {
	Dist float64
}

type PQItem struct {
	item int32
	dist float64
}

// NewManyDijkstra creates a multi-source dijkstra.
//
// With graph.BACKWARD the search runs against edge direction, so the computed
// distance is the one from every node towards its nearest source.
func NewManyDijkstra(g graph.IGraph, dir graph.Direction, max_range float64) *ManyDijkstra {
	return &ManyDijkstra{g: g, dir: dir, max_range: max_range}
}

type ManyDijkstra struct {
	g         graph.IGraph
	dir       graph.Direction
	max_range float64
}

func (self *ManyDijkstra) CreateSolver() ISolver {
	node_flags := NewFlags[DistFlag](int32(self.g.NodeCount()), DistFlag{math.Inf(1)})
	return &ManyDijkstraSolver{
		g:          self.g,
		dir:        self.dir,
		node_flags: node_flags,
		max_range:  self.max_range,
	}
}

// not thread safe, use one solver per goroutine
type ManyDijkstraSolver struct {
	g          graph.IGraph
	dir        graph.Direction
	node_flags Flags[DistFlag]
	max_range  float64
}

func (self *ManyDijkstraSolver) CalcNearestNeighbours(sources List[Array[Tuple[int32, float64]]]) error {
	for _, source := range sources {
		for _, item := range source {
			if !self.g.IsNode(item.A) {
				return eris.Errorf("nearest: source node %v not in graph", item.A)
			}
		}
	}
	self.node_flags.Reset()
	_CalcManyDijkstra(self.g, self.dir, sources, self.node_flags, self.max_range)
	return nil
}

func (self *ManyDijkstraSolver) GetDistance(node int32) float64 {
	flag := self.node_flags.Get(node)
	return flag.Dist
}

func _CalcManyDijkstra(g graph.IGraph, dir graph.Direction, sources List[Array[Tuple[int32, float64]]], node_flags Flags[DistFlag], max_range float64) {
	heap := NewPriorityQueue[PQItem, float64](100)
	explorer := g.GetGraphExplorer()

	for _, source := range sources {
		for _, item := range source {
			start := item.A
			dist := item.B
			start_flag := node_flags.Get(start)
			if start_flag.Dist > dist {
				start_flag.Dist = dist
				heap.Enqueue(PQItem{start, dist}, dist)
			}
		}
	}

	for {
		curr_item, ok := heap.Dequeue()
		if !ok {
			break
		}
		curr_id := curr_item.item
		curr_dist := curr_item.dist
		curr_flag := node_flags.Get(curr_id)
		if curr_flag.Dist < curr_dist {
			continue
		}
		explorer.ForAdjacentEdges(curr_id, dir, func(ref graph.EdgeRef) {
			other_id := ref.OtherID
			other_flag := node_flags.Get(other_id)
			new_length := curr_flag.Dist + explorer.GetEdgeWeight(ref)
			if new_length > max_range {
				return
			}
			if other_flag.Dist > new_length {
				other_flag.Dist = new_length
				heap.Enqueue(PQItem{other_id, new_length}, new_length)
			}
		})
	}
}
