package graph

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"
	"github.com/rotisserie/eris"
)

var (
	ErrEmptyGraph = eris.New("graph: empty graph")
	// The query point has NaN or infinite coordinates.
	ErrInvalidPoint = eris.New("graph: invalid point")
)

// *******************************************
// graph index interface
// *******************************************

type IGraphIndex interface {
	GetClosestNode(point orb.Point) (int32, error)
}

//*******************************************
// graph index
//*******************************************

type _IndexedNode struct {
	id  int32
	loc orb.Point
}

func (self _IndexedNode) Point() orb.Point {
	return self.loc
}

// GraphIndex snaps arbitrary points to their closest graph node by euclidean
// distance in the graph crs. Ties go to the lowest node id.
//
// Read-only after construction, queries may run concurrently.
type GraphIndex struct {
	tree  *quadtree.Quadtree
	count int
}

func NewGraphIndex(g IGraph) *GraphIndex {
	count := g.NodeCount()
	if count == 0 {
		return &GraphIndex{}
	}
	points := make(orb.MultiPoint, count)
	for i := 0; i < count; i++ {
		points[i] = g.GetNodeGeom(int32(i))
	}
	tree := quadtree.New(points.Bound().Pad(1))
	for i, p := range points {
		// the bound covers every node so adding cannot fail
		tree.Add(_IndexedNode{id: int32(i), loc: p})
	}
	return &GraphIndex{
		tree:  tree,
		count: count,
	}
}

func (self *GraphIndex) GetClosestNode(point orb.Point) (int32, error) {
	if self.count == 0 {
		return -1, ErrEmptyGraph
	}
	for _, v := range point {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return -1, eris.Wrapf(ErrInvalidPoint, "graph: snap %v", point)
		}
	}
	nearest := self.tree.Find(point)
	if nearest == nil {
		return -1, eris.Wrapf(ErrInvalidPoint, "graph: no node found for %v", point)
	}
	// collect every node as close as the found one to break ties deterministically
	radius := planar.Distance(point, nearest.Point()) * (1 + 1e-9)
	bound := orb.Bound{
		Min: orb.Point{point[0] - radius, point[1] - radius},
		Max: orb.Point{point[0] + radius, point[1] + radius},
	}
	best := nearest.(_IndexedNode)
	best_dist := planar.DistanceSquared(point, best.loc)
	for _, candidate := range self.tree.InBound(nil, bound) {
		node := candidate.(_IndexedNode)
		dist := planar.DistanceSquared(point, node.loc)
		if dist < best_dist || (dist == best_dist && node.id < best.id) {
			best = node
			best_dist = dist
		}
	}
	return best.id, nil
}

func (self *GraphIndex) NodeCount() int {
	return self.count
}
