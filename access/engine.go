package access

import (
	"math"
	"sync"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/algorithm"
	"github.com/ttpr0/go-siting/batched/nearest"
	"github.com/ttpr0/go-siting/graph"
	. "github.com/ttpr0/go-siting/util"
	"golang.org/x/exp/slog"
)

//**********************************************************
// strategies
//**********************************************************

type Strategy string

const (
	// one backward search from all destinations, shared by every origin query
	MULTI_SOURCE Strategy = "multi-source"
	// one point-to-point search per (origin, destination) pair
	PAIRWISE Strategy = "pairwise"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case MULTI_SOURCE, PAIRWISE:
		return Strategy(s), nil
	case "":
		return MULTI_SOURCE, nil
	default:
		return MULTI_SOURCE, eris.Errorf("access: unknown distance strategy %q", s)
	}
}

//**********************************************************
// network distance engine
//**********************************************************

type IDistanceEngine interface {
	// NearestDistance returns the shortest network distance from origin to
	// the closest destination. The error reports a failure local to this origin.
	NearestDistance(origin orb.Point) (Distance, error)
}

var _ IDistanceEngine = &NetworkDistanceEngine{}

// NetworkDistanceEngine computes nearest-destination distances over a projected
// graph. Destinations are snapped once on construction, origins on every query.
//
// Safe for concurrent queries.
type NetworkDistanceEngine struct {
	g        graph.IGraph
	index    graph.IGraphIndex
	strategy Strategy
	targets  List[int32]

	once   sync.Once
	solver nearest.ISolver
	err    error
}

// Destinations that cannot be snapped (non-finite coordinates) are skipped
// like unreachable ones, an empty graph fails construction.
func NewNetworkDistanceEngine(g graph.IGraph, index graph.IGraphIndex, destinations []orb.Point, strategy Strategy) (*NetworkDistanceEngine, error) {
	targets := NewList[int32](len(destinations))
	for i, dest := range destinations {
		node, err := index.GetClosestNode(dest)
		if eris.Is(err, graph.ErrInvalidPoint) {
			slog.Warn("skipping destination outside the network", "destination", i, "error", err.Error())
			continue
		}
		if err != nil {
			return nil, eris.Wrapf(err, "access: snap destination %v", i)
		}
		targets.Add(node)
	}
	return &NetworkDistanceEngine{
		g:        g,
		index:    index,
		strategy: strategy,
		targets:  targets,
	}, nil
}

func (self *NetworkDistanceEngine) NearestDistance(origin orb.Point) (Distance, error) {
	node, err := self.index.GetClosestNode(origin)
	if err != nil {
		return Unreachable, eris.Wrap(err, "access: snap origin")
	}
	if self.targets.Length() == 0 {
		return Unreachable, nil
	}
	switch self.strategy {
	case PAIRWISE:
		return self._PairwiseDistance(node), nil
	default:
		return self._MultiSourceDistance(node)
	}
}

func (self *NetworkDistanceEngine) _PairwiseDistance(node int32) Distance {
	best := math.Inf(1)
	for _, target := range self.targets {
		dist, ok := algorithm.CalcShortestPath(self.g, node, target)
		if ok && dist < best {
			best = dist
		}
	}
	return Reachable(best)
}

func (self *NetworkDistanceEngine) _MultiSourceDistance(node int32) (Distance, error) {
	self.once.Do(func() {
		sources := NewList[Array[Tuple[int32, float64]]](self.targets.Length())
		for _, target := range self.targets {
			sources.Add(Array[Tuple[int32, float64]]{MakeTuple(target, 0.0)})
		}
		solver := nearest.NewManyDijkstra(self.g, graph.BACKWARD, math.Inf(1)).CreateSolver()
		self.err = solver.CalcNearestNeighbours(sources)
		self.solver = solver
	})
	if self.err != nil {
		return Unreachable, eris.Wrap(self.err, "access: nearest destination search")
	}
	return Reachable(self.solver.GetDistance(node)), nil
}
