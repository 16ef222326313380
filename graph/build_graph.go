package graph

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/geo"
	. "github.com/ttpr0/go-siting/util"
)

var ErrInvalidEdge = eris.New("graph: invalid edge")

//*******************************************
// graph builder
//*******************************************

type GraphBuilder struct {
	crs   geo.CRS
	nodes List[Node]
	edges List[Edge]
}

func NewGraphBuilder(crs geo.CRS, capacity int) *GraphBuilder {
	return &GraphBuilder{
		crs:   crs,
		nodes: NewList[Node](capacity),
		edges: NewList[Edge](capacity * 2),
	}
}

// AddNode adds a node and returns its id, ids are assigned in insertion order.
func (self *GraphBuilder) AddNode(loc orb.Point) int32 {
	self.nodes.Add(Node{Loc: loc})
	return int32(self.nodes.Length() - 1)
}

// AddEdge adds a directed edge from a to b.
func (self *GraphBuilder) AddEdge(a, b int32, length float64) error {
	count := int32(self.nodes.Length())
	if a < 0 || a >= count || b < 0 || b >= count {
		return eris.Wrapf(ErrInvalidEdge, "graph: edge %v -> %v references unknown node", a, b)
	}
	if length < 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return eris.Wrapf(ErrInvalidEdge, "graph: edge %v -> %v has length %v", a, b, length)
	}
	self.edges.Add(Edge{NodeA: a, NodeB: b, Length: length})
	return nil
}

// AddUndirectedEdge adds one edge per direction.
func (self *GraphBuilder) AddUndirectedEdge(a, b int32, length float64) error {
	if err := self.AddEdge(a, b, length); err != nil {
		return err
	}
	return self.AddEdge(b, a, length)
}

func (self *GraphBuilder) NodeCount() int {
	return self.nodes.Length()
}

func (self *GraphBuilder) Build() *Graph {
	nodes := Array[Node](self.nodes)
	edges := Array[Edge](self.edges)
	return &Graph{
		crs:          self.crs,
		nodes:        nodes,
		edges:        edges,
		fwd_topology: _BuildTopology(nodes.Length(), edges, FORWARD),
		bwd_topology: _BuildTopology(nodes.Length(), edges, BACKWARD),
	}
}

//*******************************************
// build graph components
//*******************************************

func _BuildTopology(node_count int, edges Array[Edge], dir Direction) _AdjacencyArray {
	start := make([]int32, node_count+1)
	for _, edge := range edges {
		if dir == FORWARD {
			start[edge.NodeA+1] += 1
		} else {
			start[edge.NodeB+1] += 1
		}
	}
	for i := 1; i <= node_count; i++ {
		start[i] += start[i-1]
	}

	fill := make([]int32, node_count)
	refs := make([]EdgeRef, len(edges))
	for id, edge := range edges {
		node, other := edge.NodeA, edge.NodeB
		if dir == BACKWARD {
			node, other = edge.NodeB, edge.NodeA
		}
		pos := start[node] + fill[node]
		refs[pos] = EdgeRef{EdgeID: int32(id), OtherID: other}
		fill[node] += 1
	}
	return _AdjacencyArray{
		start: start,
		refs:  refs,
	}
}
