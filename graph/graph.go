package graph

import (
	"github.com/paulmach/orb"
	"github.com/ttpr0/go-siting/geo"
	. "github.com/ttpr0/go-siting/util"
)

//*******************************************
// graph interfaces
//******************************************

type IGraph interface {
	GetGraphExplorer() IGraphExplorer
	NodeCount() int
	EdgeCount() int
	IsNode(node int32) bool
	GetEdge(edge int32) Edge
	GetNodeGeom(node int32) orb.Point
	CRS() geo.CRS
}

type IGraphExplorer interface {
	// Iterates through the adjacency of a node calling the callback for every edge.
	//
	// direction tells the traversel direction (FORWARD means outgoing edges, BACKWARD ingoing edges)
	ForAdjacentEdges(node int32, dir Direction, callback func(EdgeRef))
	GetEdgeWeight(edge EdgeRef) float64
}

//*******************************************
// graph
//******************************************

var _ IGraph = &Graph{}

// Graph is immutable after construction and safe for concurrent readers.
type Graph struct {
	crs   geo.CRS
	nodes Array[Node]
	edges Array[Edge]

	fwd_topology _AdjacencyArray
	bwd_topology _AdjacencyArray
}

func (self *Graph) GetGraphExplorer() IGraphExplorer {
	return &GraphExplorer{
		graph: self,
	}
}
func (self *Graph) NodeCount() int {
	return len(self.nodes)
}
func (self *Graph) EdgeCount() int {
	return len(self.edges)
}
func (self *Graph) IsNode(node int32) bool {
	return node >= 0 && node < int32(len(self.nodes))
}
func (self *Graph) GetEdge(edge int32) Edge {
	return self.edges[edge]
}
func (self *Graph) GetNodeGeom(node int32) orb.Point {
	return self.nodes[node].Loc
}
func (self *Graph) CRS() geo.CRS {
	return self.crs
}

// Project returns a copy of the graph with node coordinates in the target crs.
//
// Edge lengths are kept as they are, the topology is shared with the source graph.
func (self *Graph) Project(to geo.CRS) (*Graph, error) {
	proj, err := geo.Transform(self.crs, to)
	if err != nil {
		return nil, err
	}
	nodes := NewArray[Node](len(self.nodes))
	for i, node := range self.nodes {
		nodes[i] = Node{Loc: proj(node.Loc)}
	}
	return &Graph{
		crs:          to,
		nodes:        nodes,
		edges:        self.edges,
		fwd_topology: self.fwd_topology,
		bwd_topology: self.bwd_topology,
	}, nil
}

//*******************************************
// graph explorer
//******************************************

type GraphExplorer struct {
	graph *Graph
}

func (self *GraphExplorer) ForAdjacentEdges(node int32, direction Direction, callback func(EdgeRef)) {
	var refs []EdgeRef
	if direction == FORWARD {
		refs = self.graph.fwd_topology._Adjacent(node)
	} else {
		refs = self.graph.bwd_topology._Adjacent(node)
	}
	for _, ref := range refs {
		callback(ref)
	}
}
func (self *GraphExplorer) GetEdgeWeight(edge EdgeRef) float64 {
	return self.graph.GetEdge(edge.EdgeID).Length
}
