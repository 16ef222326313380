package nearest

import (
	. "github.com/ttpr0/go-siting/util"
)

type ISolver interface {
	// Computes the nearest neighbour (source node) for all other nodes.
	//
	// Source nodes are specified using an array of (node, initial distance) tuples to account for start locations not identical to graph node locations.
	CalcNearestNeighbours(sources List[Array[Tuple[int32, float64]]]) error

	// Returns the distance to the nearest neighbour, +Inf if no source reaches the node.
	GetDistance(node int32) float64
}
