package graph

import (
	"github.com/paulmach/orb"
)

//*******************************************
// graph structs
//*******************************************

type Node struct {
	Loc orb.Point
}

// Directed edge from NodeA to NodeB, Length in meters.
type Edge struct {
	NodeA  int32
	NodeB  int32
	Length float64
}

//*******************************************
// edgeref struct
//*******************************************

type EdgeRef struct {
	EdgeID  int32
	OtherID int32
}

//*******************************************
// adjacency array
//*******************************************

// Compressed adjacency: edges of node i are refs[start[i]:start[i+1]].
type _AdjacencyArray struct {
	start []int32
	refs  []EdgeRef
}

func (self *_AdjacencyArray) _Adjacent(node int32) []EdgeRef {
	return self.refs[self.start[node]:self.start[node+1]]
}
