package parser

import (
	"github.com/paulmach/orb"
)

//*******************************************
// parser structs
//*******************************************

type Oneway byte

const (
	BOTH_WAYS     Oneway = 0
	FORWARD_ONLY  Oneway = 1
	BACKWARD_ONLY Oneway = 2
)

type EdgeAttribs struct {
	Type   string
	Oneway Oneway
}

type TempNode struct {
	Point orb.Point
	Count int32
	Found bool
}

type OSMWay struct {
	Nodes []int64
	Attr  EdgeAttribs
}
