package access

import (
	"math"
	"strconv"
)

// Distance is the network distance to the nearest destination in meters,
// or Unreachable if no destination can be reached.
type Distance struct {
	meters    float64
	reachable bool
}

var Unreachable = Distance{}

func Reachable(meters float64) Distance {
	if math.IsNaN(meters) || math.IsInf(meters, 0) || meters < 0 {
		return Unreachable
	}
	return Distance{meters: meters, reachable: true}
}

func (self Distance) IsReachable() bool {
	return self.reachable
}

func (self Distance) Meters() (float64, bool) {
	return self.meters, self.reachable
}

// Value returns the meters as float64 or nil for unreachable.
func (self Distance) Value() any {
	if !self.reachable {
		return nil
	}
	return self.meters
}

func (self Distance) String() string {
	if !self.reachable {
		return "unreachable"
	}
	return strconv.FormatFloat(self.meters, 'f', 1, 64) + "m"
}
