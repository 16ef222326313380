package graph

//*******************************************
// enums
//*******************************************

type Direction byte

const (
	BACKWARD Direction = 0
	FORWARD  Direction = 1
)

func (self Direction) String() string {
	switch self {
	case FORWARD:
		return "forward"
	case BACKWARD:
		return "backward"
	default:
		return "unknown"
	}
}
