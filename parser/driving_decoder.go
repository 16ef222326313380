package parser

import (
	"github.com/ttpr0/go-siting/geo"
	. "github.com/ttpr0/go-siting/util"
)

//*******************************************
// osm decoder
//*******************************************

type IOSMDecoder interface {
	IsValidHighway(tags Dict[string, string]) bool
	DecodeEdge(tags Dict[string, string]) EdgeAttribs
	// Returns the category of a point feature worth keeping, false otherwise.
	DecodeFeature(tags Dict[string, string]) (string, bool)
}

type DrivingDecoder struct {
}

var driving_types = Dict[string, bool]{"motorway": true, "motorway_link": true, "trunk": true, "trunk_link": true,
	"primary": true, "primary_link": true, "secondary": true, "secondary_link": true, "tertiary": true, "tertiary_link": true,
	"residential": true, "living_street": true, "service": true, "track": true, "unclassified": true, "road": true}

var implied_oneway = Dict[string, bool]{"motorway": true, "motorway_link": true, "trunk": true, "trunk_link": true}

func (self *DrivingDecoder) IsValidHighway(tags Dict[string, string]) bool {
	if !tags.ContainsKey("highway") {
		return false
	}
	if !driving_types.ContainsKey(tags.Get("highway")) {
		return false
	}
	if tags.Get("access") == "no" || tags.Get("motor_vehicle") == "no" || tags.Get("area") == "yes" {
		return false
	}
	return true
}
func (self *DrivingDecoder) DecodeEdge(tags Dict[string, string]) EdgeAttribs {
	str_type := tags.Get("highway")
	e := EdgeAttribs{}
	e.Type = str_type
	e.Oneway = _GetOneway(tags.Get("oneway"), tags.Get("junction"), str_type)
	return e
}
func (self *DrivingDecoder) DecodeFeature(tags Dict[string, string]) (string, bool) {
	if tags.Get("amenity") == geo.HOSPITAL {
		return geo.HOSPITAL, true
	}
	return "", false
}

func _GetOneway(oneway, junction, str_type string) Oneway {
	switch oneway {
	case "yes", "true", "1":
		return FORWARD_ONLY
	case "-1", "reverse":
		return BACKWARD_ONLY
	case "no", "false", "0":
		return BOTH_WAYS
	}
	if implied_oneway.ContainsKey(str_type) || junction == "roundabout" {
		return FORWARD_ONLY
	}
	return BOTH_WAYS
}
