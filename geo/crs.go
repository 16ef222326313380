package geo

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/rotisserie/eris"
)

//*******************************************
// coordinate reference systems
//*******************************************

// CRS tags a coordinate with the reference system it is expressed in.
type CRS string

const (
	// geographic lon/lat in degrees
	WGS84 CRS = "EPSG:4326"
	// spherical web mercator in meters
	WEB_MERCATOR CRS = "EPSG:3857"
)

var ErrUnsupportedCRS = eris.New("geo: unsupported crs")

func ParseCRS(s string) (CRS, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EPSG:4326", "WGS84":
		return WGS84, nil
	case "EPSG:3857", "EPSG:900913", "WEBMERCATOR":
		return WEB_MERCATOR, nil
	default:
		return WGS84, eris.Wrapf(ErrUnsupportedCRS, "geo: parse %q", s)
	}
}

func (self CRS) IsProjected() bool {
	return self == WEB_MERCATOR
}

func (self CRS) String() string {
	return string(self)
}

func _Identity(p orb.Point) orb.Point {
	return p
}

// Transform returns the point projection from one crs into another.
func Transform(from, to CRS) (orb.Projection, error) {
	if from == to {
		switch from {
		case WGS84, WEB_MERCATOR:
			return _Identity, nil
		}
	}
	switch {
	case from == WGS84 && to == WEB_MERCATOR:
		return project.WGS84.ToMercator, nil
	case from == WEB_MERCATOR && to == WGS84:
		return project.Mercator.ToWGS84, nil
	}
	return nil, eris.Wrapf(ErrUnsupportedCRS, "geo: transform %v -> %v", from, to)
}

// ReprojectGeometry returns a reprojected copy of g, the input is left untouched.
func ReprojectGeometry(g orb.Geometry, from, to CRS) (orb.Geometry, error) {
	proj, err := Transform(from, to)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}
	return project.Geometry(orb.Clone(g), proj), nil
}

func ReprojectPoint(p orb.Point, from, to CRS) (orb.Point, error) {
	proj, err := Transform(from, to)
	if err != nil {
		return p, err
	}
	return proj(p), nil
}
