package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const HOSPITAL = "hospital"

// PointFeature is a tagged point location (e.g. a hospital).
type PointFeature struct {
	Loc      orb.Point
	CRS      CRS
	Category string
	Name     string
}

func NewPointFeature(loc orb.Point, crs CRS, category string) PointFeature {
	return PointFeature{
		Loc:      loc,
		CRS:      crs,
		Category: category,
	}
}

func (self PointFeature) Reproject(to CRS) (PointFeature, error) {
	loc, err := ReprojectPoint(self.Loc, self.CRS, to)
	if err != nil {
		return self, err
	}
	self.Loc = loc
	self.CRS = to
	return self, nil
}

func ReprojectFeatures(features []PointFeature, to CRS) ([]PointFeature, error) {
	projected := make([]PointFeature, len(features))
	for i, f := range features {
		p, err := f.Reproject(to)
		if err != nil {
			return nil, err
		}
		projected[i] = p
	}
	return projected, nil
}

func Locations(features []PointFeature) []orb.Point {
	locs := make([]orb.Point, len(features))
	for i, f := range features {
		locs[i] = f.Loc
	}
	return locs
}

// Centroid of a geometry in planar coordinates, only meaningful in a projected crs.
func Centroid(g orb.Geometry) orb.Point {
	if g == nil {
		return orb.Point{}
	}
	c, _ := planar.CentroidArea(g)
	return c
}
