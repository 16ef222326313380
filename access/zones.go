package access

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/geo"
	"golang.org/x/exp/slog"
)

//**********************************************************
// zones
//**********************************************************

// Zone is one polygon of the underserved grid.
type Zone struct {
	ID         any
	Geometry   orb.Geometry
	CRS        geo.CRS
	Population float64
	Properties geojson.Properties
	// only meaningful in a projected crs, recomputed on every reprojection
	Centroid orb.Point
}

// Reproject returns a copy of the zone in the target crs with a fresh centroid.
func (self Zone) Reproject(to geo.CRS) (Zone, error) {
	g, err := geo.ReprojectGeometry(self.Geometry, self.CRS, to)
	if err != nil {
		return self, err
	}
	self.Geometry = g
	self.CRS = to
	self.Centroid = geo.Centroid(g)
	self.Properties = self.Properties.Clone()
	return self, nil
}

// CoercePopulation turns a raw attribute into a population count, anything
// missing, non-numeric or negative counts as 0.
func CoercePopulation(value any) float64 {
	var v float64
	switch val := value.(type) {
	case float64:
		v = val
	case float32:
		v = float64(val)
	case int:
		v = float64(val)
	case int64:
		v = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		v = f
	default:
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

//**********************************************************
// zone store
//**********************************************************

// ZoneStore holds the canonical zone collection (WGS84) loaded once at startup.
// It is never mutated after construction.
type ZoneStore struct {
	zones            []Zone
	document         []byte
	population_field string
}

// LoadZones reads zones from a geojson (.geojson, .json) or shapefile (.shp).
// Coordinates given in another supported crs are reprojected to WGS84.
func LoadZones(file string, crs geo.CRS, population_field string) (*ZoneStore, error) {
	var fc *geojson.FeatureCollection
	var err error
	switch strings.ToLower(filepath.Ext(file)) {
	case ".shp":
		fc, err = _ReadShapefile(file)
	default:
		fc, err = _ReadGeoJSON(file)
	}
	if err != nil {
		return nil, err
	}
	if crs != geo.WGS84 {
		for _, f := range fc.Features {
			if f.Geometry, err = geo.ReprojectGeometry(f.Geometry, crs, geo.WGS84); err != nil {
				return nil, eris.Wrapf(err, "access: reproject zones from %v", crs)
			}
		}
	}
	store, err := NewZoneStore(fc, population_field)
	if err != nil {
		return nil, eris.Wrapf(err, "access: load zones %s", file)
	}
	slog.Info("loaded zones", "file", file, "count", len(store.zones))
	return store, nil
}

// NewZoneStore builds a store from a WGS84 feature collection of polygons.
func NewZoneStore(fc *geojson.FeatureCollection, population_field string) (*ZoneStore, error) {
	if population_field == "" {
		population_field = POPULATION_PROPERTY
	}
	zones := make([]Zone, len(fc.Features))
	for i, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			return nil, eris.Errorf("access: zone %v has unsupported geometry %T", i, f.Geometry)
		}
		props := f.Properties.Clone()
		if props == nil {
			props = geojson.Properties{}
		}
		zones[i] = Zone{
			ID:         f.ID,
			Geometry:   orb.Clone(f.Geometry),
			CRS:        geo.WGS84,
			Population: CoercePopulation(props[population_field]),
			Properties: props,
		}
	}
	document, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "access: encode zones")
	}
	return &ZoneStore{
		zones:            zones,
		document:         document,
		population_field: population_field,
	}, nil
}

// Zones returns a private copy of the canonical zones.
func (self *ZoneStore) Zones() []Zone {
	zones := make([]Zone, len(self.zones))
	for i, z := range self.zones {
		z.Geometry = orb.Clone(z.Geometry)
		z.Properties = z.Properties.Clone()
		zones[i] = z
	}
	return zones
}

// Document is the serialized canonical collection, callers must not modify it.
func (self *ZoneStore) Document() []byte {
	return self.document
}

// PopulationField is the property population is read from and written back to.
func (self *ZoneStore) PopulationField() string {
	return self.population_field
}

func (self *ZoneStore) Count() int {
	return len(self.zones)
}

//**********************************************************
// readers
//**********************************************************

func _ReadGeoJSON(file string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, eris.Wrapf(err, "access: read zones %s", file)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, eris.Wrapf(err, "access: decode zones %s", file)
	}
	return fc, nil
}

func _ReadShapefile(file string) (*geojson.FeatureCollection, error) {
	reader, err := shp.Open(file)
	if err != nil {
		return nil, eris.Wrapf(err, "access: open shapefile %s", file)
	}
	defer func() { _ = reader.Close() }()

	// Fields hides a missing or unreadable .dbf behind an empty list
	fields := reader.Fields()
	if len(fields) == 0 {
		return nil, eris.Errorf("access: shapefile %s has no attribute table", file)
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	fc := geojson.NewFeatureCollection()
	for reader.Next() {
		n, shape := reader.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			return nil, eris.Errorf("access: shape %v in %s is not a polygon", n, file)
		}
		feature := geojson.NewFeature(_PolygonFromShape(polygon))
		for i, name := range names {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			feature.Properties[name] = val
		}
		fc.Append(feature)
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "access: read shapefile %s", file)
	}
	if count := reader.AttributeCount(); count != len(fc.Features) {
		return nil, eris.Errorf("access: shapefile %s has %v shapes but %v attribute rows", file, len(fc.Features), count)
	}
	return fc, nil
}

// Shapefile polygons store all rings in one point list, outer rings are clockwise.
func _PolygonFromShape(p *shp.Polygon) orb.Geometry {
	var polygons orb.MultiPolygon
	for i := 0; i < len(p.Parts); i++ {
		start := int(p.Parts[i])
		end := len(p.Points)
		if i+1 < len(p.Parts) {
			end = int(p.Parts[i+1])
		}
		ring := make(orb.Ring, 0, end-start)
		for _, pt := range p.Points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		if len(polygons) == 0 || ring.Orientation() == orb.CW {
			polygons = append(polygons, orb.Polygon{ring})
		} else {
			last := len(polygons) - 1
			polygons[last] = append(polygons[last], ring)
		}
	}
	if len(polygons) == 1 {
		return polygons[0]
	}
	return polygons
}
