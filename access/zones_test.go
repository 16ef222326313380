package access

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-siting/geo"
)

func square(lon, lat, d float64) orb.Polygon {
	return orb.Polygon{{
		{lon - d, lat - d},
		{lon + d, lat - d},
		{lon + d, lat + d},
		{lon - d, lat + d},
		{lon - d, lat - d},
	}}
}

func TestCoercePopulation(t *testing.T) {
	cases := []struct {
		value any
		want  float64
	}{
		{120.0, 120},
		{float32(2.5), 2.5},
		{7, 7},
		{int64(9), 9},
		{json.Number("42"), 42},
		{" 13.5 ", 13.5},
		{"n/a", 0},
		{"", 0},
		{nil, 0},
		{true, 0},
		{-5.0, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CoercePopulation(c.value), "%#v", c.value)
	}
}

func TestZoneStoreRejectsNonPolygons(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(square(24.9, 60.1, 0.01)))
	fc.Append(geojson.NewFeature(orb.Point{24.9, 60.1}))

	_, err := NewZoneStore(fc, POPULATION_PROPERTY)
	assert.Error(t, err)
}

func TestZoneStoreHandsOutCopies(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	original := square(24.9, 60.1, 0.01)
	f := geojson.NewFeature(original)
	f.Properties[POPULATION_PROPERTY] = "150"
	fc.Append(f)
	store, err := NewZoneStore(fc, POPULATION_PROPERTY)
	require.NoError(t, err)
	before := string(store.Document())

	zones := store.Zones()
	require.Len(t, zones, 1)
	assert.Equal(t, 150.0, zones[0].Population)
	zones[0].Properties["name"] = "changed"
	zones[0].Geometry.(orb.Polygon)[0][0] = orb.Point{0, 0}
	_, err = zones[0].Reproject(geo.WEB_MERCATOR)
	require.NoError(t, err)

	again := store.Zones()
	assert.NotContains(t, again[0].Properties, "name")
	assert.Equal(t, original[0][0], again[0].Geometry.(orb.Polygon)[0][0])
	assert.Equal(t, before, string(store.Document()))
	assert.Equal(t, 1, store.Count())
}

func TestZoneReprojectRecomputesCentroid(t *testing.T) {
	zone := Zone{
		Geometry:   square(24.94, 60.17, 0.01),
		CRS:        geo.WGS84,
		Properties: geojson.Properties{},
	}

	projected, err := zone.Reproject(geo.WEB_MERCATOR)
	require.NoError(t, err)

	assert.Equal(t, geo.WEB_MERCATOR, projected.CRS)
	want, err := geo.ReprojectPoint(orb.Point{24.94, 60.17}, geo.WGS84, geo.WEB_MERCATOR)
	require.NoError(t, err)
	assert.InDelta(t, want[0], projected.Centroid[0], 1)
	assert.InDelta(t, want[1], projected.Centroid[1], 5)
	assert.Equal(t, geo.WGS84, zone.CRS)
}

func TestLoadZonesGeoJSON(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	a := geojson.NewFeature(square(24.9, 60.1, 0.01))
	a.ID = "a"
	a.Properties["pop"] = 10
	fc.Append(a)
	fc.Append(geojson.NewFeature(orb.MultiPolygon{square(24.95, 60.15, 0.01)}))
	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "zones.geojson")
	require.NoError(t, os.WriteFile(file, data, 0o644))

	store, err := LoadZones(file, geo.WGS84, "pop")
	require.NoError(t, err)

	zones := store.Zones()
	require.Len(t, zones, 2)
	assert.Equal(t, "a", zones[0].ID)
	assert.Equal(t, 10.0, zones[0].Population)
	assert.Equal(t, 0.0, zones[1].Population)
	assert.JSONEq(t, string(data), string(store.Document()))
}

func TestLoadZonesReprojects(t *testing.T) {
	projected, err := geo.ReprojectGeometry(square(24.9, 60.1, 0.01), geo.WGS84, geo.WEB_MERCATOR)
	require.NoError(t, err)
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(projected))
	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "zones.json")
	require.NoError(t, os.WriteFile(file, data, 0o644))

	store, err := LoadZones(file, geo.WEB_MERCATOR, POPULATION_PROPERTY)
	require.NoError(t, err)

	corner := store.Zones()[0].Geometry.(orb.Polygon)[0][0]
	assert.InDelta(t, 24.89, corner[0], 1e-9)
	assert.InDelta(t, 60.09, corner[1], 1e-9)
}

func TestLoadZonesMissingFile(t *testing.T) {
	_, err := LoadZones(filepath.Join(t.TempDir(), "missing.geojson"), geo.WGS84, POPULATION_PROPERTY)
	assert.Error(t, err)
}

// writeShapefile writes one clockwise square with a population attribute.
// go-shp names the attribute table "<base>dbf", it is moved to "<base>.dbf" where the reader looks.
func writeShapefile(t *testing.T, population string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "zones.shp")
	writer, err := shp.Create(file, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, writer.SetFields([]shp.Field{shp.StringField("population", 16)}))
	polygon := shp.Polygon(*shp.NewPolyLine([][]shp.Point{{
		{X: 24.9, Y: 60.1},
		{X: 24.9, Y: 60.2},
		{X: 25.0, Y: 60.2},
		{X: 25.0, Y: 60.1},
		{X: 24.9, Y: 60.1},
	}}))
	row := writer.Write(&polygon)
	require.NoError(t, writer.WriteAttribute(int(row), 0, population))
	writer.Close()

	base := strings.TrimSuffix(file, ".shp")
	if _, err := os.Stat(base + "dbf"); err == nil {
		require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	}
	return file
}

func TestLoadZonesShapefile(t *testing.T) {
	file := writeShapefile(t, "321")

	store, err := LoadZones(file, geo.WGS84, "population")
	require.NoError(t, err)

	zones := store.Zones()
	require.Len(t, zones, 1)
	assert.Equal(t, 321.0, zones[0].Population)
	poly, ok := zones[0].Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 5)
	assert.Equal(t, orb.Point{24.9, 60.2}, poly[0][1])
}

func TestLoadZonesShapefileWithoutAttributes(t *testing.T) {
	file := writeShapefile(t, "321")
	base := strings.TrimSuffix(file, ".shp")
	require.NoError(t, os.Remove(base+".dbf"))

	_, err := LoadZones(file, geo.WGS84, "population")
	assert.Error(t, err)
}
