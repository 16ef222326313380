package access

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-siting/geo"
)

type fakeEngine struct {
	distances map[orb.Point]Distance
	failing   map[orb.Point]bool
}

func (self *fakeEngine) NearestDistance(origin orb.Point) (Distance, error) {
	if self.failing[origin] {
		return Unreachable, errors.New("snap failed")
	}
	dist, ok := self.distances[origin]
	if !ok {
		return Unreachable, nil
	}
	return dist, nil
}

func projectedZone(id int, population float64, center orb.Point) Zone {
	ring := orb.Ring{
		{center[0] - 1, center[1] - 1},
		{center[0] + 1, center[1] - 1},
		{center[0] + 1, center[1] + 1},
		{center[0] - 1, center[1] + 1},
		{center[0] - 1, center[1] - 1},
	}
	return Zone{
		ID:         id,
		Geometry:   orb.Polygon{ring},
		CRS:        geo.WEB_MERCATOR,
		Population: population,
		Properties: geojson.Properties{"name": "zone"},
		Centroid:   center,
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 1000.0, Score(100, Reachable(10)))
	assert.Equal(t, 0.0, Score(0, Reachable(10)))
	assert.Equal(t, 0.0, Score(100, Unreachable))
	assert.Equal(t, 0.0, Score(100, Reachable(0)))
}

func TestScoreZonesKeepsOrder(t *testing.T) {
	engine := &fakeEngine{distances: map[orb.Point]Distance{}}
	zones := make([]Zone, 40)
	for i := range zones {
		center := orb.Point{float64(i * 10), 0}
		zones[i] = projectedZone(i, float64(i), center)
		engine.distances[center] = Reachable(float64(2 * i))
	}

	scored := NewAggregator(engine, 7).ScoreZones(zones)

	require.Len(t, scored, 40)
	for i, z := range scored {
		assert.Equal(t, i, z.ID)
		meters, ok := z.Distance.Meters()
		assert.True(t, ok)
		assert.Equal(t, float64(2*i), meters)
		assert.Equal(t, float64(i*2*i), z.Score)
	}
}

func TestScoreZonesDowngradesFailures(t *testing.T) {
	bad := orb.Point{50, 50}
	engine := &fakeEngine{
		distances: map[orb.Point]Distance{{0, 0}: Reachable(5), bad: Reachable(1)},
		failing:   map[orb.Point]bool{bad: true},
	}
	zones := []Zone{projectedZone(0, 10, orb.Point{0, 0}), projectedZone(1, 10, bad)}

	scored := NewAggregator(engine, 0).ScoreZones(zones)

	assert.True(t, scored[0].Distance.IsReachable())
	assert.Equal(t, 50.0, scored[0].Score)
	assert.False(t, scored[1].Distance.IsReachable())
	assert.Equal(t, 0.0, scored[1].Score)
	assert.Equal(t, 1, CountUnreachable(scored))
}

func TestScoreZonesMissingPopulation(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{{{24.9, 60.1}, {24.91, 60.1}, {24.91, 60.11}, {24.9, 60.1}}}))
	store, err := NewZoneStore(fc, POPULATION_PROPERTY)
	require.NoError(t, err)

	zones := store.Zones()
	zones[0], err = zones[0].Reproject(geo.WEB_MERCATOR)
	require.NoError(t, err)
	engine := &fakeEngine{distances: map[orb.Point]Distance{zones[0].Centroid: Reachable(250)}}

	scored := NewAggregator(engine, 1).ScoreZones(zones)
	out, err := ToFeatureCollection(scored, geo.WGS84, POPULATION_PROPERTY)
	require.NoError(t, err)

	props := out.Features[0].Properties
	assert.Equal(t, 0.0, props[POPULATION_PROPERTY])
	assert.Equal(t, 250.0, props[DISTANCE_PROPERTY])
	assert.Equal(t, 0.0, props[SCORE_PROPERTY])
}

func TestScoreZonesIsDeterministic(t *testing.T) {
	engine := &fakeEngine{distances: map[orb.Point]Distance{}}
	zones := make([]Zone, 25)
	for i := range zones {
		center := orb.Point{float64(i), float64(-i)}
		zones[i] = projectedZone(i, 3, center)
		if i%3 != 0 {
			engine.distances[center] = Reachable(float64(i) * 1.5)
		}
	}

	first, err := ToFeatureCollection(NewAggregator(engine, 4).ScoreZones(zones), geo.WEB_MERCATOR, POPULATION_PROPERTY)
	require.NoError(t, err)
	second, err := ToFeatureCollection(NewAggregator(engine, 1).ScoreZones(zones), geo.WEB_MERCATOR, POPULATION_PROPERTY)
	require.NoError(t, err)

	a, err := first.MarshalJSON()
	require.NoError(t, err)
	b, err := second.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestToFeatureCollection(t *testing.T) {
	scored := []ScoredZone{
		{Zone: projectedZone(7, 20, orb.Point{0, 0}), Distance: Reachable(3), Score: 60},
		{Zone: projectedZone(8, 20, orb.Point{10, 10}), Distance: Unreachable, Score: 0},
	}

	fc, err := ToFeatureCollection(scored, geo.WEB_MERCATOR, POPULATION_PROPERTY)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	assert.Equal(t, 7, first.ID)
	assert.Equal(t, "zone", first.Properties["name"])
	assert.Equal(t, 20.0, first.Properties[POPULATION_PROPERTY])
	assert.Equal(t, 3.0, first.Properties[DISTANCE_PROPERTY])
	assert.Equal(t, 60.0, first.Properties[SCORE_PROPERTY])
	assert.Equal(t, scored[0].Geometry, first.Geometry)

	second := fc.Features[1]
	assert.Contains(t, second.Properties, DISTANCE_PROPERTY)
	assert.Nil(t, second.Properties[DISTANCE_PROPERTY])
	assert.Equal(t, 0.0, second.Properties[SCORE_PROPERTY])

	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dist_to_hospital_m":null`)
}

func TestToFeatureCollectionWritesConfiguredPopulationField(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.Polygon{{{24.9, 60.1}, {24.91, 60.1}, {24.91, 60.11}, {24.9, 60.1}}})
	f.Properties["pop"] = " 1250 "
	fc.Append(f)
	store, err := NewZoneStore(fc, "pop")
	require.NoError(t, err)
	assert.Equal(t, "pop", store.PopulationField())

	zones := store.Zones()
	zones[0], err = zones[0].Reproject(geo.WEB_MERCATOR)
	require.NoError(t, err)
	engine := &fakeEngine{distances: map[orb.Point]Distance{zones[0].Centroid: Reachable(500)}}

	out, err := ToFeatureCollection(NewAggregator(engine, 1).ScoreZones(zones), geo.WGS84, store.PopulationField())
	require.NoError(t, err)

	props := out.Features[0].Properties
	assert.Equal(t, 1250.0, props["pop"])
	assert.NotContains(t, props, POPULATION_PROPERTY)
	assert.Equal(t, 1250.0*500, props[SCORE_PROPERTY])
}

func TestZoneStoreDefaultsPopulationField(t *testing.T) {
	store, err := NewZoneStore(geojson.NewFeatureCollection(), "")
	require.NoError(t, err)
	assert.Equal(t, POPULATION_PROPERTY, store.PopulationField())
}
