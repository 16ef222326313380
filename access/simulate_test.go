package access

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-siting/geo"
	"github.com/ttpr0/go-siting/graph"
	"github.com/ttpr0/go-siting/provider"
)

type fakeProvider struct {
	region *provider.Region
	err    error
	calls  int
}

func (self *fakeProvider) Fetch(ctx context.Context) (*provider.Region, error) {
	self.calls += 1
	if self.err != nil {
		return nil, self.err
	}
	return self.region, nil
}

func (self *fakeProvider) Name() string {
	return "test"
}

var (
	west   = orb.Point{24.930, 60.160}
	middle = orb.Point{24.940, 60.160}
	east   = orb.Point{24.950, 60.160}
	island = orb.Point{24.990, 60.200}
)

// west -500- middle -500- east, island has no roads, the hospital sits at east
func testRegion(t *testing.T) *provider.Region {
	t.Helper()
	b := graph.NewGraphBuilder(geo.WGS84, 4)
	w := b.AddNode(west)
	m := b.AddNode(middle)
	e := b.AddNode(east)
	b.AddNode(island)
	require.NoError(t, b.AddUndirectedEdge(w, m, 500))
	require.NoError(t, b.AddUndirectedEdge(m, e, 500))
	return &provider.Region{
		Name:      "test",
		Graph:     b.Build(),
		Hospitals: []geo.PointFeature{geo.NewPointFeature(east, geo.WGS84, geo.HOSPITAL)},
	}
}

func testStore(t *testing.T) *ZoneStore {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	for i, zone := range []struct {
		center     orb.Point
		population any
	}{
		{west, 100},
		{east, "50"},
		{island, 10.0},
	} {
		f := geojson.NewFeature(square(zone.center[0], zone.center[1], 0.001))
		f.ID = i
		f.Properties[POPULATION_PROPERTY] = zone.population
		fc.Append(f)
	}
	store, err := NewZoneStore(fc, POPULATION_PROPERTY)
	require.NoError(t, err)
	return store
}

func newTestSimulator(t *testing.T, p provider.IRegionProvider, strategy Strategy) (*Simulator, *Metrics) {
	t.Helper()
	metrics := NewUnregisteredMetrics()
	sim, err := NewSimulator(p, testStore(t), SimulationOptions{
		CRS:      geo.WEB_MERCATOR,
		Strategy: strategy,
		Workers:  2,
	}, metrics)
	require.NoError(t, err)
	return sim, metrics
}

func TestSimulateCandidateReducesDistance(t *testing.T) {
	for _, strategy := range strategies {
		p := &fakeProvider{region: testRegion(t)}
		sim, metrics := newTestSimulator(t, p, strategy)

		fc, err := sim.Simulate(context.Background(), CandidateSite{Lat: middle[1], Lng: middle[0]})
		require.NoError(t, err)
		require.Len(t, fc.Features, 3)

		props := fc.Features[0].Properties
		assert.Equal(t, 0, fc.Features[0].ID)
		assert.Equal(t, 100.0, props[POPULATION_PROPERTY])
		assert.Equal(t, 500.0, props[DISTANCE_PROPERTY])
		assert.Equal(t, 50000.0, props[SCORE_PROPERTY])

		props = fc.Features[1].Properties
		assert.Equal(t, 50.0, props[POPULATION_PROPERTY])
		assert.Equal(t, 0.0, props[DISTANCE_PROPERTY])
		assert.Equal(t, 0.0, props[SCORE_PROPERTY])

		props = fc.Features[2].Properties
		assert.Nil(t, props[DISTANCE_PROPERTY])
		assert.Equal(t, 0.0, props[SCORE_PROPERTY])

		assert.Equal(t, 1, p.calls)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Simulations.WithLabelValues("success")))
		assert.Equal(t, 3.0, testutil.ToFloat64(metrics.ZonesScored))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ZonesUnreachable))
	}
}

func TestSimulateFarCandidateKeepsExistingHospital(t *testing.T) {
	sim, _ := newTestSimulator(t, &fakeProvider{region: testRegion(t)}, MULTI_SOURCE)

	// snaps onto the island, which helps nobody on the road network
	fc, err := sim.Simulate(context.Background(), CandidateSite{Lat: 60.21, Lng: 25.0})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, fc.Features[0].Properties[DISTANCE_PROPERTY])
	assert.Equal(t, 100000.0, fc.Features[0].Properties[SCORE_PROPERTY])
	assert.Equal(t, 0.0, fc.Features[2].Properties[DISTANCE_PROPERTY])
	assert.Equal(t, 0.0, fc.Features[2].Properties[SCORE_PROPERTY])
}

func TestSimulateReturnsWGS84Geometry(t *testing.T) {
	sim, _ := newTestSimulator(t, &fakeProvider{region: testRegion(t)}, MULTI_SOURCE)

	fc, err := sim.Simulate(context.Background(), CandidateSite{Lat: middle[1], Lng: middle[0]})
	require.NoError(t, err)

	zones := sim.Store().Zones()
	for i, f := range fc.Features {
		got := f.Geometry.(orb.Polygon)[0]
		want := zones[i].Geometry.(orb.Polygon)[0]
		require.Len(t, got, len(want))
		for j := range want {
			assert.InDelta(t, want[j][0], got[j][0], 1e-9)
			assert.InDelta(t, want[j][1], got[j][1], 1e-9)
		}
	}
}

func TestSimulateLeavesStoreUntouched(t *testing.T) {
	sim, _ := newTestSimulator(t, &fakeProvider{region: testRegion(t)}, MULTI_SOURCE)
	before := string(sim.Store().Document())
	zones_before := sim.Store().Zones()

	for _, site := range []CandidateSite{{Lat: 60.16, Lng: 24.94}, {Lat: 60.2, Lng: 24.99}} {
		_, err := sim.Simulate(context.Background(), site)
		require.NoError(t, err)
	}

	assert.Equal(t, before, string(sim.Store().Document()))
	assert.Equal(t, zones_before, sim.Store().Zones())
}

func TestSimulateDataUnavailable(t *testing.T) {
	sim, metrics := newTestSimulator(t, &fakeProvider{err: errors.New("overpass down")}, MULTI_SOURCE)

	_, err := sim.Simulate(context.Background(), CandidateSite{Lat: 60.16, Lng: 24.94})

	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Contains(t, err.Error(), "overpass down")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Simulations.WithLabelValues("data_unavailable")))
}

func TestSimulateInvalidInput(t *testing.T) {
	p := &fakeProvider{region: testRegion(t)}
	sim, metrics := newTestSimulator(t, p, MULTI_SOURCE)

	_, err := sim.Simulate(context.Background(), CandidateSite{Lat: math.NaN(), Lng: 24.94})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, p.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Simulations.WithLabelValues("invalid_input")))
}

func TestSimulateEmptyGraph(t *testing.T) {
	region := &provider.Region{
		Name:  "empty",
		Graph: graph.NewGraphBuilder(geo.WGS84, 0).Build(),
	}
	sim, metrics := newTestSimulator(t, &fakeProvider{region: region}, MULTI_SOURCE)

	_, err := sim.Simulate(context.Background(), CandidateSite{Lat: 60.16, Lng: 24.94})

	assert.ErrorIs(t, err, graph.ErrEmptyGraph)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Simulations.WithLabelValues("error")))
}

func TestNewSimulatorRequiresProjectedCRS(t *testing.T) {
	_, err := NewSimulator(&fakeProvider{}, testStore(t), SimulationOptions{CRS: geo.WGS84}, nil)
	assert.ErrorIs(t, err, geo.ErrUnsupportedCRS)
}

func TestSimulateCandidateOutsideProjection(t *testing.T) {
	for _, strategy := range strategies {
		sim, metrics := newTestSimulator(t, &fakeProvider{region: testRegion(t)}, strategy)

		// latitude beyond the pole has no mercator coordinate, the candidate adds nothing
		fc, err := sim.Simulate(context.Background(), CandidateSite{Lat: -91, Lng: 24.95})
		require.NoError(t, err)

		assert.Equal(t, 1000.0, fc.Features[0].Properties[DISTANCE_PROPERTY])
		assert.Equal(t, 0.0, fc.Features[1].Properties[DISTANCE_PROPERTY])
		assert.Nil(t, fc.Features[2].Properties[DISTANCE_PROPERTY])
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Simulations.WithLabelValues("success")))
	}
}
