package access

import (
	"context"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/geo"
	"github.com/ttpr0/go-siting/graph"
	"github.com/ttpr0/go-siting/provider"
	"golang.org/x/exp/slog"
)

// CandidateSite is the proposed hospital location in WGS84.
type CandidateSite struct {
	Lat float64
	Lng float64
}

func (self CandidateSite) Validate() error {
	for _, v := range [2]float64{self.Lat, self.Lng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return eris.Wrapf(ErrInvalidInput, "access: candidate site (%v, %v) is not finite", self.Lat, self.Lng)
		}
	}
	return nil
}

func (self CandidateSite) Feature() geo.PointFeature {
	feature := geo.NewPointFeature(orb.Point{self.Lng, self.Lat}, geo.WGS84, geo.HOSPITAL)
	feature.Name = "candidate"
	return feature
}

//**********************************************************
// simulator
//**********************************************************

type SimulationOptions struct {
	CRS      geo.CRS
	Strategy Strategy
	Workers  int
}

// Simulator recomputes zone scores for a candidate site. It keeps no state
// between simulations apart from the read-only zone store.
type Simulator struct {
	provider provider.IRegionProvider
	store    *ZoneStore
	opts     SimulationOptions
	metrics  *Metrics
}

func NewSimulator(p provider.IRegionProvider, store *ZoneStore, opts SimulationOptions, metrics *Metrics) (*Simulator, error) {
	if !opts.CRS.IsProjected() {
		return nil, eris.Wrapf(geo.ErrUnsupportedCRS, "access: simulation crs %v is not projected", opts.CRS)
	}
	if metrics == nil {
		metrics = NewUnregisteredMetrics()
	}
	return &Simulator{
		provider: p,
		store:    store,
		opts:     opts,
		metrics:  metrics,
	}, nil
}

func (self *Simulator) Store() *ZoneStore {
	return self.store
}

// Simulate returns the scored zones (WGS84) with the candidate added to the existing hospitals.
func (self *Simulator) Simulate(ctx context.Context, site CandidateSite) (*geojson.FeatureCollection, error) {
	start := time.Now()
	fc, err := self._Simulate(ctx, site)
	self.metrics.SimulationDuration.Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		self.metrics.Simulations.WithLabelValues("success").Inc()
	case eris.Is(err, ErrInvalidInput):
		self.metrics.Simulations.WithLabelValues("invalid_input").Inc()
	case eris.Is(err, ErrDataUnavailable):
		self.metrics.Simulations.WithLabelValues("data_unavailable").Inc()
	default:
		self.metrics.Simulations.WithLabelValues("error").Inc()
	}
	return fc, err
}

func (self *Simulator) _Simulate(ctx context.Context, site CandidateSite) (*geojson.FeatureCollection, error) {
	start := time.Now()
	if err := site.Validate(); err != nil {
		return nil, err
	}

	fetch_start := time.Now()
	region, err := self.provider.Fetch(ctx)
	if err != nil {
		return nil, eris.Wrapf(ErrDataUnavailable, "access: fetch region %s: %v", self.provider.Name(), err)
	}
	self.metrics.RegionFetchDuration.Observe(time.Since(fetch_start).Seconds())

	pg, err := region.Graph.Project(self.opts.CRS)
	if err != nil {
		return nil, eris.Wrap(err, "access: project graph")
	}
	index := graph.NewGraphIndex(pg)

	hospitals := make([]geo.PointFeature, 0, len(region.Hospitals)+1)
	hospitals = append(hospitals, region.Hospitals...)
	hospitals = append(hospitals, site.Feature())
	hospitals, err = geo.ReprojectFeatures(hospitals, self.opts.CRS)
	if err != nil {
		return nil, eris.Wrap(err, "access: project hospitals")
	}

	engine, err := NewNetworkDistanceEngine(pg, index, geo.Locations(hospitals), self.opts.Strategy)
	if err != nil {
		return nil, err
	}

	zones := self.store.Zones()
	for i, z := range zones {
		if zones[i], err = z.Reproject(self.opts.CRS); err != nil {
			return nil, eris.Wrap(err, "access: project zones")
		}
	}

	scored := NewAggregator(engine, self.opts.Workers).ScoreZones(zones)
	unreachable := CountUnreachable(scored)
	self.metrics.ZonesScored.Add(float64(len(scored)))
	self.metrics.ZonesUnreachable.Add(float64(unreachable))
	slog.Info("simulation finished", "region", region.Name, "nodes", pg.NodeCount(),
		"hospitals", len(hospitals), "zones", len(scored), "unreachable", unreachable,
		"duration", time.Since(start).String())

	return ToFeatureCollection(scored, geo.WGS84, self.store.PopulationField())
}
