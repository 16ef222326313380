package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/access"
	"github.com/ttpr0/go-siting/geo"
	"github.com/ttpr0/go-siting/provider"
	"golang.org/x/exp/slog"
)

// SitingManager owns the process wide state: the read-only zone store and
// the simulator built on top of it.
type SitingManager struct {
	config    Config
	region    string
	simulator *access.Simulator
}

// NewSitingManager loads the zones and sets up the region provider, any
// failure here aborts startup.
func NewSitingManager(config Config, metrics *access.Metrics) (*SitingManager, error) {
	zones_crs, err := geo.ParseCRS(config.Data.ZonesCRS)
	if err != nil {
		return nil, err
	}
	store, err := access.LoadZones(config.Data.Zones, zones_crs, config.Data.PopulationField)
	if err != nil {
		return nil, err
	}
	p, err := provider.NewProvider(config.Region)
	if err != nil {
		return nil, err
	}
	return NewSitingManagerFromParts(config, p, store, metrics)
}

func NewSitingManagerFromParts(config Config, p provider.IRegionProvider, store *access.ZoneStore, metrics *access.Metrics) (*SitingManager, error) {
	strategy, err := access.ParseStrategy(config.Engine.Strategy)
	if err != nil {
		return nil, err
	}
	crs, err := geo.ParseCRS(config.Engine.CRS)
	if err != nil {
		return nil, err
	}
	simulator, err := access.NewSimulator(p, store, access.SimulationOptions{
		CRS:      crs,
		Strategy: strategy,
		Workers:  config.Engine.Workers,
	}, metrics)
	if err != nil {
		return nil, eris.Wrap(err, "manager: create simulator")
	}
	slog.Info("siting manager ready", "region", p.Name(), "zones", store.Count(),
		"strategy", strategy, "crs", crs)
	return &SitingManager{
		config:    config,
		region:    p.Name(),
		simulator: simulator,
	}, nil
}

func (self *SitingManager) Simulator() *access.Simulator {
	return self.simulator
}

func (self *SitingManager) SimulateTimeout() time.Duration {
	return self.config.Server.SimulateTimeout
}
