package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/geo"
	"github.com/ttpr0/go-siting/graph"
)

var ErrUnknownSource = eris.New("provider: unknown source")

// Region is a road graph (WGS84, edge lengths in meters) together with the
// hospitals located in it.
type Region struct {
	Name      string
	Graph     *graph.Graph
	Hospitals []geo.PointFeature
}

// IRegionProvider fetches a fresh region on every call, implementations hold no
// shared mutable state so concurrent fetches are safe.
type IRegionProvider interface {
	Fetch(ctx context.Context) (*Region, error)
	Name() string
}

type Options struct {
	Source      string        `yaml:"source"`
	Name        string        `yaml:"name"`
	OSMFile     string        `yaml:"osm-file"`
	OverpassURL string        `yaml:"overpass-url"`
	AreaFilter  string        `yaml:"area-filter"`
	Interval    time.Duration `yaml:"overpass-interval"`
	Timeout     time.Duration `yaml:"overpass-timeout"`
}

const (
	SOURCE_FILE     = "file"
	SOURCE_OVERPASS = "overpass"
)

func NewProvider(opts Options) (IRegionProvider, error) {
	switch opts.Source {
	case SOURCE_FILE:
		if opts.OSMFile == "" {
			return nil, eris.New("provider: osm-file is required for file source")
		}
		return NewFileProvider(opts.Name, opts.OSMFile), nil
	case SOURCE_OVERPASS:
		client := &http.Client{Timeout: opts.Timeout}
		return NewOverpassProvider(opts.Name, opts.OverpassURL, opts.AreaFilter, opts.Interval, client), nil
	default:
		return nil, eris.Wrapf(ErrUnknownSource, "provider: source %q", opts.Source)
	}
}
