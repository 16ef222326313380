package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/geo"
	"github.com/ttpr0/go-siting/parser"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	road_query     = `[out:xml][timeout:180];area%s->.region;(way["highway"](area.region);>;);out body;`
	hospital_query = `[out:xml][timeout:180];area%s->.region;node["amenity"="hospital"](area.region);out body;`
)

// OverpassProvider queries an overpass api instance for the roads and
// hospitals inside an administrative area.
type OverpassProvider struct {
	name        string
	url         string
	area_filter string
	client      *http.Client
	limiter     *rate.Limiter
	decoder     parser.IOSMDecoder
}

// NewOverpassProvider creates a provider issuing at most one request per interval.
func NewOverpassProvider(name, api_url, area_filter string, interval time.Duration, client *http.Client) *OverpassProvider {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &OverpassProvider{
		name:        name,
		url:         api_url,
		area_filter: area_filter,
		client:      client,
		limiter:     rate.NewLimiter(limit, 1),
		decoder:     &parser.DrivingDecoder{},
	}
}

func (self *OverpassProvider) Name() string {
	return self.name
}

func (self *OverpassProvider) Fetch(ctx context.Context) (*Region, error) {
	var roads, hospitals []byte
	eg, eg_ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		data, err := self._Query(eg_ctx, fmt.Sprintf(road_query, self.area_filter))
		roads = data
		return err
	})
	eg.Go(func() error {
		data, err := self._Query(eg_ctx, fmt.Sprintf(hospital_query, self.area_filter))
		hospitals = data
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g, _, err := parser.ParseRegion(ctx, parser.XMLScannerFactory(roads), self.decoder)
	if err != nil {
		return nil, eris.Wrap(err, "provider: parse overpass roads")
	}
	features, err := _ParseFeatures(ctx, hospitals, self.decoder)
	if err != nil {
		return nil, err
	}
	slog.Debug("fetched region from overpass", "region", self.name, "nodes", g.NodeCount(), "hospitals", len(features))
	return &Region{
		Name:      self.name,
		Graph:     g,
		Hospitals: features,
	}, nil
}

func _ParseFeatures(ctx context.Context, data []byte, decoder parser.IOSMDecoder) ([]geo.PointFeature, error) {
	g, features, err := parser.ParseRegion(ctx, parser.XMLScannerFactory(data), decoder)
	if err != nil {
		return nil, eris.Wrap(err, "provider: parse overpass hospitals")
	}
	if g.EdgeCount() != 0 {
		slog.Debug("overpass hospital answer contained roads", "edges", g.EdgeCount())
	}
	return features, nil
}

func (self *OverpassProvider) _Query(ctx context.Context, query string) ([]byte, error) {
	if err := self.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "provider: overpass rate limit")
	}
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, self.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "provider: build overpass request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := self.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "provider: overpass request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("provider: overpass returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "provider: read overpass response")
	}
	return data, nil
}
