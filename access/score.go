package access

import (
	"sync"

	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/geo"
	"golang.org/x/exp/slog"
)

const (
	POPULATION_PROPERTY = "population"
	DISTANCE_PROPERTY   = "dist_to_hospital_m"
	SCORE_PROPERTY      = "underserved_score"
)

type ScoredZone struct {
	Zone
	Distance Distance
	Score    float64
}

// Score is population x meters, unreachable zones score 0.
func Score(population float64, dist Distance) float64 {
	meters, ok := dist.Meters()
	if !ok {
		return 0
	}
	return population * meters
}

//**********************************************************
// aggregator
//**********************************************************

type Aggregator struct {
	engine  IDistanceEngine
	workers int
}

func NewAggregator(engine IDistanceEngine, workers int) *Aggregator {
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{
		engine:  engine,
		workers: workers,
	}
}

// ScoreZones computes distance and score for every (projected) zone. Zones
// whose computation fails are kept as unreachable. Output order equals input order.
func (self *Aggregator) ScoreZones(zones []Zone) []ScoredZone {
	scored := make([]ScoredZone, len(zones))
	zone_chan := make(chan int, len(zones))
	for i := range zones {
		zone_chan <- i
	}
	close(zone_chan)

	wg := sync.WaitGroup{}
	for w := 0; w < self.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range zone_chan {
				zone := zones[i]
				dist, err := self.engine.NearestDistance(zone.Centroid)
				if err != nil {
					slog.Debug("zone distance failed", "zone", i, "error", err.Error())
					dist = Unreachable
				}
				scored[i] = ScoredZone{
					Zone:     zone,
					Distance: dist,
					Score:    Score(zone.Population, dist),
				}
			}
		}()
	}
	wg.Wait()
	return scored
}

func CountUnreachable(scored []ScoredZone) int {
	count := 0
	for _, z := range scored {
		if !z.Distance.IsReachable() {
			count += 1
		}
	}
	return count
}

// ToFeatureCollection reprojects the scored zones into the target crs and
// attaches population, distance and score to the original properties.
// The coerced population replaces the value under population_field.
func ToFeatureCollection(scored []ScoredZone, to geo.CRS, population_field string) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for i, z := range scored {
		g, err := geo.ReprojectGeometry(z.Geometry, z.CRS, to)
		if err != nil {
			return nil, eris.Wrapf(err, "access: reproject zone %v", i)
		}
		feature := geojson.NewFeature(g)
		feature.ID = z.ID
		for key, val := range z.Properties {
			feature.Properties[key] = val
		}
		feature.Properties[population_field] = z.Population
		feature.Properties[DISTANCE_PROPERTY] = z.Distance.Value()
		feature.Properties[SCORE_PROPERTY] = z.Score
		fc.Append(feature)
	}
	return fc, nil
}
