package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/access"
)

//**********************************************************
// router
//**********************************************************

func NewRouter(manager *SitingManager, allowed_origin string) *chi.Mux {
	app := chi.NewRouter()
	app.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowed_origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	MapGet(app, "/api/underserved", manager.HandleUnderservedRequest)
	MapPost(app, "/api/simulate_hospital", manager.HandleSimulateRequest)
	MapGet(app, "/health", manager.HandleHealthRequest)
	app.Handle("/metrics", promhttp.Handler())
	return app
}

//**********************************************************
// handlers
//**********************************************************

// HandleUnderservedRequest returns the stored zone collection unmodified.
func (self *SitingManager) HandleUnderservedRequest(ctx context.Context, req none) Result {
	return OK(json.RawMessage(self.simulator.Store().Document()))
}

func (self *SitingManager) HandleHealthRequest(ctx context.Context, req none) Result {
	return OK(HealthResponse{
		Status: "ok",
		Region: self.region,
		Zones:  self.simulator.Store().Count(),
	})
}

type _SimulateResult struct {
	fc  *geojson.FeatureCollection
	err error
}

func (self *SitingManager) HandleSimulateRequest(ctx context.Context, req SimulateRequest) Result {
	site, err := req.Site()
	if err != nil {
		return BadRequest(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, self.SimulateTimeout())
	defer cancel()

	// buffered so an abandoned simulation can still finish
	done := make(chan _SimulateResult, 1)
	go func() {
		fc, err := self.simulator.Simulate(ctx, site)
		done <- _SimulateResult{fc: fc, err: err}
	}()

	select {
	case <-ctx.Done():
		return Status(http.StatusGatewayTimeout, "simulation timed out")
	case res := <-done:
		if res.err != nil {
			return Status(StatusFromError(res.err), res.err.Error())
		}
		return OK(res.fc)
	}
}

func StatusFromError(err error) int {
	switch {
	case eris.Is(err, access.ErrInvalidInput):
		return http.StatusBadRequest
	case eris.Is(err, access.ErrDataUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
