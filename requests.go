package main

import (
	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/access"
)

type SimulateRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Site converts the request into a candidate site, both coordinates are required.
func (self SimulateRequest) Site() (access.CandidateSite, error) {
	if self.Lat == nil || self.Lng == nil {
		return access.CandidateSite{}, eris.Wrap(access.ErrInvalidInput, "request: lat and lng are required")
	}
	site := access.CandidateSite{Lat: *self.Lat, Lng: *self.Lng}
	return site, site.Validate()
}
