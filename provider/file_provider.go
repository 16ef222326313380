package provider

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/parser"
)

// FileProvider reads the region from a local osm extract (.pbf, .osm or .xml).
type FileProvider struct {
	name    string
	file    string
	decoder parser.IOSMDecoder
}

func NewFileProvider(name, file string) *FileProvider {
	return &FileProvider{
		name:    name,
		file:    file,
		decoder: &parser.DrivingDecoder{},
	}
}

func (self *FileProvider) Name() string {
	return self.name
}

func (self *FileProvider) Fetch(ctx context.Context) (*Region, error) {
	g, features, err := parser.ParseRegion(ctx, parser.FileScannerFactory(self.file), self.decoder)
	if err != nil {
		return nil, eris.Wrapf(err, "provider: read region %s", self.name)
	}
	return &Region{
		Name:      self.name,
		Graph:     g,
		Hospitals: features,
	}, nil
}
