package parser

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/rotisserie/eris"
)

// ScannerFactory opens a fresh scanner over the same osm data, the parser
// reads the data more than once.
type ScannerFactory func(ctx context.Context) (osm.Scanner, error)

type _FileScanner struct {
	osm.Scanner
	file *os.File
}

func (self *_FileScanner) Close() error {
	err := self.Scanner.Close()
	if ferr := self.file.Close(); err == nil {
		err = ferr
	}
	return err
}

// FileScannerFactory reads .pbf files with the protobuf decoder and .osm/.xml files as osm xml.
func FileScannerFactory(filename string) ScannerFactory {
	is_pbf := strings.EqualFold(filepath.Ext(filename), ".pbf")
	return func(ctx context.Context) (osm.Scanner, error) {
		file, err := os.Open(filename)
		if err != nil {
			return nil, eris.Wrapf(err, "parser: open %s", filename)
		}
		var scanner osm.Scanner
		if is_pbf {
			scanner = osmpbf.New(ctx, file, runtime.GOMAXPROCS(-1))
		} else {
			scanner = osmxml.New(ctx, file)
		}
		return &_FileScanner{Scanner: scanner, file: file}, nil
	}
}

// XMLScannerFactory reads osm xml held in memory (e.g. an overpass response).
func XMLScannerFactory(data []byte) ScannerFactory {
	return func(ctx context.Context) (osm.Scanner, error) {
		return osmxml.New(ctx, bytes.NewReader(data)), nil
	}
}

func _SkipNodes(scanner osm.Scanner) {
	switch s := scanner.(type) {
	case *osmpbf.Scanner:
		s.SkipNodes = true
		s.SkipRelations = true
	case *_FileScanner:
		_SkipNodes(s.Scanner)
	}
}

func _SkipWays(scanner osm.Scanner) {
	switch s := scanner.(type) {
	case *osmpbf.Scanner:
		s.SkipWays = true
		s.SkipRelations = true
	case *_FileScanner:
		_SkipWays(s.Scanner)
	}
}
