package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/ttpr0/go-siting/access"
	"github.com/ttpr0/go-siting/geo"
	"github.com/ttpr0/go-siting/provider"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

const DEFAULT_CONFIG = "./config.yaml"

// ReadConfig loads an optional .env file, the yaml config and finally
// applies SITING_* environment overrides on top of the defaults.
func ReadConfig(file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", "error", err.Error())
	}
	if env := os.Getenv("SITING_CONFIG"); env != "" && file == DEFAULT_CONFIG {
		file = env
	}

	slog.Info("reading config file", "file", file)
	config := DefaultConfig()
	data, err := os.ReadFile(file)
	if err != nil {
		return config, eris.Wrapf(err, "config: read %s", file)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, eris.Wrapf(err, "config: decode %s", file)
	}
	if err := config.ApplyEnv(); err != nil {
		return config, err
	}
	return config, config.Validate()
}

type Config struct {
	Server ServerOptions    `yaml:"server"`
	Data   DataOptions      `yaml:"data"`
	Region provider.Options `yaml:"region"`
	Engine EngineOptions    `yaml:"engine"`
	Log    struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

type ServerOptions struct {
	Port            int           `yaml:"port"`
	AllowedOrigin   string        `yaml:"allowed-origin"`
	SimulateTimeout time.Duration `yaml:"simulate-timeout"`
}

type DataOptions struct {
	Zones           string `yaml:"zones"`
	ZonesCRS        string `yaml:"zones-crs"`
	PopulationField string `yaml:"population-field"`
}

type EngineOptions struct {
	Strategy string `yaml:"strategy"`
	CRS      string `yaml:"crs"`
	Workers  int    `yaml:"workers"`
}

func DefaultConfig() Config {
	config := Config{
		Server: ServerOptions{
			Port:            8000,
			AllowedOrigin:   "http://localhost:5173",
			SimulateTimeout: 300 * time.Second,
		},
		Data: DataOptions{
			Zones:           "./data/zones.geojson",
			ZonesCRS:        string(geo.WGS84),
			PopulationField: access.POPULATION_PROPERTY,
		},
		Region: provider.Options{
			Source:      provider.SOURCE_FILE,
			Name:        "Helsinki, Finland",
			OverpassURL: "https://overpass-api.de/api/interpreter",
			AreaFilter:  "Helsinki",
			Interval:    time.Second,
			Timeout:     180 * time.Second,
		},
		Engine: EngineOptions{
			Strategy: string(access.MULTI_SOURCE),
			CRS:      string(geo.WEB_MERCATOR),
			Workers:  4,
		},
	}
	config.Log.Level = "info"
	return config
}

func (self *Config) ApplyEnv() error {
	if port := os.Getenv("SITING_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return eris.Wrapf(err, "config: SITING_PORT %q", port)
		}
		self.Server.Port = p
	}
	if origin := os.Getenv("SITING_ALLOWED_ORIGIN"); origin != "" {
		self.Server.AllowedOrigin = origin
	}
	if file := os.Getenv("SITING_OSM_FILE"); file != "" {
		self.Region.OSMFile = file
	}
	if file := os.Getenv("SITING_ZONES_FILE"); file != "" {
		self.Data.Zones = file
	}
	if level := os.Getenv("SITING_LOG_LEVEL"); level != "" {
		self.Log.Level = level
	}
	return nil
}

func (self Config) Validate() error {
	if self.Server.Port <= 0 || self.Server.Port > 65535 {
		return eris.Errorf("config: invalid port %v", self.Server.Port)
	}
	if self.Server.SimulateTimeout <= 0 {
		return eris.Errorf("config: simulate-timeout must be positive")
	}
	if _, err := access.ParseStrategy(self.Engine.Strategy); err != nil {
		return err
	}
	crs, err := geo.ParseCRS(self.Engine.CRS)
	if err != nil {
		return err
	}
	if !crs.IsProjected() {
		return eris.Wrapf(geo.ErrUnsupportedCRS, "config: engine crs %v is not projected", crs)
	}
	if _, err := geo.ParseCRS(self.Data.ZonesCRS); err != nil {
		return err
	}
	if _, err := ParseLogLevel(self.Log.Level); err != nil {
		return err
	}
	return nil
}
