package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ttpr0/go-siting/access"
	. "github.com/ttpr0/go-siting/util"
	"golang.org/x/exp/slog"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var config_file string
	root := &cobra.Command{
		Use:          "siting",
		Short:        "Hospital siting service scoring underserved zones by road distance",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&config_file, "config", DEFAULT_CONFIG, "path to the yaml config")

	load := func() (Config, error) {
		config, err := ReadConfig(config_file)
		if err != nil {
			return config, err
		}
		return config, SetupLogging(os.Stderr, config.Log.Level)
	}
	root.AddCommand(newServeCommand(load), newScoreCommand(load))
	return root
}

//**********************************************************
// serve
//**********************************************************

func newServeCommand(load func() (Config, error)) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := load()
			if err != nil {
				return err
			}
			if port > 0 {
				config.Server.Port = port
			}
			manager, err := NewSitingManager(config, access.NewMetrics())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, manager, config)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "port overriding the config")
	return cmd
}

// Serve runs the http server until ctx is cancelled.
func Serve(ctx context.Context, manager *SitingManager, config Config) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%v", config.Server.Port),
		Handler:           NewRouter(manager, config.Server.AllowedOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", server.Addr, "origin", config.Server.AllowedOrigin)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

//**********************************************************
// score
//**********************************************************

func newScoreCommand(load func() (Config, error)) *cobra.Command {
	var lat, lng float64
	var out string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Simulate one candidate hospital and write the scored zones as GeoJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := load()
			if err != nil {
				return err
			}
			manager, err := NewSitingManager(config, access.NewUnregisteredMetrics())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), config.Server.SimulateTimeout)
			defer cancel()
			fc, err := manager.Simulator().Simulate(ctx, access.CandidateSite{Lat: lat, Lng: lng})
			if err != nil {
				return err
			}
			if out == "" {
				return WriteJSON(fc, cmd.OutOrStdout())
			}
			return WriteJSONToFile(fc, out)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the candidate site")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude of the candidate site")
	cmd.Flags().StringVar(&out, "out", "", "output file, stdout if empty")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lng")
	return cmd
}
