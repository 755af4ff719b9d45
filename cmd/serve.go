/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/tschaefer/flowlens/internal/capture"
	"github.com/tschaefer/flowlens/internal/config"
	"github.com/tschaefer/flowlens/internal/filters"
	"github.com/tschaefer/flowlens/internal/flow"
	"github.com/tschaefer/flowlens/internal/geoip"
	"github.com/tschaefer/flowlens/internal/logger"
	"github.com/tschaefer/flowlens/internal/loki"
	"github.com/tschaefer/flowlens/internal/profiler"
	"github.com/tschaefer/flowlens/internal/server"
	"github.com/tschaefer/flowlens/internal/sink"
)

var profilerAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the flowlens dashboard service",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			cobra.CheckErr(fmt.Sprintf("Failed to load config: %v", err))
		}

		if err := validateConfig(cfg); err != nil {
			cobra.CheckErr(fmt.Sprintf("Invalid config: %v", err))
		}

		l, err := logger.NewLogger(cfg.Log.Level)
		if err != nil {
			cobra.CheckErr(fmt.Sprintf("Failed to create logger: %v", err))
		}
		slog.SetDefault(l.Logger)

		if profilerAddress != "" {
			p := profiler.NewProfiler(profilerAddress)
			if err := p.Start(); err != nil {
				cobra.CheckErr(fmt.Sprintf("Failed to start profiler: %v", err))
			}
			defer func() {
				_ = p.Stop()
			}()
		}

		client, err := loki.NewClient(cfg.Loki.Address)
		if err != nil {
			cobra.CheckErr(fmt.Sprintf("Failed to create loki client: %v", err))
		}

		store := flow.NewStore(cfg.Capture.StoreSize)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)

		if cfg.Capture.Enable {
			c, closer, err := buildCapture(cfg, store)
			if err != nil {
				cobra.CheckErr(fmt.Sprintf("Failed to set up capture: %v", err))
			}
			if closer != nil {
				defer closer()
			}

			g.Go(func() error {
				return c.Run(ctx)
			})
		}

		srv := server.New(cfg, store, client)
		g.Go(func() error {
			return srv.Run(ctx)
		})

		if err := g.Wait(); err != nil {
			slog.Error("Service failed.", "error", err)
			os.Exit(1)
		}
	},
}

func buildCapture(cfg *config.Config, store *flow.Store) (*capture.Capture, func(), error) {
	var geo *geoip.Reader
	var closer func()
	if cfg.GeoIP.Database != "" {
		var err error
		geo, err = geoip.Open(cfg.GeoIP.Database)
		if err != nil {
			return nil, nil, err
		}
		closer = func() {
			_ = geo.Close()
		}
	}

	group, err := filters.Parse(cfg.Capture.Filter)
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, nil, err
	}

	var s *sink.Sink
	if cfg.Sink.Journal.Enable || cfg.Sink.Syslog.Enable ||
		cfg.Sink.Loki.Enable || cfg.Sink.Stream.Enable {
		s, err = sink.NewSink(&sink.Config{
			Journal: sink.Journal{Enable: cfg.Sink.Journal.Enable},
			Syslog:  sink.Syslog{Enable: cfg.Sink.Syslog.Enable, Address: cfg.Sink.Syslog.Address},
			Loki:    sink.Loki{Enable: cfg.Sink.Loki.Enable, Address: cfg.Sink.Loki.Address, Labels: cfg.Sink.Loki.Labels},
			Stream:  sink.Stream{Enable: cfg.Sink.Stream.Enable, Writer: cfg.Sink.Stream.Writer},
		})
		if err != nil {
			if closer != nil {
				closer()
			}
			return nil, nil, err
		}
	}

	return capture.New(store, geo, group, s), closer, nil
}

func init() {
	serveCmd.CompletionOptions.SetDefaultShellCompDirective(cobra.ShellCompDirectiveNoFileComp)

	serveCmd.Flags().String("log.level", "info", fmt.Sprintf("Log level (%s)", strings.Join(logger.Levels, ", ")))
	_ = serveCmd.RegisterFlagCompletionFunc("log.level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return logger.Levels, cobra.ShellCompDirectiveNoFileComp
	})
	_ = viper.BindPFlag("log.level", serveCmd.Flags().Lookup("log.level"))

	serveCmd.Flags().String("server.host", "", "Listen host")
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("server.host"))

	serveCmd.Flags().Int("server.port", 9001, "Listen port")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("server.port"))

	serveCmd.Flags().String("loki.address", "http://localhost:3100", "Loki query address")
	_ = viper.BindPFlag("loki.address", serveCmd.Flags().Lookup("loki.address"))

	serveCmd.Flags().Bool("capture.enable", false, "Enable the conntrack capture")
	_ = viper.BindPFlag("capture.enable", serveCmd.Flags().Lookup("capture.enable"))

	serveCmd.Flags().String("capture.filter", "", "Percent-encoded capture filter expression")
	_ = viper.BindPFlag("capture.filter", serveCmd.Flags().Lookup("capture.filter"))

	serveCmd.Flags().String("geoip.database", "", "Path to GeoIP database")
	_ = viper.BindPFlag("geoip.database", serveCmd.Flags().Lookup("geoip.database"))

	serveCmd.Flags().StringVar(&profilerAddress, "profiler.address", "", "Pyroscope server address")
}
