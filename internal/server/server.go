/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/

// Package server hosts the dashboard API and the static web bundle.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tschaefer/flowlens/internal/config"
	"github.com/tschaefer/flowlens/internal/flow"
	"github.com/tschaefer/flowlens/internal/loki"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg    *config.Config
	store  *flow.Store
	client *loki.Client
	http   *http.Server
}

func New(cfg *config.Config, store *flow.Store, client *loki.Client) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		client: client,
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Run serves until the context is cancelled. With a certificate and key
// configured the listener speaks TLS 1.2 or newer only.
func (s *Server) Run(ctx context.Context) error {
	secure := s.cfg.Server.CertFile != "" && s.cfg.Server.KeyFile != ""
	if secure {
		s.http.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting dashboard server.", "addr", s.http.Addr, "tls", secure)

		var err error
		if secure {
			err = s.http.ListenAndServeTLS(s.cfg.Server.CertFile, s.cfg.Server.KeyFile)
		} else {
			err = s.http.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down dashboard server.")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
