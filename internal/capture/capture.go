/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/

// Package capture listens for conntrack events and turns them into flow
// records for the live-flows API and the export sink.
package capture

import (
	"context"
	"log/slog"
	"syscall"

	"github.com/mdlayher/netlink"
	"github.com/ti-mo/conntrack"
	"github.com/ti-mo/netfilter"
	"golang.org/x/sync/errgroup"

	"github.com/tschaefer/flowlens/internal/filters"
	"github.com/tschaefer/flowlens/internal/flow"
	"github.com/tschaefer/flowlens/internal/geoip"
	"github.com/tschaefer/flowlens/internal/match"
	"github.com/tschaefer/flowlens/internal/sink"
)

type Capture struct {
	Filter filters.FilterGroup
	Geo    *geoip.Reader
	Store  *flow.Store
	Sink   *sink.Sink
}

func New(store *flow.Store, geo *geoip.Reader, filter filters.FilterGroup, s *sink.Sink) *Capture {
	return &Capture{
		Filter: filter,
		Geo:    geo,
		Store:  store,
		Sink:   s,
	}
}

func (c *Capture) Run(ctx context.Context) error {
	slog.Info("Starting conntrack listener.")

	con, err := c.setupConntrack()
	if err != nil {
		return err
	}
	defer func() {
		_ = con.Close()
	}()

	evCh, errCh, err := c.startEventListener(con)
	if err != nil {
		return err
	}

	g := c.startEventProcessor(ctx, evCh)

	return c.handleShutdown(ctx, con, g, errCh)
}

func (c *Capture) setupConntrack() (*conntrack.Conn, error) {
	con, err := conntrack.Dial(nil)
	if err != nil {
		slog.Error("Failed to dial conntrack.", "error", err)
		return nil, err
	}

	if err := con.SetOption(netlink.ListenAllNSID|netlink.NoENOBUFS, true); err != nil {
		_ = con.Close()
		slog.Error("Failed to set conntrack listen options.", "error", err)
		return nil, err
	}

	return con, nil
}

func (c *Capture) startEventListener(con *conntrack.Conn) (chan conntrack.Event, chan error, error) {
	evCh := make(chan conntrack.Event, 1024)
	errCh, err := con.Listen(evCh, 4, netfilter.GroupsCT)
	if err != nil {
		slog.Error("Failed to listen to conntrack events.", "error", err)
		return nil, nil, err
	}

	return evCh, errCh, nil
}

func (c *Capture) startEventProcessor(ctx context.Context, evCh chan conntrack.Event) *errgroup.Group {
	var g errgroup.Group
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-evCh:
				if !ok {
					return nil
				}
				go c.processEvent(event)
			}
		}
	})
	return &g
}

func (c *Capture) processEvent(event conntrack.Event) {
	// Only process TCP and UDP events, ignore all other protocols (ICMP, etc.)
	protocol := event.Flow.TupleOrig.Proto.Protocol
	if protocol != syscall.IPPROTO_TCP && protocol != syscall.IPPROTO_UDP {
		return
	}

	record := toRecord(event)
	flow.Enrich(record, c.Geo)

	if !match.Matches(c.Filter, record) {
		return
	}

	c.Store.Add(record)
	if c.Sink != nil {
		export(record, c.Sink.Logger)
	}
}

func (c *Capture) handleShutdown(ctx context.Context, con *conntrack.Conn, g *errgroup.Group, errCh chan error) error {
	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Conntrack listener error.", "error", err)
		}
		_ = con.Close()
		if gErr := g.Wait(); gErr != nil {
			slog.Error("Event loop returned error during shutdown.", "error", gErr)
		}
		return err
	case <-ctx.Done():
		slog.Info("Shutting down conntrack listener.")
		_ = con.Close()
		if gErr := g.Wait(); gErr != nil {
			slog.Error("Event loop returned error during shutdown.", "error", gErr)
		}
		return nil
	}
}
