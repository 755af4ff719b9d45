/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/tschaefer/flowlens/internal/config"
	"github.com/tschaefer/flowlens/internal/logger"
	"github.com/tschaefer/flowlens/internal/loki"
	"github.com/tschaefer/flowlens/internal/sink"
)

var syslogNetworks = []string{"udp", "tcp", "unix", "unixgram", "unixpacket"}

func validateConfig(cfg *config.Config) error {
	if err := validateLogLevel(cfg.Log.Level); err != nil {
		return err
	}
	if err := validateLokiAddress("loki.address", cfg.Loki.Address); err != nil {
		return err
	}
	if cfg.Sink.Loki.Enable {
		if err := validateLokiAddress("sink.loki.address", cfg.Sink.Loki.Address); err != nil {
			return err
		}
	}
	if cfg.Sink.Syslog.Enable {
		if err := validateSyslogAddress(cfg.Sink.Syslog.Address); err != nil {
			return err
		}
	}
	if cfg.Sink.Stream.Enable {
		if err := validateStreamWriter(cfg.Sink.Stream.Writer); err != nil {
			return err
		}
	}
	return nil
}

func validateLogLevel(value string) error {
	if !slices.Contains(logger.Levels, value) {
		return fmt.Errorf("log.level: unknown level %q, expected one of %s", value, strings.Join(logger.Levels, ", "))
	}
	return nil
}

func validateLokiAddress(name, value string) error {
	uri, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !slices.Contains(loki.Protocols, uri.Scheme) {
		return fmt.Errorf("%s: unsupported protocol %q", name, uri.Scheme)
	}
	if uri.Host == "" {
		return fmt.Errorf("%s: missing host in %q", name, value)
	}
	return nil
}

func validateSyslogAddress(value string) error {
	uri, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("sink.syslog.address: %w", err)
	}
	if !slices.Contains(syslogNetworks, uri.Scheme) {
		return fmt.Errorf("sink.syslog.address: unsupported network %q", uri.Scheme)
	}
	if strings.HasPrefix(uri.Scheme, "unix") {
		if uri.Path == "" {
			return fmt.Errorf("sink.syslog.address: missing socket path in %q", value)
		}
	} else if uri.Host == "" {
		return fmt.Errorf("sink.syslog.address: missing host in %q", value)
	}
	return nil
}

func validateStreamWriter(value string) error {
	if !slices.Contains(sink.StreamWriters, value) {
		return fmt.Errorf("sink.stream.writer: unknown writer %q, expected one of %s", value, strings.Join(sink.StreamWriters, ", "))
	}
	return nil
}
