/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the typed view of the viper configuration tree.
type Config struct {
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Server struct {
		Host      string `mapstructure:"host"`
		Port      int    `mapstructure:"port"`
		CertFile  string `mapstructure:"cert_file"`
		KeyFile   string `mapstructure:"key_file"`
		StaticDir string `mapstructure:"static_dir"`
	} `mapstructure:"server"`
	Loki struct {
		Address  string   `mapstructure:"address"`
		Selector string   `mapstructure:"selector"`
		Labels   []string `mapstructure:"labels"`
	} `mapstructure:"loki"`
	Capture struct {
		Enable    bool   `mapstructure:"enable"`
		StoreSize int    `mapstructure:"store_size"`
		Filter    string `mapstructure:"filter"`
	} `mapstructure:"capture"`
	GeoIP struct {
		Database string `mapstructure:"database"`
	} `mapstructure:"geoip"`
	Sink struct {
		Journal struct {
			Enable bool `mapstructure:"enable"`
		} `mapstructure:"journal"`
		Syslog struct {
			Enable  bool   `mapstructure:"enable"`
			Address string `mapstructure:"address"`
		} `mapstructure:"syslog"`
		Loki struct {
			Enable  bool     `mapstructure:"enable"`
			Address string   `mapstructure:"address"`
			Labels  []string `mapstructure:"labels"`
		} `mapstructure:"loki"`
		Stream struct {
			Enable bool   `mapstructure:"enable"`
			Writer string `mapstructure:"writer"`
		} `mapstructure:"stream"`
	} `mapstructure:"sink"`
}

// InitConfig initializes the configuration using Viper.
// It reads from the specified config file or defaults to
// /etc/flowlens/flowlens.{yaml,json,toml}.
// Environment variables with the prefix FLOWLENS_ can override config values.
func InitConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("flowlens")
		viper.AddConfigPath("/etc/flowlens/")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FLOWLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				return fmt.Errorf("config file not found: %w", err)
			}
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Load unmarshals the viper tree into a typed Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("server.host", "")
	viper.SetDefault("server.port", 9001)
	viper.SetDefault("server.static_dir", "web/dist")
	viper.SetDefault("loki.address", "http://localhost:3100")
	viper.SetDefault("loki.selector", `app="flowlens"`)
	viper.SetDefault("capture.store_size", 4096)
	viper.SetDefault("sink.stream.writer", "stdout")
	viper.SetDefault("sink.loki.address", "http://localhost:3100")
}
