/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tschaefer/flowlens/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "flowlens",
	Short: "Network flow observability dashboard",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		cobra.CheckErr(config.InitConfig(cfgFile))
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default /etc/flowlens/flowlens.{yaml,json,toml})")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
