// Package main is the entry point for ipcamctl.
package main

import (
	"context"
	"os"

	"charm.land/fang/v2"
	"github.com/spf13/cobra"
)

const (
	defaultConfigFile = "config.yaml"
)

var (
	cfgFile    string
	cameraName string
)

var rootCmd = &cobra.Command{
	Use:   "ipcamctl",
	Short: "Control Android IP Webcam cameras",
	Long: `ipcamctl talks to Android devices running the IP Webcam app over their
HTTP API: read status and sensors, grab snapshots, toggle the torch and
other settings, and monitor a fleet of cameras continuously.`,
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file path (default: ./"+defaultConfigFile+" or ~/.config/ipcamctl/"+defaultConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&cameraName, "camera", "",
		"camera name from the config (default: the only configured camera)")
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}
