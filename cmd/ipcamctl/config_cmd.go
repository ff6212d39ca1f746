package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/home-assistant-libs/pydroid-ipcam/internal/config"
)

const defaultConfigTemplate = `# ipcamctl configuration
cameras:
  - name: front
    host: 192.168.1.20
    # port: 8080
    # username: admin
    # password: ${IPCAM_PASSWORD}
    ssl: false
    # rpm_limit: 60

poll:
  interval_ms: 10000
  jitter_ms: 2000

logging:
  level: info
  format: console

cache:
  mode: single
  ttl_ms: 5000

health:
  circuit_breaker:
    failure_threshold: 5
    open_duration_ms: 30000
  health_check:
    enabled: true
    interval_ms: 10000

archive:
  enabled: false
  # bucket: my-camera-snapshots
  # region: eu-west-1
  # prefix: snapshots
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Parse the configuration file and check camera definitions, cache, and
archive settings without talking to any camera.`,
	RunE: runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default config file",
	Long:  `Generate a default ipcamctl configuration file at ~/.config/ipcamctl/config.yaml`,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configValidateCmd, configInitCmd)
	configInitCmd.Flags().StringP("output", "o", "", "output path (default: ~/.config/ipcamctl/config.yaml)")
	configInitCmd.Flags().Bool("force", false, "overwrite existing config file")
	rootCmd.AddCommand(configCmd)
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = findConfigFile()
	}

	cfg, err := config.Load(path)
	if err != nil {
		cmd.Printf("✗ Config validation failed: %s\n", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		cmd.Printf("✗ Config validation failed: %s\n", err)
		return err
	}

	cmd.Printf("✓ %s is valid (%d cameras)\n", path, len(cfg.Cameras))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	if output == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		output = filepath.Join(home, ".config", "ipcamctl", defaultConfigFile)
	}

	if _, err := os.Stat(output); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", output)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(output, []byte(defaultConfigTemplate), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cmd.Printf("✓ Config file created at %s\n", output)
	cmd.Println("\nNext steps:")
	cmd.Println("  1. Edit the camera host, credentials, and TLS settings")
	cmd.Println("  2. Validate with: ipcamctl config validate")
	cmd.Println("  3. Check the camera: ipcamctl status")

	return nil
}
