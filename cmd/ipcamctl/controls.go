package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var recordTag string

var torchCmd = &cobra.Command{
	Use:   "torch on|off",
	Short: "Toggle the camera LED torch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		client, _, err := cameraClient()
		if err != nil {
			return err
		}
		return client.Torch(cmd.Context(), on)
	},
}

var focusCmd = &cobra.Command{
	Use:   "focus on|off",
	Short: "Trigger or release camera focus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		client, _, err := cameraClient()
		if err != nil {
			return err
		}
		return client.Focus(cmd.Context(), on)
	},
}

var recordCmd = &cobra.Command{
	Use:   "record start|stop",
	Short: "Start or stop video recording on the device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var on bool
		switch args[0] {
		case "start":
			on = true
		case "stop":
			on = false
		default:
			return fmt.Errorf("expected start or stop, got %q", args[0])
		}
		client, _, err := cameraClient()
		if err != nil {
			return err
		}
		return client.Record(cmd.Context(), on, recordTag)
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a camera setting",
	Long: `Change any setting the camera exposes, e.g.:

  ipcamctl set torch on
  ipcamctl set quality 75
  ipcamctl set video_size 1920x1080

Values on/off and true/false are sent as toggles, plain numbers as numbers,
anything else as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	recordCmd.Flags().StringVar(&recordTag, "tag", "", "tag recorded video files")
	rootCmd.AddCommand(torchCmd, focusCmd, recordCmd, setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	client, cam, err := cameraClient()
	if err != nil {
		return err
	}

	key, raw := args[0], args[1]
	if err := client.ChangeSetting(cmd.Context(), key, parseSettingValue(raw)); err != nil {
		return err
	}
	cmd.Printf("camera %s: %s = %s\n", cam.Name, key, raw)
	return nil
}

// parseOnOff parses an on/off argument.
func parseOnOff(arg string) (bool, error) {
	switch arg {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", arg)
	}
}

// parseSettingValue turns a CLI argument into the value type the camera
// expects: toggles for on/off, numbers for digits, strings otherwise.
func parseSettingValue(raw string) any {
	switch raw {
	case "on", "true":
		return true
	case "off", "false":
		return false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
