package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	ipcam "github.com/home-assistant-libs/pydroid-ipcam"
)

var sensorsCmd = &cobra.Command{
	Use:   "sensors [name]",
	Short: "List camera sensors or show one sensor's readings",
	Long: `Without arguments, list every enabled sensor with its latest value and
unit. With a sensor name, print that sensor's buffered readings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSensors,
}

func init() {
	rootCmd.AddCommand(sensorsCmd)
}

func runSensors(cmd *cobra.Command, args []string) error {
	client, cam, err := cameraClient()
	if err != nil {
		return err
	}

	if err := client.Update(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reach camera %q: %w", cam.Name, err)
	}

	if len(args) == 1 {
		return printSensor(cmd, client, args[0])
	}
	return printSensorList(cmd, client)
}

// printSensorList shows every enabled sensor with its latest value.
func printSensorList(cmd *cobra.Command, client *ipcam.Client) error {
	names, err := client.EnabledSensors()
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		value, err := client.SensorValue(name)
		if errors.Is(err, ipcam.ErrNoReadings) {
			cmd.Printf("  %-24s (no readings)\n", name)
			continue
		}
		if err != nil {
			return err
		}
		unit, err := client.SensorUnit(name)
		if err != nil {
			return err
		}
		cmd.Printf("  %-24s %g %s\n", name, value, unit)
	}
	return nil
}

// printSensor shows the buffered reading history of one sensor.
func printSensor(cmd *cobra.Command, client *ipcam.Client, name string) error {
	sensor, err := client.Sensor(name)
	if err != nil {
		return err
	}

	cmd.Printf("%s (%s)\n", sensor.Name, sensor.Unit)
	for _, reading := range sensor.Readings {
		cmd.Printf("  %s %v\n", reading.At.Format("15:04:05.000"), reading.Values)
	}
	return nil
}
