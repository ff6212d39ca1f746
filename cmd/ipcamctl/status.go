package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	ipcam "github.com/home-assistant-libs/pydroid-ipcam"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the camera's current settings",
	Long: `Fetch the camera status and print every current setting, marking the
ones that can be changed with the set command.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	client, cam, err := cameraClient()
	if err != nil {
		return err
	}

	if err := client.Update(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reach camera %q: %w", cam.Name, err)
	}

	settings, err := client.CurrentSettings()
	if err != nil {
		return err
	}

	if statusJSON {
		doc, err := statusDoc(cam.Name, settings)
		if err != nil {
			return err
		}
		cmd.Println(doc)
		return nil
	}

	cmd.Printf("camera %s (%s)\n", cam.Name, client.BaseURL())
	for _, key := range sortedKeys(settings) {
		cmd.Printf("  %-24s %v\n", key, settings[key])
	}
	return nil
}

// statusDoc renders settings as a JSON document.
func statusDoc(camera string, settings ipcam.Settings) (string, error) {
	doc, err := sjson.Set("{}", "camera", camera)
	if err != nil {
		return "", err
	}
	for _, key := range sortedKeys(settings) {
		doc, err = sjson.Set(doc, "settings."+key, settings[key])
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func sortedKeys(settings ipcam.Settings) []string {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
