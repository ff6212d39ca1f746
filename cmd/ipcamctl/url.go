package main

import (
	"github.com/spf13/cobra"

	ipcam "github.com/home-assistant-libs/pydroid-ipcam"
)

var (
	urlVideoCodec string
	urlAudioCodec string
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the camera's stream URLs",
	Long: `Print the URLs for the camera's video and audio streams, for use with
players like mpv or VLC. No request is made to the camera.`,
	RunE: runURL,
}

func init() {
	urlCmd.Flags().StringVar(&urlVideoCodec, "video", string(ipcam.VideoH264),
		"RTSP video codec (jpeg, h264)")
	urlCmd.Flags().StringVar(&urlAudioCodec, "audio", string(ipcam.AudioOpus),
		"RTSP audio codec (ulaw, alaw, pcm, opus, aac)")
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, _ []string) error {
	client, _, err := cameraClient()
	if err != nil {
		return err
	}

	cmd.Printf("  %-10s %s\n", "mjpeg", client.MJPEGURL())
	cmd.Printf("  %-10s %s\n", "snapshot", client.SnapshotURL())
	cmd.Printf("  %-10s %s\n", "rtsp", client.RTSPURL(
		ipcam.VideoCodec(urlVideoCodec), ipcam.AudioCodec(urlAudioCodec)))
	cmd.Printf("  %-10s %s\n", "audio wav", client.AudioWAVURL())
	cmd.Printf("  %-10s %s\n", "audio aac", client.AudioAACURL())
	cmd.Printf("  %-10s %s\n", "audio opus", client.AudioOpusURL())
	return nil
}
