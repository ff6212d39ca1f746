package ipcam

import (
	"fmt"
	"net/url"
)

// VideoCodec identifies a video codec for RTSP streaming.
type VideoCodec string

// Video codecs supported by IP Webcam's RTSP endpoint.
const (
	VideoJPEG VideoCodec = "jpeg"
	VideoH264 VideoCodec = "h264"
)

// AudioCodec identifies an audio codec for RTSP streaming.
type AudioCodec string

// Audio codecs supported by IP Webcam's RTSP endpoint.
const (
	AudioULaw AudioCodec = "ulaw"
	AudioALaw AudioCodec = "alaw"
	AudioPCM  AudioCodec = "pcm"
	AudioOpus AudioCodec = "opus"
	AudioAAC  AudioCodec = "aac"
)

// BaseURL returns the base URL for all HTTP endpoints.
func (c *Client) BaseURL() string {
	scheme := "http"
	if c.useTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.host, c.port)
}

// MJPEGURL returns the motion-JPEG stream URL.
func (c *Client) MJPEGURL() string {
	return c.BaseURL() + "/video"
}

// AudioWAVURL returns the URL that Waveform audio can be streamed from.
func (c *Client) AudioWAVURL() string {
	return c.BaseURL() + "/audio.wav"
}

// AudioAACURL returns the URL that AAC audio can be streamed from.
func (c *Client) AudioAACURL() string {
	return c.BaseURL() + "/audio.aac"
}

// AudioOpusURL returns the URL that Opus audio can be streamed from.
func (c *Client) AudioOpusURL() string {
	return c.BaseURL() + "/audio.opus"
}

// SnapshotURL returns the single-frame JPEG URL.
func (c *Client) SnapshotURL() string {
	return c.BaseURL() + "/shot.jpg"
}

// RTSPURL returns the RTSP URL for the given video and audio codecs.
// Empty codecs default to h264 and opus, the combination recommended by the
// app's developer. Configured credentials are embedded in the URL, since RTSP
// players take them from the URL rather than from headers.
func (c *Client) RTSPURL(video VideoCodec, audio AudioCodec) string {
	if video == "" {
		video = VideoH264
	}
	if audio == "" {
		audio = AudioOpus
	}

	scheme := "rtsp"
	if c.useTLS {
		scheme = "rtsps"
	}

	credentials := ""
	if c.username != "" && c.password != "" {
		credentials = url.UserPassword(c.username, c.password).String() + "@"
	}

	return fmt.Sprintf("%s://%s%s:%d/%s_%s.sdp", scheme, credentials, c.host, c.port, video, audio)
}

// H264URL returns the RTSP URL for h264 video with PCM audio.
func (c *Client) H264URL() string {
	return c.RTSPURL(VideoH264, AudioPCM)
}
