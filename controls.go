package ipcam

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/samber/lo"
)

// Orientation identifies a video orientation.
type Orientation string

// Orientations understood by the camera.
const (
	OrientationLandscape          Orientation = "landscape"
	OrientationUpsideDown         Orientation = "upsidedown"
	OrientationPortrait           Orientation = "portrait"
	OrientationUpsideDownPortrait Orientation = "upsidedown_portrait"
)

var allowedOrientations = []Orientation{
	OrientationLandscape,
	OrientationUpsideDown,
	OrientationPortrait,
	OrientationUpsideDownPortrait,
}

// ChangeSetting changes a single camera setting. Booleans are sent as
// "on"/"off", numbers and strings verbatim.
func (c *Client) ChangeSetting(ctx context.Context, key string, value any) error {
	return c.command(ctx, "/settings/"+url.PathEscape(key)+"?set="+url.QueryEscape(settingPayload(value)))
}

// settingPayload renders a setting value in the camera's wire format.
func settingPayload(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "on"
		}
		return "off"
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Torch switches the torch (flashlight) on or off.
func (c *Client) Torch(ctx context.Context, on bool) error {
	path := "/disabletorch"
	if on {
		path = "/enabletorch"
	}
	return c.command(ctx, path)
}

// Focus switches camera focus on or off.
func (c *Client) Focus(ctx context.Context, on bool) error {
	path := "/nofocus"
	if on {
		path = "/focus"
	}
	return c.command(ctx, path)
}

// Record starts or stops video recording. A non-empty tag names the
// recording when starting; it is ignored when stopping.
func (c *Client) Record(ctx context.Context, on bool, tag string) error {
	path := "/stopvideo?force=1"
	if on {
		path = "/startvideo?force=1"
		if tag != "" {
			path += "&tag=" + url.QueryEscape(tag)
		}
	}
	return c.command(ctx, path)
}

// SetFrontFacingCamera switches between the back and front camera.
func (c *Client) SetFrontFacingCamera(ctx context.Context, on bool) error {
	return c.ChangeSetting(ctx, "ffc", on)
}

// SetNightVision switches night vision on or off.
func (c *Client) SetNightVision(ctx context.Context, on bool) error {
	return c.ChangeSetting(ctx, "night_vision", on)
}

// SetOverlay switches the video overlay on or off.
func (c *Client) SetOverlay(ctx context.Context, on bool) error {
	return c.ChangeSetting(ctx, "overlay", on)
}

// SetGPSActive switches GPS on or off.
func (c *Client) SetGPSActive(ctx context.Context, on bool) error {
	return c.ChangeSetting(ctx, "gps_active", on)
}

// SetMotionDetect switches motion detection on or off.
func (c *Client) SetMotionDetect(ctx context.Context, on bool) error {
	return c.ChangeSetting(ctx, "motion_detect", on)
}

// SetQuality sets the JPEG video quality (0-100).
func (c *Client) SetQuality(ctx context.Context, quality int) error {
	return c.ChangeSetting(ctx, "quality", quality)
}

// SetOrientation sets the video orientation.
func (c *Client) SetOrientation(ctx context.Context, orientation Orientation) error {
	if !lo.Contains(allowedOrientations, orientation) {
		return InvalidOrientationError{Orientation: orientation}
	}
	return c.ChangeSetting(ctx, "orientation", string(orientation))
}

// SetZoom sets the zoom level through the camera's PTZ endpoint.
func (c *Client) SetZoom(ctx context.Context, zoom int) error {
	return c.command(ctx, "/settings/ptz?zoom="+strconv.Itoa(zoom))
}

// SetSceneMode sets the video scene mode. The mode is validated against the
// scene modes the camera advertises, so Update must have run first.
func (c *Client) SetSceneMode(ctx context.Context, mode string) error {
	available, err := c.AvailableSettings()
	if err != nil {
		return err
	}

	modes, ok := available["scenemode"]
	if !ok || !lo.Contains(modes, any(mode)) {
		return InvalidSceneModeError{Mode: mode}
	}

	return c.ChangeSetting(ctx, "scenemode", mode)
}
