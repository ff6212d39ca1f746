package ipcam

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Settings holds coerced camera settings. Numeric strings become float64,
// "on"/"off" become bool, everything else stays string.
type Settings map[string]any

// Bool returns the setting as a bool. The second return reports whether the
// key exists and holds a bool.
func (s Settings) Bool(key string) (bool, bool) {
	v, ok := s[key].(bool)
	return v, ok
}

// Float returns the setting as a float64. The second return reports whether
// the key exists and holds a number.
func (s Settings) Float(key string) (float64, bool) {
	v, ok := s[key].(float64)
	return v, ok
}

// String returns the setting as a string. The second return reports whether
// the key exists and holds a string.
func (s Settings) String(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok
}

// Update fetches the latest status and sensor documents from the camera.
// On failure, previously fetched documents are kept.
func (c *Client) Update(ctx context.Context) error {
	statusBody, err := c.get(ctx, "/status.json?show_avail=1")
	if err != nil {
		return fmt.Errorf("fetch status: %w", err)
	}
	if !gjson.ValidBytes(statusBody) {
		return fmt.Errorf("ipcam: malformed status document")
	}

	sensorsBody, err := c.get(ctx, "/sensors.json")
	if err != nil {
		return fmt.Errorf("fetch sensors: %w", err)
	}
	if !gjson.ValidBytes(sensorsBody) {
		return fmt.Errorf("ipcam: malformed sensor document")
	}

	c.mu.Lock()
	c.statusDoc = string(statusBody)
	c.sensorsDoc = string(sensorsBody)
	c.updated = true
	c.mu.Unlock()

	return nil
}

// CurrentSettings returns all current camera settings, coerced.
func (c *Client) CurrentSettings() (Settings, error) {
	doc, err := c.status()
	if err != nil {
		return nil, err
	}

	settings := Settings{}
	gjson.Get(doc, "curvals").ForEach(func(key, value gjson.Result) bool {
		settings[key.String()] = coerceSetting(value.String())
		return true
	})

	return settings, nil
}

// AvailableSettings returns, for each setting, the values the camera accepts.
// Elements are coerced the same way as CurrentSettings values.
func (c *Client) AvailableSettings() (map[string][]any, error) {
	doc, err := c.status()
	if err != nil {
		return nil, err
	}

	available := map[string][]any{}
	gjson.Get(doc, "avail").ForEach(func(key, value gjson.Result) bool {
		var vals []any
		value.ForEach(func(_, item gjson.Result) bool {
			vals = append(vals, coerceSetting(item.String()))
			return true
		})
		available[key.String()] = vals
		return true
	})

	return available, nil
}

// EnabledSettings returns the setting keys present in the status document,
// in document order.
func (c *Client) EnabledSettings() ([]string, error) {
	doc, err := c.status()
	if err != nil {
		return nil, err
	}

	var keys []string
	gjson.Get(doc, "curvals").ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})

	return keys, nil
}

// status returns the raw status document, or ErrNotUpdated before the first
// successful Update.
func (c *Client) status() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.updated {
		return "", ErrNotUpdated
	}
	return c.statusDoc, nil
}

// coerceSetting converts a wire value to its natural Go type.
// The camera reports every value as a string.
func coerceSetting(raw string) any {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch raw {
	case "on":
		return true
	case "off":
		return false
	}
	return raw
}
