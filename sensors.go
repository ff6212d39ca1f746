package ipcam

import (
	"time"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// Reading is a single timestamped sensor measurement. Multi-axis sensors
// (e.g. the accelerometer) report several values per reading.
type Reading struct {
	At     time.Time
	Values []float64
}

// Sensor is one sensor node from the camera's sensor document.
type Sensor struct {
	Name     string
	Unit     string
	Readings []Reading
}

// Latest returns the most recent reading, if any.
func (s Sensor) Latest() (Reading, bool) {
	if len(s.Readings) == 0 {
		return Reading{}, false
	}
	return s.Readings[len(s.Readings)-1], true
}

// EnabledSensors returns the names of the sensors the camera reports,
// in document order.
func (c *Client) EnabledSensors() ([]string, error) {
	doc, err := c.sensors()
	if err != nil {
		return nil, err
	}

	var names []string
	gjson.Parse(doc).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})

	return names, nil
}

// Sensor returns the full reading history for one sensor.
func (c *Client) Sensor(name string) (Sensor, error) {
	doc, err := c.sensors()
	if err != nil {
		return Sensor{}, err
	}

	node := gjson.Get(doc, name)
	if !node.Exists() {
		return Sensor{}, ErrSensorNotFound
	}

	sensor := Sensor{
		Name: name,
		Unit: node.Get("unit").String(),
	}

	// Wire format: "data": [[timestamp_ms, [v1, v2, ...]], ...]
	node.Get("data").ForEach(func(_, entry gjson.Result) bool {
		parts := entry.Array()
		if len(parts) != 2 {
			return true
		}
		sensor.Readings = append(sensor.Readings, Reading{
			At: time.UnixMilli(parts[0].Int()),
			Values: lo.Map(parts[1].Array(), func(v gjson.Result, _ int) float64 {
				return v.Float()
			}),
		})
		return true
	})

	return sensor, nil
}

// SensorValue returns the first value of the latest reading for a sensor.
// This matches how IP Webcam itself displays single-value sensors.
func (c *Client) SensorValue(name string) (float64, error) {
	sensor, err := c.Sensor(name)
	if err != nil {
		return 0, err
	}

	latest, ok := sensor.Latest()
	if !ok || len(latest.Values) == 0 {
		return 0, ErrNoReadings
	}

	return latest.Values[0], nil
}

// SensorUnit returns the unit string for a sensor.
func (c *Client) SensorUnit(name string) (string, error) {
	doc, err := c.sensors()
	if err != nil {
		return "", err
	}

	node := gjson.Get(doc, name)
	if !node.Exists() {
		return "", ErrSensorNotFound
	}

	return node.Get("unit").String(), nil
}

// sensors returns the raw sensor document, or ErrNotUpdated before the first
// successful Update.
func (c *Client) sensors() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.updated {
		return "", ErrNotUpdated
	}
	return c.sensorsDoc, nil
}
