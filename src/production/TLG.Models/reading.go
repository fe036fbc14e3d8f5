package tlgmodels

// Temperature is a single temperature reading. Timestamp is epoch milliseconds.
type Temperature struct {
	DeviceID  string  `json:"deviceId"`
	Timestamp int64   `json:"timestamp"`
	Celsius   float64 `json:"celsius"`
}

// Humidity is a single relative humidity reading in percent
type Humidity struct {
	DeviceID  string  `json:"deviceId"`
	Timestamp int64   `json:"timestamp"`
	Humidity  float64 `json:"humidity"`
}
