package tlgmodels

// Device is a registered sensor device. Devices are provisioned out-of-band.
type Device struct {
	DeviceID  string `json:"deviceId"`
	Name      string `json:"name,omitempty"`
	Location  string `json:"location,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}
