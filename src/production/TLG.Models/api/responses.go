package api_models

// AuthResponse is returned by a successful POST /auth
type AuthResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the body of every error envelope
type ErrorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// SensorStatus is returned by GET /sensors
type SensorStatus struct {
	Temperature string `json:"temperature"`
}
