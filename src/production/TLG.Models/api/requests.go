package api_models

// PostAuthBody is the body of POST /auth
type PostAuthBody struct {
	Password string `json:"password" binding:"required"`
}

// PostSensorsBody is the body of POST /sensors
type PostSensorsBody struct {
	DeviceID    string   `json:"deviceId" binding:"required,uuid"`
	Temperature *float64 `json:"temperature"`
}

// PostTemperatureBody is the body of POST /temperature
type PostTemperatureBody struct {
	DeviceID  string   `json:"deviceId" binding:"required,max=128"`
	Timestamp *int64   `json:"timestamp" binding:"required,gte=0"`
	Celsius   *float64 `json:"celsius" binding:"required"`
}

// GetTemperatureQuery is the query string of GET /temperature
type GetTemperatureQuery struct {
	DeviceID string `form:"deviceId" binding:"required,max=128"`
	From     *int64 `form:"from" binding:"required,gte=0"`
	To       *int64 `form:"to" binding:"required,gte=0"`
}
