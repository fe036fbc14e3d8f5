package tlgmodels

// Logical table names. The physical name is {app}-{stage}-{logical}.
const (
	TableDevices     = "devices"
	TableTemperature = "temperature"
	TableHumidity    = "humidity"
)

// Key attribute names shared by every table
const (
	AttrDeviceID  = "deviceId"
	AttrTimestamp = "timestamp"
)

// OutsideDeviceID is the reserved device identifier for readings pulled from the weather API
const OutsideDeviceID = "outside"
