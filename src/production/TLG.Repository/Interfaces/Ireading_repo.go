package interfaces

import (
	"context"

	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
)

// ReadingRange selects readings of one device between two inclusive timestamps
type ReadingRange struct {
	DeviceID string
	From     int64
	To       int64
}

type TemperatureRepository interface {
	CreateTemperature(ctx context.Context, reading tlgmodels.Temperature) error
	// GetTemperatures returns readings ascending by timestamp; found is false when none match
	GetTemperatures(ctx context.Context, r ReadingRange) ([]tlgmodels.Temperature, bool, error)
}

type HumidityRepository interface {
	CreateHumidity(ctx context.Context, reading tlgmodels.Humidity) error
	GetHumidities(ctx context.Context, r ReadingRange) ([]tlgmodels.Humidity, bool, error)
}
