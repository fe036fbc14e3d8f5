package implementation

import (
	"context"
	"fmt"

	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

// ReadingRepository stores temperature and humidity readings. Both tables are keyed
// by (deviceId, timestamp).
type ReadingRepository struct {
	store interfaces.ItemStore
}

func NewReadingRepository(store interfaces.ItemStore) *ReadingRepository {
	return &ReadingRepository{store: store}
}

func (r *ReadingRepository) CreateTemperature(ctx context.Context, reading tlgmodels.Temperature) error {
	return r.store.PutItem(ctx, tlgmodels.TableTemperature, temperatureToItem(reading))
}

func (r *ReadingRepository) GetTemperatures(ctx context.Context, rng interfaces.ReadingRange) ([]tlgmodels.Temperature, bool, error) {
	items, found, err := r.getRange(ctx, tlgmodels.TableTemperature, rng)
	if err != nil || !found {
		return nil, false, err
	}

	readings := make([]tlgmodels.Temperature, 0, len(items))
	for _, item := range items {
		reading, err := temperatureFromItem(item)
		if err != nil {
			return nil, false, fmt.Errorf("failed to decode temperature: %w", err)
		}
		readings = append(readings, reading)
	}
	return readings, true, nil
}

func (r *ReadingRepository) CreateHumidity(ctx context.Context, reading tlgmodels.Humidity) error {
	return r.store.PutItem(ctx, tlgmodels.TableHumidity, humidityToItem(reading))
}

func (r *ReadingRepository) GetHumidities(ctx context.Context, rng interfaces.ReadingRange) ([]tlgmodels.Humidity, bool, error) {
	items, found, err := r.getRange(ctx, tlgmodels.TableHumidity, rng)
	if err != nil || !found {
		return nil, false, err
	}

	readings := make([]tlgmodels.Humidity, 0, len(items))
	for _, item := range items {
		reading, err := humidityFromItem(item)
		if err != nil {
			return nil, false, fmt.Errorf("failed to decode humidity: %w", err)
		}
		readings = append(readings, reading)
	}
	return readings, true, nil
}

func (r *ReadingRepository) getRange(ctx context.Context, table string, rng interfaces.ReadingRange) ([]interfaces.Item, bool, error) {
	return r.store.GetRange(ctx, table,
		tlgmodels.AttrDeviceID, rng.DeviceID,
		tlgmodels.AttrTimestamp, rng.From, rng.To,
	)
}

var (
	_ interfaces.TemperatureRepository = (*ReadingRepository)(nil)
	_ interfaces.HumidityRepository    = (*ReadingRepository)(nil)
)
