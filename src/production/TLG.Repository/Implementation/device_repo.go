package implementation

import (
	"context"
	"fmt"

	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

type DeviceRepository struct {
	store interfaces.ItemStore
}

func NewDeviceRepository(store interfaces.ItemStore) *DeviceRepository {
	return &DeviceRepository{store: store}
}

// ListDevices scans the devices table. There is no cursor: tables larger than limit are truncated.
func (r *DeviceRepository) ListDevices(ctx context.Context, limit int) ([]tlgmodels.Device, error) {
	items, _, err := r.store.Scan(ctx, tlgmodels.TableDevices, int32(limit))
	if err != nil {
		return nil, err
	}

	devices := make([]tlgmodels.Device, 0, len(items))
	for _, item := range items {
		device, err := deviceFromItem(item)
		if err != nil {
			return nil, fmt.Errorf("failed to decode device: %w", err)
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func (r *DeviceRepository) GetDevice(ctx context.Context, deviceID string) (*tlgmodels.Device, error) {
	item, found, err := r.store.GetItem(ctx, tlgmodels.TableDevices, interfaces.Key{
		Name:  tlgmodels.AttrDeviceID,
		Value: deviceID,
	})
	if err != nil || !found {
		return nil, err
	}

	device, err := deviceFromItem(item)
	if err != nil {
		return nil, fmt.Errorf("failed to decode device: %w", err)
	}
	return &device, nil
}

// CreateOrUpdateDevice upserts a device; used to seed the local development store
func (r *DeviceRepository) CreateOrUpdateDevice(ctx context.Context, device tlgmodels.Device) error {
	return r.store.PutItem(ctx, tlgmodels.TableDevices, deviceToItem(device))
}

var _ interfaces.DeviceRepository = (*DeviceRepository)(nil)
