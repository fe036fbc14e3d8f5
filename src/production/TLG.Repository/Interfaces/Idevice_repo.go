package interfaces

import (
	"context"

	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
)

type DeviceRepository interface {
	// ListDevices returns up to limit devices; never nil
	ListDevices(ctx context.Context, limit int) ([]tlgmodels.Device, error)
	// GetDevice returns nil when the device does not exist
	GetDevice(ctx context.Context, deviceID string) (*tlgmodels.Device, error)
}
