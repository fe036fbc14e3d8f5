package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"

	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.WeatherPoller/client"
)

// WeatherSource returns the current outside weather
type WeatherSource interface {
	Current(ctx context.Context) (*client.CurrentWeather, error)
}

// Poller copies the current outside temperature and humidity into storage
// under the reserved "outside" device.
type Poller struct {
	weather      WeatherSource
	temperatures interfaces.TemperatureRepository
	humidities   interfaces.HumidityRepository
	logger       *logger.Logger
	now          func() time.Time
}

func NewPoller(weather WeatherSource, temperatures interfaces.TemperatureRepository, humidities interfaces.HumidityRepository, log *logger.Logger) *Poller {
	return &Poller{
		weather:      weather,
		temperatures: temperatures,
		humidities:   humidities,
		logger:       log.WithComponent("weather_poller"),
		now:          time.Now,
	}
}

// Handle is the scheduled Lambda entry point. Failures are logged and never returned,
// so the schedule simply tries again on its next tick.
func (p *Poller) Handle(ctx context.Context, event events.EventBridgeEvent) error {
	p.logger.Logger.Info().Str("event_id", event.ID).Msg("Polling outside weather")
	if err := p.Poll(ctx); err != nil {
		p.logger.ErrorWithError(err, "Failed to get data from Open Weather Map API")
	}
	return nil
}

// Poll fetches the weather once and stores whichever values were present
func (p *Poller) Poll(ctx context.Context) error {
	current, err := p.weather.Current(ctx)
	if err != nil {
		return err
	}

	timestamp := p.now().UnixMilli()
	var errs []error

	if t := current.Main.Temp; t != nil {
		if err := p.temperatures.CreateTemperature(ctx, tlgmodels.Temperature{
			DeviceID:  tlgmodels.OutsideDeviceID,
			Timestamp: timestamp,
			Celsius:   *t,
		}); err != nil {
			errs = append(errs, fmt.Errorf("store outside temperature: %w", err))
		}
	} else {
		p.logger.Warn("Weather response has no temperature")
	}

	if h := current.Main.Humidity; h != nil {
		if err := p.humidities.CreateHumidity(ctx, tlgmodels.Humidity{
			DeviceID:  tlgmodels.OutsideDeviceID,
			Timestamp: timestamp,
			Humidity:  *h,
		}); err != nil {
			errs = append(errs, fmt.Errorf("store outside humidity: %w", err))
		}
	}

	return errors.Join(errs...)
}
