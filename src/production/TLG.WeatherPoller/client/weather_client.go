package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
)

const currentWeatherPath = "/data/2.5/weather"

// CurrentWeather is the part of the OpenWeatherMap current weather response we store.
// Fields are pointers because the API omits values it has no measurement for.
type CurrentWeather struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
}

// WeatherClient calls the OpenWeatherMap API
type WeatherClient struct {
	client    *resty.Client
	apiKey    string
	latitude  string
	longitude string
}

// NewWeatherClient creates a client for the given base URL and location
func NewWeatherClient(baseURL, apiKey, latitude, longitude string, timeout time.Duration) *WeatherClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &WeatherClient{
		client:    client,
		apiKey:    apiKey,
		latitude:  latitude,
		longitude: longitude,
	}
}

// Current fetches the current weather in metric units
func (c *WeatherClient) Current(ctx context.Context) (*CurrentWeather, error) {
	var result CurrentWeather
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   c.latitude,
			"lon":   c.longitude,
			"appid": c.apiKey,
			"units": "metric",
		}).
		SetResult(&result).
		Get(currentWeatherPath)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("weather API returned %d: %s", resp.StatusCode(), resp.String())
	}
	return &result, nil
}
