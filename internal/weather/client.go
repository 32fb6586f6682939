// Package weather talks to the geocoding and current-weather HTTP APIs
// (Open-Meteo compatible).
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/metrics"
)

// Place is a geocoding candidate.
type Place struct {
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Weather is the current weather at a coordinate.
type Weather struct {
	Temperature float64
	WeatherCode int
	IsRaining   bool
}

type geocodeResponse struct {
	Results []Place `json:"results"`
}

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature float64  `json:"temperature"`
		WeatherCode int      `json:"weathercode"`
		Rain        *float64 `json:"rain"`
	} `json:"current_weather"`
}

// Client queries the geocoding and weather endpoints.
type Client struct {
	http       *http.Client
	geoURL     string
	weatherURL string
	logger     *logrus.Logger
}

// NewClient creates a weather client with the given request timeout.
func NewClient(geoURL, weatherURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		geoURL:     geoURL,
		weatherURL: weatherURL,
		logger:     logger,
	}
}

// Geocode resolves a free-text place name to candidate coordinates, in the
// order the provider ranks them.
func (c *Client) Geocode(ctx context.Context, city string) ([]Place, error) {
	params := url.Values{}
	params.Set("name", city)

	var resp geocodeResponse
	if err := c.getJSON(ctx, "geocode", c.geoURL, params, &resp); err != nil {
		return nil, apperrors.Unavailable(err, "Cannot get geo data")
	}
	if len(resp.Results) == 0 {
		return nil, apperrors.NotFound("place", "City not found")
	}
	return resp.Results, nil
}

// CurrentWeather returns the temperature and rain status at lat/lon.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (*Weather, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")

	var resp forecastResponse
	if err := c.getJSON(ctx, "weather", c.weatherURL, params, &resp); err != nil {
		return nil, apperrors.Unavailable(err, "Cannot get weather data")
	}
	if resp.CurrentWeather == nil {
		return nil, apperrors.Unavailable(nil, "Cannot get weather data")
	}

	cw := resp.CurrentWeather
	return &Weather{
		Temperature: cw.Temperature,
		WeatherCode: cw.WeatherCode,
		IsRaining:   isRainCode(cw.WeatherCode) || (cw.Rain != nil && *cw.Rain > 0),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, api, base string, params url.Values, dst any) error {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.RecordUpstream(api, outcome, time.Since(start))
	}()

	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("parse %s url: %w", api, err)
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", api, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("api", api).Warn("Upstream request failed")
		return fmt.Errorf("%s request: %w", api, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		outcome = strconv.Itoa(resp.StatusCode)
		c.logger.WithFields(logrus.Fields{
			"api":    api,
			"status": resp.StatusCode,
		}).Warn("Upstream returned non-success status")
		return fmt.Errorf("%s request: unexpected status %s", api, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", api, err)
	}

	outcome = "ok"
	return nil
}

// isRainCode reports whether a WMO weather code describes drizzle, rain,
// rain showers or a thunderstorm.
func isRainCode(code int) bool {
	switch {
	case code >= 51 && code <= 67:
		return true
	case code >= 80 && code <= 82:
		return true
	case code >= 95 && code <= 99:
		return true
	}
	return false
}
