package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/telegram"
	"github.com/Kerhoff/ShopWizard/internal/weather"
)

// WeatherService resolves places and reports their current weather.
type WeatherService interface {
	Geocode(ctx context.Context, city string) ([]weather.Place, error)
	CurrentWeather(ctx context.Context, lat, lon float64) (*weather.Weather, error)
}

// WeatherHandler handles /weather <city...> by offering the matching places
// as buttons.
type WeatherHandler struct {
	usage
	weather WeatherService
	logger  *logrus.Logger
}

func NewWeatherHandler(ws WeatherService, logger *logrus.Logger) *WeatherHandler {
	return &WeatherHandler{usage: usage{1, usageCityName}, weather: ws, logger: logger}
}

func (h *WeatherHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	city := strings.Join(args, " ")

	places, err := h.weather.Geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(places))
	for _, p := range places {
		data, err := telegram.WeatherCityPayload(p.Latitude, p.Longitude).Encode()
		if err != nil {
			return nil, fmt.Errorf("encode weather button: %w", err)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s - %s", p.Name, p.CountryCode), data),
		))
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": message.From.ID,
		"city":    city,
		"matches": len(places),
	}).Debug("Offering weather places")

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &telegram.Reply{Text: "Choose a city from the list:", Markup: &markup}, nil
}

// WeatherCityHandler answers a weather_city button press.
type WeatherCityHandler struct {
	weather WeatherService
	logger  *logrus.Logger
}

func NewWeatherCityHandler(ws WeatherService, logger *logrus.Logger) *WeatherCityHandler {
	return &WeatherCityHandler{weather: ws, logger: logger}
}

func (h *WeatherCityHandler) HandleCallback(ctx context.Context, _ *tgbotapi.CallbackQuery, p telegram.CallbackPayload) (*telegram.Reply, error) {
	if p.Lat == nil || p.Lon == nil {
		return nil, apperrors.BadInput(usageCoordinates)
	}

	current, err := h.weather.CurrentWeather(ctx, *p.Lat, *p.Lon)
	if err != nil {
		return nil, err
	}
	return telegram.NewReply("%s", FormatWeather(current)), nil
}

// FormatWeather renders the temperature line followed by the rain line.
func FormatWeather(w *weather.Weather) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The current temperature in your city is %s°C.\n", strconv.FormatFloat(w.Temperature, 'f', -1, 64))
	if w.IsRaining {
		b.WriteString("It is currently raining in your city.")
	} else {
		b.WriteString("There is no rain in your city at the moment.")
	}
	return b.String()
}
