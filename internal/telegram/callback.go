package telegram

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// MaxCallbackData is the largest callback_data Telegram accepts, in bytes.
const MaxCallbackData = 64

// Callback types carried in the "type" field of a button payload.
const (
	CallbackWeatherCity = "weather_city"
	CallbackCreateList  = "create_list"
	CallbackRemoveList  = "remove_list"
	CallbackEditList    = "edit_list"
	CallbackAddItem     = "add_item"
	CallbackShowItems   = "show_items"
	CallbackRemoveItem  = "remove_item"
)

// ErrCallbackTooLong is returned when an encoded payload does not fit in a button.
var ErrCallbackTooLong = fmt.Errorf("callback data exceeds %d bytes", MaxCallbackData)

// CallbackPayload is the JSON object stored in an inline button's callback_data.
// Only the fields relevant to Type are set.
type CallbackPayload struct {
	Type        string   `json:"type"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	ListName    string   `json:"list_name,omitempty"`
	OldListName string   `json:"old_list_name,omitempty"`
	NewListName string   `json:"new_list_name,omitempty"`
	Item        string   `json:"item,omitempty"`
}

// WeatherCityPayload builds a weather_city payload. Coordinates are rounded to
// four decimals (about 11 m) so the payload always fits in a button.
func WeatherCityPayload(lat, lon float64) CallbackPayload {
	lat, lon = roundCoord(lat), roundCoord(lon)
	return CallbackPayload{Type: CallbackWeatherCity, Lat: &lat, Lon: &lon}
}

// RemoveItemPayload builds a remove_item payload.
func RemoveItemPayload(listName, item string) CallbackPayload {
	return CallbackPayload{Type: CallbackRemoveItem, ListName: listName, Item: item}
}

// Encode marshals p and checks the Telegram size limit.
func (p CallbackPayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode callback payload: %w", err)
	}
	if len(b) > MaxCallbackData {
		return "", ErrCallbackTooLong
	}
	return string(b), nil
}

// DecodeCallback parses callback_data. A leading "/" on the type is dropped.
func DecodeCallback(data string) (CallbackPayload, error) {
	var p CallbackPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return CallbackPayload{}, fmt.Errorf("decode callback payload: %w", err)
	}
	p.Type = strings.TrimPrefix(strings.TrimSpace(p.Type), "/")
	if p.Type == "" {
		return CallbackPayload{}, fmt.Errorf("decode callback payload: missing type")
	}
	return p, nil
}

func roundCoord(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
