package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherCityPayload(t *testing.T) {
	data, err := WeatherCityPayload(-33.868820123, 151.209290456).Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"weather_city","lat":-33.8688,"lon":151.2093}`, data)
	assert.LessOrEqual(t, len(data), MaxCallbackData)

	p, err := DecodeCallback(data)
	require.NoError(t, err)
	assert.Equal(t, CallbackWeatherCity, p.Type)
	require.NotNil(t, p.Lat)
	require.NotNil(t, p.Lon)
	assert.Equal(t, -33.8688, *p.Lat)
	assert.Equal(t, 151.2093, *p.Lon)
}

func TestWeatherCityPayloadAtOrigin(t *testing.T) {
	data, err := WeatherCityPayload(0, 0).Encode()
	require.NoError(t, err)

	p, err := DecodeCallback(data)
	require.NoError(t, err)
	require.NotNil(t, p.Lat)
	assert.Zero(t, *p.Lat)
}

func TestRemoveItemPayloadTooLong(t *testing.T) {
	_, err := RemoveItemPayload("Groceries", "milk").Encode()
	require.NoError(t, err)

	_, err = RemoveItemPayload("Groceries", strings.Repeat("x", 40)).Encode()
	assert.ErrorIs(t, err, ErrCallbackTooLong)
}

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    CallbackPayload
		wantErr bool
	}{
		{
			name: "leading slash tolerated",
			data: `{"type":"/show_items","list_name":"Groceries"}`,
			want: CallbackPayload{Type: CallbackShowItems, ListName: "Groceries"},
		},
		{
			name: "edit list",
			data: `{"type":"edit_list","old_list_name":"A","new_list_name":"B"}`,
			want: CallbackPayload{Type: CallbackEditList, OldListName: "A", NewListName: "B"},
		},
		{name: "not json", data: `weather_city`, wantErr: true},
		{name: "missing type", data: `{"list_name":"A"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCallback(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
