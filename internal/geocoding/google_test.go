package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/kvasnytska/safetrip/internal/geocoding"
	"github.com/kvasnytska/safetrip/internal/models"
	"github.com/kvasnytska/safetrip/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestReverseGeocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := t.Context()
	coords := models.Coordinates{Latitude: 50.45, Longitude: 30.52}
	req := &maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: 50.45, Lng: 30.52}}

	t.Run("api returns error", func(t *testing.T) {
		mockClient.On("ReverseGeocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.ReverseGeocode(ctx, coords)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api returns empty response", func(t *testing.T) {
		mockClient.On("ReverseGeocode", ctx, req).Return(nil, nil).Once()

		address, err := provider.ReverseGeocode(ctx, coords)

		require.Empty(t, address)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("successfull reverse geocoding", func(t *testing.T) {
		mockResponse := []maps.GeocodingResult{
			{FormattedAddress: "Maidan Nezalezhnosti, Kyiv, Ukraine"},
		}

		mockClient.On("ReverseGeocode", ctx, req).Return(mockResponse, nil).Once()

		address, err := provider.ReverseGeocode(ctx, coords)

		require.NoError(t, err)
		assert.Equal(t, "Maidan Nezalezhnosti, Kyiv, Ukraine", address)
		mockClient.AssertExpectations(t)
	})
}
