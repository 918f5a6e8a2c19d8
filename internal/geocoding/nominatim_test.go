package geocoding_test

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/kvasnytska/safetrip/internal/geocoding"
	"github.com/kvasnytska/safetrip/internal/models"
	"github.com/kvasnytska/safetrip/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func httpResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNominatim_ReverseGeocode(t *testing.T) {
	logger := slog.Default()
	coords := models.Coordinates{Latitude: 50.45, Longitude: 30.52}

	t.Run("resolves a display address", func(t *testing.T) {
		mockClient := mocks.NewHTTPClient(t)
		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)

		mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
			query := req.URL.Query()
			return strings.Contains(req.URL.Path, "/reverse") &&
				query.Get("lat") == "50.45" &&
				query.Get("lon") == "30.52" &&
				req.Header.Get("User-Agent") != ""
		})).Return(httpResponse(http.StatusOK, `{"display_name":"Khreshchatyk St, Kyiv"}`), nil).Once()

		address, err := provider.ReverseGeocode(t.Context(), coords)

		require.NoError(t, err)
		assert.Equal(t, "Khreshchatyk St, Kyiv", address)
	})

	t.Run("unresolvable point returns empty-response error", func(t *testing.T) {
		mockClient := mocks.NewHTTPClient(t)
		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)

		mockClient.On("Do", mock.Anything).
			Return(httpResponse(http.StatusOK, `{"error":"Unable to geocode"}`), nil).Once()

		_, err := provider.ReverseGeocode(t.Context(), coords)

		require.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		mockClient := mocks.NewHTTPClient(t)
		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)

		mockClient.On("Do", mock.Anything).
			Return(httpResponse(http.StatusTooManyRequests, `rate limited`), nil).Once()

		_, err := provider.ReverseGeocode(t.Context(), coords)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("transport error is wrapped", func(t *testing.T) {
		mockClient := mocks.NewHTTPClient(t)
		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)

		mockClient.On("Do", mock.Anything).Return(nil, assert.AnError).Once()

		_, err := provider.ReverseGeocode(t.Context(), coords)

		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("malformed body is a decode error", func(t *testing.T) {
		mockClient := mocks.NewHTTPClient(t)
		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)

		mockClient.On("Do", mock.Anything).
			Return(httpResponse(http.StatusOK, `{not json`), nil).Once()

		_, err := provider.ReverseGeocode(t.Context(), coords)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})
}
