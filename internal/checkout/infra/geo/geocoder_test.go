package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode", r.URL.Path)
		assert.Equal(t, "12 North St, Springfield", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(map[string]float64{"lat": 40.71, "lng": -74.0})
	}))
	defer srv.Close()

	lat, lng, err := NewClient(srv.URL).Geocode(context.Background(), "12 North St, Springfield")
	require.NoError(t, err)
	assert.Equal(t, 40.71, lat)
	assert.Equal(t, -74.0, lng)
}

func TestGeocodeRejectsZeroCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]float64{"lat": 0, "lng": 0})
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL).Geocode(context.Background(), "nowhere at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no location found")
}

func TestGeocodeNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL).Geocode(context.Background(), "12 North St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
