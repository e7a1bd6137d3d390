package datacare

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/config"
	"github.com/tlms/telemetry/internal/domain"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
)

const regionsPayload = `{
	"0": {"id": 0, "name": "Dresden", "transport_company": "DVB", "regional_company": "VVO",
		"frequency": 170795000, "r09_type": 16, "encoding": 1, "deactivated": false},
	"1": {"id": 1, "name": "Chemnitz", "transport_company": "CVAG", "regional_company": null,
		"frequency": null, "r09_type": null, "encoding": null, "deactivated": true}
}`

func TestClient_FetchRegions(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/region", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(regionsPayload))
		}))
		defer server.Close()

		client := NewClient(&config.DatacareConfig{BaseURL: server.URL, RequestTimeout: 5 * time.Second}, logger)

		regions, err := client.FetchRegions(context.Background())
		require.NoError(t, err)
		require.Len(t, regions, 2)

		dresden := regions[0]
		assert.Equal(t, "Dresden", dresden.Name)
		require.NotNil(t, dresden.R09Type)
		assert.Equal(t, domain.R09Type16, *dresden.R09Type)
		assert.True(t, regions[1].Deactivated)
		assert.Nil(t, regions[1].Frequency)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}))
		defer server.Close()

		client := NewClient(&config.DatacareConfig{BaseURL: server.URL, RequestTimeout: 5 * time.Second}, logger)

		_, err := client.FetchRegions(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrRemoteFetch)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"0": "not a region"}`))
		}))
		defer server.Close()

		client := NewClient(&config.DatacareConfig{BaseURL: server.URL, RequestTimeout: 5 * time.Second}, logger)

		_, err := client.FetchRegions(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrRemoteFetch)
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewClient(&config.DatacareConfig{BaseURL: server.URL, RequestTimeout: 5 * time.Second}, logger)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.FetchRegions(ctx)
		assert.ErrorIs(t, err, apperrors.ErrRemoteFetch)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unreachable host", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := NewClient(&config.DatacareConfig{BaseURL: url, RequestTimeout: time.Second}, logger)

		_, err := client.FetchRegions(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrRemoteFetch)
	})
}
