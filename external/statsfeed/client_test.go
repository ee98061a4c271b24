package statsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pitchside/fiveside/internal/platform/logging"
	"github.com/pitchside/fiveside/internal/platform/resilience"
)

func TestClient_FetchGameweek(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rounds/3/stats", r.URL.Path)
		require.Equal(t, "Bearer feed-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"gameweek": 3,
			"finalized": true,
			"data": [
				{"player_id": "lw-01", "goals": 2, "played": true, "price": 126},
				{"player_id": "  ", "goals": 9, "played": true},
				{"player_id": "gk-01", "saves": 4, "clean_sheet": true, "played": true}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "feed-token",
		Logger:  logging.NewNop(),
	})

	snapshot, err := client.FetchGameweek(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 3, snapshot.Gameweek)
	require.True(t, snapshot.Finalized)

	// Blank player ids are dropped.
	require.Len(t, snapshot.Records, 2)
	require.Equal(t, "lw-01", snapshot.Records[0].PlayerID)
	require.Equal(t, 3, snapshot.Records[0].Gameweek)
	require.Equal(t, 2, snapshot.Records[0].Goals)
	require.True(t, snapshot.Records[1].CleanSheet)

	require.Len(t, snapshot.Prices, 1)
	require.Equal(t, int64(126), snapshot.Prices[0].Price)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"gameweek": 1, "finalized": false, "data": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})

	snapshot, err := client.FetchGameweek(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, snapshot.Finalized)
	require.EqualValues(t, 2, calls.Load())
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})

	_, err := client.FetchGameweek(context.Background(), 99)
	require.Error(t, err)
	require.EqualValues(t, 1, calls.Load())
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	_, err := client.FetchGameweek(context.Background(), 1)
	require.Error(t, err)

	_, err = client.FetchGameweek(context.Background(), 2)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestClient_RejectsInvalidGameweek(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://localhost:0", Logger: logging.NewNop()})

	_, err := client.FetchGameweek(context.Background(), 0)
	require.Error(t, err)
}
