package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"launchpad/client-portal/client-portal-backend/internal/apiclient"
	"launchpad/client-portal/client-portal-backend/internal/config"
)

const (
	metricsBody = `{
		"totalSessions": 12, "activeSessions": 5, "completedSessions": 6,
		"averageCompletionTime": 14.5, "averageCompletionPercentage": 68,
		"sessionsThisWeek": 3, "completionRate": 0.5
	}`
	sessionsBody = `{"sessions":[{"sessionId":"s1","clientName":"Acme","status":"active"}]}`
	manifestBody = `{"success":true,"version":"2025-11-03.2","checksum":"abc","retrieved_at":"2025-11-03T10:00:00Z"}`
)

func newAggregator(t *testing.T, baseURL string, ttl time.Duration) *Aggregator {
	t.Helper()
	client, err := apiclient.NewClient(config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)
	return NewAggregator(client, ttl, zap.NewNop())
}

func upstream(manifestStatus int, delay time.Duration, hits *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/dashboard/metrics":
			w.Write([]byte(metricsBody))
		case "/dashboard/sessions":
			w.Write([]byte(sessionsBody))
		case "/context/manifest":
			if manifestStatus != http.StatusOK {
				w.WriteHeader(manifestStatus)
				w.Write([]byte(`{"message":"no context"}`))
				return
			}
			w.Write([]byte(manifestBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestRefreshJoinsAllThreeFetches(t *testing.T) {
	srv := httptest.NewServer(upstream(http.StatusOK, 0, nil))
	defer srv.Close()

	agg := newAggregator(t, srv.URL, time.Minute)
	snapshot := agg.Refresh(context.Background())

	assert.True(t, snapshot.Ready)
	require.NotNil(t, snapshot.Metrics)
	assert.Equal(t, 12, snapshot.Metrics.TotalSessions)
	require.NotNil(t, snapshot.Sessions)
	require.Len(t, snapshot.Sessions.Sessions, 1)
	require.NotNil(t, snapshot.Manifest)
	assert.Equal(t, "2025-11-03.2", snapshot.Manifest.Version)
	assert.Empty(t, snapshot.Errors)
}

func TestLoadingUntilAllFetchesSettle(t *testing.T) {
	srv := httptest.NewServer(upstream(http.StatusOK, 150*time.Millisecond, nil))
	defer srv.Close()

	agg := newAggregator(t, srv.URL, time.Minute)

	_, ok := agg.Latest()
	assert.False(t, ok, "nothing fetched yet: dashboard renders %q", LoadingMessage)

	done := make(chan *Snapshot, 1)
	go func() { done <- agg.Refresh(context.Background()) }()

	// Mid-flight there is still no snapshot: all-or-nothing, no partial
	// results are ever observable.
	time.Sleep(30 * time.Millisecond)
	_, ok = agg.Latest()
	assert.False(t, ok)

	snapshot := <-done
	assert.True(t, snapshot.Ready)

	latest, ok := agg.Latest()
	require.True(t, ok)
	assert.True(t, latest.Ready)
	assert.NotNil(t, latest.Metrics)
}

func TestMissingManifestOmitsCard(t *testing.T) {
	srv := httptest.NewServer(upstream(http.StatusNotFound, 0, nil))
	defer srv.Close()

	agg := newAggregator(t, srv.URL, time.Minute)
	snapshot := agg.Refresh(context.Background())

	assert.True(t, snapshot.Ready)
	assert.Nil(t, snapshot.Manifest)
	// Absence of a manifest is a conditional render, not an error state
	assert.Empty(t, snapshot.Errors)
	assert.NotNil(t, snapshot.Metrics)
}

func TestFailedMetricsFetchIsRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dashboard/metrics" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"metrics exploded"}`))
			return
		}
		upstream(http.StatusOK, 0, nil)(w, r)
	}))
	defer srv.Close()

	agg := newAggregator(t, srv.URL, time.Minute)
	snapshot := agg.Refresh(context.Background())

	assert.True(t, snapshot.Ready)
	assert.Nil(t, snapshot.Metrics)
	assert.NotNil(t, snapshot.Sessions)
	require.Len(t, snapshot.Errors, 1)
	assert.Contains(t, snapshot.Errors[0], "metrics exploded")
}

func TestSnapshotServedFromCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(upstream(http.StatusOK, 0, &hits))
	defer srv.Close()

	agg := newAggregator(t, srv.URL, time.Minute)

	agg.Snapshot(context.Background())
	firstRound := hits.Load()
	assert.Equal(t, int64(3), firstRound)

	agg.Snapshot(context.Background())
	assert.Equal(t, firstRound, hits.Load(), "fresh cache: no new fetches")
}

func TestExpiredCacheTriggersRefetch(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(upstream(http.StatusOK, 0, &hits))
	defer srv.Close()

	agg := newAggregator(t, srv.URL, time.Millisecond)

	agg.Snapshot(context.Background())
	time.Sleep(5 * time.Millisecond)
	agg.Snapshot(context.Background())

	assert.Equal(t, int64(6), hits.Load())
}
