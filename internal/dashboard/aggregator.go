package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"launchpad/client-portal/client-portal-backend/internal/apiclient"
	"launchpad/client-portal/client-portal-backend/internal/manifest"
	"launchpad/client-portal/client-portal-backend/internal/metrics"
)

// Upstream endpoint paths for the three dashboard fetches
const (
	endpointMetrics  = "/dashboard/metrics"
	endpointSessions = "/dashboard/sessions"
	endpointManifest = "/context/manifest"
)

// Snapshot is the joined result of the three dashboard fetches. Ready flips
// only once all three have settled: there is no partial-render state. A nil
// Manifest means no business context exists and its card is omitted, not an
// error.
type Snapshot struct {
	Metrics   *metrics.DashboardMetrics `json:"metrics"`
	Sessions  *metrics.SessionList      `json:"sessions"`
	Manifest  *manifest.Manifest        `json:"manifest,omitempty"`
	Ready     bool                      `json:"ready"`
	Errors    []string                  `json:"errors,omitempty"`
	FetchedAt time.Time                 `json:"fetchedAt"`
}

// LoadingMessage is shown while any of the three fetches is pending
const LoadingMessage = "Loading dashboard..."

// Aggregator joins the three independent dashboard fetches into one
// snapshot
type Aggregator struct {
	client *apiclient.Client
	cache  *SnapshotCache
	logger *zap.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(client *apiclient.Client, cacheTTL time.Duration, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		client: client,
		cache:  NewSnapshotCache(cacheTTL),
		logger: logger,
	}
}

// Snapshot returns the current dashboard snapshot, refreshing when the
// cache is stale
func (a *Aggregator) Snapshot(ctx context.Context) *Snapshot {
	if cached, ok := a.cache.Get(); ok {
		return cached
	}
	return a.Refresh(ctx)
}

// Latest returns the last computed snapshot without refreshing. The second
// return is false while nothing has been fetched yet: callers render the
// loading state.
func (a *Aggregator) Latest() (*Snapshot, bool) {
	return a.cache.Latest()
}

// Refresh issues the three fetches concurrently and joins them. The fetches
// race independently with no ordering guarantee; the join waits for all
// three and only then marks the snapshot ready.
func (a *Aggregator) Refresh(ctx context.Context) *Snapshot {
	var wg sync.WaitGroup
	var mu sync.Mutex

	snapshot := &Snapshot{}

	record := func(endpoint string, apply func(*apiclient.Envelope)) {
		defer wg.Done()
		env := a.client.Request(ctx, endpoint, nil)

		mu.Lock()
		defer mu.Unlock()
		if !env.Success {
			snapshot.Errors = append(snapshot.Errors, endpoint+": "+env.Error.Message)
			return
		}
		apply(env)
	}

	wg.Add(3)

	go record(endpointMetrics, func(env *apiclient.Envelope) {
		var m metrics.DashboardMetrics
		if err := env.Decode(&m); err != nil {
			snapshot.Errors = append(snapshot.Errors, endpointMetrics+": "+err.Error())
			return
		}
		snapshot.Metrics = &m
	})

	go record(endpointSessions, func(env *apiclient.Envelope) {
		var list metrics.SessionList
		if err := env.Decode(&list); err != nil {
			snapshot.Errors = append(snapshot.Errors, endpointSessions+": "+err.Error())
			return
		}
		snapshot.Sessions = &list
	})

	// Manifest absence is not an error: the card is omitted when no
	// business context exists upstream.
	go func() {
		defer wg.Done()
		env := a.client.Request(ctx, endpointManifest, nil)

		mu.Lock()
		defer mu.Unlock()
		if !env.Success {
			return
		}
		var m manifest.Manifest
		if err := env.Decode(&m); err != nil {
			return
		}
		snapshot.Manifest = &m
	}()

	wg.Wait()

	snapshot.Ready = true
	snapshot.FetchedAt = time.Now()

	if len(snapshot.Errors) > 0 {
		a.logger.Warn("Some dashboard fetches failed", zap.Strings("errors", snapshot.Errors))
	}

	a.cache.Set(snapshot)
	return snapshot
}
