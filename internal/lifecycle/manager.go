// Package lifecycle implements the lifecycle manager: concurrent
// adapter init/release with unbounded, de-duplicated retry, and master/replica cache
// invalidation on init.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/dexpricer/core/internal/adapter"
	"github.com/dexpricer/core/internal/cache"
	"github.com/dexpricer/core/internal/telemetry"
)

// Resolver resolves a venue key to its adapter instance; satisfied by
// *registry.Registry.
type Resolver interface {
	GetDexByKey(key string) (adapter.Adapter, error)
}

// Manager drives adapter InitializePricing/ReleaseResources out of band,
// retrying failures on an unbounded, de-duplicated schedule. Master vs
// replica role is a process-wide flag consulted once per Initialize call;
// replicas skip the pre-init cache deletion.
type Manager struct {
	resolver   Resolver
	cache      cache.Cache
	isMaster   bool
	retryDelay time.Duration
	log        telemetry.Logger
	metrics    *telemetry.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]bool // dedup key: "init:<key>" / "release:<key>"
}

// New builds a Manager. isMaster selects whether this process
// authoritatively invalidates shared caches on init (the inverse of a
// replica/slave process flag).
func New(resolver Resolver, c cache.Cache, isMaster bool, retryDelay time.Duration, log telemetry.Logger, metrics *telemetry.Metrics) *Manager {
	if log == nil {
		log = telemetry.NewNopLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		resolver:   resolver,
		cache:      c,
		isMaster:   isMaster,
		retryDelay: retryDelay,
		log:        log.New("component", "lifecycle"),
		metrics:    metrics,
		ctx:        ctx,
		cancel:     cancel,
		pending:    make(map[string]bool),
	}
}

// Shutdown cancels any in-flight retry loops and waits for them to exit.
// In-flight (non-retry) init/release calls already issued are not
// interrupted: cancellation is best-effort for the aggregate, but
// scheduled retries continue in the background until Shutdown is
// called.
func (m *Manager) Shutdown() {
	m.cancel()
	m.wg.Wait()
}

// Initialize invokes InitializePricing on every adapter named by keys,
// concurrently, never failing the aggregate: a failure schedules a
// de-duplicated retry instead of being returned.
func (m *Manager) Initialize(ctx context.Context, block uint64, keys []string) {
	var wg sync.WaitGroup

	for _, key := range keys {
		key := key

		a, err := m.resolver.GetDexByKey(key)
		if err != nil {
			m.log.Warn("unknown dex key during initialize", "dexKey", key, "err", err)
			continue
		}

		caps := a.Capabilities()
		if !caps.HasInitializePricing {
			continue
		}

		wg.Add(1)

		go func() {
			defer wg.Done()
			m.doInit(ctx, a, caps, block)
		}()
	}

	wg.Wait()
}

func (m *Manager) doInit(ctx context.Context, a adapter.Adapter, caps adapter.Capabilities, block uint64) {
	if m.isMaster && caps.CacheStateKey != "" {
		if err := m.cache.Rawdel(ctx, caps.CacheStateKey); err != nil {
			m.log.Warn("cache invalidation failed before init", "dexKey", a.Key(), "cacheKey", caps.CacheStateKey, "err", err)
		}
	}

	err := a.InitializePricing(ctx, block)
	telemetry.LogAdapterInit(m.log, m.metrics, a.Key(), err)

	if err != nil {
		m.scheduleRetry("init", a.Key(), func(retryCtx context.Context) error {
			return a.InitializePricing(retryCtx, block)
		})
	}
}

// ReleaseResources invokes ReleaseResources on every adapter named by
// keys, concurrently, with the same never-fails-the-aggregate/retry
// behavior as Initialize.
func (m *Manager) ReleaseResources(ctx context.Context, keys []string) {
	var wg sync.WaitGroup

	for _, key := range keys {
		key := key

		a, err := m.resolver.GetDexByKey(key)
		if err != nil {
			m.log.Warn("unknown dex key during release", "dexKey", key, "err", err)
			continue
		}

		caps := a.Capabilities()
		if !caps.HasReleaseResources {
			continue
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			err := a.ReleaseResources(ctx)
			telemetry.LogAdapterRelease(m.log, m.metrics, a.Key(), err)

			if err != nil {
				m.scheduleRetry("release", a.Key(), a.ReleaseResources)
			}
		}()
	}

	wg.Wait()
}

// scheduleRetry starts an unbounded retry loop for (op, key), unless one
// is already running. Retries run on the manager's own lifetime context,
// not the triggering request's context, since already-scheduled retries
// must outlive any single request and continue in the background.
func (m *Manager) scheduleRetry(op, key string, attempt func(context.Context) error) {
	dedupKey := op + ":" + key

	m.mu.Lock()
	if m.pending[dedupKey] {
		m.mu.Unlock()
		return
	}

	m.pending[dedupKey] = true
	m.mu.Unlock()

	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		defer func() {
			m.mu.Lock()
			delete(m.pending, dedupKey)
			m.mu.Unlock()
		}()

		timer := time.NewTimer(m.retryDelay)
		defer timer.Stop()

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-timer.C:
				err := attempt(m.ctx)
				if err == nil {
					m.log.Info("lifecycle retry succeeded", "op", op, "dexKey", key)
					return
				}

				m.log.Warn("lifecycle retry failed, rescheduling", "op", op, "dexKey", key, "err", err)
				timer.Reset(m.retryDelay)
			}
		}
	}()
}
