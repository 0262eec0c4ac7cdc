package poolstate

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dexpricer/core/internal/telemetry"
)

// StateFetcher is the outbound multicall-aggregator collaborator: a
// batched snapshot read of (reserve0, reserve1, fee) triples for a set of
// pool addresses at a block. Concrete implementations (an RPC multicall
// client, a subgraph client, ...) live outside this core; the manager
// only depends on this narrow shape.
type StateFetcher interface {
	FetchStates(ctx context.Context, addrs []string, atBlock uint64) (map[string]State, error)
}

// LogSource is the outbound block/log collaborator: a subscription to
// contract logs from a starting block forward, for a set of addresses.
type LogSource interface {
	SubscribeLogs(ctx context.Context, fromBlock uint64, addrs []string) (<-chan Log, error)
}

// pool bundles one pool's history with the decoder used to interpret its
// logs and a mutex guarding concurrent reads against the single log-
// consumer writer.
type pool struct {
	mu      sync.RWMutex
	hist    history
	decoder LogDecoder
}

// Manager owns the warm/subscribe/query lifecycle for a set of AMM
// pools. It is safe for concurrent use: reads take the per-pool RWMutex
// read lock, the log consumer goroutine takes the write lock, and
// concurrent first-touch warms of the same pool are deduplicated via
// singleflight so only one multicall round-trip happens per pool.
type Manager struct {
	fetcher StateFetcher
	source  LogSource
	log     telemetry.Logger

	mu    sync.RWMutex
	pools map[string]*pool

	warmGroup singleflight.Group
}

// NewManager builds a Manager over the given outbound collaborators.
func NewManager(fetcher StateFetcher, source LogSource, log telemetry.Logger) *Manager {
	if log == nil {
		log = telemetry.NewNopLogger()
	}

	return &Manager{
		fetcher: fetcher,
		source:  source,
		log:     log.New("component", "poolstate"),
		pools:   make(map[string]*pool),
	}
}

func normalizeAddr(addr string) string {
	return strings.ToLower(addr)
}

// Warm snapshots addr's state at atBlock via the StateFetcher and records
// decoder for interpreting the pool's subsequent logs. It does not
// subscribe to logs itself; Run does that for every warmed pool. An
// already-warmed pool is left as it is. Concurrent Warm calls for the
// same address collapse into a single fetch.
func (m *Manager) Warm(ctx context.Context, addr string, atBlock uint64, decoder LogDecoder) error {
	key := normalizeAddr(addr)

	_, err, _ := m.warmGroup.Do(key, func() (any, error) {
		if m.has(key) {
			return nil, nil
		}

		states, ferr := m.fetcher.FetchStates(ctx, []string{key}, atBlock)
		if ferr != nil {
			return nil, ferr
		}

		state, ok := states[key]
		if !ok {
			return nil, nil
		}

		p := &pool{decoder: decoder}
		p.hist.set(atBlock, state)

		m.mu.Lock()
		m.pools[key] = p
		m.mu.Unlock()

		m.log.Info("warmed pool", "addr", key, "block", atBlock)

		return nil, nil
	})

	return err
}

func (m *Manager) has(addr string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.pools[addr]

	return ok
}

// GetPoolState returns addr's state committed strictly before block, or
// nil if the pool hasn't been warmed or has no state that early. A
// missing state is not an error: the caller (an adapter) treats it as
// "no quote for this pool".
func (m *Manager) GetPoolState(addr string, block uint64) *State {
	key := normalizeAddr(addr)

	m.mu.RLock()
	p, ok := m.pools[key]
	m.mu.RUnlock()

	if !ok {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	state, ok := p.hist.latestBefore(block)
	if !ok {
		return nil
	}

	clone := state.Clone()

	return &clone
}

// ProcessLog applies one log to the pool it targets, deriving and
// recording the next state. Logs for pools that haven't been warmed yet
// are ignored: there is nothing to derive from.
func (m *Manager) ProcessLog(l Log) {
	key := normalizeAddr(l.Address)

	m.mu.RLock()
	p, ok := m.pools[key]
	m.mu.RUnlock()

	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	prev, ok := p.hist.latestBefore(l.BlockNumber + 1)
	if !ok || p.decoder == nil {
		return
	}

	next, ok := p.decoder(prev, l)
	if !ok || next == nil {
		return
	}

	p.hist.set(l.BlockNumber, *next)
}

// Run subscribes to logs for every currently-warmed pool from fromBlock
// forward and feeds them to ProcessLog until ctx is cancelled or the
// source closes its channel.
func (m *Manager) Run(ctx context.Context, fromBlock uint64) error {
	m.mu.RLock()
	addrs := make([]string, 0, len(m.pools))
	for addr := range m.pools {
		addrs = append(addrs, addr)
	}
	m.mu.RUnlock()

	if len(addrs) == 0 {
		return nil
	}

	logs, err := m.source.SubscribeLogs(ctx, fromBlock, addrs)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-logs:
			if !ok {
				return nil
			}

			m.ProcessLog(l)
		}
	}
}

// Release drops all retained pool state for this manager. Idempotent:
// calling it on an already-released manager is a no-op.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pools = make(map[string]*pool)
}
