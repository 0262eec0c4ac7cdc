// Package constantproduct implements the adapter contract over a set
// of statically-known constant-product AMM pools, reading live reserves
// from the event-backed pool state manager and quoting through the
// pure AMM math kernel.
package constantproduct

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/dexpricer/core/internal/adapter"
	"github.com/dexpricer/core/internal/amm"
	"github.com/dexpricer/core/internal/domain"
	"github.com/dexpricer/core/internal/poolstate"
	"github.com/dexpricer/core/internal/quote"
)

// PoolSpec is one statically-known pool this adapter can quote. TokenA
// backs Reserve0 and TokenB backs Reserve1 of the poolstate.State the
// manager tracks for Address; the fee itself lives on that State, not
// here, since some venues change it post-deploy.
type PoolSpec struct {
	Address        string
	TokenA, TokenB domain.Token
}

// Adapter quotes directly against real pool reserves, one amm.GetAmountOut
// or amm.GetAmountIn call per pool per requested amount.
type Adapter struct {
	key     string
	wrapped domain.Token
	pools   []PoolSpec
	manager *poolstate.Manager
}

// New builds an Adapter over a fixed pool set and the poolstate.Manager
// that tracks their reserves. wrapped is the canonical wrapped-native
// token this adapter rewrites domain.NativeSentinel to before lookup.
func New(key string, wrapped domain.Token, pools []PoolSpec, manager *poolstate.Manager) *Adapter {
	return &Adapter{key: key, wrapped: wrapped, pools: pools, manager: manager}
}

func (a *Adapter) Key() string { return a.key }

// Capabilities declares native-wrapping and the full init/release
// lifecycle; cacheStateKey lets the lifecycle manager force a rebuild of
// this adapter's poolstate history on master (re)init.
func (a *Adapter) Capabilities() adapter.Capabilities {
	return adapter.Capabilities{
		NeedWrapNative:       true,
		HasInitializePricing: true,
		HasReleaseResources:  true,
		CacheStateKey:        "poolstate:" + a.key,
	}
}

// InitializePricing warms every configured pool's reserve history at
// block via the poolstate manager.
func (a *Adapter) InitializePricing(ctx context.Context, block uint64) error {
	for _, p := range a.pools {
		if err := a.manager.Warm(ctx, p.Address, block, syncDecoder); err != nil {
			return err
		}
	}

	return nil
}

// ReleaseResources drops the manager's retained pool histories.
func (a *Adapter) ReleaseResources(context.Context) error {
	a.manager.Release()
	return nil
}

func (a *Adapter) matching(from, to domain.Token) []PoolSpec {
	from = domain.WrapNative(from, a.wrapped)
	to = domain.WrapNative(to, a.wrapped)

	out := make([]PoolSpec, 0, len(a.pools))

	for _, p := range a.pools {
		if (p.TokenA.Equal(from) && p.TokenB.Equal(to)) || (p.TokenA.Equal(to) && p.TokenB.Equal(from)) {
			out = append(out, p)
		}
	}

	return out
}

func poolID(key string, p PoolSpec) domain.PoolID {
	return domain.NewPoolID(key, domain.SortedPairPayload(p.TokenA, p.TokenB))
}

// GetPoolIdentifiers returns the identifier of every configured pool
// whose (tokenA, tokenB) pair matches (from, to) in either direction.
func (a *Adapter) GetPoolIdentifiers(_ context.Context, from, to domain.Token, _ domain.Side, _ uint64) ([]domain.PoolID, error) {
	matches := a.matching(from, to)
	out := make([]domain.PoolID, 0, len(matches))

	for _, p := range matches {
		out = append(out, poolID(a.key, p))
	}

	return out, nil
}

func poolAllowed(limitPools []domain.PoolID, id domain.PoolID) bool {
	if limitPools == nil {
		return true
	}

	for _, l := range limitPools {
		if l.Equal(id) {
			return true
		}
	}

	return false
}

// GetPricesVolume quotes every matching, not-excluded pool whose reserves
// are warm at block. A pool with no recorded state before block is
// skipped, not errored: it simply hasn't been warmed yet.
func (a *Adapter) GetPricesVolume(
	_ context.Context,
	from, to domain.Token,
	amounts []*uint256.Int,
	side domain.Side,
	block uint64,
	limitPools []domain.PoolID,
	_ domain.TransferFeeParams,
) ([]*quote.PoolPrices[adapter.Data], error) {
	wrappedFrom := domain.WrapNative(from, a.wrapped)

	var out []*quote.PoolPrices[adapter.Data]

	for _, p := range a.matching(from, to) {
		id := poolID(a.key, p)
		if !poolAllowed(limitPools, id) {
			continue
		}

		state := a.manager.GetPoolState(p.Address, block)
		if state == nil {
			continue
		}

		reserveIn, reserveOut := state.Reserve0, state.Reserve1
		if !p.TokenA.Equal(wrappedFrom) {
			reserveIn, reserveOut = state.Reserve1, state.Reserve0
		}

		prices := make([]*uint256.Int, len(amounts))
		quoteFn := amm.GetAmountOut

		if side == domain.BUY {
			quoteFn = amm.GetAmountIn
		}

		for i, amt := range amounts {
			prices[i] = quoteFn(amt, reserveIn, reserveOut, state.FeeBps)
		}

		unit := quoteFn(uint256.NewInt(1), reserveIn, reserveOut, state.FeeBps)

		out = append(out, &quote.PoolPrices[adapter.Data]{
			Prices:         prices,
			Unit:           unit,
			Gas:            quote.ScalarGasCost(uint256.NewInt(100000)),
			Exchange:       a.key,
			PoolIdentifier: string(id),
			PoolAddresses:  []string{p.Address},
		})
	}

	return out, nil
}

// GetCalldataGasCost estimates the L1 calldata footprint of this quote's
// swap call as a function of how many pools it touches.
func (a *Adapter) GetCalldataGasCost(pp *quote.PoolPrices[adapter.Data]) quote.GasCost {
	return quote.ScalarGasCost(uint256.NewInt(uint64(2100 * len(pp.PoolAddresses))))
}

// syncDecoder interprets a pool's reserve-sync log as two big-endian
// 32-byte words: reserve0 then reserve1. Fee is static per pool and is
// carried over from the previous state unchanged.
func syncDecoder(prev poolstate.State, log poolstate.Log) (*poolstate.State, bool) {
	if len(log.Data) < 64 {
		return nil, false
	}

	next := poolstate.State{
		Reserve0: new(uint256.Int).SetBytes(log.Data[0:32]),
		Reserve1: new(uint256.Int).SetBytes(log.Data[32:64]),
		FeeBps:   prev.FeeBps,
	}

	return &next, true
}
