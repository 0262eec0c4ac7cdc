// Package virtualpool implements the adapter contract over
// synthetic pools derived from two real constant-product legs sharing a
// common token, per the virtual-pool derivation in internal/amm.
package virtualpool

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/dexpricer/core/internal/adapter"
	"github.com/dexpricer/core/internal/amm"
	"github.com/dexpricer/core/internal/domain"
	"github.com/dexpricer/core/internal/poolstate"
	"github.com/dexpricer/core/internal/quote"
)

// LegSpec is one real pool backing a virtual pair. TokenB is always the
// token shared with the other leg (Reserve1 in poolstate terms), matching
// internal/amm's commonToken convention.
type LegSpec struct {
	Address        string
	TokenA, TokenB domain.Token
}

// PairSpec derives a synthetic (TokenI <-> TokenJ) pool from two legs that
// both hold the common token in their TokenB slot.
type PairSpec struct {
	JK             LegSpec
	IK             LegSpec
	TokenI, TokenJ domain.Token
}

// Adapter quotes a synthetic pair by recomputing its virtual reserves
// from two real legs' current state on every call; it never caches the
// derived pool: virtual pools are recomputed per request.
type Adapter struct {
	key     string
	wrapped domain.Token
	pairs   []PairSpec
	manager *poolstate.Manager
}

// New builds an Adapter over a fixed set of virtual pairs and the
// poolstate.Manager tracking their two underlying legs.
func New(key string, wrapped domain.Token, pairs []PairSpec, manager *poolstate.Manager) *Adapter {
	return &Adapter{key: key, wrapped: wrapped, pairs: pairs, manager: manager}
}

func (a *Adapter) Key() string { return a.key }

func (a *Adapter) Capabilities() adapter.Capabilities {
	return adapter.Capabilities{
		NeedWrapNative:       true,
		HasInitializePricing: true,
		HasReleaseResources:  true,
		CacheStateKey:        "poolstate:" + a.key,
	}
}

// InitializePricing warms both legs of every configured pair.
func (a *Adapter) InitializePricing(ctx context.Context, block uint64) error {
	for _, pair := range a.pairs {
		if err := a.manager.Warm(ctx, pair.JK.Address, block, syncDecoder); err != nil {
			return err
		}

		if err := a.manager.Warm(ctx, pair.IK.Address, block, syncDecoder); err != nil {
			return err
		}
	}

	return nil
}

func (a *Adapter) ReleaseResources(context.Context) error {
	a.manager.Release()
	return nil
}

func (a *Adapter) matching(from, to domain.Token) []PairSpec {
	from = domain.WrapNative(from, a.wrapped)
	to = domain.WrapNative(to, a.wrapped)

	out := make([]PairSpec, 0, len(a.pairs))

	for _, p := range a.pairs {
		if (p.TokenI.Equal(from) && p.TokenJ.Equal(to)) || (p.TokenI.Equal(to) && p.TokenJ.Equal(from)) {
			out = append(out, p)
		}
	}

	return out
}

func pairID(key string, p PairSpec) domain.PoolID {
	jk := domain.NewPoolID(key, domain.SortedPairPayload(p.JK.TokenA, p.JK.TokenB))
	ik := domain.NewPoolID(key, domain.SortedPairPayload(p.IK.TokenA, p.IK.TokenB))

	return domain.NewPoolID(key, domain.VirtualPairPayload(jk, ik))
}

// GetPoolIdentifiers returns the synthetic identifier of every configured
// pair matching (from, to) in either direction.
func (a *Adapter) GetPoolIdentifiers(_ context.Context, from, to domain.Token, _ domain.Side, _ uint64) ([]domain.PoolID, error) {
	matches := a.matching(from, to)
	out := make([]domain.PoolID, 0, len(matches))

	for _, p := range matches {
		out = append(out, pairID(a.key, p))
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

func (a *Adapter) realLeg(leg LegSpec, block uint64) (amm.RealLeg, bool) {
	state := a.manager.GetPoolState(leg.Address, block)
	if state == nil {
		return amm.RealLeg{}, false
	}

	return amm.RealLeg{
		TokenA:   leg.TokenA.Address,
		TokenB:   leg.TokenB.Address,
		ReserveA: state.Reserve0,
		ReserveB: state.Reserve1,
		FeeBps:   state.FeeBps,
	}, true
}

// GetPricesVolume derives the synthetic pair's virtual leg for the
// requested direction and quotes against it. A pair whose legs aren't
// both warm, or that turns out to share no common token, is skipped
// rather than erroring: both are soft failures.
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

	for _, pair := range a.matching(from, to) {
		id := pairID(a.key, pair)
		if !poolAllowed(limitPools, id) {
			continue
		}

		jk, ok := a.realLeg(pair.JK, block)
		if !ok {
			continue
		}

		ik, ok := a.realLeg(pair.IK, block)
		if !ok {
			continue
		}

		virtualJ, virtualI, err := amm.DeriveVirtualLegs(jk, ik)
		if err != nil {
			continue
		}

		leg := virtualI
		if !pair.TokenI.Equal(wrappedFrom) {
			leg = virtualJ
		}

		prices := make([]*uint256.Int, len(amounts))
		quoteFn := amm.GetAmountOut

		if side == domain.BUY {
			quoteFn = amm.GetAmountIn
		}

		for i, amt := range amounts {
			prices[i] = quoteFn(amt, leg.ReserveIn, leg.ReserveOut, leg.FeeBps)
		}

		unit := quoteFn(uint256.NewInt(1), leg.ReserveIn, leg.ReserveOut, leg.FeeBps)

		out = append(out, &quote.PoolPrices[adapter.Data]{
			Prices:         prices,
			Unit:           unit,
			Gas:            quote.ScalarGasCost(uint256.NewInt(200000)),
			Exchange:       a.key,
			PoolIdentifier: string(id),
			PoolAddresses:  []string{pair.JK.Address, pair.IK.Address},
		})
	}

	return out, nil
}

// GetCalldataGasCost estimates the L1 calldata footprint of routing
// through both real legs this synthetic pool composes.
func (a *Adapter) GetCalldataGasCost(pp *quote.PoolPrices[adapter.Data]) quote.GasCost {
	return quote.ScalarGasCost(uint256.NewInt(uint64(2100 * len(pp.PoolAddresses))))
}

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
