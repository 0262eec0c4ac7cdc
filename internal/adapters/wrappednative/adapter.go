// Package wrappednative implements the adapter contract for the
// trivial 1:1 bridge between the chain's native coin and its canonical
// wrapped ERC20, an amount-independent constant-price venue.
package wrappednative

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/dexpricer/core/internal/adapter"
	"github.com/dexpricer/core/internal/domain"
	"github.com/dexpricer/core/internal/quote"
)

// Adapter quotes the native<->wrapped bridge at an exact 1:1 rate: no
// reserves, no fee, no state to warm.
type Adapter struct {
	key     string
	wrapped domain.Token
}

// New builds an Adapter bridging domain.NativeSentinel to wrapped.
func New(key string, wrapped domain.Token) *Adapter {
	return &Adapter{key: key, wrapped: wrapped}
}

func (a *Adapter) Key() string { return a.key }

// Capabilities marks this venue amount-independent (callers may opt out
// of it for large-amount identifier scans) and fee-on-transfer-tolerant,
// since wrapping/unwrapping never touches a fee-on-transfer path.
func (a *Adapter) Capabilities() adapter.Capabilities {
	return adapter.Capabilities{
		HasConstantPriceLargeAmounts: true,
		IsFeeOnTransferSupported:     true,
	}
}

func (a *Adapter) InitializePricing(context.Context, uint64) error { return nil }
func (a *Adapter) ReleaseResources(context.Context) error          { return nil }

func (a *Adapter) isBridgePair(from, to domain.Token) bool {
	return (from.IsNative() && to.Equal(a.wrapped)) || (to.IsNative() && from.Equal(a.wrapped))
}

func (a *Adapter) poolID() domain.PoolID {
	return domain.NewPoolID(a.key, domain.SortedPairPayload(domain.NewToken(domain.NativeSentinel, a.wrapped.Decimals), a.wrapped))
}

// GetPoolIdentifiers returns this adapter's single identifier when
// (from, to) is the native/wrapped pair, otherwise none.
func (a *Adapter) GetPoolIdentifiers(_ context.Context, from, to domain.Token, _ domain.Side, _ uint64) ([]domain.PoolID, error) {
	if !a.isBridgePair(from, to) {
		return nil, nil
	}

	return []domain.PoolID{a.poolID()}, nil
}

// GetPricesVolume returns each amount unchanged: wrapping and unwrapping
// never move value.
func (a *Adapter) GetPricesVolume(
	_ context.Context,
	from, to domain.Token,
	amounts []*uint256.Int,
	_ domain.Side,
	_ uint64,
	limitPools []domain.PoolID,
	_ domain.TransferFeeParams,
) ([]*quote.PoolPrices[adapter.Data], error) {
	if !a.isBridgePair(from, to) {
		return nil, nil
	}

	id := a.poolID()

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

	prices := make([]*uint256.Int, len(amounts))
	for i, amt := range amounts {
		prices[i] = new(uint256.Int).Set(amt)
	}

	return []*quote.PoolPrices[adapter.Data]{{
		Prices:         prices,
		Unit:           uint256.NewInt(1),
		Gas:            quote.ScalarGasCost(uint256.NewInt(21000)),
		Exchange:       a.key,
		PoolIdentifier: string(id),
		PoolAddresses:  nil,
	}}, nil
}

// GetCalldataGasCost is a fixed wrap/unwrap call's calldata footprint.
func (a *Adapter) GetCalldataGasCost(*quote.PoolPrices[adapter.Data]) quote.GasCost {
	return quote.ScalarGasCost(uint256.NewInt(68))
}
