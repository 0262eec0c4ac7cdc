package constantproduct

import (
	"context"
	"testing"

	"github.com/holiman/uint256"

	"github.com/dexpricer/core/internal/domain"
	"github.com/dexpricer/core/internal/poolstate"
)

type fakeFetcher struct {
	states map[string]poolstate.State
}

func (f *fakeFetcher) FetchStates(_ context.Context, addrs []string, _ uint64) (map[string]poolstate.State, error) {
	out := make(map[string]poolstate.State, len(addrs))

	for _, a := range addrs {
		if s, ok := f.states[a]; ok {
			out[a] = s
		}
	}

	return out, nil
}

type fakeSource struct{}

func (fakeSource) SubscribeLogs(_ context.Context, _ uint64, _ []string) (<-chan poolstate.Log, error) {
	return make(chan poolstate.Log), nil
}

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

func amounts(vs ...uint64) []*uint256.Int {
	out := make([]*uint256.Int, len(vs))
	for i, v := range vs {
		out[i] = u(v)
	}

	return out
}

// TestGetPricesVolume_SingleConstantProductPool covers a single
// constant-product pool, reserves (1 000 000, 2 000 000), fee 30 bps.
func TestGetPricesVolume_SingleConstantProductPool(t *testing.T) {
	tokenA := domain.NewToken("0xa", 18)
	tokenB := domain.NewToken("0xb", 18)

	fetcher := &fakeFetcher{states: map[string]poolstate.State{
		"0xpool": {Reserve0: u(1000000), Reserve1: u(2000000), FeeBps: 30},
	}}
	manager := poolstate.NewManager(fetcher, fakeSource{}, nil)

	a := New("uniswapv2", domain.Token{}, []PoolSpec{{Address: "0xpool", TokenA: tokenA, TokenB: tokenB}}, manager)

	if err := a.InitializePricing(context.Background(), 1); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	pps, err := a.GetPricesVolume(context.Background(), tokenA, tokenB, amounts(0, 1000), domain.SELL, 2, nil, domain.TransferFeeParams{})
	if err != nil {
		t.Fatalf("get prices: %v", err)
	}

	if len(pps) != 1 {
		t.Fatalf("expected one pool quote, got %d", len(pps))
	}

	pp := pps[0]
	if pp.Prices[0].Uint64() != 0 || pp.Prices[1].Uint64() != 1992 {
		t.Fatalf("unexpected prices: %v", pp.Prices)
	}

	if pp.Unit.Uint64() != 1 {
		t.Fatalf("unexpected unit price: %v", pp.Unit)
	}
}

// TestGetPricesVolume_UnwarmedPoolSkipped covers the "no quote for an
// unwarmed pool" soft-fail: the adapter must not error, only omit it.
func TestGetPricesVolume_UnwarmedPoolSkipped(t *testing.T) {
	tokenA := domain.NewToken("0xa", 18)
	tokenB := domain.NewToken("0xb", 18)

	manager := poolstate.NewManager(&fakeFetcher{states: map[string]poolstate.State{}}, fakeSource{}, nil)
	a := New("uniswapv2", domain.Token{}, []PoolSpec{{Address: "0xpool", TokenA: tokenA, TokenB: tokenB}}, manager)

	pps, err := a.GetPricesVolume(context.Background(), tokenA, tokenB, amounts(1), domain.SELL, 2, nil, domain.TransferFeeParams{})
	if err != nil {
		t.Fatalf("get prices: %v", err)
	}

	if len(pps) != 0 {
		t.Fatalf("expected no quotes for an unwarmed pool, got %+v", pps)
	}
}

// TestGetPoolIdentifiers_MatchesEitherDirection covers that the pair
// match is direction-agnostic.
func TestGetPoolIdentifiers_MatchesEitherDirection(t *testing.T) {
	tokenA := domain.NewToken("0xa", 18)
	tokenB := domain.NewToken("0xb", 18)

	manager := poolstate.NewManager(&fakeFetcher{}, fakeSource{}, nil)
	a := New("uniswapv2", domain.Token{}, []PoolSpec{{Address: "0xpool", TokenA: tokenA, TokenB: tokenB}}, manager)

	ids, err := a.GetPoolIdentifiers(context.Background(), tokenB, tokenA, domain.SELL, 1)
	if err != nil {
		t.Fatalf("get identifiers: %v", err)
	}

	if len(ids) != 1 {
		t.Fatalf("expected one identifier regardless of direction, got %v", ids)
	}
}
