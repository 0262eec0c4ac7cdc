package virtualpool

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

func buildPair() (PairSpec, *poolstate.Manager) {
	tokenI := domain.NewToken("0xi", 18)
	tokenJ := domain.NewToken("0xj", 18)
	tokenK := domain.NewToken("0xk", 18)

	fetcher := &fakeFetcher{states: map[string]poolstate.State{
		"0xjk": {Reserve0: u(1000), Reserve1: u(2000), FeeBps: 30},
		"0xik": {Reserve0: u(500), Reserve1: u(2000), FeeBps: 30},
	}}
	manager := poolstate.NewManager(fetcher, fakeSource{}, nil)

	pair := PairSpec{
		JK:     LegSpec{Address: "0xjk", TokenA: tokenJ, TokenB: tokenK},
		IK:     LegSpec{Address: "0xik", TokenA: tokenI, TokenB: tokenK},
		TokenI: tokenI,
		TokenJ: tokenJ,
	}

	return pair, manager
}

func TestGetPricesVolume_DerivesVirtualPool(t *testing.T) {
	pair, manager := buildPair()
	a := New("virtualuniswapv2", domain.Token{}, []PairSpec{pair}, manager)

	if err := a.InitializePricing(context.Background(), 1); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	pps, err := a.GetPricesVolume(context.Background(), pair.TokenI, pair.TokenJ, amounts(0, 100), domain.SELL, 2, nil, domain.TransferFeeParams{})
	if err != nil {
		t.Fatalf("get prices: %v", err)
	}

	if len(pps) != 1 {
		t.Fatalf("expected one synthetic quote, got %d", len(pps))
	}

	pp := pps[0]
	if pp.Prices[0].Uint64() != 0 {
		t.Fatalf("expected zero price at zero amount, got %v", pp.Prices[0])
	}

	if pp.Prices[1].IsZero() {
		t.Fatalf("expected a nonzero price for 100 units in, got zero")
	}

	if len(pp.PoolAddresses) != 2 {
		t.Fatalf("expected both legs listed as pool addresses, got %v", pp.PoolAddresses)
	}
}

func TestGetPricesVolume_UnwarmedLegSkipped(t *testing.T) {
	pair, _ := buildPair()
	manager := poolstate.NewManager(&fakeFetcher{states: map[string]poolstate.State{}}, fakeSource{}, nil)
	a := New("virtualuniswapv2", domain.Token{}, []PairSpec{pair}, manager)

	pps, err := a.GetPricesVolume(context.Background(), pair.TokenI, pair.TokenJ, amounts(100), domain.SELL, 2, nil, domain.TransferFeeParams{})
	if err != nil {
		t.Fatalf("get prices: %v", err)
	}

	if len(pps) != 0 {
		t.Fatalf("expected no quotes when legs aren't warm, got %+v", pps)
	}
}
