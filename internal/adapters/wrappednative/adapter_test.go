package wrappednative

import (
	"context"
	"testing"

	"github.com/holiman/uint256"

	"github.com/dexpricer/core/internal/domain"
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

func TestGetPricesVolume_OneToOne(t *testing.T) {
	wrapped := domain.NewToken("0xwrapped", 18)
	native := domain.NewToken(domain.NativeSentinel, 18)

	a := New("wnative", wrapped)

	pps, err := a.GetPricesVolume(context.Background(), native, wrapped, []*uint256.Int{u(0), u(1000)}, domain.SELL, 1, nil, domain.TransferFeeParams{})
	if err != nil {
		t.Fatalf("get prices: %v", err)
	}

	if len(pps) != 1 || pps[0].Prices[1].Uint64() != 1000 {
		t.Fatalf("expected 1:1 pass-through, got %+v", pps)
	}
}

func TestGetPricesVolume_NonBridgePairYieldsNothing(t *testing.T) {
	wrapped := domain.NewToken("0xwrapped", 18)
	other := domain.NewToken("0xother", 18)

	a := New("wnative", wrapped)

	pps, err := a.GetPricesVolume(context.Background(), wrapped, other, []*uint256.Int{u(1)}, domain.SELL, 1, nil, domain.TransferFeeParams{})
	if err != nil {
		t.Fatalf("get prices: %v", err)
	}

	if len(pps) != 0 {
		t.Fatalf("expected no quote for a non-bridge pair, got %+v", pps)
	}
}

func TestGetPoolIdentifiers_BridgePairOnly(t *testing.T) {
	wrapped := domain.NewToken("0xwrapped", 18)
	native := domain.NewToken(domain.NativeSentinel, 18)
	other := domain.NewToken("0xother", 18)

	a := New("wnative", wrapped)

	ids, err := a.GetPoolIdentifiers(context.Background(), native, wrapped, domain.SELL, 1)
	if err != nil || len(ids) != 1 {
		t.Fatalf("expected one identifier for the bridge pair, got %v, %v", ids, err)
	}

	ids, err = a.GetPoolIdentifiers(context.Background(), wrapped, other, domain.SELL, 1)
	if err != nil || len(ids) != 0 {
		t.Fatalf("expected no identifier for a non-bridge pair, got %v, %v", ids, err)
	}
}
