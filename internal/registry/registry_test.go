package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexpricer/core/internal/adapter"
	"github.com/dexpricer/core/internal/domain"
	"github.com/dexpricer/core/internal/quote"
	"github.com/dexpricer/core/internal/routeopt"
	"github.com/dexpricer/core/internal/telemetry"
)

type fakeAdapter struct {
	key  string
	caps adapter.Capabilities
}

func (f *fakeAdapter) Key() string                                     { return f.key }
func (f *fakeAdapter) Capabilities() adapter.Capabilities              { return f.caps }
func (f *fakeAdapter) InitializePricing(context.Context, uint64) error { return nil }
func (f *fakeAdapter) ReleaseResources(context.Context) error          { return nil }

func (f *fakeAdapter) GetPoolIdentifiers(context.Context, domain.Token, domain.Token, domain.Side, uint64) ([]domain.PoolID, error) {
	return nil, nil
}

func (f *fakeAdapter) GetPricesVolume(
	context.Context,
	domain.Token, domain.Token,
	[]*uint256.Int,
	domain.Side,
	uint64,
	[]domain.PoolID,
	domain.TransferFeeParams,
) ([]*quote.PoolPrices[adapter.Data], error) {
	return nil, nil
}

func (f *fakeAdapter) GetCalldataGasCost(*quote.PoolPrices[adapter.Data]) quote.GasCost {
	return quote.ScalarGasCost(uint256.NewInt(0))
}

func TestNew_GetAllDexKeys_PreservesRegistrationOrder(t *testing.T) {
	r := New([]adapter.Adapter{
		&fakeAdapter{key: "uniswapv2"},
		&fakeAdapter{key: "sushiswap"},
		&fakeAdapter{key: "curve"},
	}, routeopt.Pipeline{})

	assert.Equal(t, []string{"uniswapv2", "sushiswap", "curve"}, r.GetAllDexKeys())
}

func TestGetDexByKey_UnknownKeyWrapsSentinel(t *testing.T) {
	r := New([]adapter.Adapter{&fakeAdapter{key: "uniswapv2"}}, routeopt.Pipeline{})

	_, err := r.GetDexByKey("nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, telemetry.ErrInvalidDexKey))
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestGetDexByKey_KnownKeyResolves(t *testing.T) {
	a := &fakeAdapter{key: "uniswapv2"}
	r := New([]adapter.Adapter{a}, routeopt.Pipeline{})

	got, err := r.GetDexByKey("uniswapv2")
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestGetDexsSupportingFeeOnTransfer_FiltersAndSkipsUnknown(t *testing.T) {
	supported := &fakeAdapter{key: "supports", caps: adapter.Capabilities{IsFeeOnTransferSupported: true}}
	unsupported := &fakeAdapter{key: "unsupported"}

	r := New([]adapter.Adapter{supported, unsupported}, routeopt.Pipeline{})

	got := r.GetDexsSupportingFeeOnTransfer([]string{"supports", "unsupported", "ghost"})

	require.Len(t, got, 1)
	assert.Same(t, supported, got[0])
}
