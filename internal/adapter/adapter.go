// Package adapter defines the uniform capability surface every venue
// plug-in implements: identifiers, quotes, lifecycle, feature flags.
// Concrete venues live under internal/adapters/*; this package only
// states the contract they satisfy.
package adapter

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/dexpricer/core/internal/domain"
	"github.com/dexpricer/core/internal/quote"
)

// Data is the venue-opaque payload carried in a PoolPrices, used later by
// transaction encoding. The core never interprets it.
type Data = any

// Capabilities is a tagged-presence record describing what an adapter can
// do, in place of detecting optional methods by interface assertion: a
// capability record avoids conditional dispatch by method existence.
type Capabilities struct {
	// HasConstantPriceLargeAmounts: quote is linear and amount-independent.
	HasConstantPriceLargeAmounts bool
	// NeedWrapNative: native-token inputs must be wrapped before lookup.
	NeedWrapNative bool
	// IsFeeOnTransferSupported: if false and the source token has an
	// in-play transfer fee, the adapter is skipped with a diagnostic
	// envelope instead of being called.
	IsFeeOnTransferSupported bool
	// HasInitializePricing/HasReleaseResources: whether the optional
	// lifecycle hooks are implemented; the lifecycle manager only invokes
	// them when true.
	HasInitializePricing bool
	HasReleaseResources  bool
	// CacheStateKey, if non-empty, names the shared-cache key the
	// lifecycle manager deletes (master role only) before (re)init.
	CacheStateKey string
}

// Adapter is the capability surface one venue plug-in implements.
type Adapter interface {
	// Key returns this adapter's venue key, used in pool identifiers and
	// as the registry lookup key.
	Key() string

	// Capabilities returns this adapter's fixed feature-flag record.
	Capabilities() Capabilities

	// InitializePricing warms caches and subscribes to events, if the
	// adapter's Capabilities().HasInitializePricing is true. Idempotent.
	InitializePricing(ctx context.Context, block uint64) error

	// ReleaseResources tears down whatever InitializePricing set up, if
	// the adapter's Capabilities().HasReleaseResources is true.
	// Idempotent.
	ReleaseResources(ctx context.Context) error

	// GetPoolIdentifiers returns venue-scoped pool identifiers applicable
	// to (from, to) at side and block.
	GetPoolIdentifiers(ctx context.Context, from, to domain.Token, side domain.Side, block uint64) ([]domain.PoolID, error)

	// GetPricesVolume returns zero or more quotes for (from, to) across
	// amounts at side and block. limitPools, if non-nil, restricts the
	// adapter to quoting only those pool identifiers.
	GetPricesVolume(
		ctx context.Context,
		from, to domain.Token,
		amounts []*uint256.Int,
		side domain.Side,
		block uint64,
		limitPools []domain.PoolID,
		transferFees domain.TransferFeeParams,
	) ([]*quote.PoolPrices[Data], error)

	// GetCalldataGasCost returns the scalar-or-sequence L1 calldata gas
	// cost for pp, used by the coordinator's rollup gas overlay.
	GetCalldataGasCost(pp *quote.PoolPrices[Data]) quote.GasCost
}
