// Package quote holds the canonical PoolPrices/ImprovedPoolPrice shapes
// and the post-hoc validation pass the pricing coordinator runs over
// them.
package quote

import "github.com/holiman/uint256"

// GasCost is either a single value applying to every chunk, or a
// per-chunk sequence aligned to the request's amounts. Exactly one of
// the two fields is set; IsSequence reports which.
type GasCost struct {
	Scalar   *uint256.Int
	Sequence []*uint256.Int
}

// IsSequence reports whether this GasCost carries a per-chunk sequence
// rather than a single scalar.
func (g GasCost) IsSequence() bool {
	return g.Sequence != nil
}

// ScalarGasCost builds a scalar GasCost.
func ScalarGasCost(v *uint256.Int) GasCost {
	return GasCost{Scalar: v}
}

// SequenceGasCost builds a per-chunk GasCost.
func SequenceGasCost(v []*uint256.Int) GasCost {
	return GasCost{Sequence: v}
}

// PoolPrices is a quote for one pool, parametrized over the venue-opaque
// payload type D used by downstream transaction encoding.
type PoolPrices[D any] struct {
	// Prices[i] is the output amount for amounts[i] (SELL) or the input
	// amount for amounts[i] (BUY). Zero means "no quote for that chunk".
	Prices []*uint256.Int
	// Unit is the quote for one whole unit of the fixed-decimal token,
	// used for price-impact baselining.
	Unit *uint256.Int
	// Gas is the scalar-or-sequence gas cost for this quote.
	Gas GasCost
	// Exchange is the venue key that produced this quote.
	Exchange string
	// PoolIdentifier and PoolAddresses are routing metadata.
	PoolIdentifier string
	PoolAddresses  []string
	// Data is the venue-opaque payload transaction encoding later reads.
	Data D
}

// ImprovedPoolPrice envelopes one pool's quote, or a diagnostic null when
// the venue was asked but returned nothing for a known reason.
type ImprovedPoolPrice[D any] struct {
	DexKey string
	PoolID string
	Prices *PoolPrices[D]
}

// Diagnostic reasons used as PoolID on a null-Prices envelope.
const (
	ReasonFeeOnTransferUnsupported = "isSrcTokenTransferFeeToBeExchanged_pool"
)
