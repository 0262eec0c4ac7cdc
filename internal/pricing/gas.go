package pricing

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/dexpricer/core/internal/quote"
)

// GasRatio is the rollup L1/L2 gas ratio as an exact fraction (Num/Den),
// so the ceiling computation never touches floating point.
type GasRatio struct {
	Num, Den uint64
}

// ErrMixedGasShape marks an adapter whose L2 gas cost and
// GetCalldataGasCost output disagree on scalar-vs-sequence shape, or
// whose sequence length does not match amounts: a hard error for that
// adapter's whole batch.
var ErrMixedGasShape = errors.New("mixed scalar/sequence calldata gas cost")

// AdjustGasCost overlays l1 (the adapter's GetCalldataGasCost output)
// onto l2 (the quote's own gas cost) at ratio, returning the combined
// L2-equivalent gas cost. l2 and l1 must agree on shape; sequences must
// both have length amountsLen.
func AdjustGasCost(l2, l1 quote.GasCost, ratio GasRatio, amountsLen int) (quote.GasCost, error) {
	if l2.IsSequence() != l1.IsSequence() {
		return quote.GasCost{}, ErrMixedGasShape
	}

	if l2.IsSequence() {
		if len(l2.Sequence) != amountsLen || len(l1.Sequence) != amountsLen {
			return quote.GasCost{}, ErrMixedGasShape
		}

		out := make([]*uint256.Int, amountsLen)
		for i := range out {
			out[i] = new(uint256.Int).Add(l2.Sequence[i], ceilRatio(ratio, l1.Sequence[i]))
		}

		return quote.SequenceGasCost(out), nil
	}

	sum := new(uint256.Int).Add(l2.Scalar, ceilRatio(ratio, l1.Scalar))

	return quote.ScalarGasCost(sum), nil
}

// ceilRatio computes ceil(ratio * v) without floating point: (v*num +
// den - 1) / den. A nil v or a zero denominator yields zero, matching
// the "ratio 0 is identity" property.
func ceilRatio(ratio GasRatio, v *uint256.Int) *uint256.Int {
	if v == nil || ratio.Den == 0 || ratio.Num == 0 {
		return uint256.NewInt(0)
	}

	num := uint256.NewInt(ratio.Num)
	den := uint256.NewInt(ratio.Den)

	product := new(uint256.Int).Mul(v, num)
	numerator := new(uint256.Int).Add(product, new(uint256.Int).Sub(den, uint256.NewInt(1)))

	return new(uint256.Int).Div(numerator, den)
}
