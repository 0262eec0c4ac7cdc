// Package amm implements the pure constant-product quote math and the
// virtual-pool derivation used by constant-product-style adapters. Every
// function here is a pure function of big integers: no I/O, no pool
// state, no adapter dependency.
package amm

import "github.com/holiman/uint256"

// FeeDenominator is the basis-point denominator fees are expressed
// against (spec F = 10000).
const FeeDenominator = 10_000

// ReserveLimit is the largest value a reserve (or a reserve plus an input
// delta) may take before the underlying contract would overflow:
// 2^112 - 1.
var ReserveLimit = func() *uint256.Int {
	limit := new(uint256.Int).Lsh(uint256.NewInt(1), 112)
	return limit.Sub(limit, uint256.NewInt(1))
}()

// GetAmountOut computes the constant-product output amount for input x
// against reserves (rIn, rOut) at fee (basis points, against
// FeeDenominator). Returns zero if the denominator is zero or the
// reserve-overflow guard trips.
//
//	out = (x * (F - fee) * rOut) / (rIn * F + x * (F - fee))
func GetAmountOut(x, rIn, rOut *uint256.Int, feeBps uint32) *uint256.Int {
	zero := uint256.NewInt(0)

	if x.IsZero() {
		return zero.Clone()
	}

	// Reserve overflow guard: rIn + x must not exceed 2^112-1.
	sum, overflow := new(uint256.Int).AddOverflow(rIn, x)
	if overflow || sum.Gt(ReserveLimit) {
		return zero.Clone()
	}

	feeMultiplier := feeMultiplier(feeBps)

	numerator := new(uint256.Int).Mul(x, feeMultiplier)
	numerator.Mul(numerator, rOut)

	denominator := new(uint256.Int).Mul(rIn, uint256.NewInt(FeeDenominator))
	xFee := new(uint256.Int).Mul(x, feeMultiplier)
	denominator.Add(denominator, xFee)

	if denominator.IsZero() {
		return zero.Clone()
	}

	out := new(uint256.Int).Div(numerator, denominator)

	return out
}

// GetAmountIn computes the constant-product input amount required to
// receive output y from reserves (rIn, rOut) at fee feeBps. Returns zero
// when the denominator is non-positive or the numerator is zero.
//
//	in = 1 + (rIn * y * F) / ((F - fee) * (rOut - y))
//
// The "1 +" round-up is contract-exact: it matches what the on-chain
// router actually requires, not a mathematically rounded estimate.
func GetAmountIn(y, rIn, rOut *uint256.Int, feeBps uint32) *uint256.Int {
	zero := uint256.NewInt(0)

	if y.IsZero() || rOut.Cmp(y) <= 0 {
		return zero.Clone()
	}

	feeMultiplier := feeMultiplier(feeBps)

	denomRight := new(uint256.Int).Sub(rOut, y)
	denominator := new(uint256.Int).Mul(feeMultiplier, denomRight)

	if denominator.IsZero() {
		return zero.Clone()
	}

	numerator := new(uint256.Int).Mul(rIn, y)
	numerator.Mul(numerator, uint256.NewInt(FeeDenominator))

	if numerator.IsZero() {
		return zero.Clone()
	}

	in := new(uint256.Int).Div(numerator, denominator)
	in.Add(in, uint256.NewInt(1))

	return in
}

func feeMultiplier(feeBps uint32) *uint256.Int {
	return new(uint256.Int).Sub(uint256.NewInt(FeeDenominator), uint256.NewInt(uint64(feeBps)))
}
