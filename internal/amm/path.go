package amm

import "github.com/holiman/uint256"

// Leg is one hop of a multi-pool path: reserves oriented so that
// ReserveIn is the side the leg consumes and ReserveOut the side it pays
// from, for the direction the path is being walked in.
type Leg struct {
	ReserveIn  *uint256.Int
	ReserveOut *uint256.Int
	FeeBps     uint32
}

// ComposeSell walks legs left-to-right, fixing the input amount: the
// output of leg i becomes the input of leg i+1. Returns zero as soon as
// any leg returns zero (no silent partial fill).
func ComposeSell(amountIn *uint256.Int, legs []Leg) *uint256.Int {
	amount := amountIn

	for _, leg := range legs {
		amount = GetAmountOut(amount, leg.ReserveIn, leg.ReserveOut, leg.FeeBps)
		if amount.IsZero() {
			return amount
		}
	}

	return amount
}

// ComposeBuy walks legs right-to-left, fixing the output amount: the
// input required by leg i becomes the output target of leg i-1. legs
// must already be given in forward (input-to-output) order; ComposeBuy
// walks them in reverse internally.
func ComposeBuy(amountOut *uint256.Int, legs []Leg) *uint256.Int {
	amount := amountOut

	for i := len(legs) - 1; i >= 0; i-- {
		leg := legs[i]
		amount = GetAmountIn(amount, leg.ReserveIn, leg.ReserveOut, leg.FeeBps)

		if amount.IsZero() {
			return amount
		}
	}

	return amount
}
