package quote

import "github.com/holiman/uint256"

// ToImprovedPoolPrices builds the canonical envelope set for one adapter's
// GetPricesVolume result: every adapter invocation contributes at least
// one envelope, even when it returned no pools at all.
func ToImprovedPoolPrices[D any](dexKey string, pps []*PoolPrices[D]) []ImprovedPoolPrice[D] {
	if len(pps) == 0 {
		return []ImprovedPoolPrice[D]{{DexKey: dexKey, PoolID: "", Prices: nil}}
	}

	out := make([]ImprovedPoolPrice[D], 0, len(pps))

	for _, pp := range pps {
		poolID := ""
		if pp != nil {
			poolID = pp.PoolIdentifier
		}

		out = append(out, ImprovedPoolPrice[D]{DexKey: dexKey, PoolID: poolID, Prices: pp})
	}

	return out
}

// ValidationFailure describes why an envelope failed the validation pass,
// for the caller to log (exchange name + reason) before dropping it.
type ValidationFailure struct {
	Exchange string
	Reason   string
}

// Validate checks one PoolPrices against the invariants every envelope
// must satisfy:
//   - prices.length == amounts.length
//   - if gas is a sequence, its length matches amounts, and
//     amounts[i] == 0 implies gas[i] == 0
//   - not all entries of prices may be zero
//
// A nil pp always passes: diagnostic envelopes carry no PoolPrices to
// validate.
func Validate[D any](pp *PoolPrices[D], amounts []*uint256.Int) (*ValidationFailure, bool) {
	if pp == nil {
		return nil, true
	}

	exchange := pp.Exchange

	if len(pp.Prices) != len(amounts) {
		return &ValidationFailure{Exchange: exchange, Reason: "prices length != amounts length"}, false
	}

	if pp.Gas.IsSequence() {
		if len(pp.Gas.Sequence) != len(amounts) {
			return &ValidationFailure{Exchange: exchange, Reason: "gas cost sequence length != amounts length"}, false
		}

		for i, amt := range amounts {
			if amt.IsZero() && !pp.Gas.Sequence[i].IsZero() {
				return &ValidationFailure{Exchange: exchange, Reason: "nonzero gas cost at zero-amount index"}, false
			}
		}
	}

	for i, amt := range amounts {
		if amt.IsZero() && !pp.Prices[i].IsZero() {
			return &ValidationFailure{Exchange: exchange, Reason: "nonzero price at zero-amount index"}, false
		}
	}

	allZero := true

	for _, p := range pp.Prices {
		if !p.IsZero() {
			allZero = false
			break
		}
	}

	if allZero {
		return &ValidationFailure{Exchange: exchange, Reason: "all prices are zero"}, false
	}

	return nil, true
}
