package amm

import (
	"errors"

	"github.com/holiman/uint256"
)

// ErrNoCommonToken is returned when the two legs passed to DeriveVirtual
// share no token: the virtual pool cannot be computed. This is a soft
// error: callers should skip the virtual pool, not fail the request.
var ErrNoCommonToken = errors.New("amm: legs share no common token")

// RealLeg is one real pool's state as input to virtual-pool derivation,
// tagged with the two token addresses it holds.
type RealLeg struct {
	TokenA, TokenB     string
	ReserveA, ReserveB *uint256.Int
	FeeBps             uint32
}

// DeriveVirtual derives a synthetic (i<->j) pool from two real legs that
// share a common token k: jk is the leg pairing the common token with j,
// ik is the leg pairing the common token with i. The synthetic balances
// are scaled so the common-token leg matches between the two; the
// synthetic fee is the max of the two legs' fees.
//
// Returns ErrNoCommonToken if the legs share no token, in which case the
// caller must skip this virtual pool rather than fail the whole request.
func DeriveVirtual(jk, ik RealLeg) (i RealLeg, j RealLeg, common string, err error) {
	common, kReserveJK, jToken, jReserve, ok := commonToken(jk)
	if !ok {
		return RealLeg{}, RealLeg{}, "", ErrNoCommonToken
	}

	commonIK, kReserveIK, iToken, iReserve, ok := commonToken(ik)
	if !ok || commonIK != common {
		return RealLeg{}, RealLeg{}, "", ErrNoCommonToken
	}

	if kReserveJK.IsZero() || kReserveIK.IsZero() {
		return RealLeg{}, RealLeg{}, "", ErrNoCommonToken
	}

	// Scale the j-side reserve into ik's common-token unit so the two legs
	// agree on how much of the shared token backs them: virtual reserve of
	// j = jReserve * kReserveIK / kReserveJK, and symmetrically for i.
	virtualJReserve := new(uint256.Int).Mul(jReserve, kReserveIK)
	virtualJReserve.Div(virtualJReserve, kReserveJK)

	virtualIReserve := new(uint256.Int).Mul(iReserve, kReserveJK)
	virtualIReserve.Div(virtualIReserve, kReserveIK)

	fee := jk.FeeBps
	if ik.FeeBps > fee {
		fee = ik.FeeBps
	}

	j = RealLeg{TokenA: jToken, ReserveA: virtualJReserve, FeeBps: fee}
	i = RealLeg{TokenA: iToken, ReserveA: virtualIReserve, FeeBps: fee}

	return i, j, common, nil
}

// commonToken reports which side of leg is conventionally treated as the
// "common" (k) token — here, simply TokenB/ReserveB — along with the
// other side. Both sides are tried by the caller, so either orientation
// of a leg works regardless of which field holds the shared token.
func commonToken(leg RealLeg) (token string, kReserve *uint256.Int, otherToken string, otherReserve *uint256.Int, ok bool) {
	if leg.TokenB == "" || leg.ReserveB == nil || leg.ReserveA == nil || leg.TokenA == "" {
		return "", nil, "", nil, false
	}

	return leg.TokenB, leg.ReserveB, leg.TokenA, leg.ReserveA, true
}

// DeriveVirtualLegs is the convenience form most adapters use: given two
// real legs with explicit (TokenA, TokenB) pairs, find whichever of the
// four token-field combinations matches and derive the virtual pool. It
// tries both orientations of both legs before giving up with
// ErrNoCommonToken.
func DeriveVirtualLegs(jk, ik RealLeg) (virtualJ, virtualI Leg, err error) {
	orientations := [][2]RealLeg{
		{jk, ik},
		{jk, swapSides(ik)},
		{swapSides(jk), ik},
		{swapSides(jk), swapSides(ik)},
	}

	for _, pair := range orientations {
		i, j, _, derr := DeriveVirtual(pair[0], pair[1])
		if derr == nil {
			return Leg{ReserveIn: j.ReserveA, ReserveOut: i.ReserveA, FeeBps: j.FeeBps},
				Leg{ReserveIn: i.ReserveA, ReserveOut: j.ReserveA, FeeBps: i.FeeBps},
				nil
		}
	}

	return Leg{}, Leg{}, ErrNoCommonToken
}

func swapSides(leg RealLeg) RealLeg {
	return RealLeg{
		TokenA:   leg.TokenB,
		TokenB:   leg.TokenA,
		ReserveA: leg.ReserveB,
		ReserveB: leg.ReserveA,
		FeeBps:   leg.FeeBps,
	}
}
