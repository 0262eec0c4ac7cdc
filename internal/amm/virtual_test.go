package amm

import "testing"

func TestDeriveVirtualLegs_CommonToken(t *testing.T) {
	// jk: pool(J, K) reserves (100, 200), fee 30.
	// ik: pool(I, K) reserves (50, 200), fee 50.
	jk := RealLeg{TokenA: "J", ReserveA: u(100), TokenB: "K", ReserveB: u(200), FeeBps: 30}
	ik := RealLeg{TokenA: "I", ReserveA: u(50), TokenB: "K", ReserveB: u(200), FeeBps: 50}

	legJtoI, legItoJ, err := DeriveVirtualLegs(jk, ik)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if legJtoI.FeeBps != 50 || legItoJ.FeeBps != 50 {
		t.Fatalf("synthetic fee should be max(30,50)=50, got %d/%d", legJtoI.FeeBps, legItoJ.FeeBps)
	}

	if legJtoI.ReserveIn.IsZero() || legJtoI.ReserveOut.IsZero() {
		t.Fatalf("expected non-zero synthetic reserves")
	}
}

func TestDeriveVirtualLegs_NoCommonToken(t *testing.T) {
	jk := RealLeg{TokenA: "J", ReserveA: u(100), TokenB: "K", ReserveB: u(200), FeeBps: 30}
	ik := RealLeg{TokenA: "I", ReserveA: u(50), TokenB: "M", ReserveB: u(200), FeeBps: 50}

	_, _, err := DeriveVirtualLegs(jk, ik)
	if err != ErrNoCommonToken {
		t.Fatalf("expected ErrNoCommonToken, got %v", err)
	}
}

func TestComposeSell_StopsAtZero(t *testing.T) {
	legs := []Leg{
		{ReserveIn: u(1_000_000), ReserveOut: u(2_000_000), FeeBps: 30},
		{ReserveIn: u(0), ReserveOut: u(0), FeeBps: 30},
	}

	got := ComposeSell(u(1000), legs)
	if !got.IsZero() {
		t.Fatalf("expected zero when a later leg has no liquidity, got %s", got.String())
	}
}

func TestComposeBuy_RightToLeft(t *testing.T) {
	legs := []Leg{
		{ReserveIn: u(1_000_000), ReserveOut: u(2_000_000), FeeBps: 30},
		{ReserveIn: u(2_000_000), ReserveOut: u(3_000_000), FeeBps: 30},
	}

	out := u(1000)

	got := ComposeBuy(out, legs)
	if got.IsZero() {
		t.Fatalf("expected non-zero input for a satisfiable output")
	}
}
