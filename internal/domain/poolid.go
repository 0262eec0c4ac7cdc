package domain

import (
	"fmt"
	"strings"
)

// PoolID is an opaque, venue-unique pool identifier of the form
// "<venueKey>_<payload>". Equality is case-insensitive.
type PoolID string

// NewPoolID builds a PoolID from a venue key and a venue-defined payload.
// The payload shape is up to the adapter (sorted token pair for AMMs,
// "<jkPair>_<ikPair>" for virtual pools, etc.) but must be stable across
// calls for the same pool.
func NewPoolID(venueKey, payload string) PoolID {
	return PoolID(fmt.Sprintf("%s_%s", venueKey, payload))
}

// Equal compares two pool identifiers case-insensitively.
func (p PoolID) Equal(other PoolID) bool {
	return strings.EqualFold(string(p), string(other))
}

// SortedPairPayload returns the stable sorted-pair payload AMM adapters use
// for direct pools: lowercased addresses joined with "-", sorted so that
// token order does not affect the identifier.
func SortedPairPayload(a, b Token) string {
	x, y := a.Address, b.Address
	if x > y {
		x, y = y, x
	}

	return x + "-" + y
}

// VirtualPairPayload builds the payload for a virtual pool derived from two
// legs sharing a common token: "<jkPair>_<ikPair>".
func VirtualPairPayload(jkPair, ikPair PoolID) string {
	return string(jkPair) + "_" + string(ikPair)
}
