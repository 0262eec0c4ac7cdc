// Package poolstate implements the event-backed pool state manager:
// per-pool history indexed by block, warmed via a multicall snapshot and
// kept current by processing contract logs.
package poolstate

import "github.com/holiman/uint256"

// State is a pool's AMM state at a specific block height.
type State struct {
	Reserve0 *uint256.Int
	Reserve1 *uint256.Int
	FeeBps   uint32
}

// Clone returns a deep copy of s so callers can't mutate manager-owned
// reserves through a returned State.
func (s State) Clone() State {
	return State{
		Reserve0: new(uint256.Int).Set(s.Reserve0),
		Reserve1: new(uint256.Int).Set(s.Reserve1),
		FeeBps:   s.FeeBps,
	}
}

// Log is the minimal shape of a contract log the manager needs to derive
// a new State from an old one. Topics/Data are opaque to the manager;
// interpretation is delegated to a per-pool LogDecoder.
type Log struct {
	BlockNumber uint64
	Address     string
	Topics      []string
	Data        []byte
}

// LogDecoder derives the next State for a pool from its current state and
// one log. Returns nil if the log doesn't change this pool's state (e.g.
// an unrelated event on the same address). Adapters supply one decoder
// per venue's event ABI; the manager itself has no protocol knowledge.
type LogDecoder func(prev State, log Log) (next *State, ok bool)
