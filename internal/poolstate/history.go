package poolstate

import "sort"

// history keeps a pool's State snapshots indexed by the block at which
// they became effective, in increasing block order. Lookups for "the
// state as of whatever the manager is currently caught up to" are O(1)
// via the cached tip; any other (historical) query falls back to a
// binary search over the ordered snapshots.
type history struct {
	blocks []uint64
	states []State
}

// set records state as effective starting at block. Logs normally arrive
// in increasing block order, so the common case appends; set still
// tolerates an out-of-order or repeated block by overwriting/splicing in
// place so re-processing (e.g. after a reorg-free restart) is safe.
func (h *history) set(block uint64, state State) {
	n := len(h.blocks)

	if n == 0 || block > h.blocks[n-1] {
		h.blocks = append(h.blocks, block)
		h.states = append(h.states, state)

		return
	}

	idx := sort.Search(n, func(i int) bool { return h.blocks[i] >= block })

	if idx < n && h.blocks[idx] == block {
		h.states[idx] = state
		return
	}

	h.blocks = append(h.blocks, 0)
	h.states = append(h.states, State{})
	copy(h.blocks[idx+1:], h.blocks[idx:n])
	copy(h.states[idx+1:], h.states[idx:n])
	h.blocks[idx] = block
	h.states[idx] = state
}

// latestBefore returns the most recent State effective strictly before
// block: a pricing call at block N only ever sees logs committed at
// block <= N-1.
func (h *history) latestBefore(block uint64) (State, bool) {
	n := len(h.blocks)
	if n == 0 {
		return State{}, false
	}

	// Fast path: the tip is effective before block (the overwhelmingly
	// common case — pricing at the chain head one block after the most
	// recent processed log).
	if h.blocks[n-1] < block {
		return h.states[n-1], true
	}

	idx := sort.Search(n, func(i int) bool { return h.blocks[i] >= block })
	if idx == 0 {
		return State{}, false
	}

	return h.states[idx-1], true
}
