// Package routeopt implements the route optimizer pipeline: an
// ordered list of pure transforms applied to an unoptimized routing
// decision. Route selection itself is out of scope here; this package
// only models the transform-list shape route optimization is built
// from.
package routeopt

import "github.com/holiman/uint256"

// UnoptimizedRate is the routing decision the pipeline transforms: a
// candidate split of an amount across a sequence of pool identifiers,
// carried opaquely by this package (route optimization itself lives
// outside the core).
type UnoptimizedRate struct {
	AmountIn  *uint256.Int
	AmountOut *uint256.Int
	PoolPath  []string
}

// Transform is one pure step of the pipeline.
type Transform func(UnoptimizedRate) UnoptimizedRate

// Pipeline is an ordered sequence of Transforms composed by left-fold. A
// nil or empty Pipeline is the identity transform.
type Pipeline []Transform

// Apply runs every transform in order, left-fold style: the output of
// transform i is the input of transform i+1.
func (p Pipeline) Apply(ur UnoptimizedRate) UnoptimizedRate {
	for _, t := range p {
		ur = t(ur)
	}

	return ur
}
