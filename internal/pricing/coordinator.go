// Package pricing implements the pricing coordinator: the central
// subsystem that fans identifier and price requests out across adapters,
// isolates per-adapter failure, applies the rollup gas overlay, and runs
// the post-hoc validation pass before returning a flattened quote set.
package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"

	"github.com/dexpricer/core/internal/adapter"
	"github.com/dexpricer/core/internal/domain"
	"github.com/dexpricer/core/internal/quote"
	"github.com/dexpricer/core/internal/telemetry"
)

// Resolver resolves a venue key to its adapter instance; satisfied by
// *registry.Registry.
type Resolver interface {
	GetDexByKey(key string) (adapter.Adapter, error)
}

// Coordinator is the central pricing coordinator. One instance serves every
// request for a given network; it holds no per-request state.
type Coordinator struct {
	resolver          Resolver
	identifierTimeout time.Duration
	pricesTimeout     time.Duration
	log               telemetry.Logger
	metrics           *telemetry.Metrics
}

// New builds a Coordinator. identifierTimeout and pricesTimeout are the
// per-adapter-call deadlines for GetPoolIdentifiers and GetPricesVolume
// respectively.
func New(resolver Resolver, identifierTimeout, pricesTimeout time.Duration, log telemetry.Logger, metrics *telemetry.Metrics) *Coordinator {
	if log == nil {
		log = telemetry.NewNopLogger()
	}

	return &Coordinator{
		resolver:          resolver,
		identifierTimeout: identifierTimeout,
		pricesTimeout:     pricesTimeout,
		log:               log.New("component", "pricing"),
		metrics:           metrics,
	}
}

// IdentifierResult is one adapter's contribution to GetPoolIdentifiers,
// keeping the request's keys order explicit since Go has no ordered map.
type IdentifierResult struct {
	Key         string
	Identifiers []domain.PoolID
	// OptedOut marks a filterConstantPrice opt-out: Identifiers is always
	// nil in that case, distinguishing it from "adapter returned nothing".
	OptedOut bool
}

// GetPoolIdentifiers fans out across keys in parallel, one goroutine per
// adapter, each bounded by identifierTimeout. A timeout or adapter error
// substitutes an empty list rather than failing the aggregate; the
// pending call itself is abandoned, not awaited.
func (c *Coordinator) GetPoolIdentifiers(
	ctx context.Context,
	from, to domain.Token,
	side domain.Side,
	block uint64,
	keys []string,
	filterConstantPrice bool,
) []IdentifierResult {
	results := make([]IdentifierResult, len(keys))

	var g errgroup.Group

	for i, key := range keys {
		i, key := i, key
		results[i] = IdentifierResult{Key: key}

		g.Go(func() error {
			a, err := c.resolver.GetDexByKey(key)
			if err != nil {
				c.log.Warn("unknown dex key during getPoolIdentifiers", "dexKey", key, "err", err)
				return nil
			}

			caps := a.Capabilities()
			if filterConstantPrice && caps.HasConstantPriceLargeAmounts {
				results[i].OptedOut = true
				return nil
			}

			ids, err := callWithDeadline(c, ctx, c.identifierTimeout, key, "identifiers", func(callCtx context.Context) ([]domain.PoolID, error) {
				return a.GetPoolIdentifiers(callCtx, from, to, side, block)
			})
			if err != nil {
				return nil
			}

			results[i].Identifiers = ids

			return nil
		})
	}

	g.Wait()

	return results
}

// GetPoolPrices fans out across keys, applies the rollup gas overlay when
// ratio is non-nil, and runs the validation pass over the flattened
// result. Envelope ordering is keys-index-major, then each adapter's own
// pool order, giving the aggregate result a deterministic envelope order.
// from == to returns an empty result before any adapter is invoked: there
// is no rate to quote between a token and itself.
func (c *Coordinator) GetPoolPrices(
	ctx context.Context,
	from, to domain.Token,
	amounts []*uint256.Int,
	side domain.Side,
	block uint64,
	keys []string,
	limitPoolsMap map[string][]domain.PoolID,
	transferFees domain.TransferFeeParams,
	ratio *GasRatio,
) []quote.ImprovedPoolPrice[adapter.Data] {
	if from.Equal(to) {
		return []quote.ImprovedPoolPrice[adapter.Data]{}
	}

	perKey := make([][]quote.ImprovedPoolPrice[adapter.Data], len(keys))

	var g errgroup.Group

	for i, key := range keys {
		i, key := i, key

		g.Go(func() error {
			perKey[i] = c.priceOne(ctx, key, from, to, amounts, side, block, limitPoolsMap, transferFees, ratio)
			return nil
		})
	}

	g.Wait()

	flattened := make([]quote.ImprovedPoolPrice[adapter.Data], 0, len(keys))
	for _, envs := range perKey {
		flattened = append(flattened, envs...)
	}

	return c.validate(amounts, flattened)
}

func (c *Coordinator) priceOne(
	ctx context.Context,
	key string,
	from, to domain.Token,
	amounts []*uint256.Int,
	side domain.Side,
	block uint64,
	limitPoolsMap map[string][]domain.PoolID,
	transferFees domain.TransferFeeParams,
	ratio *GasRatio,
) []quote.ImprovedPoolPrice[adapter.Data] {
	if limit, ok := limitPoolsMap[key]; ok && len(limit) == 0 {
		return nil
	}

	a, err := c.resolver.GetDexByKey(key)
	if err != nil {
		c.log.Warn("unknown dex key during getPoolPrices", "dexKey", key, "err", err)
		return nil
	}

	caps := a.Capabilities()

	if transferFees.SrcFeeInPlay() && !caps.IsFeeOnTransferSupported {
		return []quote.ImprovedPoolPrice[adapter.Data]{{DexKey: key, PoolID: quote.ReasonFeeOnTransferUnsupported, Prices: nil}}
	}

	var limitPools []domain.PoolID
	if limit, ok := limitPoolsMap[key]; ok {
		limitPools = limit
	}

	pps, err := callWithDeadline(c, ctx, c.pricesTimeout, key, "prices", func(callCtx context.Context) ([]*quote.PoolPrices[adapter.Data], error) {
		return a.GetPricesVolume(callCtx, from, to, amounts, side, block, limitPools, transferFees)
	})
	if err != nil {
		return []quote.ImprovedPoolPrice[adapter.Data]{{DexKey: key, PoolID: poolIDForCallErr(err), Prices: nil}}
	}

	if ratio != nil {
		adjusted, err := c.applyRollup(a, pps, len(amounts), *ratio)
		if err != nil {
			telemetry.LogInvalidCalldataGas(c.log, c.metrics, key)
			return []quote.ImprovedPoolPrice[adapter.Data]{{DexKey: key, PoolID: err.Error(), Prices: nil}}
		}

		pps = adjusted
	}

	return quote.ToImprovedPoolPrices(key, pps)
}

// applyRollup overlays GetCalldataGasCost onto every pool's gas cost at
// ratio, in place on a shallow-copied slice so the adapter's original
// []*PoolPrices is left untouched.
func (c *Coordinator) applyRollup(a adapter.Adapter, pps []*quote.PoolPrices[adapter.Data], amountsLen int, ratio GasRatio) ([]*quote.PoolPrices[adapter.Data], error) {
	out := make([]*quote.PoolPrices[adapter.Data], len(pps))

	for i, pp := range pps {
		if pp == nil {
			out[i] = nil
			continue
		}

		l1 := a.GetCalldataGasCost(pp)

		adjustedGas, err := AdjustGasCost(pp.Gas, l1, ratio, amountsLen)
		if err != nil {
			return nil, err
		}

		cp := *pp
		cp.Gas = adjustedGas
		out[i] = &cp
	}

	return out, nil
}

// validate drops envelopes whose non-nil Prices fail quote.Validate;
// diagnostic envelopes (nil Prices) always pass through.
func (c *Coordinator) validate(amounts []*uint256.Int, envs []quote.ImprovedPoolPrice[adapter.Data]) []quote.ImprovedPoolPrice[adapter.Data] {
	out := make([]quote.ImprovedPoolPrice[adapter.Data], 0, len(envs))

	for _, env := range envs {
		if env.Prices == nil {
			out = append(out, env)
			continue
		}

		if failure, ok := quote.Validate(env.Prices, amounts); !ok {
			telemetry.LogValidationRejected(c.log, c.metrics, failure.Exchange, failure.Reason)
			continue
		}

		out = append(out, env)
	}

	return out
}

// callWithDeadline runs fn bounded by timeout, abandoning it on expiry
// rather than waiting: the result channel is left for fn to eventually
// write into (or never read again): the coordinator abandons a slow
// call on timeout rather than waiting for it. A free function, not a
// method, since Go methods cannot carry their own type parameters.
func callWithDeadline[T any](c *Coordinator, ctx context.Context, timeout time.Duration, dexKey, op string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()

	callCtx, cancel := context.WithCancel(ctx)

	type outcome struct {
		val T
		err error
	}

	resCh := make(chan outcome, 1)

	go func() {
		val, err := fn(callCtx)
		resCh <- outcome{val: val, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-resCh:
		cancel()
		c.metrics.ObserveCallLatency(dexKey, op, time.Since(start))

		if out.err != nil {
			c.logCallError(dexKey, op, telemetry.KindAdapterInternal, out.err)
		}

		return out.val, out.err

	case <-timer.C:
		cancel()
		c.metrics.ObserveCallLatency(dexKey, op, time.Since(start))

		err := context.DeadlineExceeded
		c.logCallError(dexKey, op, telemetry.KindTimeout, err)

		var zero T

		return zero, err
	}
}

// poolIDForCallErr maps a per-adapter call error to the diagnostic PoolID
// surfaced in the envelope. A deadline expiry surfaces telemetry.KindTimeout
// rather than the raw error text, giving a caller a stable string to branch
// on for timeouts specifically.
func poolIDForCallErr(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return string(telemetry.KindTimeout)
	}

	return err.Error()
}

func (c *Coordinator) logCallError(dexKey, op string, kind telemetry.Kind, err error) {
	switch op {
	case "identifiers":
		telemetry.LogIdentifierError(c.log, c.metrics, dexKey, kind, err)
	default:
		telemetry.LogPriceError(c.log, c.metrics, dexKey, kind, err)
	}
}
