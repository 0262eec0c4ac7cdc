package telemetry

// Event name constants for the structured log points this core emits at
// minimum. Components pass these as the msg argument to Logger so log
// pipelines can filter on a stable string.
const (
	EventAdapterInitOK        = "adapter init ok"
	EventAdapterInitFailed    = "adapter init failed"
	EventAdapterReleaseOK     = "adapter release ok"
	EventAdapterReleaseFailed = "adapter release failed"
	EventIdentifierError      = "pool identifier error"
	EventPriceError           = "pool price error"
	EventValidationRejected   = "quote validation rejected"
	EventInvalidCalldataGas   = "invalid calldata gas cost shape"
)

// LogAdapterInit emits the init success/failure event pair.
func LogAdapterInit(log Logger, metrics *Metrics, dexKey string, err error) {
	if err != nil {
		log.Warn(EventAdapterInitFailed, "dexKey", dexKey, "err", err)
		metrics.ObserveLifecycle(dexKey, "init", false)

		return
	}

	log.Info(EventAdapterInitOK, "dexKey", dexKey)
	metrics.ObserveLifecycle(dexKey, "init", true)
}

// LogAdapterRelease emits the release success/failure event pair.
func LogAdapterRelease(log Logger, metrics *Metrics, dexKey string, err error) {
	if err != nil {
		log.Warn(EventAdapterReleaseFailed, "dexKey", dexKey, "err", err)
		metrics.ObserveLifecycle(dexKey, "release", false)

		return
	}

	log.Info(EventAdapterReleaseOK, "dexKey", dexKey)
	metrics.ObserveLifecycle(dexKey, "release", true)
}

// LogIdentifierError emits the per-adapter identifier error event.
func LogIdentifierError(log Logger, metrics *Metrics, dexKey string, kind Kind, err error) {
	log.Warn(EventIdentifierError, "dexKey", dexKey, "kind", kind, "err", err)
	metrics.ObserveAdapterError(dexKey, "identifiers", kind)
}

// LogPriceError emits the per-adapter price error event.
func LogPriceError(log Logger, metrics *Metrics, dexKey string, kind Kind, err error) {
	log.Warn(EventPriceError, "dexKey", dexKey, "kind", kind, "err", err)
	metrics.ObserveAdapterError(dexKey, "prices", kind)
}

// LogValidationRejected emits the validation-pass rejection event.
func LogValidationRejected(log Logger, metrics *Metrics, exchange, reason string) {
	log.Info(EventValidationRejected, "exchange", exchange, "reason", reason)
	metrics.ObserveValidationRejection(exchange, reason)
}

// LogInvalidCalldataGas emits the invalid-calldata-gas-cost event.
func LogInvalidCalldataGas(log Logger, metrics *Metrics, dexKey string) {
	log.Warn(EventInvalidCalldataGas, "dexKey", dexKey)
	metrics.ObserveAdapterError(dexKey, "prices", KindInvalidCalldataGasCost)
}
