package domain

// FeeBpsDenominator is the basis-point denominator used both for transfer
// fees and for AMM swap fees (spec F = 10000).
const FeeBpsDenominator = 10_000

// TransferFeeParams carries the basis-point transfer fees that may apply
// on the source and destination legs of a swap. Each field is in
// [0, FeeBpsDenominator].
type TransferFeeParams struct {
	SrcFee     uint16
	DestFee    uint16
	SrcDexFee  uint16
	DestDexFee uint16
}

// Clamp clips every field into the valid basis-point range. Constructed
// TransferFeeParams should always be passed through Clamp at the API
// boundary; internal code assumes the invariant already holds.
func (f TransferFeeParams) Clamp() TransferFeeParams {
	clamp := func(v uint16) uint16 {
		if v > FeeBpsDenominator {
			return FeeBpsDenominator
		}

		return v
	}

	return TransferFeeParams{
		SrcFee:     clamp(f.SrcFee),
		DestFee:    clamp(f.DestFee),
		SrcDexFee:  clamp(f.SrcDexFee),
		DestDexFee: clamp(f.DestDexFee),
	}
}

// SrcFeeInPlay reports whether a source-side transfer fee applies, per the
// spec's definition: srcFee > 0 or srcDexFee > 0.
func (f TransferFeeParams) SrcFeeInPlay() bool {
	return f.SrcFee > 0 || f.SrcDexFee > 0
}
