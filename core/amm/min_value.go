package amm

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/utxodex/sdk-go/core/types"
)

// maxSizingRounds bounds the min-value fixed point. The native amount only
// changes the encoded size by a few bytes, so it settles in two or three.
const maxSizingRounds = 8

// MinValueForSize is the ledger's minimum native amount for an output of
// size serialized bytes: (size + overhead) * coinsPerUTxOByte.
func MinValueForSize(params *types.ProtocolParams, size int) (*big.Int, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if size < 0 {
		return nil, errors.Errorf("output size must be non-negative, got %d", size)
	}
	overhead := params.UTxOEntryOverhead
	if overhead == 0 {
		overhead = types.DefaultUTxOEntryOverhead
	}
	v := big.NewInt(int64(size + overhead))
	return v.Mul(v, params.CoinsPerUTxOByte), nil
}

// PredictMinimumOutputValue returns the minimum native amount out must carry.
// When out carries less, the prediction is repeated with the predicted amount
// in place since a larger amount can encode to more bytes.
func PredictMinimumOutputValue(params *types.ProtocolParams, sizer types.IOutputSizer, out types.CandidateOutput) (*big.Int, error) {
	current := out.Value.Native().Amount()
	for i := 0; i < maxSizingRounds; i++ {
		size, err := sizer.OutputSize(withNative(out, current))
		if err != nil {
			return nil, errors.Wrap(err, "size output")
		}
		min, err := MinValueForSize(params, size)
		if err != nil {
			return nil, err
		}
		if min.Cmp(current) <= 0 {
			return min, nil
		}
		current = min
	}
	return nil, errors.Errorf("minimum value did not settle after %d rounds", maxSizingRounds)
}

// PredictExecutorDeposit returns the native amount to front-load now so that
// the output an executor later pays to address, holding value, clears the
// minimum value. It is zero when value already carries enough native.
func PredictExecutorDeposit(params *types.ProtocolParams, sizer types.IOutputSizer, value types.CurrencyBag, address string) (*big.Int, error) {
	future := types.CandidateOutput{Address: address, Value: value}
	min, err := PredictMinimumOutputValue(params, sizer, future)
	if err != nil {
		return nil, errors.Wrap(err, "executor output")
	}
	extra := min.Sub(min, value.Native().Amount())
	if extra.Sign() < 0 {
		extra.SetInt64(0)
	}
	return extra, nil
}

// TopUp returns the native amount out is short of its minimum value.
func TopUp(params *types.ProtocolParams, sizer types.IOutputSizer, out types.CandidateOutput) (*big.Int, error) {
	min, err := PredictMinimumOutputValue(params, sizer, out)
	if err != nil {
		return nil, err
	}
	short := min.Sub(min, out.Value.Native().Amount())
	if short.Sign() < 0 {
		short.SetInt64(0)
	}
	return short, nil
}

func withNative(out types.CandidateOutput, native *big.Int) types.CandidateOutput {
	value := types.NewCurrencyBag(types.NativeCurrency(native))
	for _, c := range out.Value.NonNative() {
		value = value.PlusCurrency(c)
	}
	out.Value = value
	return out
}
