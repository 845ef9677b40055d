package amm

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
)

// feeCtx has enough precision for any int64 ratio.
var feeCtx = func() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(40)
	ctx.Rounding = apd.RoundHalfUp
	return ctx
}()

// FeePercent is (1 - num/den) * 100 rounded half-up to three places. It is
// for display only; encoders use the numerator and denominator.
func FeePercent(num, den int64) (*apd.Decimal, error) {
	if den <= 0 {
		return nil, errors.Errorf("fee denominator must be positive, got %d", den)
	}
	if num < 0 || num > den {
		return nil, errors.Errorf("fee numerator must be in [0, %d], got %d", den, num)
	}

	ratio := new(apd.Decimal)
	if _, err := feeCtx.Quo(ratio, apd.New(num, 0), apd.New(den, 0)); err != nil {
		return nil, errors.Wrap(err, "fee ratio")
	}
	out := new(apd.Decimal)
	if _, err := feeCtx.Sub(out, apd.New(1, 0), ratio); err != nil {
		return nil, errors.Wrap(err, "fee share")
	}
	if _, err := feeCtx.Mul(out, out, apd.New(100, 0)); err != nil {
		return nil, errors.Wrap(err, "fee percent")
	}
	if _, err := feeCtx.Quantize(out, out, -3); err != nil {
		return nil, errors.Wrap(err, "round fee percent")
	}
	return out, nil
}

// ExecutorFeePerToken is exFee/minQuote as a reduced fraction, the form swap
// orders carry.
func ExecutorFeePerToken(exFee, minQuote *big.Int) (*big.Rat, error) {
	if exFee == nil || exFee.Sign() < 0 {
		return nil, errors.New("executor fee must be non-negative")
	}
	if minQuote == nil || minQuote.Sign() <= 0 {
		return nil, errors.New("min quote must be positive")
	}
	return new(big.Rat).SetFrac(exFee, minQuote), nil
}
