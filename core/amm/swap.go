package amm

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/utxodex/sdk-go/core/types"
)

// ErrUnsupportedPoolKind is returned by estimates that only exist for
// constant-product pools.
var ErrUnsupportedPoolKind = errors.New("operation not supported for this pool kind")

const bpsDenominator = 10_000

// SwapOutput estimates what input buys from a constant-product pool. The fee
// numerator of the input's side is applied to the input:
//
//	out = floor(reserveOut*in*feeNum / (reserveIn*feeDen + in*feeNum))
func SwapOutput(pool *types.Pool, input types.Currency) (types.Currency, error) {
	if pool.Kind() != types.PoolKindConstantProduct {
		return types.Currency{}, errors.Wrapf(ErrUnsupportedPoolKind, "swap estimate on %s pool", pool.Kind())
	}

	var reserveIn, reserveOut types.Currency
	var feeNum int64
	switch input.Asset() {
	case pool.AssetX():
		reserveIn, reserveOut, feeNum = pool.SpendableX(), pool.SpendableY(), pool.FeeNumX()
	case pool.AssetY():
		reserveIn, reserveOut, feeNum = pool.SpendableY(), pool.SpendableX(), pool.FeeNumY()
	default:
		return types.Currency{}, errors.WithStack(&types.AssetMismatchError{Left: input.Asset(), Right: pool.AssetX()})
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return types.Currency{}, errors.WithStack(ErrEmptyPool)
	}

	in := input.Amount()
	fee := big.NewInt(feeNum)
	num := new(big.Int).Mul(reserveOut.Amount(), in)
	num.Mul(num, fee)

	den := new(big.Int).Mul(reserveIn.Amount(), big.NewInt(pool.FeeDenominator()))
	den.Add(den, new(big.Int).Mul(in, fee))

	return types.NewCurrency(num.Quo(num, den), reserveOut.Asset()), nil
}

// MinOutputWithSlippage is floor(out * (10000 - bps) / 10000).
func MinOutputWithSlippage(out *big.Int, bps int) (*big.Int, error) {
	if bps < 0 || bps > bpsDenominator {
		return nil, errors.Errorf("slippage must be in [0, %d] bps, got %d", bpsDenominator, bps)
	}
	return mulDivFloor(out, big.NewInt(int64(bpsDenominator-bps)), big.NewInt(bpsDenominator)), nil
}
