// Package amm holds the pool invariant math. Every division floors, matching
// the on-chain validators; results are never rounded up.
package amm

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/utxodex/sdk-go/core/types"
)

// ErrEmptyPool is returned when a conversion would divide by an empty reserve
// or an exhausted LP supply.
var ErrEmptyPool = errors.New("pool has no liquidity")

// ConvertAssetsToLp returns the LP reward for depositing x and y, which may be
// given in either order:
//
//	min(floor(x*supplyLP/spendableX), floor(y*supplyLP/spendableY))
func ConvertAssetsToLp(pool *types.Pool, x, y types.Currency) (types.Currency, error) {
	x, y, err := orderPair(pool, x, y)
	if err != nil {
		return types.Currency{}, err
	}
	spendX := pool.SpendableX().Amount()
	spendY := pool.SpendableY().Amount()
	if spendX.Sign() == 0 || spendY.Sign() == 0 {
		return types.Currency{}, errors.WithStack(ErrEmptyPool)
	}

	supply := pool.SupplyLP()
	byX := mulDivFloor(x.Amount(), supply, spendX)
	byY := mulDivFloor(y.Amount(), supply, spendY)

	reward := byX
	if byY.Cmp(byX) < 0 {
		reward = byY
	}
	return types.NewCurrency(reward, pool.Lp()), nil
}

// ConvertLpToAssets returns the X and Y share redeemed by lp. It is not an
// exact inverse of ConvertAssetsToLp; both directions floor.
func ConvertLpToAssets(pool *types.Pool, lp types.Currency) (types.Currency, types.Currency, error) {
	if lp.Asset() != pool.Lp() {
		return types.Currency{}, types.Currency{}, errors.WithStack(&types.AssetMismatchError{Left: lp.Asset(), Right: pool.Lp()})
	}
	supply := pool.SupplyLP()
	if supply.Sign() == 0 {
		return types.Currency{}, types.Currency{}, errors.WithStack(ErrEmptyPool)
	}
	x := mulDivFloor(lp.Amount(), pool.SpendableX().Amount(), supply)
	y := mulDivFloor(lp.Amount(), pool.SpendableY().Amount(), supply)
	return types.NewCurrency(x, pool.AssetX()), types.NewCurrency(y, pool.AssetY()), nil
}

// AnotherAssetForDeposit returns the amount of the pool's other asset that
// matches input at the current spendable ratio.
func AnotherAssetForDeposit(pool *types.Pool, input types.Currency) (types.Currency, error) {
	var from, to types.Currency
	switch input.Asset() {
	case pool.AssetX():
		from, to = pool.SpendableX(), pool.SpendableY()
	case pool.AssetY():
		from, to = pool.SpendableY(), pool.SpendableX()
	default:
		return types.Currency{}, errors.WithStack(&types.AssetMismatchError{Left: input.Asset(), Right: pool.AssetX()})
	}
	if from.IsZero() {
		return types.Currency{}, errors.WithStack(ErrEmptyPool)
	}
	return types.NewCurrency(mulDivFloor(input.Amount(), to.Amount(), from.Amount()), to.Asset()), nil
}

// orderPair returns (a, b) as (X, Y) of pool.
func orderPair(pool *types.Pool, a, b types.Currency) (types.Currency, types.Currency, error) {
	ax, ay := pool.AssetX(), pool.AssetY()
	switch {
	case a.Asset() == ax && b.Asset() == ay:
		return a, b, nil
	case a.Asset() == ay && b.Asset() == ax:
		return b, a, nil
	case a.Asset() != ax && a.Asset() != ay:
		return types.Currency{}, types.Currency{}, errors.WithStack(&types.AssetMismatchError{Left: a.Asset(), Right: ax})
	default:
		want := ay
		if a.Asset() == ay {
			want = ax
		}
		return types.Currency{}, types.Currency{}, errors.WithStack(&types.AssetMismatchError{Left: b.Asset(), Right: want})
	}
}

// mulDivFloor is floor(a*b/c) for non-negative operands.
func mulDivFloor(a, b, c *big.Int) *big.Int {
	n := new(big.Int).Mul(a, b)
	return n.Quo(n, c)
}
