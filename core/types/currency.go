package types

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// Currency is an amount tied to a single asset. Values are immutable: every
// operation returns a new Currency.
type Currency struct {
	amount *big.Int
	asset  AssetIdentifier
}

// NewCurrency copies amount into a new Currency. A nil amount is zero.
func NewCurrency(amount *big.Int, asset AssetIdentifier) Currency {
	c := Currency{amount: new(big.Int), asset: asset}
	if amount != nil {
		c.amount.Set(amount)
	}
	return c
}

// NewCurrencyInt64 is a shorthand for small literal amounts.
func NewCurrencyInt64(amount int64, asset AssetIdentifier) Currency {
	return Currency{amount: big.NewInt(amount), asset: asset}
}

// NativeCurrency returns an amount of the native currency.
func NativeCurrency(amount *big.Int) Currency {
	return NewCurrency(amount, NativeAsset)
}

// Amount returns a copy of the amount.
func (c Currency) Amount() *big.Int {
	if c.amount == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(c.amount)
}

// Asset returns the asset identifier.
func (c Currency) Asset() AssetIdentifier { return c.asset }

// IsZero reports whether the amount is zero.
func (c Currency) IsZero() bool { return c.amount == nil || c.amount.Sign() == 0 }

// IsPositive reports whether the amount is greater than zero.
func (c Currency) IsPositive() bool { return c.amount != nil && c.amount.Sign() > 0 }

// Plus adds two currencies of the same asset.
func (c Currency) Plus(other Currency) (Currency, error) {
	if err := c.sameAsset(other); err != nil {
		return Currency{}, err
	}
	return c.PlusAmount(other.amount), nil
}

// PlusAmount adds a bare integer, which is accepted for any asset.
func (c Currency) PlusAmount(n *big.Int) Currency {
	sum := c.Amount()
	if n != nil {
		sum.Add(sum, n)
	}
	return Currency{amount: sum, asset: c.asset}
}

// Minus subtracts a currency of the same asset and fails rather than go negative.
func (c Currency) Minus(other Currency) (Currency, error) {
	if err := c.sameAsset(other); err != nil {
		return Currency{}, err
	}
	return c.MinusAmount(other.amount)
}

// MinusAmount subtracts a bare integer and fails rather than go negative.
func (c Currency) MinusAmount(n *big.Int) (Currency, error) {
	sub := new(big.Int)
	if n != nil {
		sub.Set(n)
	}
	diff := new(big.Int).Sub(c.Amount(), sub)
	if diff.Sign() < 0 {
		return Currency{}, errors.WithStack(&NegativeResultError{
			Asset:      c.asset,
			Minuend:    c.Amount(),
			Subtrahend: sub,
		})
	}
	return Currency{amount: diff, asset: c.asset}, nil
}

// Cmp compares two currencies of the same asset.
func (c Currency) Cmp(other Currency) (int, error) {
	if err := c.sameAsset(other); err != nil {
		return 0, err
	}
	return c.CmpAmount(other.amount), nil
}

// CmpAmount compares against a bare integer.
func (c Currency) CmpAmount(n *big.Int) int {
	if n == nil {
		n = new(big.Int)
	}
	return c.Amount().Cmp(n)
}

// Gte reports c >= other for currencies of the same asset.
func (c Currency) Gte(other Currency) (bool, error) {
	cmp, err := c.Cmp(other)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}

// Lt reports c < other for currencies of the same asset.
func (c Currency) Lt(other Currency) (bool, error) {
	cmp, err := c.Cmp(other)
	if err != nil {
		return false, err
	}
	return cmp < 0, nil
}

// WithAmount returns a Currency of the same asset with a new amount.
func (c Currency) WithAmount(n *big.Int) Currency {
	return NewCurrency(n, c.asset)
}

func (c Currency) String() string {
	return fmt.Sprintf("%s %s", c.Amount(), c.asset)
}

func (c Currency) sameAsset(other Currency) error {
	if c.asset != other.asset {
		return errors.WithStack(&AssetMismatchError{Left: c.asset, Right: other.asset})
	}
	return nil
}
