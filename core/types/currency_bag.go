package types

import (
	"math/big"
	"sort"
	"strings"
)

// CurrencyBag is a multi-asset value with at most one entry per asset. The
// native currency is always conceptually present and defaults to zero.
// Bags are immutable; operations return new bags.
type CurrencyBag struct {
	entries map[AssetIdentifier]*big.Int
}

// NewCurrencyBag builds a bag from currencies, summing duplicates.
func NewCurrencyBag(currencies ...Currency) CurrencyBag {
	b := CurrencyBag{entries: make(map[AssetIdentifier]*big.Int, len(currencies))}
	for _, c := range currencies {
		b.add(c.asset, c.amount)
	}
	b.prune()
	return b
}

// NativeBag is a bag holding only native currency.
func NativeBag(amount *big.Int) CurrencyBag {
	return NewCurrencyBag(NativeCurrency(amount))
}

func (b *CurrencyBag) add(asset AssetIdentifier, n *big.Int) {
	if n == nil {
		return
	}
	if b.entries == nil {
		b.entries = make(map[AssetIdentifier]*big.Int)
	}
	cur, ok := b.entries[asset]
	if !ok {
		cur = new(big.Int)
		b.entries[asset] = cur
	}
	cur.Add(cur, n)
}

func (b *CurrencyBag) prune() {
	for k, v := range b.entries {
		if v.Sign() == 0 {
			delete(b.entries, k)
		}
	}
}

func (b CurrencyBag) clone() CurrencyBag {
	out := CurrencyBag{entries: make(map[AssetIdentifier]*big.Int, len(b.entries))}
	for k, v := range b.entries {
		out.entries[k] = new(big.Int).Set(v)
	}
	return out
}

// Get returns the entry for asset, zero when absent.
func (b CurrencyBag) Get(asset AssetIdentifier) Currency {
	return NewCurrency(b.entries[asset], asset)
}

// Native returns the native currency entry.
func (b CurrencyBag) Native() Currency { return b.Get(NativeAsset) }

// Has reports whether the bag holds a positive amount of asset.
func (b CurrencyBag) Has(asset AssetIdentifier) bool {
	v, ok := b.entries[asset]
	return ok && v.Sign() > 0
}

// Assets returns the held assets in canonical order: native first, then by
// policy and name.
func (b CurrencyBag) Assets() []AssetIdentifier {
	assets := make([]AssetIdentifier, 0, len(b.entries))
	for k := range b.entries {
		assets = append(assets, k)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Less(assets[j]) })
	return assets
}

// Currencies returns the entries in canonical order.
func (b CurrencyBag) Currencies() []Currency {
	assets := b.Assets()
	out := make([]Currency, 0, len(assets))
	for _, a := range assets {
		out = append(out, b.Get(a))
	}
	return out
}

// NonNative returns the entries other than native currency, in canonical order.
func (b CurrencyBag) NonNative() []Currency {
	out := make([]Currency, 0, len(b.entries))
	for _, c := range b.Currencies() {
		if !c.asset.IsNative() {
			out = append(out, c)
		}
	}
	return out
}

// DistinctAssets counts held assets, native included when non-zero.
func (b CurrencyBag) DistinctAssets() int { return len(b.entries) }

// IsZero reports whether every entry is zero.
func (b CurrencyBag) IsZero() bool { return len(b.entries) == 0 }

// Plus returns the entry-wise sum.
func (b CurrencyBag) Plus(other CurrencyBag) CurrencyBag {
	out := b.clone()
	for k, v := range other.entries {
		out.add(k, v)
	}
	out.prune()
	return out
}

// PlusCurrency adds a single currency.
func (b CurrencyBag) PlusCurrency(c Currency) CurrencyBag {
	return b.Plus(NewCurrencyBag(c))
}

// Minus returns the entry-wise difference. It fails if any entry would go
// negative; assets missing from b count as zero.
func (b CurrencyBag) Minus(other CurrencyBag) (CurrencyBag, error) {
	out := b.clone()
	for _, asset := range other.Assets() {
		sub := other.entries[asset]
		cur := b.Get(asset)
		diff, err := cur.MinusAmount(sub)
		if err != nil {
			return CurrencyBag{}, err
		}
		out.entries[asset] = diff.amount
	}
	out.prune()
	return out, nil
}

// MinusCurrency subtracts a single currency.
func (b CurrencyBag) MinusCurrency(c Currency) (CurrencyBag, error) {
	return b.Minus(NewCurrencyBag(c))
}

// Covers reports whether b is at least required on every entry. When it is
// not, the first short asset in canonical order is returned.
func (b CurrencyBag) Covers(required CurrencyBag) (AssetIdentifier, bool) {
	for _, asset := range required.Assets() {
		if b.Get(asset).CmpAmount(required.entries[asset]) < 0 {
			return asset, false
		}
	}
	return AssetIdentifier{}, true
}

// Equal reports entry-wise equality.
func (b CurrencyBag) Equal(other CurrencyBag) bool {
	if len(b.entries) != len(other.entries) {
		return false
	}
	for k, v := range b.entries {
		o, ok := other.entries[k]
		if !ok || o.Cmp(v) != 0 {
			return false
		}
	}
	return true
}

func (b CurrencyBag) String() string {
	parts := make([]string, 0, len(b.entries))
	for _, c := range b.Currencies() {
		parts = append(parts, c.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SumBags adds bags together.
func SumBags(bags ...CurrencyBag) CurrencyBag {
	out := NewCurrencyBag()
	for _, b := range bags {
		out = out.Plus(b)
	}
	return out
}
