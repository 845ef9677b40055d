package types

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// PoolKind selects which invariant a pool follows.
type PoolKind int

const (
	PoolKindConstantProduct PoolKind = iota
	PoolKindWeighted
	PoolKindStable
)

func (k PoolKind) String() string {
	switch k {
	case PoolKindConstantProduct:
		return "constant_product"
	case PoolKindWeighted:
		return "weighted"
	case PoolKindStable:
		return "stable"
	default:
		return fmt.Sprintf("pool_kind(%d)", int(k))
	}
}

// DefaultLPEmission is the fixed LP emission minted at pool creation.
var DefaultLPEmission = big.NewInt(9223372036854775807)

// PoolParams is the raw snapshot a data provider maps into a Pool.
type PoolParams struct {
	Kind PoolKind

	Nft AssetIdentifier // unique pool id
	Lp  AssetIdentifier

	ReservesX Currency // raw, includes treasury and royalty
	ReservesY Currency
	TreasuryX *big.Int
	TreasuryY *big.Int
	RoyaltyX  *big.Int
	RoyaltyY  *big.Int

	LPLocked   *big.Int // LP tokens still held by the pool output
	LPEmission *big.Int // defaults to DefaultLPEmission

	FeeNumX        int64 // fee numerator applied when X is the input
	FeeNumY        int64 // fee numerator applied when Y is the input
	FeeDenominator int64

	WeightX int64 // weighted only
	WeightY int64 // weighted only

	Amplification int64 // stable only
}

// Pool is an immutable pool snapshot.
type Pool struct {
	p          PoolParams
	spendableX Currency
	spendableY Currency
	supplyLP   *big.Int
}

// NewPool validates params and derives spendable reserves and LP supply.
func NewPool(params PoolParams) (*Pool, error) {
	if params.Nft.IsNative() {
		return nil, errors.New("pool nft is required")
	}
	if params.Lp.IsNative() {
		return nil, errors.New("pool lp asset is required")
	}
	if params.ReservesX.Asset() == params.ReservesY.Asset() {
		return nil, errors.Errorf("pool assets must differ, both are %s", params.ReservesX.Asset())
	}
	if params.FeeDenominator <= 0 {
		return nil, errors.Errorf("fee denominator must be positive, got %d", params.FeeDenominator)
	}
	if params.FeeNumX <= 0 || params.FeeNumX > params.FeeDenominator {
		return nil, errors.Errorf("fee_num_x must be in (0, %d], got %d", params.FeeDenominator, params.FeeNumX)
	}
	if params.FeeNumY <= 0 || params.FeeNumY > params.FeeDenominator {
		return nil, errors.Errorf("fee_num_y must be in (0, %d], got %d", params.FeeDenominator, params.FeeNumY)
	}
	switch params.Kind {
	case PoolKindConstantProduct:
	case PoolKindWeighted:
		if params.WeightX <= 0 || params.WeightY <= 0 {
			return nil, errors.Errorf("weighted pool needs positive weights, got %d/%d", params.WeightX, params.WeightY)
		}
	case PoolKindStable:
		if params.Amplification <= 0 {
			return nil, errors.Errorf("stable pool needs a positive amplification, got %d", params.Amplification)
		}
	default:
		return nil, errors.Errorf("unknown pool kind %d", int(params.Kind))
	}

	spendableX, err := params.ReservesX.MinusAmount(sumNonNil(params.TreasuryX, params.RoyaltyX))
	if err != nil {
		return nil, errors.Wrap(err, "spendable reserves X")
	}
	spendableY, err := params.ReservesY.MinusAmount(sumNonNil(params.TreasuryY, params.RoyaltyY))
	if err != nil {
		return nil, errors.Wrap(err, "spendable reserves Y")
	}

	emission := params.LPEmission
	if emission == nil {
		emission = DefaultLPEmission
	}
	locked := params.LPLocked
	if locked == nil {
		locked = new(big.Int)
	}
	supply := new(big.Int).Sub(emission, locked)
	if supply.Sign() < 0 {
		return nil, errors.Errorf("lp locked %s exceeds emission %s", locked, emission)
	}

	params.LPEmission = new(big.Int).Set(emission)
	params.LPLocked = new(big.Int).Set(locked)
	return &Pool{
		p:          params,
		spendableX: spendableX,
		spendableY: spendableY,
		supplyLP:   supply,
	}, nil
}

func sumNonNil(vals ...*big.Int) *big.Int {
	out := new(big.Int)
	for _, v := range vals {
		if v != nil {
			out.Add(out, v)
		}
	}
	return out
}

func (p *Pool) Kind() PoolKind       { return p.p.Kind }
func (p *Pool) Nft() AssetIdentifier { return p.p.Nft }
func (p *Pool) Lp() AssetIdentifier  { return p.p.Lp }
func (p *Pool) AssetX() AssetIdentifier {
	return p.p.ReservesX.Asset()
}
func (p *Pool) AssetY() AssetIdentifier {
	return p.p.ReservesY.Asset()
}

// ReservesX returns raw reserves including set-asides.
func (p *Pool) ReservesX() Currency { return p.p.ReservesX }

// ReservesY returns raw reserves including set-asides.
func (p *Pool) ReservesY() Currency { return p.p.ReservesY }

// SpendableX is ReservesX minus treasury and royalty.
func (p *Pool) SpendableX() Currency { return p.spendableX }

// SpendableY is ReservesY minus treasury and royalty.
func (p *Pool) SpendableY() Currency { return p.spendableY }

// SupplyLP is the emission minus the LP still locked in the pool.
func (p *Pool) SupplyLP() *big.Int { return new(big.Int).Set(p.supplyLP) }

func (p *Pool) FeeNumX() int64        { return p.p.FeeNumX }
func (p *Pool) FeeNumY() int64        { return p.p.FeeNumY }
func (p *Pool) FeeDenominator() int64 { return p.p.FeeDenominator }
func (p *Pool) WeightX() int64        { return p.p.WeightX }
func (p *Pool) WeightY() int64        { return p.p.WeightY }
func (p *Pool) Amplification() int64  { return p.p.Amplification }

// Params returns a copy of the snapshot the pool was built from.
func (p *Pool) Params() PoolParams { return p.p }

// HasAsset reports whether a is the pool's X or Y asset.
func (p *Pool) HasAsset(a AssetIdentifier) bool {
	return a == p.AssetX() || a == p.AssetY()
}
