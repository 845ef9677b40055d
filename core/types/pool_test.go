package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func validPoolParams() PoolParams {
	return PoolParams{
		Kind:           PoolKindConstantProduct,
		Nft:            MustAssetIdentifier("01", "nft"),
		Lp:             MustAssetIdentifier("02", "lp"),
		ReservesX:      NewCurrencyInt64(20_000_000, NativeAsset),
		ReservesY:      NewCurrencyInt64(20_000_000, testAssetA),
		LPLocked:       big.NewInt(651_595_813_869),
		FeeNumX:        997,
		FeeNumY:        997,
		FeeDenominator: 1000,
	}
}

func TestNewPool_Derivations(t *testing.T) {
	params := validPoolParams()
	params.TreasuryX = big.NewInt(100)
	params.RoyaltyX = big.NewInt(50)
	params.TreasuryY = big.NewInt(7)

	pool, err := NewPool(params)
	require.NoError(t, err)
	require.Equal(t, int64(20_000_000-150), pool.SpendableX().Amount().Int64())
	require.Equal(t, int64(20_000_000-7), pool.SpendableY().Amount().Int64())
	require.Equal(t, int64(20_000_000), pool.ReservesX().Amount().Int64())

	want := new(big.Int).Sub(DefaultLPEmission, big.NewInt(651_595_813_869))
	require.Zero(t, want.Cmp(pool.SupplyLP()))
	require.True(t, pool.HasAsset(NativeAsset))
	require.True(t, pool.HasAsset(testAssetA))
	require.False(t, pool.HasAsset(testAssetB))
}

func TestNewPool_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *PoolParams)
		wantErr string
	}{
		{"set-asides exceed reserves", func(p *PoolParams) { p.TreasuryY = big.NewInt(30_000_000) }, "spendable reserves Y"},
		{"same assets", func(p *PoolParams) { p.ReservesY = NewCurrencyInt64(1, NativeAsset) }, "pool assets must differ"},
		{"zero denominator", func(p *PoolParams) { p.FeeDenominator = 0 }, "fee denominator"},
		{"fee above denominator", func(p *PoolParams) { p.FeeNumY = 1001 }, "fee_num_y"},
		{"weighted without weights", func(p *PoolParams) { p.Kind = PoolKindWeighted }, "weights"},
		{"stable without amplification", func(p *PoolParams) { p.Kind = PoolKindStable }, "amplification"},
		{"missing nft", func(p *PoolParams) { p.Nft = NativeAsset }, "nft"},
		{"lp above emission", func(p *PoolParams) { p.LPLocked = new(big.Int).Add(DefaultLPEmission, big.NewInt(1)) }, "exceeds emission"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validPoolParams()
			tt.mutate(&params)
			_, err := NewPool(params)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
