package amm

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utxodex/sdk-go/core/types"
)

var (
	assetY  = types.MustAssetIdentifier("aa", "tokenA")
	assetLp = types.MustAssetIdentifier("02", "lp")
	other   = types.MustAssetIdentifier("bb", "tokenB")
)

func testPool(t *testing.T, mutate ...func(*types.PoolParams)) *types.Pool {
	t.Helper()
	params := types.PoolParams{
		Kind:           types.PoolKindConstantProduct,
		Nft:            types.MustAssetIdentifier("01", "nft"),
		Lp:             assetLp,
		ReservesX:      types.NewCurrencyInt64(20_000_000, types.NativeAsset),
		ReservesY:      types.NewCurrencyInt64(20_000_000, assetY),
		LPLocked:       big.NewInt(651_595_813_869),
		FeeNumX:        997,
		FeeNumY:        997,
		FeeDenominator: 1000,
	}
	for _, m := range mutate {
		m(&params)
	}
	pool, err := types.NewPool(params)
	require.NoError(t, err)
	return pool
}

func TestConvertAssetsToLp_EqualReserves(t *testing.T) {
	pool := testPool(t)
	x := types.NewCurrencyInt64(1_000_000, types.NativeAsset)
	y := types.NewCurrencyInt64(1_000_000, assetY)

	lp, err := ConvertAssetsToLp(pool, x, y)
	require.NoError(t, err)
	assert.Equal(t, assetLp, lp.Asset())
	assert.Equal(t, "461168569262948096", lp.Amount().String())

	swapped, err := ConvertAssetsToLp(pool, y, x)
	require.NoError(t, err)
	assert.Zero(t, lp.Amount().Cmp(swapped.Amount()))

	backX, backY, err := ConvertLpToAssets(pool, lp)
	require.NoError(t, err)
	assert.Equal(t, int64(999_999), backX.Amount().Int64())
	assert.LessOrEqual(t, backY.Amount().Int64(), int64(1_000_000))
}

func TestConvertAssetsToLp_TakesMinimum(t *testing.T) {
	pool := testPool(t)
	supply := pool.SupplyLP()

	cases := []struct{ x, y int64 }{{1, 1}, {500_000, 2_000_000}, {3_000_000, 7}, {19_999_999, 19_999_999}}
	for _, c := range cases {
		lp, err := ConvertAssetsToLp(pool,
			types.NewCurrencyInt64(c.x, types.NativeAsset),
			types.NewCurrencyInt64(c.y, assetY))
		require.NoError(t, err)

		byX := new(big.Int).Quo(new(big.Int).Mul(big.NewInt(c.x), supply), big.NewInt(20_000_000))
		byY := new(big.Int).Quo(new(big.Int).Mul(big.NewInt(c.y), supply), big.NewInt(20_000_000))
		want := byX
		if byY.Cmp(byX) < 0 {
			want = byY
		}
		assert.Zero(t, want.Cmp(lp.Amount()), "x=%d y=%d", c.x, c.y)
	}
}

func TestConvert_AssetMismatch(t *testing.T) {
	pool := testPool(t)
	good := types.NewCurrencyInt64(1, types.NativeAsset)
	bad := types.NewCurrencyInt64(1, other)

	_, err := ConvertAssetsToLp(pool, good, bad)
	assert.True(t, errors.Is(err, types.ErrAssetMismatch))
	_, err = ConvertAssetsToLp(pool, bad, good)
	assert.True(t, errors.Is(err, types.ErrAssetMismatch))
	_, err = ConvertAssetsToLp(pool, good, good)
	assert.True(t, errors.Is(err, types.ErrAssetMismatch))

	_, _, err = ConvertLpToAssets(pool, bad)
	assert.True(t, errors.Is(err, types.ErrAssetMismatch))

	_, err = AnotherAssetForDeposit(pool, bad)
	assert.True(t, errors.Is(err, types.ErrAssetMismatch))
}

func TestAnotherAssetForDeposit(t *testing.T) {
	pool := testPool(t, func(p *types.PoolParams) {
		p.ReservesY = types.NewCurrencyInt64(50_000_000, assetY)
	})

	y, err := AnotherAssetForDeposit(pool, types.NewCurrencyInt64(3, types.NativeAsset))
	require.NoError(t, err)
	assert.Equal(t, assetY, y.Asset())
	assert.Equal(t, int64(7), y.Amount().Int64()) // floor(3*50/20)

	x, err := AnotherAssetForDeposit(pool, types.NewCurrencyInt64(5, assetY))
	require.NoError(t, err)
	assert.Equal(t, types.NativeAsset, x.Asset())
	assert.Equal(t, int64(2), x.Amount().Int64())
}

func TestFeePercent(t *testing.T) {
	tests := []struct {
		num, den int64
		want     string
	}{
		{997, 1000, "0.300"},
		{9970, 10000, "0.300"},
		{99000, 100000, "1.000"},
		{2, 3, "33.333"},
		{1, 6, "83.333"},
		{5, 6, "16.667"},
		{1000, 1000, "0.000"},
	}
	for _, tt := range tests {
		got, err := FeePercent(tt.num, tt.den)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), "%d/%d", tt.num, tt.den)
	}

	_, err := FeePercent(1, 0)
	require.Error(t, err)
	_, err = FeePercent(2, 1)
	require.Error(t, err)
}

func TestSwapOutput(t *testing.T) {
	pool := testPool(t)
	out, err := SwapOutput(pool, types.NewCurrencyInt64(1_000_000, types.NativeAsset))
	require.NoError(t, err)
	assert.Equal(t, assetY, out.Asset())
	assert.Equal(t, int64(949_659), out.Amount().Int64())

	min, err := MinOutputWithSlippage(big.NewInt(1_000_000), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(995_000), min.Int64())
	_, err = MinOutputWithSlippage(big.NewInt(1), 10_001)
	require.Error(t, err)

	weighted := testPool(t, func(p *types.PoolParams) {
		p.Kind = types.PoolKindWeighted
		p.WeightX, p.WeightY = 1, 4
	})
	_, err = SwapOutput(weighted, types.NewCurrencyInt64(1, types.NativeAsset))
	assert.True(t, errors.Is(err, ErrUnsupportedPoolKind))
}

func TestExecutorFeePerToken(t *testing.T) {
	r, err := ExecutorFeePerToken(big.NewInt(2_000_000), big.NewInt(500_000))
	require.NoError(t, err)
	assert.Equal(t, "4/1", r.String())

	_, err = ExecutorFeePerToken(big.NewInt(1), big.NewInt(0))
	require.Error(t, err)
}

// sizerFunc adapts a function to types.IOutputSizer.
type sizerFunc func(types.CandidateOutput) (int, error)

func (f sizerFunc) OutputSize(out types.CandidateOutput) (int, error) { return f(out) }

// digitSizer grows by one byte per decimal digit of the native amount.
var digitSizer = sizerFunc(func(out types.CandidateOutput) (int, error) {
	return 60 + len(out.Value.Native().Amount().String()) + 30*len(out.Value.NonNative()), nil
})

func testParams() *types.ProtocolParams {
	return &types.ProtocolParams{CoinsPerUTxOByte: big.NewInt(4310), UTxOEntryOverhead: types.DefaultUTxOEntryOverhead}
}

func TestMinValueForSize_Monotonic(t *testing.T) {
	params := testParams()
	prev := big.NewInt(-1)
	for size := 0; size < 400; size += 7 {
		v, err := MinValueForSize(params, size)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v.Cmp(prev), 0)
		prev = v
	}
	v, err := MinValueForSize(params, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(200*4310), v.Int64())

	_, err = MinValueForSize(&types.ProtocolParams{}, 1)
	require.Error(t, err)
}

func TestPredictMinimumOutputValue_FixedPoint(t *testing.T) {
	params := testParams()
	out := types.CandidateOutput{Address: "addr", Value: types.NewCurrencyBag(types.NewCurrencyInt64(5, assetY))}

	min, err := PredictMinimumOutputValue(params, digitSizer, out)
	require.NoError(t, err)

	// the result must be self-consistent at its own native amount
	size, err := digitSizer.OutputSize(withNative(out, min))
	require.NoError(t, err)
	atMin, err := MinValueForSize(params, size)
	require.NoError(t, err)
	assert.Zero(t, atMin.Cmp(min))
	assert.Equal(t, int64((60+7+30+160)*4310), min.Int64())
}

func TestPredictExecutorDeposit(t *testing.T) {
	params := testParams()
	value := types.NewCurrencyBag(types.NewCurrencyInt64(100, assetY))

	extra, err := PredictExecutorDeposit(params, digitSizer, value, "addr")
	require.NoError(t, err)
	assert.True(t, extra.Sign() > 0)

	rich := value.PlusCurrency(types.NewCurrencyInt64(10_000_000, types.NativeAsset))
	extra, err = PredictExecutorDeposit(params, digitSizer, rich, "addr")
	require.NoError(t, err)
	assert.Zero(t, extra.Sign())

	failing := sizerFunc(func(types.CandidateOutput) (int, error) { return 0, errors.New("boom") })
	_, err = PredictExecutorDeposit(params, failing, value, "addr")
	require.Error(t, err)
}
