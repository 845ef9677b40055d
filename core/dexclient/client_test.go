package dexclient

import (
	"context"
	"math/big"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utxodex/sdk-go/core/config"
	"github.com/utxodex/sdk-go/core/dexapi"
	"github.com/utxodex/sdk-go/core/ledger"
	"github.com/utxodex/sdk-go/core/types"
)

var (
	ownerPkh = strings.Repeat("ab", 28)
	tokenY   = types.MustAssetIdentifier(strings.Repeat("aa", 28), "tokenY")
	poolNft  = types.MustAssetIdentifier(strings.Repeat("01", 28), "nft")
)

// mockProvider implements IDataProvider for testing
type mockProvider struct {
	paramsFunc func(ctx context.Context) (*types.ProtocolParams, error)
	poolFunc   func(ctx context.Context, nft types.AssetIdentifier) (*types.Pool, error)
	utxoFunc   func(ctx context.Context, ref types.OutputReference) (*types.UTxO, error)
	poolCalls  atomic.Int32
}

func (m *mockProvider) GetProtocolParams(ctx context.Context) (*types.ProtocolParams, error) {
	if m.paramsFunc != nil {
		return m.paramsFunc(ctx)
	}
	return &types.ProtocolParams{CoinsPerUTxOByte: big.NewInt(4310), UTxOEntryOverhead: 160}, nil
}

func (m *mockProvider) GetPool(ctx context.Context, nft types.AssetIdentifier) (*types.Pool, error) {
	m.poolCalls.Add(1)
	if m.poolFunc != nil {
		return m.poolFunc(ctx, nft)
	}
	return nil, nil
}

func (m *mockProvider) GetUtxo(ctx context.Context, ref types.OutputReference) (*types.UTxO, error) {
	if m.utxoFunc != nil {
		return m.utxoFunc(ctx, ref)
	}
	return nil, nil
}

var _ types.IDataProvider = (*mockProvider)(nil)

// mockWallet implements IWalletBridge for testing
type mockWallet struct {
	utxos  []types.UTxO
	change string
}

func (m *mockWallet) ChangeAddress(ctx context.Context) (string, error) {
	return m.change, nil
}

func (m *mockWallet) Utxos(ctx context.Context) ([]types.UTxO, error) {
	return append([]types.UTxO{}, m.utxos...), nil
}

var _ types.IWalletBridge = (*mockWallet)(nil)

// mockFinalizer records the order of finalization steps
type mockFinalizer struct {
	steps []string
}

func (m *mockFinalizer) Finalize(ctx context.Context, tx *types.TransactionCandidate, changeAddress string) ([]byte, error) {
	m.steps = append(m.steps, "finalize:"+changeAddress)
	return []byte("unsigned"), nil
}

func (m *mockFinalizer) Sign(ctx context.Context, unsigned []byte) ([]byte, error) {
	m.steps = append(m.steps, "sign:"+string(unsigned))
	return []byte("signed"), nil
}

func (m *mockFinalizer) Submit(ctx context.Context, signed []byte) (string, error) {
	m.steps = append(m.steps, "submit:"+string(signed))
	return "txid", nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	p, err := ledger.NewPrimitives(ledger.Testnet)
	require.NoError(t, err)

	script := func(b string) config.ScriptConfig {
		hash := strings.Repeat(b, 28)
		addr, err := p.DeriveAddress(types.ScriptCredential(hash), nil)
		require.NoError(t, err)
		return config.ScriptConfig{ScriptHash: hash, Address: addr}
	}
	return &config.Config{
		Network: config.NetworkConfig{ID: 0, Bech32Prefix: "addr_test"},
		Scripts: config.ScriptsConfig{Deposit: script("d1"), Redeem: script("e2"), Swap: script("f3")},
		Orders: config.OrdersConfig{
			ExecutorFee:        2_000_000,
			FeeHeadroom:        500_000,
			DefaultSlippageBps: 50,
			SelectionStrategy:  "fewest-assets",
		},
		PoolCache: config.PoolCacheConfig{Size: 8, TTL: time.Minute},
	}
}

func testPool(t *testing.T) *types.Pool {
	t.Helper()
	pool, err := types.NewPool(types.PoolParams{
		Kind:           types.PoolKindConstantProduct,
		Nft:            poolNft,
		Lp:             types.MustAssetIdentifier(strings.Repeat("02", 28), "lp"),
		ReservesX:      types.NewCurrencyInt64(20_000_000_000, types.NativeAsset),
		ReservesY:      types.NewCurrencyInt64(20_000_000_000, tokenY),
		LPLocked:       big.NewInt(9_000_000_000_000_000_000),
		FeeNumX:        997,
		FeeNumY:        997,
		FeeDenominator: 1000,
	})
	require.NoError(t, err)
	return pool
}

func walletUtxo(hashByte string, lovelace int64) types.UTxO {
	return types.UTxO{
		Ref:               types.OutputReference{TxHash: strings.Repeat(hashByte, 32)},
		Address:           "addr_test1wallet",
		PaymentCredential: types.PubKeyCredential(ownerPkh),
		Value:             types.NativeBag(big.NewInt(lovelace)),
	}
}

func newTestClient(t *testing.T, provider *mockProvider, wallet *mockWallet) *Client {
	t.Helper()
	c, err := NewClient(provider, wallet, WithConfig(testConfig(t)))
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(nil, &mockWallet{}, WithConfig(testConfig(t)))
	require.Error(t, err)

	_, err = NewClient(&mockProvider{}, nil, WithConfig(testConfig(t)))
	require.Error(t, err)

	_, err = NewClient(&mockProvider{}, &mockWallet{})
	require.Error(t, err)

	bad := testConfig(t)
	bad.Orders.SelectionStrategy = "random"
	_, err = NewClient(&mockProvider{}, &mockWallet{}, WithConfig(bad))
	require.Error(t, err)
}

func TestNewClient_ExplicitCollaborators(t *testing.T) {
	cfg := testConfig(t)
	p, err := ledger.NewPrimitives(ledger.Testnet)
	require.NoError(t, err)
	a, err := dexapi.LoadAssembler(dexapi.NewAssemblerOptions{Primitives: p, Scripts: dexapi.ScriptsFromConfig(cfg.Scripts)})
	require.NoError(t, err)

	c, err := NewClient(&mockProvider{}, &mockWallet{}, WithPrimitives(p), WithAssembler(a))
	require.NoError(t, err)
	assert.Same(t, a, c.Assembler())
	assert.Same(t, p, c.Primitives())
	assert.Nil(t, c.poolCache)
}

func TestClient_SwapUsesDefaultFeeAndCachesPool(t *testing.T) {
	pool := testPool(t)
	provider := &mockProvider{
		poolFunc: func(ctx context.Context, nft types.AssetIdentifier) (*types.Pool, error) {
			return pool, nil
		},
	}
	wallet := &mockWallet{utxos: []types.UTxO{walletUtxo("01", 30_000_000), walletUtxo("02", 30_000_000)}}
	c := newTestClient(t, provider, wallet)

	ctx := context.Background()
	tx := c.NewTransaction()
	input := types.SwapInput{
		OrderOwner: types.OrderOwner{RewardPkh: ownerPkh},
		Base:       types.NewCurrencyInt64(10_000_000, types.NativeAsset),
		Quote:      tokenY,
	}

	_, err := c.Swap(ctx, tx, poolNft, input)
	require.NoError(t, err)
	_, err = c.Swap(ctx, tx, poolNft, input)
	require.NoError(t, err)

	assert.Equal(t, int32(1), provider.poolCalls.Load())
	require.Len(t, tx.Outputs(), 2)
	decoded, err := dexapi.SwapSchema.Decode(*tx.Outputs()[0].Datum)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), decoded.BaseAmount.Int64())

	c.InvalidatePool(poolNft)
	_, err = c.Pool(ctx, poolNft)
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.poolCalls.Load())
}

func TestClient_FetchErrors(t *testing.T) {
	pool := testPool(t)
	tests := []struct {
		name     string
		provider *mockProvider
		contains string
	}{
		{
			name: "params",
			provider: &mockProvider{
				paramsFunc: func(ctx context.Context) (*types.ProtocolParams, error) {
					return nil, errors.New("node unavailable")
				},
				poolFunc: func(ctx context.Context, nft types.AssetIdentifier) (*types.Pool, error) { return pool, nil },
			},
			contains: "get protocol params",
		},
		{
			name:     "missing pool",
			provider: &mockProvider{},
			contains: "not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.provider, &mockWallet{utxos: []types.UTxO{walletUtxo("01", 30_000_000)}})
			tx := c.NewTransaction()
			_, err := c.Deposit(context.Background(), tx, poolNft, types.DepositInput{
				OrderOwner: types.OrderOwner{RewardPkh: ownerPkh},
				X:          types.NewCurrencyInt64(1_000_000, types.NativeAsset),
				Y:          types.NewCurrencyInt64(1_000_000, tokenY),
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Empty(t, tx.Outputs())
		})
	}
}

func TestClient_CancelUnknownOrder(t *testing.T) {
	var asked types.OutputReference
	provider := &mockProvider{
		utxoFunc: func(ctx context.Context, ref types.OutputReference) (*types.UTxO, error) {
			asked = ref
			return nil, nil
		},
	}
	c := newTestClient(t, provider, &mockWallet{})
	ref := types.OutputReference{TxHash: strings.Repeat("9c", 32), Index: 3}

	_, err := c.Cancel(context.Background(), c.NewTransaction(), types.CancelInput{Ref: ref})
	require.ErrorIs(t, err, types.ErrOutputNotFound)
	assert.Equal(t, ref, asked)
}

func TestClient_Submit(t *testing.T) {
	c := newTestClient(t, &mockProvider{}, &mockWallet{change: "addr_test1change"})
	f := &mockFinalizer{}

	id, err := c.Submit(context.Background(), c.NewTransaction(), f)
	require.NoError(t, err)
	assert.Equal(t, "txid", id)
	assert.Equal(t, []string{"finalize:addr_test1change", "sign:unsigned", "submit:signed"}, f.steps)
}
