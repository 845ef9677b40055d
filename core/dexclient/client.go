// Package dexclient wires a data provider and a wallet to the order assembler.
package dexclient

import (
	"context"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/utxodex/sdk-go/core/config"
	"github.com/utxodex/sdk-go/core/dexapi"
	"github.com/utxodex/sdk-go/core/ledger"
	"github.com/utxodex/sdk-go/core/logging"
	"github.com/utxodex/sdk-go/core/selection"
	"github.com/utxodex/sdk-go/core/types"
)

type Client struct {
	Provider   types.IDataProvider `validate:"required"`
	Wallet     types.IWalletBridge `validate:"required"`
	primitives types.ILedgerPrimitives
	assembler  types.IOrderAssembler
	cfg        *config.Config
	exFee      *big.Int
	poolCache  *expirable.LRU[types.AssetIdentifier, *types.Pool]
	cacheSize  int
	cacheTTL   time.Duration
	logger     *zap.Logger
}

type Option func(*Client)

func NewClient(provider types.IDataProvider, wallet types.IWalletBridge, options ...Option) (*Client, error) {
	c := &Client{
		Provider: provider,
		Wallet:   wallet,
		logger:   logging.Logger.Named("dexclient"),
	}
	for _, option := range options {
		option(c)
	}

	// Validate the client
	if err := c.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	if c.cfg != nil {
		if err := c.cfg.Validate(); err != nil {
			return nil, errors.Wrap(err, "client config")
		}
		c.exFee = new(big.Int).SetUint64(c.cfg.Orders.ExecutorFee)
		if c.cacheSize == 0 && c.cacheTTL == 0 {
			c.cacheSize, c.cacheTTL = c.cfg.PoolCache.Size, c.cfg.PoolCache.TTL
		}
	}

	if c.primitives == nil {
		if c.cfg == nil {
			return nil, errors.New("ledger primitives or a config are required")
		}
		p, err := ledger.NewPrimitives(ledger.Network{ID: c.cfg.Network.ID, HRP: c.cfg.Network.Bech32Prefix})
		if err != nil {
			return nil, errors.WithStack(err)
		}
		c.primitives = p
	}

	if c.assembler == nil {
		if c.cfg == nil {
			return nil, errors.New("an assembler or a config is required")
		}
		a, err := assemblerFromConfig(c.cfg, c.primitives, c.logger)
		if err != nil {
			return nil, err
		}
		c.assembler = a
	}

	if c.cacheSize > 0 {
		c.poolCache = expirable.NewLRU[types.AssetIdentifier, *types.Pool](c.cacheSize, nil, c.cacheTTL)
	}
	return c, nil
}

func (c *Client) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func assemblerFromConfig(cfg *config.Config, primitives types.ILedgerPrimitives, logger *zap.Logger) (*dexapi.Assembler, error) {
	strategy, err := selection.ParseStrategy(cfg.Orders.SelectionStrategy)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return dexapi.LoadAssembler(dexapi.NewAssemblerOptions{
		Primitives:         primitives,
		Scripts:            dexapi.ScriptsFromConfig(cfg.Scripts),
		FeeHeadroom:        new(big.Int).SetUint64(cfg.Orders.FeeHeadroom),
		DefaultSlippageBps: cfg.Orders.DefaultSlippageBps,
		Selector:           selection.New(selection.WithStrategy(strategy), selection.WithLogger(logger)),
		Logger:             logger.Named("assembler"),
	})
}

// WithConfig builds primitives and the assembler from cfg unless they are
// given explicitly. It also supplies the default executor fee.
func WithConfig(cfg *config.Config) Option {
	return func(c *Client) {
		c.cfg = cfg
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithPrimitives(p types.ILedgerPrimitives) Option {
	return func(c *Client) {
		c.primitives = p
	}
}

func WithAssembler(a types.IOrderAssembler) Option {
	return func(c *Client) {
		c.assembler = a
	}
}

// WithPoolCache keeps up to size pool snapshots for ttl. A zero size disables
// the cache.
func WithPoolCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheSize = size
		c.cacheTTL = ttl
	}
}

// WithExecutorFee sets the fee used by inputs that leave ExFee unset.
func WithExecutorFee(fee *big.Int) Option {
	return func(c *Client) {
		c.exFee = new(big.Int).Set(fee)
	}
}

func (c *Client) Primitives() types.ILedgerPrimitives {
	return c.primitives
}

func (c *Client) Assembler() types.IOrderAssembler {
	return c.assembler
}

// NewTransaction starts an empty candidate. Callers thread it through
// operations sequentially; it is not safe for concurrent use.
func (c *Client) NewTransaction() *types.TransactionCandidate {
	return types.NewTransactionCandidate()
}

// ═══════════════════════════════════════════════════════════════
// CHAIN STATE
// ═══════════════════════════════════════════════════════════════

// Pool returns the pool snapshot identified by nft, from the cache when one
// is configured.
func (c *Client) Pool(ctx context.Context, nft types.AssetIdentifier) (*types.Pool, error) {
	if c.poolCache != nil {
		if p, ok := c.poolCache.Get(nft); ok {
			return p, nil
		}
	}
	p, err := c.Provider.GetPool(ctx, nft)
	if err != nil {
		return nil, errors.Wrapf(err, "get pool %s", nft)
	}
	if p == nil {
		return nil, errors.Errorf("pool %s not found", nft)
	}
	if c.poolCache != nil {
		c.poolCache.Add(nft, p)
	}
	return p, nil
}

// InvalidatePool drops the cached snapshot of nft.
func (c *Client) InvalidatePool(nft types.AssetIdentifier) {
	if c.poolCache != nil {
		c.poolCache.Remove(nft)
	}
}

// orderEnv fetches protocol params, the pool and the wallet outputs
// concurrently.
func (c *Client) orderEnv(ctx context.Context, nft types.AssetIdentifier) (types.OrderEnv, error) {
	var env types.OrderEnv
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		params, err := c.Provider.GetProtocolParams(gctx)
		if err != nil {
			return errors.Wrap(err, "get protocol params")
		}
		env.Params = params
		return nil
	})
	g.Go(func() error {
		pool, err := c.Pool(gctx, nft)
		if err != nil {
			return err
		}
		env.Pool = pool
		return nil
	})
	g.Go(func() error {
		utxos, err := c.Wallet.Utxos(gctx)
		if err != nil {
			return errors.Wrap(err, "list wallet utxos")
		}
		env.Utxos = utxos
		return nil
	})

	if err := g.Wait(); err != nil {
		return types.OrderEnv{}, err
	}
	return env, nil
}

// Submit finalizes, signs and submits tx with the wallet's change address and
// returns the transaction id.
func (c *Client) Submit(ctx context.Context, tx *types.TransactionCandidate, finalizer types.IFinalizer) (string, error) {
	change, err := c.Wallet.ChangeAddress(ctx)
	if err != nil {
		return "", errors.Wrap(err, "change address")
	}
	unsigned, err := finalizer.Finalize(ctx, tx, change)
	if err != nil {
		return "", errors.Wrap(err, "finalize")
	}
	signed, err := finalizer.Sign(ctx, unsigned)
	if err != nil {
		return "", errors.Wrap(err, "sign")
	}
	txID, err := finalizer.Submit(ctx, signed)
	if err != nil {
		return "", errors.Wrap(err, "submit")
	}
	c.logger.Info("transaction submitted",
		zap.String("txId", txID),
		zap.Int("inputs", len(tx.Inputs())),
		zap.Int("outputs", len(tx.Outputs())))
	return txID, nil
}
