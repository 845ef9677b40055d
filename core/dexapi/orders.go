package dexapi

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/utxodex/sdk-go/core/amm"
	"github.com/utxodex/sdk-go/core/types"
)

// ═══════════════════════════════════════════════════════════════
// ORDER PLACEMENT OPERATIONS
// ═══════════════════════════════════════════════════════════════

// Deposit locks X and Y at the deposit script. The datum reserves enough
// native for the executor's LP reward output.
func (a *Assembler) Deposit(tx *types.TransactionCandidate, env types.OrderEnv, input types.DepositInput) (*types.OrderResult, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := checkOrderEnv(env); err != nil {
		return nil, errors.WithStack(err)
	}
	pool := env.Pool

	lp, err := amm.ConvertAssetsToLp(pool, input.X, input.Y)
	if err != nil {
		return nil, errors.Wrap(err, "deposit lp reward")
	}
	rewardAddr, err := a.rewardAddress(input.OrderOwner)
	if err != nil {
		return nil, err
	}
	expected := types.NewCurrencyBag(lp)
	collateral, err := amm.PredictExecutorDeposit(env.Params, a.primitives, expected, rewardAddr)
	if err != nil {
		return nil, errors.Wrap(err, "deposit collateral")
	}

	node, err := encodeDatum(DepositSchema, DepositDatum{
		PoolNft:       pool.Nft(),
		X:             pool.AssetX(),
		Y:             pool.AssetY(),
		Lq:            pool.Lp(),
		ExFee:         input.ExFee,
		RewardPkh:     input.RewardPkh,
		StakePkh:      input.StakePkh,
		CollateralAda: collateral,
	})
	if err != nil {
		return nil, err
	}

	return a.place(tx, env, placedOrder{
		op: OperationDeposit,
		value: types.NewCurrencyBag(
			input.X,
			input.Y,
			types.NativeCurrency(input.ExFee),
			types.NativeCurrency(collateral),
		),
		datum:    node,
		expected: expected,
		extra:    collateral,
	})
}

// Redeem locks LP tokens at the redeem script for their share of X and Y.
func (a *Assembler) Redeem(tx *types.TransactionCandidate, env types.OrderEnv, input types.RedeemInput) (*types.OrderResult, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := checkOrderEnv(env); err != nil {
		return nil, errors.WithStack(err)
	}
	pool := env.Pool

	x, y, err := amm.ConvertLpToAssets(pool, input.Lp)
	if err != nil {
		return nil, errors.Wrap(err, "redeem share")
	}
	rewardAddr, err := a.rewardAddress(input.OrderOwner)
	if err != nil {
		return nil, err
	}
	expected := types.NewCurrencyBag(x, y)
	extra, err := amm.PredictExecutorDeposit(env.Params, a.primitives, expected, rewardAddr)
	if err != nil {
		return nil, errors.Wrap(err, "redeem executor deposit")
	}

	node, err := encodeDatum(RedeemSchema, RedeemDatum{
		PoolNft:   pool.Nft(),
		X:         pool.AssetX(),
		Y:         pool.AssetY(),
		Lq:        pool.Lp(),
		ExFee:     input.ExFee,
		RewardPkh: input.RewardPkh,
		StakePkh:  input.StakePkh,
	})
	if err != nil {
		return nil, err
	}

	return a.place(tx, env, placedOrder{
		op: OperationRedeem,
		value: types.NewCurrencyBag(
			input.Lp,
			types.NativeCurrency(input.ExFee),
			types.NativeCurrency(extra),
		),
		datum:    node,
		expected: expected,
		extra:    extra,
	})
}

// Swap locks the base asset at the swap script. When MinQuote is not given
// it is the constant-product estimate less the slippage tolerance.
func (a *Assembler) Swap(tx *types.TransactionCandidate, env types.OrderEnv, input types.SwapInput) (*types.OrderResult, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := checkOrderEnv(env); err != nil {
		return nil, errors.WithStack(err)
	}
	pool := env.Pool

	var feeNum int64
	switch {
	case input.Base.Asset() == pool.AssetX() && input.Quote == pool.AssetY():
		feeNum = pool.FeeNumX()
	case input.Base.Asset() == pool.AssetY() && input.Quote == pool.AssetX():
		feeNum = pool.FeeNumY()
	default:
		return nil, errors.WithStack(&types.AssetMismatchError{Left: input.Base.Asset(), Right: pool.AssetX()})
	}

	minQuote, err := a.minQuote(pool, input)
	if err != nil {
		return nil, err
	}
	perToken, err := amm.ExecutorFeePerToken(input.ExFee, minQuote)
	if err != nil {
		return nil, errors.Wrap(err, "executor fee per token")
	}

	rewardAddr, err := a.rewardAddress(input.OrderOwner)
	if err != nil {
		return nil, err
	}
	expected := types.NewCurrencyBag(types.NewCurrency(minQuote, input.Quote))
	extra, err := amm.PredictExecutorDeposit(env.Params, a.primitives, expected, rewardAddr)
	if err != nil {
		return nil, errors.Wrap(err, "swap executor deposit")
	}

	node, err := encodeDatum(SwapSchema, SwapDatum{
		Base:             input.Base.Asset(),
		Quote:            input.Quote,
		PoolNft:          pool.Nft(),
		FeeNum:           feeNum,
		ExFeePerTokenNum: perToken.Num(),
		ExFeePerTokenDen: perToken.Denom(),
		RewardPkh:        input.RewardPkh,
		StakePkh:         input.StakePkh,
		BaseAmount:       input.Base.Amount(),
		MinQuoteAmount:   minQuote,
	})
	if err != nil {
		return nil, err
	}

	return a.place(tx, env, placedOrder{
		op: OperationSwap,
		value: types.NewCurrencyBag(
			input.Base,
			types.NativeCurrency(input.ExFee),
			types.NativeCurrency(extra),
		),
		datum:    node,
		expected: expected,
		extra:    extra,
	})
}

// minQuote resolves the minimum quote of a swap. SlippageBps of zero falls
// back to the assembler default.
func (a *Assembler) minQuote(pool *types.Pool, input types.SwapInput) (*big.Int, error) {
	if input.MinQuote != nil {
		return new(big.Int).Set(input.MinQuote), nil
	}
	estimate, err := amm.SwapOutput(pool, input.Base)
	if err != nil {
		return nil, errors.Wrap(err, "estimate swap output")
	}
	bps := input.SlippageBps
	if bps == 0 {
		bps = a.defaultSlippageBps
	}
	min, err := amm.MinOutputWithSlippage(estimate.Amount(), bps)
	if err != nil {
		return nil, err
	}
	if min.Sign() <= 0 {
		return nil, errors.Errorf("swap of %s yields no %s after %d bps slippage", input.Base, input.Quote, bps)
	}
	a.logger.Debug("derived min quote",
		zap.Stringer("estimate", estimate.Amount()),
		zap.Int("slippageBps", bps),
		zap.Stringer("minQuote", min))
	return min, nil
}

// ═══════════════════════════════════════════════════════════════
// CANCEL
// ═══════════════════════════════════════════════════════════════

// Cancel spends a live order back to its owner. The order must exist, be
// unspent and sit at one of the configured order scripts.
func (a *Assembler) Cancel(tx *types.TransactionCandidate, env types.CancelEnv, input types.CancelInput) (*types.OrderResult, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	order := env.Order
	if order == nil || order.Ref != input.Ref {
		return nil, errors.WithStack(&types.OutputNotFoundError{Ref: input.Ref})
	}
	if order.Spent {
		return nil, errors.WithStack(&types.AlreadySpentError{Ref: input.Ref})
	}
	op, ok := a.byHash[order.PaymentCredential.Hash]
	if !ok || !order.IsScriptLocked() {
		return nil, errors.WithStack(&types.UnsupportedOperationError{Ref: input.Ref, ScriptHash: order.PaymentCredential.Hash})
	}
	if order.InlineDatum == nil {
		return nil, errors.WithStack(&types.DeserializationError{
			Path: []string{string(op)},
			Err:  errors.New("order output has no inline datum"),
		})
	}

	owner, err := orderOwner(op, *order.InlineDatum)
	if err != nil {
		return nil, err
	}
	refundAddr, err := a.rewardAddress(owner)
	if err != nil {
		return nil, err
	}

	redeemer, err := encodeDatum(RedeemerSchema, OrderRedeemer{
		OrderInIx:   int64(len(tx.Inputs())),
		RewardOutIx: int64(len(tx.Outputs())),
		Refund:      true,
	})
	if err != nil {
		return nil, err
	}

	script := a.scripts[op]
	var draft types.Draft
	draft.AddInput(*order, &types.SpendScript{
		ScriptHash:     script.Hash,
		Redeemer:       redeemer,
		ReferenceInput: script.ReferenceInput,
	})
	draft.AddOutput(refundAddr, order.Value, nil)
	draft.RequiredSigners = []string{owner.RewardPkh}
	if err := tx.Apply(draft); err != nil {
		return nil, errors.Wrapf(err, "append %s cancel", op)
	}

	a.logger.Debug("order cancelled",
		zap.String("operation", string(op)),
		zap.Stringer("ref", order.Ref),
		zap.Stringer("refund", order.Value))

	return &types.OrderResult{
		Inputs:      []types.OutputReference{order.Ref},
		OrderValue:  order.Value,
		Datum:       order.InlineDatum,
		Expected:    order.Value,
		ExtraNative: new(big.Int),
	}, nil
}

// orderOwner decodes the owner of an order datum.
func orderOwner(op Operation, n types.Node) (types.OrderOwner, error) {
	switch op {
	case OperationDeposit:
		d, err := decodeDatum(DepositSchema, n)
		if err != nil {
			return types.OrderOwner{}, err
		}
		return types.OrderOwner{RewardPkh: d.RewardPkh, StakePkh: d.StakePkh}, nil
	case OperationRedeem:
		d, err := decodeDatum(RedeemSchema, n)
		if err != nil {
			return types.OrderOwner{}, err
		}
		return types.OrderOwner{RewardPkh: d.RewardPkh, StakePkh: d.StakePkh}, nil
	case OperationSwap:
		d, err := decodeDatum(SwapSchema, n)
		if err != nil {
			return types.OrderOwner{}, err
		}
		return types.OrderOwner{RewardPkh: d.RewardPkh, StakePkh: d.StakePkh}, nil
	default:
		return types.OrderOwner{}, errors.Errorf("unknown operation %s", op)
	}
}
