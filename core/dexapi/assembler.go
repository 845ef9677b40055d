// Package dexapi assembles DEX orders into transaction candidates.
package dexapi

import (
	"math/big"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/utxodex/sdk-go/core/amm"
	"github.com/utxodex/sdk-go/core/config"
	"github.com/utxodex/sdk-go/core/logging"
	"github.com/utxodex/sdk-go/core/selection"
	"github.com/utxodex/sdk-go/core/types"
	"github.com/utxodex/sdk-go/core/util"
)

// Operation names an order script.
type Operation string

const (
	OperationDeposit Operation = "deposit"
	OperationRedeem  Operation = "redeem"
	OperationSwap    Operation = "swap"
)

// Script is a deployed order script.
type Script struct {
	Hash           string                 `validate:"required,hexadecimal,len=56"`
	Address        string                 `validate:"required"`
	ReferenceInput *types.OutputReference // where the script is stored, when deployed by reference
}

// Assembler builds deposit, redeem, swap and cancel entries. It performs no
// I/O; everything it needs arrives in the environment of each call.
type Assembler struct {
	primitives         types.ILedgerPrimitives
	selector           *selection.Selector
	scripts            map[Operation]Script
	byHash             map[string]Operation
	feeHeadroom        *big.Int
	defaultSlippageBps int
	logger             *zap.Logger
}

// Compile-time check that Assembler implements IOrderAssembler
var _ types.IOrderAssembler = (*Assembler)(nil)

// NewAssemblerOptions contains options for creating an Assembler
type NewAssemblerOptions struct {
	Primitives         types.ILedgerPrimitives
	Scripts            map[Operation]Script
	FeeHeadroom        *big.Int // native kept free for the transaction fee
	DefaultSlippageBps int      // used by swaps that give neither MinQuote nor SlippageBps
	Selector           *selection.Selector
	Logger             *zap.Logger
}

// LoadAssembler creates a new Assembler with the given options
func LoadAssembler(options NewAssemblerOptions) (*Assembler, error) {
	if options.Primitives == nil {
		return nil, errors.New("ledger primitives are required")
	}
	validate := validator.New()
	byHash := make(map[string]Operation, len(options.Scripts))
	for _, op := range []Operation{OperationDeposit, OperationRedeem, OperationSwap} {
		script, ok := options.Scripts[op]
		if !ok {
			return nil, errors.Errorf("%s script is required", op)
		}
		if err := validate.Struct(script); err != nil {
			return nil, errors.Wrapf(err, "%s script", op)
		}
		byHash[script.Hash] = op
	}
	if options.DefaultSlippageBps < 0 || options.DefaultSlippageBps > 10_000 {
		return nil, errors.Errorf("default slippage must be in [0, 10000] bps, got %d", options.DefaultSlippageBps)
	}

	a := &Assembler{
		primitives:         options.Primitives,
		selector:           options.Selector,
		scripts:            options.Scripts,
		byHash:             byHash,
		feeHeadroom:        new(big.Int),
		defaultSlippageBps: options.DefaultSlippageBps,
		logger:             options.Logger,
	}
	if options.FeeHeadroom != nil {
		a.feeHeadroom.Set(options.FeeHeadroom)
	}
	if a.logger == nil {
		a.logger = logging.Logger.Named("dexapi")
	}
	if a.selector == nil {
		a.selector = selection.New(selection.WithLogger(a.logger))
	}
	return a, nil
}

// ScriptsFromConfig maps the configured order scripts.
func ScriptsFromConfig(cfg config.ScriptsConfig) map[Operation]Script {
	convert := func(s config.ScriptConfig) Script {
		return Script{Hash: s.ScriptHash, Address: s.Address, ReferenceInput: s.ReferenceRef()}
	}
	return map[Operation]Script{
		OperationDeposit: convert(cfg.Deposit),
		OperationRedeem:  convert(cfg.Redeem),
		OperationSwap:    convert(cfg.Swap),
	}
}

// Script returns the script for op.
func (a *Assembler) Script(op Operation) (Script, bool) {
	s, ok := a.scripts[op]
	return s, ok
}

// ═══════════════════════════════════════════════════════════════
// HELPER METHODS
// ═══════════════════════════════════════════════════════════════

func checkOrderEnv(env types.OrderEnv) error {
	if env.Pool == nil {
		return errors.New("pool is required")
	}
	return env.Params.Validate()
}

// rewardAddress is where the executor pays the owner.
func (a *Assembler) rewardAddress(owner types.OrderOwner) (string, error) {
	stake := util.MapOrNil(owner.StakePkh, types.PubKeyCredential)
	addr, err := a.primitives.DeriveAddress(types.PubKeyCredential(owner.RewardPkh), stake)
	if err != nil {
		return "", errors.Wrap(err, "derive reward address")
	}
	return addr, nil
}

// placedOrder is an order output ready to be funded.
type placedOrder struct {
	op       Operation
	value    types.CurrencyBag
	datum    types.Node
	expected types.CurrencyBag
	extra    *big.Int
}

// place tops up the order output to its minimum value, selects inputs that
// fund it and appends both in one step.
func (a *Assembler) place(tx *types.TransactionCandidate, env types.OrderEnv, order placedOrder) (*types.OrderResult, error) {
	script := a.scripts[order.op]
	out := types.CandidateOutput{Address: script.Address, Value: order.value, Datum: &order.datum}

	topUp, err := amm.TopUp(env.Params, a.primitives, out)
	if err != nil {
		return nil, errors.Wrapf(err, "%s order min value", order.op)
	}
	out.Value = out.Value.PlusCurrency(types.NativeCurrency(topUp))

	required := selection.WithHeadroom(out.Value, a.feeHeadroom)
	inputs, err := a.selector.Select(required, env.Utxos, env.Pinned, tx.InputRefs())
	if err != nil {
		return nil, errors.Wrapf(err, "fund %s order", order.op)
	}

	var draft types.Draft
	for _, u := range inputs {
		draft.AddInput(u, nil)
	}
	draft.AddOutput(out.Address, out.Value, out.Datum)
	if err := tx.Apply(draft); err != nil {
		return nil, errors.Wrapf(err, "append %s order", order.op)
	}

	a.logger.Debug("order assembled",
		zap.String("operation", string(order.op)),
		zap.Int("inputs", len(inputs)),
		zap.Stringer("value", out.Value),
		zap.Stringer("expected", order.expected),
		zap.Stringer("topUp", topUp))

	return &types.OrderResult{
		Inputs:      types.Refs(inputs),
		OrderValue:  out.Value,
		Datum:       out.Datum,
		Expected:    order.expected,
		ExtraNative: order.extra,
	}, nil
}
