package dexclient

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/utxodex/sdk-go/core/types"
)

// Deposit fetches the pool identified by nft and appends a deposit order.
func (c *Client) Deposit(ctx context.Context, tx *types.TransactionCandidate, nft types.AssetIdentifier, input types.DepositInput) (*types.OrderResult, error) {
	input.ExFee = c.executorFee(input.ExFee)
	env, err := c.orderEnv(ctx, nft)
	if err != nil {
		return nil, err
	}
	return c.assembler.Deposit(tx, env, input)
}

// Redeem fetches the pool identified by nft and appends a redeem order.
func (c *Client) Redeem(ctx context.Context, tx *types.TransactionCandidate, nft types.AssetIdentifier, input types.RedeemInput) (*types.OrderResult, error) {
	input.ExFee = c.executorFee(input.ExFee)
	env, err := c.orderEnv(ctx, nft)
	if err != nil {
		return nil, err
	}
	return c.assembler.Redeem(tx, env, input)
}

// Swap fetches the pool identified by nft and appends a spot order.
func (c *Client) Swap(ctx context.Context, tx *types.TransactionCandidate, nft types.AssetIdentifier, input types.SwapInput) (*types.OrderResult, error) {
	input.ExFee = c.executorFee(input.ExFee)
	env, err := c.orderEnv(ctx, nft)
	if err != nil {
		return nil, err
	}
	return c.assembler.Swap(tx, env, input)
}

// Cancel looks the order up and appends its refund.
func (c *Client) Cancel(ctx context.Context, tx *types.TransactionCandidate, input types.CancelInput) (*types.OrderResult, error) {
	order, err := c.Provider.GetUtxo(ctx, input.Ref)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %s", input.Ref)
	}
	c.logger.Debug("cancel lookup", zap.Stringer("ref", input.Ref), zap.Bool("found", order != nil))
	return c.assembler.Cancel(tx, types.CancelEnv{Order: order}, input)
}

func (c *Client) executorFee(fee *big.Int) *big.Int {
	if fee != nil || c.exFee == nil {
		return fee
	}
	return new(big.Int).Set(c.exFee)
}
