package dexapi

import (
	"math/big"

	"github.com/utxodex/sdk-go/core/datum"
	"github.com/utxodex/sdk-go/core/types"
)

// ═══════════════════════════════════════════════════════════════
// ORDER DATUMS
// Field positions are part of each script's contract.
// ═══════════════════════════════════════════════════════════════

// DepositDatum is the datum of a deposit order.
type DepositDatum struct {
	PoolNft       types.AssetIdentifier
	X             types.AssetIdentifier
	Y             types.AssetIdentifier
	Lq            types.AssetIdentifier
	ExFee         *big.Int
	RewardPkh     string
	StakePkh      *string
	CollateralAda *big.Int // native reserved for the executor's reward output
}

// RedeemDatum is the datum of a redeem order.
type RedeemDatum struct {
	PoolNft   types.AssetIdentifier
	X         types.AssetIdentifier
	Y         types.AssetIdentifier
	Lq        types.AssetIdentifier
	ExFee     *big.Int
	RewardPkh string
	StakePkh  *string
}

// SwapDatum is the datum of a spot swap order.
type SwapDatum struct {
	Base             types.AssetIdentifier
	Quote            types.AssetIdentifier
	PoolNft          types.AssetIdentifier
	FeeNum           int64
	ExFeePerTokenNum *big.Int
	ExFeePerTokenDen *big.Int
	RewardPkh        string
	StakePkh         *string
	BaseAmount       *big.Int
	MinQuoteAmount   *big.Int
}

// OrderRedeemer is the redeemer an order script is spent with.
type OrderRedeemer struct {
	PoolInIx    int64
	OrderInIx   int64
	RewardOutIx int64
	Refund      bool // Apply = Constr 0 [], Refund = Constr 1 []
}

var DepositSchema = datum.MustSchema("deposit", datum.AsConstructor,
	datum.FieldOf("poolNft", 0, datum.AssetIdentifier(),
		func(d DepositDatum) types.AssetIdentifier { return d.PoolNft },
		func(d *DepositDatum, v types.AssetIdentifier) { d.PoolNft = v }),
	datum.FieldOf("x", 1, datum.AssetIdentifier(),
		func(d DepositDatum) types.AssetIdentifier { return d.X },
		func(d *DepositDatum, v types.AssetIdentifier) { d.X = v }),
	datum.FieldOf("y", 2, datum.AssetIdentifier(),
		func(d DepositDatum) types.AssetIdentifier { return d.Y },
		func(d *DepositDatum, v types.AssetIdentifier) { d.Y = v }),
	datum.FieldOf("lq", 3, datum.AssetIdentifier(),
		func(d DepositDatum) types.AssetIdentifier { return d.Lq },
		func(d *DepositDatum, v types.AssetIdentifier) { d.Lq = v }),
	datum.FieldOf("exFee", 4, datum.BigInt(),
		func(d DepositDatum) *big.Int { return d.ExFee },
		func(d *DepositDatum, v *big.Int) { d.ExFee = v }),
	datum.FieldOf("rewardPkh", 5, datum.ByteString(),
		func(d DepositDatum) string { return d.RewardPkh },
		func(d *DepositDatum, v string) { d.RewardPkh = v }),
	datum.FieldOf("stakePkh", 6, datum.Optional(datum.ByteString()),
		func(d DepositDatum) *string { return d.StakePkh },
		func(d *DepositDatum, v *string) { d.StakePkh = v }),
	datum.FieldOf("collateralAda", 7, datum.BigInt(),
		func(d DepositDatum) *big.Int { return d.CollateralAda },
		func(d *DepositDatum, v *big.Int) { d.CollateralAda = v }),
)

var RedeemSchema = datum.MustSchema("redeem", datum.AsConstructor,
	datum.FieldOf("poolNft", 0, datum.AssetIdentifier(),
		func(d RedeemDatum) types.AssetIdentifier { return d.PoolNft },
		func(d *RedeemDatum, v types.AssetIdentifier) { d.PoolNft = v }),
	datum.FieldOf("x", 1, datum.AssetIdentifier(),
		func(d RedeemDatum) types.AssetIdentifier { return d.X },
		func(d *RedeemDatum, v types.AssetIdentifier) { d.X = v }),
	datum.FieldOf("y", 2, datum.AssetIdentifier(),
		func(d RedeemDatum) types.AssetIdentifier { return d.Y },
		func(d *RedeemDatum, v types.AssetIdentifier) { d.Y = v }),
	datum.FieldOf("lq", 3, datum.AssetIdentifier(),
		func(d RedeemDatum) types.AssetIdentifier { return d.Lq },
		func(d *RedeemDatum, v types.AssetIdentifier) { d.Lq = v }),
	datum.FieldOf("exFee", 4, datum.BigInt(),
		func(d RedeemDatum) *big.Int { return d.ExFee },
		func(d *RedeemDatum, v *big.Int) { d.ExFee = v }),
	datum.FieldOf("rewardPkh", 5, datum.ByteString(),
		func(d RedeemDatum) string { return d.RewardPkh },
		func(d *RedeemDatum, v string) { d.RewardPkh = v }),
	datum.FieldOf("stakePkh", 6, datum.Optional(datum.ByteString()),
		func(d RedeemDatum) *string { return d.StakePkh },
		func(d *RedeemDatum, v *string) { d.StakePkh = v }),
)

var SwapSchema = datum.MustSchema("swap", datum.AsConstructor,
	datum.FieldOf("base", 0, datum.AssetIdentifier(),
		func(d SwapDatum) types.AssetIdentifier { return d.Base },
		func(d *SwapDatum, v types.AssetIdentifier) { d.Base = v }),
	datum.FieldOf("quote", 1, datum.AssetIdentifier(),
		func(d SwapDatum) types.AssetIdentifier { return d.Quote },
		func(d *SwapDatum, v types.AssetIdentifier) { d.Quote = v }),
	datum.FieldOf("poolNft", 2, datum.AssetIdentifier(),
		func(d SwapDatum) types.AssetIdentifier { return d.PoolNft },
		func(d *SwapDatum, v types.AssetIdentifier) { d.PoolNft = v }),
	datum.FieldOf("feeNum", 3, datum.Int(),
		func(d SwapDatum) int64 { return d.FeeNum },
		func(d *SwapDatum, v int64) { d.FeeNum = v }),
	datum.FieldOf("exFeePerTokenNum", 4, datum.BigInt(),
		func(d SwapDatum) *big.Int { return d.ExFeePerTokenNum },
		func(d *SwapDatum, v *big.Int) { d.ExFeePerTokenNum = v }),
	datum.FieldOf("exFeePerTokenDen", 5, datum.BigInt(),
		func(d SwapDatum) *big.Int { return d.ExFeePerTokenDen },
		func(d *SwapDatum, v *big.Int) { d.ExFeePerTokenDen = v }),
	datum.FieldOf("rewardPkh", 6, datum.ByteString(),
		func(d SwapDatum) string { return d.RewardPkh },
		func(d *SwapDatum, v string) { d.RewardPkh = v }),
	datum.FieldOf("stakePkh", 7, datum.Optional(datum.ByteString()),
		func(d SwapDatum) *string { return d.StakePkh },
		func(d *SwapDatum, v *string) { d.StakePkh = v }),
	datum.FieldOf("baseAmount", 8, datum.BigInt(),
		func(d SwapDatum) *big.Int { return d.BaseAmount },
		func(d *SwapDatum, v *big.Int) { d.BaseAmount = v }),
	datum.FieldOf("minQuoteAmount", 9, datum.BigInt(),
		func(d SwapDatum) *big.Int { return d.MinQuoteAmount },
		func(d *SwapDatum, v *big.Int) { d.MinQuoteAmount = v }),
)

var RedeemerSchema = datum.MustSchema("redeemer", datum.AsConstructor,
	datum.FieldOf("poolInIx", 0, datum.Int(),
		func(r OrderRedeemer) int64 { return r.PoolInIx },
		func(r *OrderRedeemer, v int64) { r.PoolInIx = v }),
	datum.FieldOf("orderInIx", 1, datum.Int(),
		func(r OrderRedeemer) int64 { return r.OrderInIx },
		func(r *OrderRedeemer, v int64) { r.OrderInIx = v }),
	datum.FieldOf("rewardOutIx", 2, datum.Int(),
		func(r OrderRedeemer) int64 { return r.RewardOutIx },
		func(r *OrderRedeemer, v int64) { r.RewardOutIx = v }),
	datum.FieldOf("action", 3, datum.Bool(),
		func(r OrderRedeemer) bool { return r.Refund },
		func(r *OrderRedeemer, v bool) { r.Refund = v }),
)

// encodeDatum encodes rec with schema, prefixing errors with the schema name.
func encodeDatum[T any](schema *datum.Schema[T], rec T) (types.Node, error) {
	n, err := schema.Encode(rec)
	if err != nil {
		return types.Node{}, datum.WithPath(err, schema.Name())
	}
	return n, nil
}

// decodeDatum is the inverse of encodeDatum.
func decodeDatum[T any](schema *datum.Schema[T], n types.Node) (T, error) {
	rec, err := schema.Decode(n)
	if err != nil {
		var zero T
		return zero, datum.WithPath(err, schema.Name())
	}
	return rec, nil
}
