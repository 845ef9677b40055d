package types

import (
	"fmt"
	"math/big"
)

// ProtocolParams is a read-only snapshot of the ledger parameters the
// invariant model needs.
type ProtocolParams struct {
	CoinsPerUTxOByte     *big.Int // native units charged per serialized output byte
	UTxOEntryOverhead    int      // constructor overhead bytes added to every output
	MaxValueSize         int      // maximum serialized value size in bytes
	CollateralPercentage int      // collateral as percent of the fee
	MaxCollateralInputs  int
	PriceMemory          *big.Rat // price per memory unit
	PriceSteps           *big.Rat // price per CPU step
	MinFeeA              *big.Int // per-byte fee coefficient
	MinFeeB              *big.Int // constant fee
}

// DefaultUTxOEntryOverhead is the fixed per-output overhead in bytes.
const DefaultUTxOEntryOverhead = 160

// Validate checks the parameters needed by the min-value predictions.
func (p *ProtocolParams) Validate() error {
	if p == nil {
		return fmt.Errorf("protocol params are required")
	}
	if p.CoinsPerUTxOByte == nil || p.CoinsPerUTxOByte.Sign() <= 0 {
		return fmt.Errorf("coins_per_utxo_byte must be positive")
	}
	if p.UTxOEntryOverhead < 0 {
		return fmt.Errorf("utxo_entry_overhead must be non-negative, got %d", p.UTxOEntryOverhead)
	}
	if p.MaxValueSize < 0 {
		return fmt.Errorf("max_value_size must be non-negative, got %d", p.MaxValueSize)
	}
	return nil
}
