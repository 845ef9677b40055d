package types

import (
	"context"
	"fmt"
	"math/big"

	"github.com/go-playground/validator/v10"
)

// ═══════════════════════════════════════════════════════════════
// COLLABORATOR INTERFACES
// ═══════════════════════════════════════════════════════════════

// IDataProvider supplies chain state snapshots.
type IDataProvider interface {
	// GetProtocolParams returns the current ledger parameters
	GetProtocolParams(ctx context.Context) (*ProtocolParams, error)

	// GetPool returns the pool identified by its nft
	GetPool(ctx context.Context, nft AssetIdentifier) (*Pool, error)

	// GetUtxo returns the output at ref, or nil when the ledger never produced it.
	// Consumed outputs are returned with Spent set.
	GetUtxo(ctx context.Context, ref OutputReference) (*UTxO, error)
}

// IWalletBridge exposes the connected wallet.
type IWalletBridge interface {
	// ChangeAddress is where leftover value and refunds go
	ChangeAddress(ctx context.Context) (string, error)

	// Utxos lists the wallet's spendable outputs
	Utxos(ctx context.Context) ([]UTxO, error)
}

// IOutputSizer reports the serialized size of an output.
type IOutputSizer interface {
	OutputSize(out CandidateOutput) (int, error)
}

// ILedgerPrimitives is the ledger encoding boundary.
type ILedgerPrimitives interface {
	IOutputSizer

	// EncodeNode turns a datum tree into ledger-canonical bytes
	EncodeNode(node Node) ([]byte, error)

	// DecodeNode parses ledger-canonical bytes into a datum tree
	DecodeNode(data []byte) (Node, error)

	// Hash is the ledger's 32-byte data hash
	Hash(data []byte) []byte

	// DeriveAddress builds an address from a payment and optional stake credential
	DeriveAddress(payment Credential, stake *Credential) (string, error)
}

// IFinalizer balances, signs and submits a completed candidate. Implementations
// live outside this module.
type IFinalizer interface {
	Finalize(ctx context.Context, tx *TransactionCandidate, changeAddress string) ([]byte, error)
	Sign(ctx context.Context, unsigned []byte) ([]byte, error)
	Submit(ctx context.Context, signed []byte) (string, error)
}

// IOrderAssembler appends DEX operations to a transaction candidate. Every
// method either appends all of its entries or none.
type IOrderAssembler interface {
	// Deposit locks X and Y at the deposit script for an LP reward
	Deposit(tx *TransactionCandidate, env OrderEnv, input DepositInput) (*OrderResult, error)

	// Redeem locks LP tokens at the redeem script for X and Y
	Redeem(tx *TransactionCandidate, env OrderEnv, input RedeemInput) (*OrderResult, error)

	// Swap locks the base asset at the swap script for at least MinQuote
	Swap(tx *TransactionCandidate, env OrderEnv, input SwapInput) (*OrderResult, error)

	// Cancel spends a live order output back to its owner
	Cancel(tx *TransactionCandidate, env CancelEnv, input CancelInput) (*OrderResult, error)
}

// ═══════════════════════════════════════════════════════════════
// ENVIRONMENTS
// Resolved state an operation runs against. Nothing here performs I/O.
// ═══════════════════════════════════════════════════════════════

// OrderEnv is the state needed for deposit, redeem and swap.
type OrderEnv struct {
	Params *ProtocolParams
	Pool   *Pool
	Utxos  []UTxO // wallet outputs available for selection
	Pinned []UTxO // outputs that must be spent by this operation
}

// CancelEnv is the state needed for cancel.
type CancelEnv struct {
	Order *UTxO // nil when the reference is unknown
}

// OrderResult summarizes what an operation appended.
type OrderResult struct {
	Inputs      []OutputReference
	OrderValue  CurrencyBag // value locked at the order script, or refunded on cancel
	Datum       *Node
	Expected    CurrencyBag // what the executor is expected to pay out
	ExtraNative *big.Int    // native front-loaded so the executor's output clears min value
}

// ═══════════════════════════════════════════════════════════════
// INPUT TYPES
// ═══════════════════════════════════════════════════════════════

var validate = validator.New()

// OrderOwner identifies who receives the executor's payout.
type OrderOwner struct {
	RewardPkh string  `validate:"required,hexadecimal,len=56"`  // payment key hash
	StakePkh  *string `validate:"omitempty,hexadecimal,len=56"` // optional stake key hash
}

// DepositInput contains parameters for a liquidity deposit
type DepositInput struct {
	OrderOwner
	X     Currency // amount of one pool asset
	Y     Currency // amount of the other pool asset
	ExFee *big.Int // executor fee in native units
}

// Validate checks if DepositInput is valid
func (d *DepositInput) Validate() error {
	if err := validate.Struct(d); err != nil {
		return err
	}
	if !d.X.IsPositive() || !d.Y.IsPositive() {
		return fmt.Errorf("deposit amounts must be positive, got %s and %s", d.X, d.Y)
	}
	if d.X.Asset() == d.Y.Asset() {
		return fmt.Errorf("deposit assets must differ, both are %s", d.X.Asset())
	}
	return validateExFee(d.ExFee)
}

// RedeemInput contains parameters for a liquidity redemption
type RedeemInput struct {
	OrderOwner
	Lp    Currency // LP tokens to return
	ExFee *big.Int // executor fee in native units
}

// Validate checks if RedeemInput is valid
func (r *RedeemInput) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if !r.Lp.IsPositive() {
		return fmt.Errorf("lp amount must be positive, got %s", r.Lp)
	}
	return validateExFee(r.ExFee)
}

// SwapInput contains parameters for a spot order
type SwapInput struct {
	OrderOwner
	Base        Currency        // asset and amount given
	Quote       AssetIdentifier // asset wanted
	MinQuote    *big.Int        // optional; derived from SlippageBps when nil
	SlippageBps int             `validate:"gte=0,lte=10000"`
	ExFee       *big.Int        // executor fee in native units
}

// Validate checks if SwapInput is valid
func (s *SwapInput) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	if !s.Base.IsPositive() {
		return fmt.Errorf("base amount must be positive, got %s", s.Base)
	}
	if s.Base.Asset() == s.Quote {
		return fmt.Errorf("base and quote must differ, both are %s", s.Quote)
	}
	if s.MinQuote != nil && s.MinQuote.Sign() <= 0 {
		return fmt.Errorf("min quote must be positive, got %s", s.MinQuote)
	}
	return validateExFee(s.ExFee)
}

// CancelInput contains parameters for cancelling a live order
type CancelInput struct {
	Ref OutputReference
}

// Validate checks if CancelInput is valid
func (c *CancelInput) Validate() error {
	if len(c.Ref.TxHash) != 64 {
		return fmt.Errorf("tx hash must be 64 hex chars, got %d", len(c.Ref.TxHash))
	}
	return validate.Var(c.Ref.TxHash, "hexadecimal")
}

func validateExFee(fee *big.Int) error {
	if fee == nil || fee.Sign() <= 0 {
		return fmt.Errorf("executor fee must be positive")
	}
	return nil
}
