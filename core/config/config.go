// Package config loads the network and order-script settings the client and
// assembler run with.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/utxodex/sdk-go/core/types"
)

// Config is the complete client configuration.
type Config struct {
	Network   NetworkConfig   `mapstructure:"network"`
	Scripts   ScriptsConfig   `mapstructure:"scripts"`
	Orders    OrdersConfig    `mapstructure:"orders"`
	PoolCache PoolCacheConfig `mapstructure:"pool_cache"`
}

// NetworkConfig selects the address network.
type NetworkConfig struct {
	ID           uint8  `mapstructure:"id" validate:"lte=15"`
	Bech32Prefix string `mapstructure:"bech32_prefix" validate:"required"`
}

// ScriptConfig describes one order script.
type ScriptConfig struct {
	ScriptHash     string `mapstructure:"script_hash" validate:"required,hexadecimal,len=56"`
	Address        string `mapstructure:"address" validate:"required"`
	ReferenceInput string `mapstructure:"reference_input" validate:"omitempty,contains=#"` // txHash#index of the deployed script
}

// ScriptsConfig lists the order scripts orders are placed at and cancelled from.
type ScriptsConfig struct {
	Deposit ScriptConfig `mapstructure:"deposit"`
	Redeem  ScriptConfig `mapstructure:"redeem"`
	Swap    ScriptConfig `mapstructure:"swap"`
}

// OrdersConfig holds order defaults.
type OrdersConfig struct {
	ExecutorFee        uint64 `mapstructure:"executor_fee" validate:"gt=0"`
	FeeHeadroom        uint64 `mapstructure:"fee_headroom"` // native kept free for the transaction fee
	DefaultSlippageBps int    `mapstructure:"default_slippage_bps" validate:"gte=0,lte=10000"`
	SelectionStrategy  string `mapstructure:"selection_strategy" validate:"oneof=fewest-assets largest-first"`
}

// PoolCacheConfig sizes the pool snapshot cache. A zero size disables it.
type PoolCacheConfig struct {
	Size int           `mapstructure:"size" validate:"gte=0"`
	TTL  time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// Validate checks field tags and parses the reference inputs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.WithStack(err)
	}
	scripts := c.Scripts.ByName()
	for _, name := range OperationNames {
		s := scripts[name]
		if s.ReferenceInput == "" {
			continue
		}
		if _, err := types.ParseOutputReference(s.ReferenceInput); err != nil {
			return errors.Wrapf(err, "scripts.%s.reference_input", name)
		}
	}
	return nil
}

// OperationNames lists the order operations in a fixed order.
var OperationNames = []string{"deposit", "redeem", "swap"}

// ByName indexes the scripts by operation name.
func (s ScriptsConfig) ByName() map[string]ScriptConfig {
	return map[string]ScriptConfig{
		"deposit": s.Deposit,
		"redeem":  s.Redeem,
		"swap":    s.Swap,
	}
}

// ReferenceRef parses ReferenceInput, returning nil when unset.
func (s ScriptConfig) ReferenceRef() *types.OutputReference {
	if s.ReferenceInput == "" {
		return nil
	}
	ref, err := types.ParseOutputReference(s.ReferenceInput)
	if err != nil {
		return nil
	}
	return &ref
}
