package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. UTXODEX_ORDERS_EXECUTOR_FEE.
const EnvPrefix = "UTXODEX"

// Load reads configuration in priority order:
// 1. Defaults
// 2. The file at path, when path is not empty
// 3. Environment variables (UTXODEX_ prefix)
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// testnet unless told otherwise
	v.SetDefault("network.id", 0)
	v.SetDefault("network.bech32_prefix", "addr_test")

	for _, op := range OperationNames {
		v.SetDefault("scripts."+op+".script_hash", "")
		v.SetDefault("scripts."+op+".address", "")
		v.SetDefault("scripts."+op+".reference_input", "")
	}

	v.SetDefault("orders.executor_fee", 2_000_000)
	v.SetDefault("orders.fee_headroom", 500_000)
	v.SetDefault("orders.default_slippage_bps", 50)
	v.SetDefault("orders.selection_strategy", "fewest-assets")

	v.SetDefault("pool_cache.size", 128)
	v.SetDefault("pool_cache.ttl", "20s")
}
