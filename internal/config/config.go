package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config drives the balance-demo CLI: the change address and funding amount
// of its single demo UTxO, the payment to build, and the unfrack toggle.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Wallet     WalletConfig     `yaml:"wallet"`
	Payment    PaymentConfig    `yaml:"payment"`
	Unfrack    UnfrackConfig    `yaml:"unfrack"`
	Network    string           `yaml:"network"    envconfig:"NETWORK"`
	NetworkMagic uint32         `yaml:"networkMagic" envconfig:"NETWORK_MAGIC"`
}

type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LOGGING_LEVEL"`
}

// WalletConfig names the change address and the single demo funding UTxO.
type WalletConfig struct {
	ChangeAddress  string `yaml:"changeAddress"  envconfig:"CHANGE_ADDRESS"`
	FundingLovelace int64 `yaml:"fundingLovelace" envconfig:"FUNDING_LOVELACE"`
}

// PaymentConfig describes the single demo payment to build.
type PaymentConfig struct {
	ToAddress string `yaml:"toAddress" envconfig:"PAYMENT_ADDRESS"`
	Lovelace  int64  `yaml:"lovelace"  envconfig:"PAYMENT_LOVELACE"`
}

// UnfrackConfig toggles the multi-output change planner for the demo build.
type UnfrackConfig struct {
	Enabled    bool `yaml:"enabled"    envconfig:"UNFRACK_ENABLED"`
	BundleSize int  `yaml:"bundleSize" envconfig:"UNFRACK_BUNDLE_SIZE"`
}

var globalConfig = &Config{
	Network: "mainnet",
	Logging: LoggingConfig{
		Level: "info",
	},
	Wallet: WalletConfig{
		FundingLovelace: 10_000_000,
	},
	Payment: PaymentConfig{
		Lovelace: 2_000_000,
	},
	Unfrack: UnfrackConfig{
		BundleSize: 10,
	},
}

// Load reads an optional YAML config file, then overlays environment
// variables on top of it, mirroring the two-layer resolution the rest of
// the pack's Cardano services use for their own configuration.
func Load(configFile string) (*Config, error) {
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process("balance_demo", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if globalConfig.Wallet.ChangeAddress == "" {
		return nil, fmt.Errorf("wallet.changeAddress is required")
	}
	if globalConfig.Payment.ToAddress == "" {
		return nil, fmt.Errorf("payment.toAddress is required")
	}
	return globalConfig, nil
}

// GetConfig returns the singleton config instance.
func GetConfig() *Config {
	return globalConfig
}
