package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LevelConfig declares one conditional order for an asset.
type LevelConfig struct {
	Side         string  `yaml:"side"` // "BUY" or "SELL"
	TriggerPrice float64 `yaml:"trigger_price"`
	Amount       float64 `yaml:"amount"`
}

// TargetConfig declares a fixed take-profit/stop-loss watch over a
// whole position.
type TargetConfig struct {
	TargetPrice float64 `yaml:"target_price"`
	StopLoss    float64 `yaml:"stop_loss"`
	Amount      float64 `yaml:"amount"`
}

// AssetConfig is one watched token pair.
type AssetConfig struct {
	ID     string        `yaml:"id"`     // pair identifier used by the market provider
	Ticker string        `yaml:"ticker"` // symbol used by the social provider
	Levels []LevelConfig `yaml:"levels"`
	Target *TargetConfig `yaml:"target"`
}

// BucketThresholds maps composite scores to recommendation labels.
// Scores at or above a boundary take that bucket.
type BucketThresholds struct {
	StrongBuy float64 `yaml:"strong_buy"`
	Buy       float64 `yaml:"buy"`
	Hold      float64 `yaml:"hold"`
	Sell      float64 `yaml:"sell"`
}

// OffsetPcts are the heuristic entry/stop/target offsets applied to the
// price window's low/high, as fractions (0.02 = 2%).
type OffsetPcts struct {
	Entry    float64 `yaml:"entry"`
	StopLoss float64 `yaml:"stop_loss"`
	Target   float64 `yaml:"target"`
}

// Scoring exposes the normalization ceilings and recommendation
// constants as named, overridable parameters.
type Scoring struct {
	LiquidityCeiling float64          `yaml:"liquidity_ceiling"`
	VolumeCeiling    float64          `yaml:"volume_ceiling"`
	Buckets          BucketThresholds `yaml:"bucket_thresholds"`
	Offsets          OffsetPcts       `yaml:"offset_pcts"`
}

// DefaultScoring returns the documented defaults: $1M liquidity
// ceiling, $100k volume ceiling, 70/60/40/30 buckets, -2%/-5%/+5%
// offsets.
func DefaultScoring() Scoring {
	return Scoring{
		LiquidityCeiling: 1_000_000,
		VolumeCeiling:    100_000,
		Buckets:          BucketThresholds{StrongBuy: 70, Buy: 60, Hold: 40, Sell: 30},
		Offsets:          OffsetPcts{Entry: 0.02, StopLoss: 0.05, Target: 0.05},
	}
}

// Config holds all application configuration.
type Config struct {
	Assets  []AssetConfig `yaml:"assets"`
	Polling struct {
		IntervalMs int `yaml:"interval_ms"`
	} `yaml:"polling"`
	Providers struct {
		DexScreenerURL     string `yaml:"dexscreener_url"`
		TwitterBearerToken string `yaml:"twitter_bearer_token"`
		SolanaRPCURL       string `yaml:"solana_rpc_url"`
		WalletAddress      string `yaml:"wallet_address"`
		SignerURL          string `yaml:"signer_url"` // empty means paper trading
	} `yaml:"providers"`
	Feed struct {
		WSEndpoint string `yaml:"ws_endpoint"`
	} `yaml:"feed"`
	Scoring  Scoring `yaml:"scoring"`
	Snapshot struct {
		Cron string `yaml:"cron"` // cron spec for the advisory scoring pass
	} `yaml:"snapshot"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Scoring = DefaultScoring()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("TWITTER_BEARER_TOKEN"); v != "" {
		cfg.Providers.TwitterBearerToken = v
	}
	if v := os.Getenv("SOLANA_RPC_URL"); v != "" {
		cfg.Providers.SolanaRPCURL = v
	}
	if v := os.Getenv("WALLET_ADDRESS"); v != "" {
		cfg.Providers.WalletAddress = v
	}
	if v := os.Getenv("SIGNER_URL"); v != "" {
		cfg.Providers.SignerURL = v
	}
	if v := os.Getenv("DEXSCREENER_URL"); v != "" {
		cfg.Providers.DexScreenerURL = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Polling.IntervalMs == 0 {
		c.Polling.IntervalMs = 5000
	}
	if c.Providers.DexScreenerURL == "" {
		c.Providers.DexScreenerURL = "https://api.dexscreener.com"
	}
	if c.Providers.SolanaRPCURL == "" {
		c.Providers.SolanaRPCURL = "https://api.mainnet-beta.solana.com"
	}
	if c.Database.Path == "" {
		c.Database.Path = "memetrader.db"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Snapshot.Cron == "" {
		c.Snapshot.Cron = "*/15 * * * *"
	}
	if c.Scoring.LiquidityCeiling == 0 {
		c.Scoring.LiquidityCeiling = 1_000_000
	}
	if c.Scoring.VolumeCeiling == 0 {
		c.Scoring.VolumeCeiling = 100_000
	}
	if c.Scoring.Buckets == (BucketThresholds{}) {
		c.Scoring.Buckets = DefaultScoring().Buckets
	}
	if c.Scoring.Offsets == (OffsetPcts{}) {
		c.Scoring.Offsets = DefaultScoring().Offsets
	}
}
