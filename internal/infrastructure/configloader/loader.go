package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// IndexerConfig holds settings of the SQL-over-HTTP indexer endpoint.
type IndexerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	WhitelistCacheTTLMin int    `yaml:"whitelistCacheTTLMinutes"`
}

// ChainConfig holds settings of the chain RPC endpoint and the bridge
// contract the executor talks to.
type ChainConfig struct {
	RPCURL                string `yaml:"rpcURL"`
	BridgeContractAddress string `yaml:"bridgeContractAddress"`
	ClientFeeRecipient    string `yaml:"clientFeeRecipient"`
	RequestTimeoutMillis  int64  `yaml:"requestTimeoutMillis"`
	RateLimit             int    `yaml:"rateLimit"`
	BurstLimit            int    `yaml:"burstLimit"`
}

// BridgeConfig holds withdrawal planning and verification knobs.
type BridgeConfig struct {
	MaxBatchSize              int   `yaml:"maxBatchSize"`
	FreshnessSampleSize       int   `yaml:"freshnessSampleSize"`
	StalenessThresholdPercent int   `yaml:"stalenessThresholdPercent"`
	VerifyConcurrency         int   `yaml:"verifyConcurrency"`
	SubmitDelayMillis         int64 `yaml:"submitDelayMillis"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Indexer IndexerConfig `yaml:"indexer"`
	Chain   ChainConfig   `yaml:"chain"`
	Bridge  BridgeConfig  `yaml:"bridge"`
}

// Load reads the YAML configuration file from the given path, unmarshals it
// and applies defaults for every knob left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Indexer.RequestTimeoutMillis <= 0 {
		cfg.Indexer.RequestTimeoutMillis = 15000
	}
	if cfg.Indexer.WhitelistCacheTTLMin <= 0 {
		cfg.Indexer.WhitelistCacheTTLMin = 10
	}

	if cfg.Chain.RequestTimeoutMillis <= 0 {
		cfg.Chain.RequestTimeoutMillis = 15000
	}
	if cfg.Chain.RateLimit <= 0 {
		cfg.Chain.RateLimit = 10
	}
	if cfg.Chain.BurstLimit <= 0 {
		cfg.Chain.BurstLimit = 5
	}

	if cfg.Bridge.MaxBatchSize <= 0 {
		// One withdraw emits one event; transactions have a hard event ceiling.
		cfg.Bridge.MaxBatchSize = 50
	}
	if cfg.Bridge.FreshnessSampleSize <= 0 {
		cfg.Bridge.FreshnessSampleSize = 5
	}
	if cfg.Bridge.StalenessThresholdPercent <= 0 {
		cfg.Bridge.StalenessThresholdPercent = 20
	}
	if cfg.Bridge.VerifyConcurrency <= 0 {
		cfg.Bridge.VerifyConcurrency = 8
	}
	if cfg.Bridge.SubmitDelayMillis <= 0 {
		cfg.Bridge.SubmitDelayMillis = 200
	}
}
