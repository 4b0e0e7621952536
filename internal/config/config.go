package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// EthereumConfig holds EVM RPC configuration per source chain
type EthereumConfig struct {
	EthereumRPCURL string `mapstructure:"ethereum_rpc_url"`
	PolygonRPCURL  string `mapstructure:"polygon_rpc_url"`
}

// IndexersConfig holds the off-chain indexer API configurations
type IndexersConfig struct {
	EthplorerURL    string `mapstructure:"ethplorer_url"`
	EthplorerAPIKey string `mapstructure:"ethplorer_api_key"`
	DexScreenerURL  string `mapstructure:"dexscreener_url"`
	AlchemyURL      string `mapstructure:"alchemy_url"`
	AlchemyAPIKey   string `mapstructure:"alchemy_api_key"`
}

// SolanaConfig holds destination-chain configuration
type SolanaConfig struct {
	RPCURL        string `mapstructure:"rpc_url"`
	ChainID       string `mapstructure:"chain_id"`
	ProgramID     string `mapstructure:"program_id"`
	MemoProgramID string `mapstructure:"memo_program_id"`
	ActionVersion string `mapstructure:"action_version"`
}

// ScanConfig bounds the discovery pipeline
type ScanConfig struct {
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	EnrichBatchSize   int           `mapstructure:"enrich_batch_size"`
	EnrichConcurrency int           `mapstructure:"enrich_concurrency"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
	Indexers   IndexersConfig `mapstructure:"indexers"`
	Solana     SolanaConfig   `mapstructure:"solana"`
	Scan       ScanConfig     `mapstructure:"scan"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("ethereum.ethereum_rpc_url", "https://eth.llamarpc.com")
	v.SetDefault("ethereum.polygon_rpc_url", "https://polygon-bor-rpc.publicnode.com")
	v.SetDefault("indexers.ethplorer_url", "https://api.ethplorer.io")
	v.SetDefault("indexers.ethplorer_api_key", "freekey")
	v.SetDefault("indexers.dexscreener_url", "https://api.dexscreener.com")
	v.SetDefault("indexers.alchemy_url", "https://polygon-mainnet.g.alchemy.com")
	v.SetDefault("indexers.alchemy_api_key", "demo")
	v.SetDefault("solana.rpc_url", "https://api.devnet.solana.com")
	v.SetDefault("solana.chain_id", "devnet")
	v.SetDefault("solana.program_id", "6hJAy23ndpQii5QzVmXTjGjgmDPhhPEQNvrd5o9S8JWF")
	v.SetDefault("solana.memo_program_id", "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	v.SetDefault("solana.action_version", "2.4")
	v.SetDefault("scan.http_timeout", "20s")
	v.SetDefault("scan.enrich_batch_size", 30)
	v.SetDefault("scan.enrich_concurrency", 4)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("GRAVESHIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Ethereum
		"ethereum.ethereum_rpc_url",
		"ethereum.polygon_rpc_url",
		// Indexers
		"indexers.ethplorer_url",
		"indexers.ethplorer_api_key",
		"indexers.dexscreener_url",
		"indexers.alchemy_url",
		"indexers.alchemy_api_key",
		// Solana
		"solana.rpc_url",
		"solana.chain_id",
		"solana.program_id",
		"solana.memo_program_id",
		"solana.action_version",
		// Scan
		"scan.http_timeout",
		"scan.enrich_batch_size",
		"scan.enrich_concurrency",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}
