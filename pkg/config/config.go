package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the dex-server application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Chain      ChainConfig      `mapstructure:"chain"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// ChainConfig contains chain client settings
type ChainConfig struct {
	RPCURL              string        `mapstructure:"rpc_url"`
	ChainID             int64         `mapstructure:"chain_id"`
	SignerPrivateKey    string        `mapstructure:"signer_private_key"`
	KitContract         string        `mapstructure:"kit_contract"`
	GasLimit            uint64        `mapstructure:"gas_limit"`
	MaxGasPrice         string        `mapstructure:"max_gas_price"`
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`
	ExplorerURL         string        `mapstructure:"explorer_url"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.database", "dex_middleware")

	// Chain defaults (Somnia Shannon testnet)
	viper.SetDefault("chain.chain_id", 50312)
	viper.SetDefault("chain.gas_limit", 300000)
	viper.SetDefault("chain.receipt_poll_interval", "2s")
	viper.SetDefault("chain.explorer_url", "https://shannon-explorer.somnia.network")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")
}

func validate(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.Chain.RPCURL == "" {
		return fmt.Errorf("chain.rpc_url is required")
	}
	if config.Chain.KitContract == "" {
		return fmt.Errorf("chain.kit_contract is required")
	}
	if config.Chain.SignerPrivateKey == "" {
		return fmt.Errorf("chain.signer_private_key is required")
	}
	return nil
}
