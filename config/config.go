package config

import (
	"fmt"
	"path/filepath"

	"github.com/MinterTeam/minter-go-ledger/cmd/utils"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"
)

var (
	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
)

func DefaultConfig() *Config {
	return &Config{
		BaseConfig: DefaultBaseConfig(),
	}
}

// GetConfig returns defaults rooted at the ledger home, creating the home
// layout on first use
func GetConfig() *Config {
	cfg := DefaultConfig()

	cfg.SetRoot(utils.GetLedgerHome())
	EnsureRoot(utils.GetLedgerHome())

	return cfg
}

// Config defines the top level configuration of the ledger
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

// ValidateBasic checks values that can not be fixed by defaults
func (cfg *Config) ValidateBasic() error {
	if cfg.KeepLastStates < 1 {
		return fmt.Errorf("keep_last_states field should be greater than 0")
	}
	if cfg.StateCacheSize < 1 {
		return fmt.Errorf("state_cache_size field should be greater than 0")
	}
	if cfg.LogFormat != LogFormatPlain && cfg.LogFormat != LogFormatJSON {
		return fmt.Errorf("unsupported log_format %q", cfg.LogFormat)
	}
	return nil
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration of the ledger
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Path to the JSON file containing the initial balances
	Genesis string `mapstructure:"genesis_file"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`

	LogPath string `mapstructure:"log_path"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	StateCacheSize int `mapstructure:"state_cache_size"`

	KeepLastStates int64 `mapstructure:"keep_last_states"`

	// Address to listen for API connections
	APIListenAddress string `mapstructure:"api_listen_addr"`

	Prometheus bool `mapstructure:"prometheus"`

	// Address to listen for Prometheus collector(s) connections
	PrometheusListenAddr string `mapstructure:"prometheus_listen_addr"`
}

// DefaultBaseConfig returns a default base configuration
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Genesis:              defaultGenesisJSONPath,
		LogLevel:             DefaultPackageLogLevels(),
		LogFormat:            LogFormatPlain,
		LogPath:              "stdout",
		DBBackend:            "goleveldb",
		DBPath:               defaultDataDir,
		StateCacheSize:       1000000,
		KeepLastStates:       120,
		APIListenAddress:     "tcp://0.0.0.0:8841",
		Prometheus:           false,
		PrometheusListenAddr: ":26660",
	}
}

// GenesisFile returns the full path to the genesis.json file
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// DefaultLogLevel returns a default log level of "error"
func DefaultLogLevel() string {
	return "error"
}

// DefaultPackageLogLevels returns a default log level setting so all packages
// log at "error", while the `state`, `asset` and `main` packages log at "info"
func DefaultPackageLogLevels() string {
	return fmt.Sprintf("main:info,state:info,asset:info,*:%s", DefaultLogLevel())
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
