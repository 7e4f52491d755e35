package config

import internalconfig "github.com/SmitUplenchwar2687/easytime/internal/config"

// Config is the top-level easytime configuration.
type Config = internalconfig.Config

// ServerConfig holds HTTP server settings.
type ServerConfig = internalconfig.ServerConfig

// RecorderConfig controls request recording.
type RecorderConfig = internalconfig.RecorderConfig

// StorageConfig selects the anchor store.
type StorageConfig = internalconfig.StorageConfig

// StorageMemoryConfig configures the in-memory anchor store.
type StorageMemoryConfig = internalconfig.StorageMemoryConfig

// StorageRedisConfig configures the Redis anchor store.
type StorageRedisConfig = internalconfig.StorageRedisConfig

const (
	ZoneLocal     = internalconfig.ZoneLocal
	ZoneUTC       = internalconfig.ZoneUTC
	BackendMemory = internalconfig.BackendMemory
	BackendRedis  = internalconfig.BackendRedis
)

// Default returns a Config with sensible defaults.
func Default() Config {
	return internalconfig.Default()
}

// LoadFile reads a JSON or YAML config file and merges it with defaults.
func LoadFile(path string) (Config, error) {
	return internalconfig.LoadFile(path)
}

// ApplyEnv overrides cfg with EASYTIME_* environment variables.
func ApplyEnv(cfg *Config) error {
	return internalconfig.ApplyEnv(cfg)
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	return internalconfig.WriteExample(path)
}
