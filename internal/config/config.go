// Package config holds the settings shared by the easytime commands and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/errors"
	env "github.com/Netflix/go-env"
	"gopkg.in/yaml.v3"
)

const (
	ZoneLocal = "local"
	ZoneUTC   = "utc"

	BackendMemory = "memory"
	BackendRedis  = "redis"

	DefaultFormat = "%Y-%m-%d %H:%M:%S"
)

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Zone     string         `json:"zone" yaml:"zone"`
	Format   string         `json:"format" yaml:"format"`
	Recorder RecorderConfig `json:"recorder" yaml:"recorder"`
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// RecorderConfig controls capture of offset requests served over HTTP.
type RecorderConfig struct {
	// File receives the captured requests on shutdown. Empty disables recording.
	File string `json:"file" yaml:"file"`
}

// StorageConfig selects and configures the anchor store.
type StorageConfig struct {
	Backend string              `json:"backend" yaml:"backend"`
	Memory  StorageMemoryConfig `json:"memory" yaml:"memory"`
	Redis   StorageRedisConfig  `json:"redis" yaml:"redis"`
}

// StorageMemoryConfig configures the in-memory anchor store.
type StorageMemoryConfig struct {
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
}

// StorageRedisConfig configures the Redis anchor store.
type StorageRedisConfig struct {
	Host        string        `json:"host" yaml:"host"`
	Port        int           `json:"port" yaml:"port"`
	Password    string        `json:"password" yaml:"password"`
	DB          int           `json:"db" yaml:"db"`
	PoolSize    int           `json:"pool_size" yaml:"pool_size"`
	MaxRetries  int           `json:"max_retries" yaml:"max_retries"`
	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	KeyPrefix   string        `json:"key_prefix" yaml:"key_prefix"`

	// Cluster selects a Redis Cluster client over ClusterNodes instead of
	// Host and Port.
	Cluster      bool     `json:"cluster" yaml:"cluster"`
	ClusterNodes []string `json:"cluster_nodes" yaml:"cluster_nodes"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Zone:   ZoneLocal,
		Format: DefaultFormat,
		Storage: StorageConfig{
			Backend: BackendMemory,
			Memory: StorageMemoryConfig{
				CleanupInterval: time.Minute,
			},
			Redis: StorageRedisConfig{
				Host:        "localhost",
				Port:        6379,
				PoolSize:    20,
				MaxRetries:  3,
				DialTimeout: 5 * time.Second,
				KeyPrefix:   "easytime:anchor:",
			},
		},
	}
}

// Validate reports every problem with the config, not just the first.
func (c Config) Validate() error {
	errs := &errors.M{}
	if c.Server.Addr == "" {
		errs.Append(fmt.Errorf("server.addr must not be empty"))
	}
	switch c.Zone {
	case ZoneLocal, ZoneUTC:
	default:
		errs.Append(fmt.Errorf("unknown zone %q, must be one of: local, utc", c.Zone))
	}
	if c.Format == "" {
		errs.Append(fmt.Errorf("format must not be empty"))
	}
	switch c.Storage.Backend {
	case BackendMemory:
		if c.Storage.Memory.CleanupInterval < 0 {
			errs.Append(fmt.Errorf("storage.memory.cleanup_interval must be non-negative, got %s", c.Storage.Memory.CleanupInterval))
		}
	case BackendRedis:
		switch {
		case c.Storage.Redis.Cluster:
			if len(c.Storage.Redis.ClusterNodes) == 0 {
				errs.Append(fmt.Errorf("storage.redis.cluster_nodes is required when storage.redis.cluster is set"))
			}
		default:
			if c.Storage.Redis.Host == "" {
				errs.Append(fmt.Errorf("storage.redis.host is required"))
			}
			if c.Storage.Redis.Port <= 0 {
				errs.Append(fmt.Errorf("storage.redis.port must be positive, got %d", c.Storage.Redis.Port))
			}
		}
		if c.Storage.Redis.DB < 0 {
			errs.Append(fmt.Errorf("storage.redis.db must be non-negative, got %d", c.Storage.Redis.DB))
		}
	default:
		errs.Append(fmt.Errorf("unknown storage backend %q, must be one of: memory, redis", c.Storage.Backend))
	}
	return errs.Err()
}

// LoadFile reads a JSON or YAML config file, chosen by extension, and merges
// it with defaults. Fields not specified in the file retain their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	var raw rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	if err := raw.merge(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// rawConfig is the file representation, with durations as strings.
type rawConfig struct {
	Server struct {
		Addr string `json:"addr" yaml:"addr"`
	} `json:"server" yaml:"server"`
	Zone     string `json:"zone" yaml:"zone"`
	Format   string `json:"format" yaml:"format"`
	Recorder struct {
		File string `json:"file" yaml:"file"`
	} `json:"recorder" yaml:"recorder"`
	Storage struct {
		Backend string `json:"backend" yaml:"backend"`
		Memory  struct {
			CleanupInterval string `json:"cleanup_interval" yaml:"cleanup_interval"`
		} `json:"memory" yaml:"memory"`
		Redis struct {
			Host         string   `json:"host" yaml:"host"`
			Port         int      `json:"port" yaml:"port"`
			Password     string   `json:"password" yaml:"password"`
			DB           int      `json:"db" yaml:"db"`
			PoolSize     int      `json:"pool_size" yaml:"pool_size"`
			MaxRetries   int      `json:"max_retries" yaml:"max_retries"`
			DialTimeout  string   `json:"dial_timeout" yaml:"dial_timeout"`
			KeyPrefix    string   `json:"key_prefix" yaml:"key_prefix"`
			Cluster      bool     `json:"cluster" yaml:"cluster"`
			ClusterNodes []string `json:"cluster_nodes" yaml:"cluster_nodes"`
		} `json:"redis" yaml:"redis"`
	} `json:"storage" yaml:"storage"`
}

func (raw rawConfig) merge(cfg *Config) error {
	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	if raw.Zone != "" {
		cfg.Zone = strings.ToLower(raw.Zone)
	}
	if raw.Format != "" {
		cfg.Format = raw.Format
	}
	if raw.Recorder.File != "" {
		cfg.Recorder.File = raw.Recorder.File
	}
	if raw.Storage.Backend != "" {
		cfg.Storage.Backend = raw.Storage.Backend
	}
	if raw.Storage.Memory.CleanupInterval != "" {
		d, err := time.ParseDuration(raw.Storage.Memory.CleanupInterval)
		if err != nil {
			return fmt.Errorf("parsing storage.memory.cleanup_interval: %w", err)
		}
		cfg.Storage.Memory.CleanupInterval = d
	}

	r := raw.Storage.Redis
	if r.Host != "" {
		cfg.Storage.Redis.Host = r.Host
	}
	if r.Port > 0 {
		cfg.Storage.Redis.Port = r.Port
	}
	if r.Password != "" {
		cfg.Storage.Redis.Password = r.Password
	}
	if r.DB > 0 {
		cfg.Storage.Redis.DB = r.DB
	}
	if r.PoolSize > 0 {
		cfg.Storage.Redis.PoolSize = r.PoolSize
	}
	if r.MaxRetries > 0 {
		cfg.Storage.Redis.MaxRetries = r.MaxRetries
	}
	if r.DialTimeout != "" {
		d, err := time.ParseDuration(r.DialTimeout)
		if err != nil {
			return fmt.Errorf("parsing storage.redis.dial_timeout: %w", err)
		}
		cfg.Storage.Redis.DialTimeout = d
	}
	if r.KeyPrefix != "" {
		cfg.Storage.Redis.KeyPrefix = r.KeyPrefix
	}
	if r.Cluster {
		cfg.Storage.Redis.Cluster = true
	}
	if len(r.ClusterNodes) > 0 {
		cfg.Storage.Redis.ClusterNodes = r.ClusterNodes
	}
	return nil
}

// envConfig lists the EASYTIME_* variables that override file settings.
type envConfig struct {
	Addr           string `env:"EASYTIME_ADDR"`
	Zone           string `env:"EASYTIME_ZONE"`
	Format         string `env:"EASYTIME_FORMAT"`
	RecordFile     string `env:"EASYTIME_RECORD_FILE"`
	StorageBackend string `env:"EASYTIME_STORAGE"`
	RedisHost      string `env:"EASYTIME_REDIS_HOST"`
	RedisPort      string `env:"EASYTIME_REDIS_PORT"`
	RedisPassword  string `env:"EASYTIME_REDIS_PASSWORD"`
	RedisDB        string `env:"EASYTIME_REDIS_DB"`
	ClusterNodes   string `env:"EASYTIME_REDIS_CLUSTER_NODES"`
}

// ApplyEnv overrides cfg with any EASYTIME_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	var e envConfig
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	setIf(&cfg.Server.Addr, e.Addr)
	setIf(&cfg.Zone, strings.ToLower(e.Zone))
	setIf(&cfg.Format, e.Format)
	setIf(&cfg.Recorder.File, e.RecordFile)
	setIf(&cfg.Storage.Backend, e.StorageBackend)
	setIf(&cfg.Storage.Redis.Host, e.RedisHost)
	setIf(&cfg.Storage.Redis.Password, e.RedisPassword)
	if e.ClusterNodes != "" {
		cfg.Storage.Redis.Cluster = true
		cfg.Storage.Redis.ClusterNodes = splitList(e.ClusterNodes)
	}
	if err := setIntIf(&cfg.Storage.Redis.Port, "EASYTIME_REDIS_PORT", e.RedisPort); err != nil {
		return err
	}
	return setIntIf(&cfg.Storage.Redis.DB, "EASYTIME_REDIS_DB", e.RedisDB)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setIntIf(dst *int, name, v string) error {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	*dst = n
	return nil
}

// WriteExample writes an example config file to the given path. A .yaml or
// .yml extension produces YAML, anything else JSON.
func WriteExample(path string) error {
	example := `{
  "server": {
    "addr": ":8080"
  },
  "zone": "local",
  "format": "%Y-%m-%d %H:%M:%S",
  "recorder": {
    "file": ""
  },
  "storage": {
    "backend": "memory",
    "memory": {
      "cleanup_interval": "1m"
    },
    "redis": {
      "host": "localhost",
      "port": 6379,
      "pool_size": 20,
      "max_retries": 3,
      "dial_timeout": "5s",
      "key_prefix": "easytime:anchor:",
      "cluster": false,
      "cluster_nodes": []
    }
  }
}
`
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		example = `server:
  addr: ":8080"
zone: local
format: "%Y-%m-%d %H:%M:%S"
recorder:
  file: ""
storage:
  backend: memory
  memory:
    cleanup_interval: 1m
  redis:
    host: localhost
    port: 6379
    pool_size: 20
    max_retries: 3
    dial_timeout: 5s
    key_prefix: "easytime:anchor:"
    cluster: false
    cluster_nodes: []
`
	}
	return os.WriteFile(path, []byte(example), 0o644)
}
