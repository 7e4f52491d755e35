package cli

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/SmitUplenchwar2687/easytime/internal/config"
	"github.com/SmitUplenchwar2687/easytime/internal/storage"
)

type storageOptions struct {
	backend               string
	memoryCleanupInterval time.Duration
	redisHost             string
	redisPort             int
	redisPassword         string
	redisDB               int
	redisKeyPrefix        string
	redisCluster          bool
	redisClusterNodes     []string
}

func (o *storageOptions) addFlags(cmd *cobra.Command) {
	o.register(cmd.Flags())
}

// addFlagsPersistent registers the flags for cmd and all its subcommands.
func (o *storageOptions) addFlagsPersistent(cmd *cobra.Command) {
	o.register(cmd.PersistentFlags())
}

func (o *storageOptions) register(fs *pflag.FlagSet) {
	def := config.Default().Storage
	fs.StringVar(&o.backend, "storage", def.Backend, "anchor storage backend (memory, redis)")
	fs.DurationVar(&o.memoryCleanupInterval, "storage-memory-cleanup-interval", def.Memory.CleanupInterval, "cleanup interval for the memory backend")
	fs.StringVar(&o.redisHost, "redis-host", def.Redis.Host, "redis host (or host:port)")
	fs.IntVar(&o.redisPort, "redis-port", def.Redis.Port, "redis port")
	fs.StringVar(&o.redisPassword, "redis-password", "", "redis password")
	fs.IntVar(&o.redisDB, "redis-db", 0, "redis database index")
	fs.StringVar(&o.redisKeyPrefix, "redis-key-prefix", def.Redis.KeyPrefix, "redis key prefix for anchors")
	fs.BoolVar(&o.redisCluster, "redis-cluster", false, "enable redis cluster mode")
	fs.StringSliceVar(&o.redisClusterNodes, "redis-cluster-nodes", nil, "redis cluster nodes host:port list (implies --redis-cluster)")
}

// resolve overlays flags that were set explicitly on cfg and returns the
// result.
func (o *storageOptions) resolve(cmd *cobra.Command, cfg config.StorageConfig) (config.StorageConfig, error) {
	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Backend = o.backend
	}
	if flags.Changed("storage-memory-cleanup-interval") {
		cfg.Memory.CleanupInterval = o.memoryCleanupInterval
	}
	if flags.Changed("redis-host") {
		cfg.Redis.Host = o.redisHost
	}
	if flags.Changed("redis-port") {
		cfg.Redis.Port = o.redisPort
	}
	if flags.Changed("redis-password") {
		cfg.Redis.Password = o.redisPassword
	}
	if flags.Changed("redis-db") {
		cfg.Redis.DB = o.redisDB
	}
	if flags.Changed("redis-key-prefix") {
		cfg.Redis.KeyPrefix = o.redisKeyPrefix
	}
	if flags.Changed("redis-cluster") {
		cfg.Redis.Cluster = o.redisCluster
	}
	if flags.Changed("redis-cluster-nodes") {
		cfg.Redis.Cluster = true
		cfg.Redis.ClusterNodes = append([]string(nil), o.redisClusterNodes...)
	}

	switch {
	case cfg.Backend != config.BackendRedis:
	case cfg.Redis.Cluster:
		if len(cfg.Redis.ClusterNodes) == 0 {
			return cfg, fmt.Errorf("--redis-cluster-nodes is required in cluster mode")
		}
	default:
		host, port, err := normalizeRedisHostPort(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			return cfg, err
		}
		cfg.Redis.Host, cfg.Redis.Port = host, port
	}
	return cfg, nil
}

func (o *storageOptions) open(cmd *cobra.Command, g *globals) (storage.Storage, error) {
	cfg, err := o.resolve(cmd, g.cfg.Storage)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg, g.clock)
}

func normalizeRedisHostPort(host string, port int) (string, int, error) {
	if strings.Contains(host, ":") {
		h, p, err := net.SplitHostPort(host)
		if err != nil {
			return "", 0, fmt.Errorf("invalid --redis-host value %q: %w", host, err)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("invalid redis port in --redis-host %q: %w", host, err)
		}
		host = h
		port = n
	}

	if host == "" {
		return "", 0, fmt.Errorf("redis host cannot be empty")
	}
	if port <= 0 {
		return "", 0, fmt.Errorf("redis port must be positive, got %d", port)
	}
	return host, port, nil
}
