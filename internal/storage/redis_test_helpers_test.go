package storage

import (
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	testcontainers "github.com/testcontainers/testcontainers-go"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
)

// newTestRedisAnchors starts a throwaway Redis and returns an anchor store on
// it. Anchors live under a prefix derived from the test name so stores
// created by different tests never list each other's anchors. The test is
// skipped when no container runtime is available.
func newTestRedisAnchors(t *testing.T) *RedisStorage {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := rediscontainer.Run(ctx, "redis:7.2-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		t.Fatalf("redis endpoint: %v", err)
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		t.Fatalf("redis endpoint %q: %v", endpoint, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("redis port %q: %v", portStr, err)
	}

	anchors, err := NewRedisStorage(&RedisConfig{
		Host:        host,
		Port:        port,
		DialTimeout: 5 * time.Second,
		KeyPrefix:   "easytime:test:" + strings.ReplaceAll(t.Name(), "/", ".") + ":",
	})
	if err != nil {
		t.Fatalf("NewRedisStorage() error: %v", err)
	}
	t.Cleanup(func() { _ = anchors.Close() })
	return anchors
}
