package main

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mesto/internal/config"
)

func TestSwaggerBase(t *testing.T) {
	assert.Equal(t, "http://localhost:3000", swaggerBase("", "3000"))
	assert.Equal(t, "https://api.example.com", swaggerBase("https://api.example.com", "3000"))
	assert.Equal(t, "http://api.example.com:8080", swaggerBase("api.example.com:8080", "3000"))
}

func memoryConfig(port string) *config.Config {
	return &config.Config{
		ServerPort:      port,
		ShutdownTimeout: 5 * time.Second,
		StoreDriver:     config.DriverMemory,
		JWTSecret:       "server-test-secret",
		BcryptCost:      4,
	}
}

func TestRunReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	err = run(context.Background(), memoryConfig(port), zap.NewNop())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, memoryConfig("0"), zap.NewNop()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
