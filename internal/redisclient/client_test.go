package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	c := New(Config{Addr: addr, Prefix: "userhub_test:" + uuid.NewString() + ":"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		t.Skipf("redis not available: %v", err)
	}

	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHitCountsWithinWindow(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, resetIn, err := c.Hit(ctx, "ip:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
		assert.True(t, resetIn > 0 && resetIn <= time.Minute, "resetIn=%v", resetIn)
	}

	n, _, err := c.Hit(ctx, "ip:5.6.7.8", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
