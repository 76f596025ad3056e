package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestResultOf(t *testing.T) {
	assert.Equal(t, "success", resultOf(nil))
	assert.Equal(t, "miss", resultOf(redis.Nil))
	assert.Equal(t, "error", resultOf(errors.New("connection refused")))
}

func TestGetBytesReportsUnreachableServer(t *testing.T) {
	// 指向一个不会监听的端口，操作应返回错误而不是 miss
	c := Wrap(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}), "")
	defer c.Close()

	_, ok, err := c.GetBytes(context.Background(), "battle:report:none")
	assert.False(t, ok)
	assert.Error(t, err)
}
