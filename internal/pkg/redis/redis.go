package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tsu-arena/internal/pkg/metrics"
)

// Config Redis 配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Client Redis 客户端封装，所有操作都会记录资源指标
type Client struct {
	*redis.Client
	service string
}

// NewClient 创建 Redis 客户端
func NewClient(cfg Config, service string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	return Wrap(rdb, service), nil
}

// Wrap 包装已有的 go-redis 客户端（测试中可传入指向 miniredis 等的客户端）
func Wrap(rdb *redis.Client, service string) *Client {
	if service == "" {
		service = metrics.GetServiceName()
	}
	return &Client{
		Client:  rdb,
		service: service,
	}
}

// SetBytes 设置键值对，带过期时间
func (c *Client) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := c.Set(ctx, key, value, ttl).Err()
	c.record("SET", resultOf(err), start)
	return err
}

// GetBytes 获取值；键不存在时 ok 为 false 且 err 为 nil
func (c *Client) GetBytes(ctx context.Context, key string) (value []byte, ok bool, err error) {
	start := time.Now()
	value, err = c.Get(ctx, key).Bytes()
	c.record("GET", resultOf(err), start)

	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// DeleteKey 删除键
func (c *Client) DeleteKey(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.Del(ctx, keys...).Err()
	c.record("DEL", resultOf(err), start)
	return err
}

// RecordPoolStats 上报连接池状态
func (c *Client) RecordPoolStats() {
	stats := c.PoolStats()
	metrics.DefaultResourceMetrics.RecordRedisPoolStats(int(stats.TotalConns), int(stats.IdleConns), int(stats.StaleConns), c.service)
}

func (c *Client) record(operation, result string, start time.Time) {
	metrics.DefaultResourceMetrics.RecordRedisOperation(operation, result, time.Since(start), c.service)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, redis.Nil):
		return "miss"
	default:
		return "error"
	}
}
