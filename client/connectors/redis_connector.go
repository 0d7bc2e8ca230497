/*
 * @module RedisConnector
 * @description Redis连接器,为配置文档提供读穿缓存与失效操作
 * @architecture 适配器模式 - 封装第三方Redis客户端,提供统一的接口
 * @documentReference docs/caching.md
 * @stateFlow 连接建立 -> 缓存读写/失效 -> 连接断开
 * @rules 缓存键为 config:<id>;缓存缺失返回 (nil, nil),不是错误
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/configstore/config_service.go
 */
package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisConfig Redis配置信息
type RedisConfig struct {
	Address      string        `json:"address"`
	Password     string        `json:"password"`
	Database     int           `json:"database"`
	PoolSize     int           `json:"pool_size"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	DefaultTTL   time.Duration `json:"default_ttl"`
}

// RedisConnector Redis连接器结构体,连接标志被请求协程并发读取
type RedisConnector struct {
	config    *RedisConfig
	client    *redis.Client
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	connected atomic.Bool
}

// NewRedisConnector 创建新的Redis连接器
func NewRedisConnector(config *RedisConfig, logger *slog.Logger) *RedisConnector {
	ctx, cancel := context.WithCancel(context.Background())

	if config.DefaultTTL <= 0 {
		config.DefaultTTL = time.Hour
	}

	return &RedisConnector{
		config: config,
		client: redis.NewClient(&redis.Options{
			Addr:         config.Address,
			Password:     config.Password,
			DB:           config.Database,
			PoolSize:     config.PoolSize,
			DialTimeout:  config.DialTimeout,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		}),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect 建立Redis连接
func (rc *RedisConnector) Connect() error {
	if rc.connected.Load() {
		return nil
	}

	if _, err := rc.client.Ping(rc.ctx).Result(); err != nil {
		return fmt.Errorf("Redis连接失败: %v", err)
	}

	rc.connected.Store(true)
	rc.logger.Info("Redis连接器已连接", "address", rc.config.Address)
	return nil
}

// Disconnect 断开Redis连接
func (rc *RedisConnector) Disconnect() error {
	if !rc.connected.Load() {
		return nil
	}

	err := rc.client.Close()
	rc.cancel()
	rc.connected.Store(false)
	rc.logger.Info("Redis连接器已断开连接")
	return err
}

// IsConnected 检查连接状态
func (rc *RedisConnector) IsConnected() bool {
	return rc.connected.Load()
}

// GetConfig 读取缓存的配置文档,缓存缺失时返回 (nil, nil)
func (rc *RedisConnector) GetConfig(ctx context.Context, id string) ([]byte, error) {
	if !rc.connected.Load() {
		return nil, fmt.Errorf("Redis客户端未连接")
	}

	data, err := rc.client.Get(ctx, configKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("GET命令失败: %v", err)
	}
	return data, nil
}

// SetConfig 写入缓存的配置文档,使用默认TTL
func (rc *RedisConnector) SetConfig(ctx context.Context, id string, payload []byte) error {
	if !rc.connected.Load() {
		return fmt.Errorf("Redis客户端未连接")
	}

	if err := rc.client.Set(ctx, configKey(id), payload, rc.config.DefaultTTL).Err(); err != nil {
		return fmt.Errorf("SET命令失败: %v", err)
	}
	rc.logger.Debug("配置已写入缓存", "id", id)
	return nil
}

// InvalidateConfig 失效缓存条目
func (rc *RedisConnector) InvalidateConfig(ctx context.Context, ids ...string) error {
	if !rc.connected.Load() {
		return fmt.Errorf("Redis客户端未连接")
	}
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, configKey(id))
	}
	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("DEL命令失败: %v", err)
	}
	rc.logger.Debug("缓存条目已失效", "count", len(keys))
	return nil
}

// Incr 计数器自增,用于限流
func (rc *RedisConnector) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if !rc.connected.Load() {
		return 0, fmt.Errorf("Redis客户端未连接")
	}

	pipe := rc.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("INCR命令失败: %v", err)
	}
	return incr.Val(), nil
}

// Ping 健康检查
func (rc *RedisConnector) Ping(ctx context.Context) error {
	if !rc.connected.Load() {
		return fmt.Errorf("Redis客户端未连接")
	}
	return rc.client.Ping(ctx).Err()
}

func configKey(id string) string {
	return "config:" + id
}
