package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

const (
	// versionKey 目录版本号,任何写操作都会INCR
	versionKey = "bookservice:catalog:version"
	viewPrefix = "bookservice:view"
)

// ViewCache 渲染结果缓存
// 设计说明：
// 1. 缓存的是视图渲染后的JSON,Key包含目录版本号
// 2. 写操作只需INCR版本号,旧版本的Key自然过期(不用逐个删除)
// 3. Key设计：bookservice:view:{version}:{name}
// 4. 读方在查缓存之前取一次版本号,Get和回填Set都用这个版本
//    加载期间发生的写操作会把版本号推进,迟到的Set只会落在旧版本上
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache 创建渲染结果缓存
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl}
}

// Version 当前目录版本号,从未写入过时为0
func (c *ViewCache) Version(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, wrapRedis(err, "读取缓存版本失败")
	}
	return version, nil
}

// Get 读取指定版本下的缓存,未命中时返回ok=false
func (c *ViewCache) Get(ctx context.Context, version int64, name string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key(version, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapRedis(err, "读取缓存失败")
	}
	return data, true, nil
}

// Set 写入指定版本下的缓存
func (c *ViewCache) Set(ctx context.Context, version int64, name string, data []byte) error {
	if err := c.client.Set(ctx, key(version, name), data, c.ttl).Err(); err != nil {
		return wrapRedis(err, "写入缓存失败")
	}
	return nil
}

// Invalidate 使所有已缓存的视图失效
func (c *ViewCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return wrapRedis(err, "刷新缓存版本失败")
	}
	return nil
}

func key(version int64, name string) string {
	return fmt.Sprintf("%s:%d:%s", viewPrefix, version, name)
}

func wrapRedis(err error, message string) *apperrors.AppError {
	return apperrors.ErrRedisError.WithCause(err, message)
}
