package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/xiebiao/bookservice/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookservice/pkg/metrics"
	"github.com/xiebiao/bookservice/pkg/mq"
	"github.com/xiebiao/bookservice/pkg/tracing"
)

// ViewCache 渲染结果缓存
// 由infrastructure/persistence/redis实现;未启用时使用NopCache
// 读方先取Version,Get和回填Set都使用同一个版本号,Invalidate推进版本号
type ViewCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, name string) ([]byte, bool, error)
	Set(ctx context.Context, version int64, name string, data []byte) error
	Invalidate(ctx context.Context) error
}

// NopCache 不缓存
type NopCache struct{}

func (NopCache) Version(context.Context) (int64, error)                   { return 0, nil }
func (NopCache) Get(context.Context, int64, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, int64, string, []byte) error         { return nil }
func (NopCache) Invalidate(context.Context) error                         { return nil }

// Deps 服务公共依赖
type Deps struct {
	Tx     *mysql.TxManager
	Cache  ViewCache
	Events mq.EventPublisher
	Now    func() time.Time // 完成订单时取当前日期,测试中可替换
}

// base 四个实体服务共用的流程
// 教学要点:
// 1. 每个操作一个Span + 一组指标(entity/operation/result)
// 2. 读操作:取缓存版本号 → 查缓存 → 事务内加载关联图并渲染 → 按同一版本号回填缓存
// 3. 写操作:事务内写入 → 提交后使缓存失效并发布领域事件
// 4. 缓存和事件都是旁路:失败只记日志,不影响主流程
type base struct {
	entity string // 小写实体名,用于指标/缓存键/事件路由键
	tx     *mysql.TxManager
	cache  ViewCache
	events mq.EventPublisher
	now    func() time.Time
}

func newBase(entity string, deps Deps) base {
	b := base{
		entity: strings.ToLower(entity),
		tx:     deps.Tx,
		cache:  deps.Cache,
		events: deps.Events,
		now:    deps.Now,
	}
	if b.cache == nil {
		b.cache = NopCache{}
	}
	if b.events == nil {
		b.events = mq.NopPublisher{}
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// observe 开始一次操作,返回的函数在操作结束时调用
func (b *base) observe(ctx context.Context, op string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, b.entity+"."+op)
	return ctx, func(err error) {
		metrics.ObserveOperation(b.entity, op, err, time.Since(start).Seconds())
		tracing.EndSpan(span, err)
	}
}

// read 带缓存的读操作
func (b *base) read(ctx context.Context, op, cacheKey string, load func(ctx context.Context) ([]byte, error)) (data []byte, err error) {
	ctx, done := b.observe(ctx, op)
	defer func() { done(err) }()

	key := b.entity + ":" + cacheKey
	version, cacheErr := b.cache.Version(ctx)
	cacheUsable := cacheErr == nil
	if cacheUsable {
		var cached []byte
		var ok bool
		cached, ok, cacheErr = b.cache.Get(ctx, version, key)
		if cacheErr == nil && ok {
			metrics.ObserveCache(metrics.CacheHit)
			return cached, nil
		}
	}
	if cacheErr != nil {
		metrics.ObserveCache(metrics.CacheError)
		slog.WarnContext(ctx, "读取视图缓存失败", "key", key, "error", cacheErr)
	} else {
		metrics.ObserveCache(metrics.CacheMiss)
	}

	err = b.tx.Transaction(ctx, func(ctx context.Context) error {
		var loadErr error
		data, loadErr = load(ctx)
		return loadErr
	})
	if err != nil {
		return nil, err
	}

	// 版本号取不到时不回填,避免写到错误的版本下
	if cacheUsable {
		if err := b.cache.Set(ctx, version, key, data); err != nil {
			slog.WarnContext(ctx, "写入视图缓存失败", "key", key, "error", err)
		}
	}
	return data, nil
}

// query 不缓存的只读操作(报表)
func (b *base) query(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	ctx, done := b.observe(ctx, op)
	defer func() { done(err) }()
	return b.tx.Transaction(ctx, fn)
}

// write 写操作,成功后使缓存失效并发布事件
// fn返回写入实体的ID(用于事件)
func (b *base) write(ctx context.Context, op, action string, fn func(ctx context.Context) (uint, error)) (err error) {
	ctx, done := b.observe(ctx, op)
	defer func() { done(err) }()

	var id uint
	err = b.tx.Transaction(ctx, func(ctx context.Context) error {
		var writeErr error
		id, writeErr = fn(ctx)
		return writeErr
	})
	if err != nil {
		return err
	}

	if err := b.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "刷新视图缓存失败", "entity", b.entity, "error", err)
	}
	b.publish(ctx, mq.NewEvent(b.entity, action, id))
	return nil
}

func (b *base) publish(ctx context.Context, event mq.Event) {
	key := event.RoutingKey()
	err := b.events.Publish(ctx, key, event)
	metrics.ObservePublish(key, err)
	if err != nil {
		slog.WarnContext(ctx, "发布领域事件失败", "routing_key", key, "error", err)
	}
}

// 事件动作
const (
	actionCreated   = "created"
	actionUpdated   = "updated"
	actionDeleted   = "deleted"
	actionCompleted = "completed"
)
