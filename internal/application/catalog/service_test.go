package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/xiebiao/bookservice/internal/domain/catalog"
	"github.com/xiebiao/bookservice/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// ==================== 测试替身 ====================

// memoryCache 内存版视图缓存
// data只保存当前版本的条目,旧版本的回填直接丢弃(相当于Redis里旧Key等待过期)
type memoryCache struct {
	mu          sync.Mutex
	version     int64
	data        map[string][]byte
	invalidated int
	failGet     bool
	afterGet    func() // 模拟读方加载期间发生的并发写
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Version(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return 0, errors.New("cache down")
	}
	return c.version, nil
}

func (c *memoryCache) Get(_ context.Context, version int64, name string) ([]byte, bool, error) {
	c.mu.Lock()
	v, ok := c.data[name]
	hit := ok && version == c.version
	hook := c.afterGet
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return v, hit, nil
}

func (c *memoryCache) Set(_ context.Context, version int64, name string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version == c.version {
		c.data[name] = data
	}
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.data = make(map[string][]byte)
	c.invalidated++
	return nil
}

// recordingPublisher 记录发布的事件路由键
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// ==================== 测试环境 ====================

type services struct {
	authors   *AuthorService
	books     *BookService
	customers *CustomerService
	orders    *OrderService
	cache     *memoryCache
	events    *recordingPublisher
}

var today = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

func setupServices(t *testing.T) services {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "连接测试数据库失败")
	require.NoError(t, mysql.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cache := newMemoryCache()
	events := &recordingPublisher{}
	deps := Deps{
		Tx:     mysql.NewTxManager(db),
		Cache:  cache,
		Events: events,
		Now:    func() time.Time { return today },
	}
	return services{
		authors:   NewAuthorService(mysql.NewAuthorRepository(db), deps),
		books:     NewBookService(mysql.NewBookRepository(db), deps),
		customers: NewCustomerService(mysql.NewCustomerRepository(db), deps),
		orders:    NewOrderService(mysql.NewOrderRepository(db), deps),
		cache:     cache,
		events:    events,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ==================== 作者 ====================

// TestAuthorService 测试作者增删改查与渲染形状
func TestAuthorService(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	author, err := s.authors.Add(ctx, catalog.NewAuthor("Author name", 1980))
	require.NoError(t, err)
	require.Equal(t, uint(1), author.ID)

	t.Run("按ID查询(omit-authors)", func(t *testing.T) {
		body, err := s.authors.FindByID(ctx, author.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"fullName":"Author name","birthYear":1980,"books":[]}`, string(body))
	})

	t.Run("列表(omit-books)", func(t *testing.T) {
		body, err := s.authors.FindAll(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1,"fullName":"Author name","birthYear":1980}]`, string(body))
	})

	t.Run("按全名查询", func(t *testing.T) {
		body, err := s.authors.FindByFullName(ctx, "Author name")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1,"fullName":"Author name","birthYear":1980,"books":[]}]`, string(body))

		body, err = s.authors.FindByFullName(ctx, "Nobody")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(body))
	})

	t.Run("新增时ID必须为0", func(t *testing.T) {
		a := catalog.NewAuthor("Other", 1970)
		a.ID = 7
		_, err := s.authors.Add(ctx, a)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
	})

	t.Run("校验失败", func(t *testing.T) {
		_, err := s.authors.Add(ctx, catalog.NewAuthor("", 0))
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)
		assert.Len(t, appErr.Fields, 2, "全名和出生年份都应该报错")
	})

	t.Run("更新", func(t *testing.T) {
		require.NoError(t, s.authors.Update(ctx, &catalog.Author{ID: author.ID, FullName: "Renamed", BirthYear: 1981}))
		body, err := s.authors.FindByID(ctx, author.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"fullName":"Renamed","birthYear":1981,"books":[]}`, string(body))
	})

	t.Run("更新不存在的ID", func(t *testing.T) {
		err := s.authors.Update(ctx, &catalog.Author{ID: 99, FullName: "Ghost", BirthYear: 1900})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
		assert.Contains(t, err.Error(), "Author (id = 99) not found")
	})

	t.Run("查询不存在的ID", func(t *testing.T) {
		_, err := s.authors.FindByID(ctx, 99)
		assert.True(t, errors.Is(err, catalog.ErrAuthorNotFound))
	})

	t.Run("删除幂等", func(t *testing.T) {
		require.NoError(t, s.authors.Delete(ctx, author.ID))
		require.NoError(t, s.authors.Delete(ctx, author.ID))
		body, err := s.authors.FindAll(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(body))
	})
}

// ==================== 图书 ====================

// TestBookService 测试图书与作者的双向关联渲染
func TestBookService(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	author, err := s.authors.Add(ctx, catalog.NewAuthor("Author name", 1980))
	require.NoError(t, err)

	book := catalog.NewBook("Book name", 2000, "Annotation")
	book.Authors = []*catalog.Author{{ID: author.ID}}
	book, err = s.books.Add(ctx, book)
	require.NoError(t, err)

	t.Run("按ID查询(omit-books)", func(t *testing.T) {
		body, err := s.books.FindByID(ctx, book.ID)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"id":1,"name":"Book name","publicationYear":2000,"annotation":"Annotation",
			  "authors":[{"id":1,"fullName":"Author name","birthYear":1980}]}`,
			string(body))
	})

	t.Run("从作者一侧可见", func(t *testing.T) {
		body, err := s.authors.FindByID(ctx, author.ID)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"id":1,"fullName":"Author name","birthYear":1980,
			  "books":[{"id":1,"name":"Book name","publicationYear":2000,"annotation":"Annotation"}]}`,
			string(body))
	})

	t.Run("列表(omit-authors)", func(t *testing.T) {
		body, err := s.books.FindAll(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1,"name":"Book name","publicationYear":2000,"annotation":"Annotation"}]`, string(body))
	})

	t.Run("引用不存在的作者", func(t *testing.T) {
		b := catalog.NewBook("Broken", 2001, "x")
		b.Authors = []*catalog.Author{{ID: 42}}
		_, err := s.books.Add(ctx, b)
		assert.True(t, errors.Is(err, catalog.ErrReferenceNotFound))

		body, err := s.books.FindByName(ctx, "Broken")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(body), "事务应该回滚")
	})

	t.Run("更新时整体替换作者", func(t *testing.T) {
		book.Authors = nil
		book.Annotation = "New annotation"
		require.NoError(t, s.books.Update(ctx, book))

		body, err := s.books.FindByID(ctx, book.ID)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"id":1,"name":"Book name","publicationYear":2000,"annotation":"New annotation","authors":[]}`,
			string(body))
	})

	t.Run("出版年份不能晚于今年", func(t *testing.T) {
		_, err := s.books.Add(ctx, catalog.NewBook("Future", time.Now().Year()+1, "x"))
		assert.True(t, errors.Is(err, apperrors.ErrInvalidParams))
	})
}

// ==================== 顾客与订单 ====================

// TestOrderService 测试订单新增、完成与顾客视图
func TestOrderService(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	customer, err := s.customers.Add(ctx, catalog.NewCustomer("Customer", "+7-111-111-11-11"))
	require.NoError(t, err)
	book, err := s.books.Add(ctx, catalog.NewBook("Book name", 2000, "Annotation"))
	require.NoError(t, err)

	order := catalog.NewOrder(&catalog.Customer{ID: customer.ID}, date(2024, 5, 20), &catalog.Book{ID: book.ID})
	order.Completed = true
	order, err = s.orders.Add(ctx, order)
	require.NoError(t, err)
	assert.False(t, order.Completed, "新订单一律未完成")

	t.Run("按ID查询(omit-authors-and-orders)", func(t *testing.T) {
		body, err := s.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"id":1,"customer":{"id":1,"name":"Customer","phone":"+7-111-111-11-11"},
			  "creationDate":"20.05.2024","completeDate":null,"completed":false,
			  "books":[{"id":1,"name":"Book name","publicationYear":2000,"annotation":"Annotation"}]}`,
			string(body))
	})

	t.Run("顾客视图展开订单", func(t *testing.T) {
		body, err := s.customers.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"id":1,"name":"Customer","phone":"+7-111-111-11-11",
			  "orders":[{"id":1,"creationDate":"20.05.2024","completeDate":null,"completed":false,
			             "books":[{"id":1,"name":"Book name","publicationYear":2000,"annotation":"Annotation"}]}]}`,
			string(body))
	})

	t.Run("按顾客查询订单", func(t *testing.T) {
		body, err := s.orders.FindByCustomerID(ctx, customer.ID)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"creationDate":"20.05.2024"`)
		assert.NotContains(t, string(body), `"customer"`)
	})

	t.Run("顾客不存在", func(t *testing.T) {
		_, err := s.orders.Add(ctx, catalog.NewOrder(&catalog.Customer{ID: 42}, date(2024, 5, 20)))
		assert.True(t, errors.Is(err, catalog.ErrReferenceNotFound))
	})

	t.Run("缺少顾客", func(t *testing.T) {
		_, err := s.orders.Add(ctx, catalog.NewOrder(nil, date(2024, 5, 20)))
		assert.True(t, errors.Is(err, apperrors.ErrInvalidParams))
	})

	t.Run("完成订单", func(t *testing.T) {
		require.NoError(t, s.orders.CompleteByID(ctx, order.ID))
		body, err := s.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"completeDate":"01.06.2024","completed":true`)
	})

	t.Run("重复完成", func(t *testing.T) {
		err := s.orders.CompleteByID(ctx, order.ID)
		assert.True(t, errors.Is(err, catalog.ErrOrderAlreadyCompleted))

		body, err := s.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"completeDate":"01.06.2024","completed":true`, "状态不变")
	})

	t.Run("更新时完成标记与完成日期必须一致", func(t *testing.T) {
		update := catalog.NewOrder(&catalog.Customer{ID: customer.ID}, date(2024, 5, 20), &catalog.Book{ID: book.ID})
		update.ID = order.ID
		update.Completed = true
		err := s.orders.Update(ctx, update)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidParams), "completed=true但没有完成日期")

		completeDate := date(2024, 6, 1)
		update.Completed = false
		update.CompleteDate = &completeDate
		err = s.orders.Update(ctx, update)
		require.Error(t, err)
		assert.Equal(t, catalog.RuleComplete, apperrors.GetAppError(err).Fields[0].Rule)

		body, err := s.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"completeDate":"01.06.2024","completed":true`, "校验失败不写入")

		update.Completed = true
		require.NoError(t, s.orders.Update(ctx, update))
	})

	t.Run("完成不存在的订单", func(t *testing.T) {
		err := s.orders.CompleteByID(ctx, 99)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
		assert.Contains(t, err.Error(), "Order (id = 99) not found")
	})

	t.Run("有订单的顾客不能删除", func(t *testing.T) {
		err := s.customers.Delete(ctx, customer.ID)
		assert.True(t, errors.Is(err, catalog.ErrCustomerHasOrders))

		require.NoError(t, s.orders.Delete(ctx, order.ID))
		require.NoError(t, s.customers.Delete(ctx, customer.ID))
	})
}

// TestCustomerService_ReportOrders 测试报表三种模式
func TestCustomerService_ReportOrders(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	customer, err := s.customers.Add(ctx, catalog.NewCustomer("Customer", "+7 111 111 11 11"))
	require.NoError(t, err)
	b1, err := s.books.Add(ctx, catalog.NewBook("First", 2000, "a"))
	require.NoError(t, err)
	b2, err := s.books.Add(ctx, catalog.NewBook("Second", 2001, "b"))
	require.NoError(t, err)
	b3, err := s.books.Add(ctx, catalog.NewBook("Third", 2002, "c"))
	require.NoError(t, err)

	ref := &catalog.Customer{ID: customer.ID}
	done, err := s.orders.Add(ctx, catalog.NewOrder(ref, date(2024, 5, 1), &catalog.Book{ID: b1.ID}))
	require.NoError(t, err)
	require.NoError(t, s.orders.CompleteByID(ctx, done.ID))
	_, err = s.orders.Add(ctx, catalog.NewOrder(ref, date(2024, 5, 10), &catalog.Book{ID: b2.ID}, &catalog.Book{ID: b3.ID}))
	require.NoError(t, err)

	start, end := date(2024, 5, 1), date(2024, 5, 10)
	yes, no := true, false

	t.Run("全部订单", func(t *testing.T) {
		rows, err := s.customers.ReportOrders(ctx, start, end, nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Customer", rows[0].Name)
		assert.Equal(t, int64(3), rows[0].BookCount)
		assert.Nil(t, rows[0].Completed)
	})

	t.Run("只统计已完成", func(t *testing.T) {
		rows, err := s.customers.ReportOrders(ctx, start, end, &yes)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(1), rows[0].BookCount)
	})

	t.Run("附带完成标记", func(t *testing.T) {
		rows, err := s.customers.ReportOrders(ctx, start, end, &no)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(3), rows[0].BookCount)
		require.NotNil(t, rows[0].Completed)
		assert.False(t, *rows[0].Completed)
	})

	t.Run("区间外没有数据", func(t *testing.T) {
		rows, err := s.customers.ReportOrders(ctx, date(2023, 1, 1), date(2023, 12, 31), nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

// ==================== 缓存与事件 ====================

// TestCacheAndEvents 测试读缓存、写失效与事件发布
func TestCacheAndEvents(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.authors.Add(ctx, catalog.NewAuthor("Author name", 1980))
	require.NoError(t, err)

	t.Run("读操作回填缓存", func(t *testing.T) {
		_, err := s.authors.FindAll(ctx)
		require.NoError(t, err)
		assert.Contains(t, s.cache.data, "author:all")
	})

	t.Run("命中缓存直接返回", func(t *testing.T) {
		s.cache.data["author:all"] = []byte(`"cached"`)
		body, err := s.authors.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, `"cached"`, string(body))
	})

	t.Run("写操作使缓存失效并发布事件", func(t *testing.T) {
		before := s.cache.invalidated
		_, err := s.authors.Add(ctx, catalog.NewAuthor("Second", 1990))
		require.NoError(t, err)
		assert.Equal(t, before+1, s.cache.invalidated)
		assert.Empty(t, s.cache.data)
		assert.Equal(t, "author.created", s.events.keys[len(s.events.keys)-1])
	})

	t.Run("失败的写操作不发布事件", func(t *testing.T) {
		count := len(s.events.keys)
		err := s.authors.Update(ctx, &catalog.Author{ID: 99, FullName: "Ghost", BirthYear: 1900})
		require.Error(t, err)
		assert.Len(t, s.events.keys, count)
	})

	t.Run("加载期间发生写操作时不回填旧结果", func(t *testing.T) {
		s.cache.afterGet = func() {
			s.cache.afterGet = nil
			_ = s.cache.Invalidate(ctx)
		}
		_, err := s.authors.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.NotContains(t, s.cache.data, "author:id:1", "旧版本的回填不能被后续读取命中")

		_, err = s.authors.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Contains(t, s.cache.data, "author:id:1")
	})

	t.Run("缓存故障不影响读", func(t *testing.T) {
		s.cache.failGet = true
		defer func() { s.cache.failGet = false }()
		body, err := s.authors.FindAll(ctx)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Second")
	})

	t.Run("事件发布失败不影响写", func(t *testing.T) {
		s.events.err = errors.New("broker down")
		defer func() { s.events.err = nil }()
		_, err := s.authors.Add(ctx, catalog.NewAuthor("Third", 1995))
		assert.NoError(t, err)
	})
}
