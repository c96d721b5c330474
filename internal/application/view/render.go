package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xiebiao/bookservice/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// DateLayout 日期格式 dd.MM.yyyy
const DateLayout = "02.01.2006"

// parseLayout 解析用,日和月可以是一位或两位数字
const parseLayout = "2.1.2006"

// Render 按视图渲染实体或实体列表为JSON
// 支持: *Author/*Book/*Customer/*Order 及其切片
// 规则:
// 1. 字段顺序与数据模型一致(id在最前)
// 2. 顶层值总是完整展开,并记为已输出
// 3. 嵌套引用若同一(类型,id)已在本文档中完整输出过,只输出其id
// 4. 被包含但为空的关联集合输出[],被排除的关联字段不输出
func Render(v View, value interface{}) ([]byte, error) {
	if !v.Valid() {
		return nil, serializationError(fmt.Errorf("unknown view %d", int(v)))
	}
	e := newEncoder(v)
	if err := e.top(value); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// identity 已输出实体的标识
// 未持久化的实体(id为0)按指针区分
type identity struct {
	kind string
	id   uint
	ptr  interface{}
}

type encoder struct {
	view View
	buf  bytes.Buffer
	seen map[identity]bool
}

func newEncoder(v View) *encoder {
	return &encoder{view: v, seen: make(map[identity]bool)}
}

func (e *encoder) top(value interface{}) error {
	switch x := value.(type) {
	case *catalog.Author:
		e.author(x, true)
	case *catalog.Book:
		e.book(x, true)
	case *catalog.Customer:
		e.customer(x, true)
	case *catalog.Order:
		e.order(x, true)
	case []*catalog.Author:
		e.buf.WriteByte('[')
		for i, a := range x {
			e.comma(i)
			e.author(a, true)
		}
		e.buf.WriteByte(']')
	case []*catalog.Book:
		e.buf.WriteByte('[')
		for i, b := range x {
			e.comma(i)
			e.book(b, true)
		}
		e.buf.WriteByte(']')
	case []*catalog.Customer:
		e.buf.WriteByte('[')
		for i, c := range x {
			e.comma(i)
			e.customer(c, true)
		}
		e.buf.WriteByte(']')
	case []*catalog.Order:
		e.buf.WriteByte('[')
		for i, o := range x {
			e.comma(i)
			e.order(o, true)
		}
		e.buf.WriteByte(']')
	default:
		return serializationError(fmt.Errorf("unsupported value %T", value))
	}
	return nil
}

// visit 标记实体已输出,返回是否只需要输出引用(id)
func (e *encoder) visit(kind string, id uint, ptr interface{}, top bool) (refOnly bool) {
	key := identity{kind: kind, id: id}
	if id == 0 {
		key.ptr = ptr
	}
	if e.seen[key] && !top {
		return true
	}
	e.seen[key] = true
	return false
}

func (e *encoder) author(a *catalog.Author, top bool) {
	if a == nil {
		e.buf.WriteString("null")
		return
	}
	if e.visit(catalog.EntityAuthor, a.ID, a, top) {
		e.writeUint(a.ID)
		return
	}
	e.buf.WriteByte('{')
	e.key("id", true)
	e.writeUint(a.ID)
	e.key("fullName", false)
	e.writeString(a.FullName)
	e.key("birthYear", false)
	e.writeInt(a.BirthYear)
	if !e.view.Excludes(FieldBooks) {
		e.key(FieldBooks, false)
		e.books(a.Books)
	}
	e.buf.WriteByte('}')
}

func (e *encoder) book(b *catalog.Book, top bool) {
	if b == nil {
		e.buf.WriteString("null")
		return
	}
	if e.visit(catalog.EntityBook, b.ID, b, top) {
		e.writeUint(b.ID)
		return
	}
	e.buf.WriteByte('{')
	e.key("id", true)
	e.writeUint(b.ID)
	e.key("name", false)
	e.writeString(b.Name)
	e.key("publicationYear", false)
	e.writeInt(b.PublicationYear)
	e.key("annotation", false)
	e.writeString(b.Annotation)
	if !e.view.Excludes(FieldAuthors) {
		e.key(FieldAuthors, false)
		e.buf.WriteByte('[')
		for i, a := range b.Authors {
			e.comma(i)
			e.author(a, false)
		}
		e.buf.WriteByte(']')
	}
	e.buf.WriteByte('}')
}

func (e *encoder) customer(c *catalog.Customer, top bool) {
	if c == nil {
		e.buf.WriteString("null")
		return
	}
	if e.visit(catalog.EntityCustomer, c.ID, c, top) {
		e.writeUint(c.ID)
		return
	}
	e.buf.WriteByte('{')
	e.key("id", true)
	e.writeUint(c.ID)
	e.key("name", false)
	e.writeString(c.Name)
	e.key("phone", false)
	e.writeString(c.Phone)
	if !e.view.Excludes(FieldOrders) {
		e.key(FieldOrders, false)
		e.buf.WriteByte('[')
		for i, o := range c.Orders {
			e.comma(i)
			e.order(o, false)
		}
		e.buf.WriteByte(']')
	}
	e.buf.WriteByte('}')
}

func (e *encoder) order(o *catalog.Order, top bool) {
	if o == nil {
		e.buf.WriteString("null")
		return
	}
	if e.visit(catalog.EntityOrder, o.ID, o, top) {
		e.writeUint(o.ID)
		return
	}
	e.buf.WriteByte('{')
	e.key("id", true)
	e.writeUint(o.ID)
	if !e.view.Excludes(FieldCustomer) {
		e.key(FieldCustomer, false)
		e.customer(o.Customer, false)
	}
	e.key("creationDate", false)
	e.date(&o.CreationDate)
	e.key("completeDate", false)
	e.date(o.CompleteDate)
	e.key("completed", false)
	e.buf.WriteString(strconv.FormatBool(o.Completed))
	if !e.view.Excludes(FieldBooks) {
		e.key(FieldBooks, false)
		e.books(o.Books)
	}
	e.buf.WriteByte('}')
}

func (e *encoder) books(books []*catalog.Book) {
	e.buf.WriteByte('[')
	for i, b := range books {
		e.comma(i)
		e.book(b, false)
	}
	e.buf.WriteByte(']')
}

func (e *encoder) key(name string, first bool) {
	if !first {
		e.buf.WriteByte(',')
	}
	e.buf.WriteByte('"')
	e.buf.WriteString(name)
	e.buf.WriteString(`":`)
}

func (e *encoder) comma(i int) {
	if i > 0 {
		e.buf.WriteByte(',')
	}
}

func (e *encoder) writeUint(n uint) {
	e.buf.WriteString(strconv.FormatUint(uint64(n), 10))
}

func (e *encoder) writeInt(n int) {
	e.buf.WriteString(strconv.Itoa(n))
}

func (e *encoder) writeString(s string) {
	b, _ := json.Marshal(s) // 字符串编码不会失败
	e.buf.Write(b)
}

func (e *encoder) date(t *time.Time) {
	if t == nil || t.IsZero() {
		e.buf.WriteString("null")
		return
	}
	e.writeString(FormatDate(*t))
}

// FormatDate 按dd.MM.yyyy(UTC)格式化日期
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate 解析dd.MM.yyyy日期,结果为UTC零点
// 日和月也接受一位数字(1.5.2024),年份必须是四位
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(parseLayout, s, time.UTC)
}

func serializationError(err error) *apperrors.AppError {
	return apperrors.ErrSerialization.WithCause(err, apperrors.ErrSerialization.Message)
}
