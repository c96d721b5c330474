package catalog

import (
	"context"

	"github.com/xiebiao/bookservice/internal/application/view"
	"github.com/xiebiao/bookservice/internal/domain/catalog"
)

// BookService 图书用例
// 图书是books_authors关联的拥有方,新增/更新时按Authors的ID重写关联
type BookService struct {
	base
	repo catalog.BookRepository
}

// NewBookService 创建图书服务
func NewBookService(repo catalog.BookRepository, deps Deps) *BookService {
	return &BookService{base: newBase(catalog.EntityBook, deps), repo: repo}
}

// FindByID 按ID查询,视图omit-books
func (s *BookService) FindByID(ctx context.Context, id uint) ([]byte, error) {
	return s.read(ctx, "find_by_id", "id:"+formatID(id), func(ctx context.Context) ([]byte, error) {
		book, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitBooks, book)
	})
}

// FindByName 按书名精确查询
func (s *BookService) FindByName(ctx context.Context, name string) ([]byte, error) {
	return s.read(ctx, "find_by_name", "name:"+name, func(ctx context.Context) ([]byte, error) {
		books, err := s.repo.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitBooks, books)
	})
}

// FindAll 全部图书,视图omit-authors
func (s *BookService) FindAll(ctx context.Context) ([]byte, error) {
	return s.read(ctx, "find_all", "all", func(ctx context.Context) ([]byte, error) {
		books, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitAuthors, books)
	})
}

// Add 新增图书,引用不存在的作者时整个事务回滚
func (s *BookService) Add(ctx context.Context, book *catalog.Book) (*catalog.Book, error) {
	if book.ID != 0 {
		return nil, catalog.IDMustBeZero(catalog.EntityBook)
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	err := s.write(ctx, "add", actionCreated, func(ctx context.Context) (uint, error) {
		if err := s.repo.Save(ctx, book); err != nil {
			return 0, err
		}
		return book.ID, nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Update 整体更新图书(标量字段 + 作者关联)
func (s *BookService) Update(ctx context.Context, book *catalog.Book) error {
	if err := book.Validate(); err != nil {
		return err
	}
	return s.write(ctx, "update", actionUpdated, func(ctx context.Context) (uint, error) {
		exists, err := s.repo.ExistsByID(ctx, book.ID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, catalog.Missing(catalog.EntityBook, book.ID)
		}
		return book.ID, s.repo.Save(ctx, book)
	})
}

// Delete 删除图书及其作者/订单关联(幂等)
func (s *BookService) Delete(ctx context.Context, id uint) error {
	return s.write(ctx, "delete", actionDeleted, func(ctx context.Context) (uint, error) {
		return id, s.repo.DeleteByID(ctx, id)
	})
}
