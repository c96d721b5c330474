package catalog

import (
	"context"

	"github.com/xiebiao/bookservice/internal/application/view"
	"github.com/xiebiao/bookservice/internal/domain/catalog"
)

// AuthorService 作者用例
type AuthorService struct {
	base
	repo catalog.AuthorRepository
}

// NewAuthorService 创建作者服务
func NewAuthorService(repo catalog.AuthorRepository, deps Deps) *AuthorService {
	return &AuthorService{base: newBase(catalog.EntityAuthor, deps), repo: repo}
}

// FindByID 按ID查询,视图omit-authors(作者→图书,不回到作者)
func (s *AuthorService) FindByID(ctx context.Context, id uint) ([]byte, error) {
	return s.read(ctx, "find_by_id", "id:"+formatID(id), func(ctx context.Context) ([]byte, error) {
		author, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitAuthors, author)
	})
}

// FindByFullName 按全名精确查询
func (s *AuthorService) FindByFullName(ctx context.Context, fullName string) ([]byte, error) {
	return s.read(ctx, "find_by_name", "name:"+fullName, func(ctx context.Context) ([]byte, error) {
		authors, err := s.repo.FindByFullName(ctx, fullName)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitAuthors, authors)
	})
}

// FindAll 全部作者,视图omit-books
func (s *AuthorService) FindAll(ctx context.Context) ([]byte, error) {
	return s.read(ctx, "find_all", "all", func(ctx context.Context) ([]byte, error) {
		authors, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitBooks, authors)
	})
}

// Add 新增作者
// 业务流程:
// 1. ID必须为0(由数据库生成)
// 2. 校验字段(一次返回全部失败字段)
// 3. 保存,Books由图书一侧维护,这里忽略
func (s *AuthorService) Add(ctx context.Context, author *catalog.Author) (*catalog.Author, error) {
	if author.ID != 0 {
		return nil, catalog.IDMustBeZero(catalog.EntityAuthor)
	}
	if err := author.Validate(); err != nil {
		return nil, err
	}
	err := s.write(ctx, "add", actionCreated, func(ctx context.Context) (uint, error) {
		if err := s.repo.Save(ctx, author); err != nil {
			return 0, err
		}
		return author.ID, nil
	})
	if err != nil {
		return nil, err
	}
	return author, nil
}

// Update 整体更新作者
func (s *AuthorService) Update(ctx context.Context, author *catalog.Author) error {
	if err := author.Validate(); err != nil {
		return err
	}
	return s.write(ctx, "update", actionUpdated, func(ctx context.Context) (uint, error) {
		exists, err := s.repo.ExistsByID(ctx, author.ID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, catalog.Missing(catalog.EntityAuthor, author.ID)
		}
		return author.ID, s.repo.Save(ctx, author)
	})
}

// Delete 删除作者(幂等)
func (s *AuthorService) Delete(ctx context.Context, id uint) error {
	return s.write(ctx, "delete", actionDeleted, func(ctx context.Context) (uint, error) {
		return id, s.repo.DeleteByID(ctx, id)
	})
}
