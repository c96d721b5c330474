package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookservice/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// authorRepository 作者仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/catalog/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 作者一侧不写books_authors(由图书维护),删除时清理关联行
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) catalog.AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) query(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).Preload("Books", byID("books"))
}

// FindByID 根据ID查找作者(含图书)
func (r *authorRepository) FindByID(ctx context.Context, id uint) (*catalog.Author, error) {
	var model AuthorModel
	err := r.query(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound(catalog.EntityAuthor, id)
		}
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询作者失败")
	}
	return toAuthorEntity(&model), nil
}

// FindByFullName 按全名精确查找
func (r *authorRepository) FindByFullName(ctx context.Context, fullName string) ([]*catalog.Author, error) {
	var models []AuthorModel
	if err := r.query(ctx).Where("full_name = ?", fullName).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询作者失败")
	}
	return toAuthorEntities(models), nil
}

// FindAll 查询全部作者
func (r *authorRepository) FindAll(ctx context.Context) ([]*catalog.Author, error) {
	var models []AuthorModel
	if err := r.query(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询作者列表失败")
	}
	return toAuthorEntities(models), nil
}

// Save 新增或整体更新作者标量字段
func (r *authorRepository) Save(ctx context.Context, a *catalog.Author) error {
	model := toAuthorModel(a)
	db := dbFrom(ctx, r.db).Omit(clause.Associations)

	var err error
	if model.ID == 0 {
		err = db.Create(model).Error
	} else {
		err = db.Save(model).Error
	}
	if err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "保存作者失败")
	}

	a.ID = model.ID
	return nil
}

// DeleteByID 删除作者及其图书关联(幂等)
func (r *authorRepository) DeleteByID(ctx context.Context, id uint) error {
	err := dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&BookAuthorModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&AuthorModel{}, id).Error
	})
	if err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "删除作者失败")
	}
	return nil
}

// ExistsByID 判断作者是否存在
func (r *authorRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&AuthorModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.ErrDatabaseError.WithCause(err, "查询作者失败")
	}
	return count > 0, nil
}

func toAuthorEntities(models []AuthorModel) []*catalog.Author {
	authors := make([]*catalog.Author, len(models))
	for i := range models {
		authors[i] = toAuthorEntity(&models[i])
	}
	return authors
}
