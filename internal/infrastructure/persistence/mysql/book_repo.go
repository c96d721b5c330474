package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookservice/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/catalog/repository.go定义的接口
// 2. 图书是books_authors的拥有方:Save按Authors的ID整体重写关联行
// 3. 引用不存在的作者转换为ErrReferenceNotFound业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) catalog.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) query(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).Preload("Authors", byID("authors"))
}

// FindByID 根据ID查找图书(含作者)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*catalog.Book, error) {
	var model BookModel
	err := r.query(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound(catalog.EntityBook, id)
		}
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByName 按书名精确查找
func (r *bookRepository) FindByName(ctx context.Context, name string) ([]*catalog.Book, error) {
	var models []BookModel
	if err := r.query(ctx).Where("name = ?", name).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询图书失败")
	}
	return toBookEntities(models), nil
}

// FindAll 查询全部图书
func (r *bookRepository) FindAll(ctx context.Context) ([]*catalog.Book, error) {
	var models []BookModel
	if err := r.query(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询图书列表失败")
	}
	return toBookEntities(models), nil
}

// Save 新增或整体更新图书,并重写作者关联
// 教学要点:必须在事务中调用,保证图书与关联行一起提交
func (r *bookRepository) Save(ctx context.Context, b *catalog.Book) error {
	db := dbFrom(ctx, r.db)
	authorIDs := uniqueIDs(b.AuthorIDs())

	// 1. 校验引用的作者存在
	if err := checkExisting(db, &AuthorModel{}, catalog.EntityAuthor, authorIDs); err != nil {
		return err
	}

	// 2. 写入图书标量字段
	model := toBookModel(b)
	var err error
	if model.ID == 0 {
		err = db.Omit(clause.Associations).Create(model).Error
	} else {
		err = db.Omit(clause.Associations).Save(model).Error
	}
	if err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "保存图书失败")
	}
	b.ID = model.ID

	// 3. 重写关联行
	if err := db.Where("book_id = ?", model.ID).Delete(&BookAuthorModel{}).Error; err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "更新图书作者失败")
	}
	if len(authorIDs) == 0 {
		return nil
	}
	rows := make([]BookAuthorModel, len(authorIDs))
	for i, id := range authorIDs {
		rows[i] = BookAuthorModel{BookID: model.ID, AuthorID: id}
	}
	if err := db.Create(&rows).Error; err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "更新图书作者失败")
	}
	return nil
}

// DeleteByID 删除图书及其作者/订单关联(幂等)
func (r *bookRepository) DeleteByID(ctx context.Context, id uint) error {
	err := dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&BookAuthorModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&OrderBookModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&BookModel{}, id).Error
	})
	if err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "删除图书失败")
	}
	return nil
}

// ExistsByID 判断图书是否存在
func (r *bookRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.ErrDatabaseError.WithCause(err, "查询图书失败")
	}
	return count > 0, nil
}

func toBookEntities(models []BookModel) []*catalog.Book {
	books := make([]*catalog.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}

// checkExisting 校验ids全部存在于model对应的表中
func checkExisting(db *gorm.DB, model interface{}, entity string, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var existing []uint
	if err := db.Model(model).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "查询"+entity+"失败")
	}
	if id, ok := missingID(ids, existing); ok {
		return catalog.ReferenceNotFound(entity, id)
	}
	return nil
}
