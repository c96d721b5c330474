package mysql

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// withTx 将事务DB注入到Context中
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// dbFrom 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制,所有仓储方法都必须通过它取DB
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// uniqueIDs 去重并保持顺序(同一本书在关联中只记录一次)
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// missingID 返回ids中第一个不在existing中的ID
func missingID(ids, existing []uint) (uint, bool) {
	found := make(map[uint]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range ids {
		if !found[id] {
			return id, true
		}
	}
	return 0, false
}
