package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/borrowing"
)

// borrowingRepository 借阅仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/borrowing/repository.go定义的接口
// 2. 所有方法通过getDB(ctx)参与事务,借阅记录与副本计数的
//    变更由应用层放进同一个TxManager事务
type borrowingRepository struct {
	db *gorm.DB
}

// NewBorrowingRepository 创建借阅仓储
func NewBorrowingRepository(db *gorm.DB) borrowing.Repository {
	return &borrowingRepository{db: db}
}

// Create 创建借阅记录
func (r *borrowingRepository) Create(ctx context.Context, b *borrowing.Borrowing) error {
	model := &BorrowingModel{
		UserID:     b.UserID,
		BookID:     b.BookID,
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
		Status:     int(b.Status),
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return wrapDBError(err, "创建借阅记录失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找借阅记录
func (r *borrowingRepository) FindByID(ctx context.Context, id uint) (*borrowing.Borrowing, error) {
	var model BorrowingModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, borrowing.ErrBorrowingNotFound
		}
		return nil, wrapDBError(err, "查询借阅记录失败")
	}

	return toBorrowingEntity(&model), nil
}

// LockByID 悲观锁查询借阅记录(用于归还事务)
// SELECT FOR UPDATE锁定行:两次并发归还在这里排队,后到的事务
// 看到的已是returned状态,在状态检查处被拒绝
func (r *borrowingRepository) LockByID(ctx context.Context, id uint) (*borrowing.Borrowing, error) {
	var model BorrowingModel
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, borrowing.ErrBorrowingNotFound
		}
		return nil, wrapDBError(err, "锁定借阅记录失败")
	}

	return toBorrowingEntity(&model), nil
}

// FindByUserID 查询用户的全部借阅记录(含已归还),按借出时间降序
func (r *borrowingRepository) FindByUserID(ctx context.Context, userID uint) ([]*borrowing.Borrowing, error) {
	var models []BorrowingModel
	err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Find(&models).Error

	if err != nil {
		return nil, wrapDBError(err, "查询用户借阅记录失败")
	}

	return toBorrowingEntities(models), nil
}

// FindByBookID 查询图书的全部借阅记录,按借出时间降序
func (r *borrowingRepository) FindByBookID(ctx context.Context, bookID uint) ([]*borrowing.Borrowing, error) {
	var models []BorrowingModel
	err := r.getDB(ctx).
		Where("book_id = ?", bookID).
		Order("borrow_date DESC").
		Find(&models).Error

	if err != nil {
		return nil, wrapDBError(err, "查询图书借阅记录失败")
	}

	return toBorrowingEntities(models), nil
}

// CountActiveByUser 统计用户当前未归还的借阅数
// 走(user_id, status)复合索引,在持有用户行锁的事务内调用
// 才能保证读到的计数在本事务提交前不被并发借阅改变
func (r *borrowingRepository) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&BorrowingModel{}).
		Where("user_id = ? AND status = ?", userID, int(borrowing.StatusBorrowed)).
		Count(&count).Error

	if err != nil {
		return 0, wrapDBError(err, "统计活跃借阅数失败")
	}

	return count, nil
}

// Update 更新借阅记录(状态转换)
func (r *borrowingRepository) Update(ctx context.Context, b *borrowing.Borrowing) error {
	model := &BorrowingModel{
		ID:         b.ID,
		UserID:     b.UserID,
		BookID:     b.BookID,
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
		Status:     int(b.Status),
		CreatedAt:  b.CreatedAt,
	}

	if err := r.getDB(ctx).Save(model).Error; err != nil {
		return wrapDBError(err, "更新借阅记录失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除借阅记录(管理用途)
func (r *borrowingRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&BorrowingModel{}, id)

	if result.Error != nil {
		return wrapDBError(result.Error, "删除借阅记录失败")
	}

	if result.RowsAffected == 0 {
		return borrowing.ErrBorrowingNotFound
	}

	return nil
}

// toBorrowingEntity GORM模型 → 领域实体
func toBorrowingEntity(model *BorrowingModel) *borrowing.Borrowing {
	return &borrowing.Borrowing{
		ID:         model.ID,
		UserID:     model.UserID,
		BookID:     model.BookID,
		BorrowDate: model.BorrowDate,
		DueDate:    model.DueDate,
		ReturnDate: model.ReturnDate,
		Status:     borrowing.Status(model.Status),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toBorrowingEntities(models []BorrowingModel) []*borrowing.Borrowing {
	list := make([]*borrowing.Borrowing, len(models))
	for i := range models {
		list[i] = toBorrowingEntity(&models[i])
	}
	return list
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *borrowingRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
