package borrowing

import (
	"context"
)

// Repository 借阅仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
// 3. 借阅记录的插入/更新必须与图书副本计数的增减在同一事务中执行,
//    事务边界由应用层的TxManager控制
type Repository interface {
	// Create 创建借阅记录(回填自增ID)
	Create(ctx context.Context, b *Borrowing) error

	// FindByID 根据ID查找借阅记录
	FindByID(ctx context.Context, id uint) (*Borrowing, error)

	// LockByID 悲观锁查询借阅记录(用于归还事务)
	// 使用SELECT FOR UPDATE锁定行,防止两次并发归还同时通过状态检查
	LockByID(ctx context.Context, id uint) (*Borrowing, error)

	// FindByUserID 查询用户的全部借阅记录(含已归还)
	FindByUserID(ctx context.Context, userID uint) ([]*Borrowing, error)

	// FindByBookID 查询图书的全部借阅记录
	FindByBookID(ctx context.Context, bookID uint) ([]*Borrowing, error)

	// CountActiveByUser 统计用户当前未归还的借阅数
	// 借阅上限检查用,必须在持有用户行锁的事务内调用才有并发意义
	CountActiveByUser(ctx context.Context, userID uint) (int64, error)

	// Update 更新借阅记录(状态转换)
	Update(ctx context.Context, b *Borrowing) error

	// Delete 删除借阅记录(测试清理等管理用途)
	Delete(ctx context.Context, id uint) error
}
