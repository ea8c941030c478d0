package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. ReserveCopy/ReleaseCopy是库存守卫:读-判-写必须是对后端存储的单个
//    原子操作,防止两个并发借阅同时看到同一个旧计数(lost update)
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(用于借阅事务中锁定副本计数)
	// 使用SELECT FOR UPDATE锁定行,防止并发借阅超借
	LockByID(ctx context.Context, id uint) (*Book, error)

	// ReserveCopy 借出一个副本(原子操作)
	// UPDATE ... SET available_copies = available_copies - 1
	// WHERE id = ? AND available_copies > 0
	// 图书存在但无可借副本时返回ErrNoCopiesAvailable
	ReserveCopy(ctx context.Context, id uint) error

	// ReleaseCopy 归还一个副本(原子操作)
	// UPDATE ... SET available_copies = available_copies + 1
	// WHERE id = ? AND available_copies < total_copies
	// 超过馆藏总数时返回ErrCopiesExceedTotal(防御性检查)
	ReleaseCopy(ctx context.Context, id uint) error

	// UpdateAvailableCopies 直接设置可借副本数
	// 管理用途(盘点修正),不参与借阅事务
	UpdateAvailableCopies(ctx context.Context, id uint, newCount int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	SortBy   string // 排序字段(created_at_desc, title_asc)
}
