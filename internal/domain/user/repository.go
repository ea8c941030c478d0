package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 这样domain层不依赖任何外部框架（GORM、sqlx等）
// 4. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	// 注意：如果用户名已存在，应返回ErrUsernameTaken
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户
	FindByUsername(ctx context.Context, username string) (*User, error)

	// LockByID 悲观锁查询用户（用于借阅时锁定该用户的借阅计数）
	// 使用SELECT FOR UPDATE锁定行：同一用户的两次并发借阅必须串行通过
	// 借阅上限检查，否则两边都会在提交前看到相同的旧计数
	LockByID(ctx context.Context, id uint) (*User, error)

	// Update 更新用户信息（状态变更等）
	Update(ctx context.Context, user *User) error

	// Delete 删除用户（软删除）
	Delete(ctx context.Context, id uint) error
}
