package user

import (
	"context"
	"regexp"
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（注册校验、状态变更）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求，只处理业务逻辑
// 4. 借阅服务不经过此Service，它只依赖Repository的读接口
type Service interface {
	// Register 用户注册（图书馆办证流程）
	Register(ctx context.Context, username, email, fullName, phone string) (*User, error)

	// GetByID 根据ID获取用户
	GetByID(ctx context.Context, id uint) (*User, error)

	// SetStatus 变更用户状态（激活/停用）
	SetStatus(ctx context.Context, id uint, status Status) error
}

type service struct {
	repo Repository
}

// NewService 创建用户领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 用户注册
// 业务规则：
// 1. 用户名3-50个字符
// 2. 邮箱格式校验
// 3. 用户名唯一性由数据库UNIQUE索引保证（Repository转换为ErrUsernameTaken）
func (s *service) Register(ctx context.Context, username, email, fullName, phone string) (*User, error) {
	// 1. 用户名校验
	if len(username) < 3 || len(username) > 50 {
		return nil, ErrInvalidUsername
	}

	// 2. 邮箱格式校验
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	// 3. 创建用户实体
	user := NewUser(username, email, fullName, phone)

	// 4. 持久化到数据库
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return user, nil
}

// GetByID 根据ID获取用户
func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// SetStatus 变更用户状态
// 说明：状态变更不回收已借出的图书，只阻止后续借阅
func (s *service) SetStatus(ctx context.Context, id uint, status Status) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	switch status {
	case StatusActive:
		u.Activate()
	case StatusInactive:
		u.Deactivate()
	default:
		return ErrInvalidStatus
	}

	return s.repo.Update(ctx, u)
}

// isValidEmail 邮箱格式校验
// 简单的正则校验，生产环境可使用更严格的RFC 5322标准
func isValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}
