package user

import (
	"time"
)

// Status 用户状态
// 设计说明：只有active状态的用户可以借书，inactive用户保留历史借阅记录但不能发起新借阅
type Status string

const (
	StatusActive   Status = "active"   // 正常（可借阅）
	StatusInactive Status = "inactive" // 停用（禁止借阅）
)

// Role 用户角色
type Role string

const (
	RoleMember Role = "member" // 普通读者
	RoleAdmin  Role = "admin"  // 管理员（维护馆藏）
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. User是用户聚合的根实体，借阅服务只读取User，从不修改它
// 2. 状态变更（激活/停用）由独立的注册/管理流程完成
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID        uint
	Username  string // 登录名（业务唯一标识，数据库层保证唯一性）
	Email     string
	FullName  string
	Phone     string
	Role      Role
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// 新用户默认为active状态的普通读者
func NewUser(username, email, fullName, phone string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		FullName:  fullName,
		Phone:     phone,
		Role:      RoleMember,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive 判断用户是否可以借阅
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Activate 激活用户（领域行为）
func (u *User) Activate() {
	u.Status = StatusActive
	u.UpdatedAt = time.Now()
}

// Deactivate 停用用户（领域行为）
// 业务规则：停用只影响后续借阅，已借出的图书仍需归还
func (u *User) Deactivate() {
	u.Status = StatusInactive
	u.UpdatedAt = time.Now()
}

// UpdateProfile 更新用户基本信息
func (u *User) UpdateProfile(email, fullName, phone string) {
	if email != "" {
		u.Email = email
	}
	if fullName != "" {
		u.FullName = fullName
	}
	if phone != "" {
		u.Phone = phone
	}
	u.UpdatedAt = time.Now()
}
