package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
)

// ManageUserUseCase 用户查询与状态管理用例
type ManageUserUseCase struct {
	userService user.Service
}

// NewManageUserUseCase 创建用户管理用例
func NewManageUserUseCase(userService user.Service) *ManageUserUseCase {
	return &ManageUserUseCase{userService: userService}
}

// Get 查询用户
func (uc *ManageUserUseCase) Get(ctx context.Context, id uint) (*UserResponse, error) {
	u, err := uc.userService.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// SetStatus 变更用户状态(激活/停用)
// 停用不回收已借出的图书,只阻止后续借阅
func (uc *ManageUserUseCase) SetStatus(ctx context.Context, id uint, status string) error {
	return uc.userService.SetStatus(ctx, id, user.Status(status))
}
