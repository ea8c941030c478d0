package user

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/user"
)

// RegisterUserUseCase 用户注册用例(图书馆办证)
type RegisterUserUseCase struct {
	userService user.Service
}

// NewRegisterUserUseCase 创建用户注册用例
func NewRegisterUserUseCase(userService user.Service) *RegisterUserUseCase {
	return &RegisterUserUseCase{userService: userService}
}

// RegisterUserRequest 注册请求DTO
type RegisterUserRequest struct {
	Username string
	Email    string
	FullName string
	Phone    string
}

// UserResponse 用户响应DTO
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行用户注册
func (uc *RegisterUserUseCase) Execute(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	u, err := uc.userService.Register(ctx, req.Username, req.Email, req.FullName, req.Phone)
	if err != nil {
		return nil, err
	}

	return toUserResponse(u), nil
}

// toUserResponse 领域实体 → 响应DTO
func toUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
