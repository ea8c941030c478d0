package dto

// RegisterUserRequest 用户注册请求(图书馆办证)
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"zhangsan"`
	Email    string `json:"email" binding:"required,email" example:"zhangsan@example.com"`
	FullName string `json:"full_name" binding:"required,max=100" example:"张三"`
	Phone    string `json:"phone" binding:"omitempty,max=20" example:"13800138000"`
}

// SetUserStatusRequest 用户状态变更请求
type SetUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive" example:"inactive"`
}

// UserResponse 用户响应
type UserResponse struct {
	ID        uint   `json:"id" example:"1"`
	Username  string `json:"username" example:"zhangsan"`
	Email     string `json:"email" example:"zhangsan@example.com"`
	FullName  string `json:"full_name" example:"张三"`
	Phone     string `json:"phone" example:"13800138000"`
	Role      string `json:"role" example:"member"`
	Status    string `json:"status" example:"active"`
	CreatedAt string `json:"created_at"`
}
