package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")

	// ErrUserInactive 用户未激活（不能借阅）
	ErrUserInactive = apperrors.New(apperrors.ErrCodeUserInactive, "用户未激活，不能借阅")

	// ErrUsernameTaken 用户名已存在
	ErrUsernameTaken = apperrors.New(apperrors.ErrCodeUsernameTaken, "用户名已存在")

	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

	// ErrInvalidUsername 用户名不合法
	ErrInvalidUsername = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名长度应为3-50个字符")

	// ErrInvalidRole 角色不合法
	ErrInvalidRole = apperrors.New(apperrors.ErrCodeInvalidParams, "角色只能是member或admin")

	// ErrInvalidStatus 状态不合法
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "状态只能是active或inactive")
)
