package borrowing

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
// 设计说明:每个被拒绝的前置条件都有独立的错误码,调用方可以按原因分支,
// 不会收到笼统的"操作失败"
var (
	// ErrBorrowingNotFound 借阅记录不存在
	ErrBorrowingNotFound = apperrors.New(apperrors.ErrCodeBorrowingNotFound, "借阅记录不存在")

	// ErrAlreadyReturned 借阅已归还(重复归还)
	ErrAlreadyReturned = apperrors.New(apperrors.ErrCodeAlreadyReturned, "图书已归还")

	// ErrBorrowLimitExceeded 达到借阅上限
	ErrBorrowLimitExceeded = apperrors.New(apperrors.ErrCodeBorrowLimit, "已达到借阅上限")

	// ErrInvalidLoanDays 借期天数不合法
	ErrInvalidLoanDays = apperrors.New(apperrors.ErrCodeInvalidParams, "借期天数必须大于0")

	// ErrInvalidID 用户ID或图书ID不合法
	ErrInvalidID = apperrors.New(apperrors.ErrCodeInvalidParams, "用户ID和图书ID不能为空")
)
