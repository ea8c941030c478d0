package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突错误
// MySQL错误码:
// - 1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// GORM v2的错误判断
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查:错误信息包含"Duplicate entry"
	return strings.Contains(err.Error(), "Duplicate entry")
}

// isConflictError 判断是否为事务冲突错误(死锁/锁等待超时)
// MySQL错误码:
// - 1213: Deadlock found when trying to get lock
// - 1205: Lock wait timeout exceeded
// 这两类错误回滚后重试即可成功,映射为可重试的业务错误
func isConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Deadlock found") ||
		strings.Contains(msg, "Lock wait timeout")
}

// wrapDBError 包装数据库错误
// 事务冲突转换为可重试错误码,其余统一包装为服务端错误
func wrapDBError(err error, message string) error {
	if isConflictError(err) {
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeTxConflict,
			Message: "操作冲突，请稍后重试",
			Err:     err,
		}
	}
	return apperrors.Wrap(err, message)
}
