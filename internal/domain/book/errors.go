package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrNoCopiesAvailable 无可借副本
	ErrNoCopiesAvailable = apperrors.New(apperrors.ErrCodeNoCopies, "无可借副本")

	// ErrCopiesExceedTotal 可借副本数超过馆藏总数
	// 防御性检查: 调用纪律正确时不应触发,触发说明出现了重复归还之类的缺陷
	ErrCopiesExceedTotal = apperrors.New(apperrors.ErrCodeInvariant, "可借副本数超过馆藏总数")

	// ErrInvalidCopies 无效的副本数
	ErrInvalidCopies = apperrors.New(apperrors.ErrCodeInvalidParams, "副本数必须大于0")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	// ErrBookInUse 图书仍有未归还的借阅
	ErrBookInUse = apperrors.New(apperrors.ErrCodeBookInUse, "图书仍有未归还的借阅，不能删除")
)
