package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ManageBookUseCase 图书维护用例(信息更新/下架)
// 写操作后删除缓存,下次读取时重建
type ManageBookUseCase struct {
	bookService book.Service
	cache       Cache // 可为nil
}

// NewManageBookUseCase 创建图书维护用例
func NewManageBookUseCase(bookService book.Service, cache Cache) *ManageBookUseCase {
	return &ManageBookUseCase{bookService: bookService, cache: cache}
}

// UpdateBookRequest 图书信息更新请求DTO
// 空字段表示不修改
type UpdateBookRequest struct {
	ID          uint
	Title       string
	Author      string
	Publisher   string
	Description string
}

// Update 更新图书基本信息
func (uc *ManageBookUseCase) Update(ctx context.Context, req UpdateBookRequest) error {
	if err := uc.bookService.UpdateBookInfo(ctx, req.ID, req.Title,
		req.Author, req.Publisher, req.Description); err != nil {
		return err
	}

	if uc.cache != nil {
		uc.cache.Delete(ctx, req.ID)
	}
	return nil
}

// Remove 图书下架
// 业务规则:有副本在外时拒绝(见domain层RemoveBook)
func (uc *ManageBookUseCase) Remove(ctx context.Context, id uint) error {
	if err := uc.bookService.RemoveBook(ctx, id); err != nil {
		return err
	}

	if uc.cache != nil {
		uc.cache.Delete(ctx, id)
	}
	return nil
}
