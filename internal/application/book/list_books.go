package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建图书列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	SortBy   string // 排序(created_at_desc/title_asc)
}

// Execute 执行列表查询
// 分页参数越界时修正为默认值,不报错
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) ([]*BookResponse, int64, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, 0, err
	}

	resps := make([]*BookResponse, len(books))
	for i, b := range books {
		resps[i] = toBookResponse(b)
	}

	return resps, total, nil
}
