package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// Cache 图书缓存接口(Cache-Aside)
// redis.BookCache满足此接口
type Cache interface {
	// Get 未命中或缓存不可用时返回error,调用方回源数据库
	Get(ctx context.Context, id uint) (*book.Book, error)
	// Set 写入缓存,失败由实现内部消化(记日志),不阻断业务
	Set(ctx context.Context, b *book.Book)
	// Delete 删除缓存
	Delete(ctx context.Context, id uint)
}

// GetBookUseCase 图书详情查询用例
// 读路径:缓存 → 数据库 → 回填缓存
// 缓存任何故障(未命中/Redis宕机/熔断器打开)都回源数据库,
// 缓存只加速,不参与正确性
type GetBookUseCase struct {
	bookService book.Service
	cache       Cache // 可为nil
}

// NewGetBookUseCase 创建图书详情查询用例
func NewGetBookUseCase(bookService book.Service, cache Cache) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, cache: cache}
}

// ByID 根据ID查询图书详情
func (uc *GetBookUseCase) ByID(ctx context.Context, id uint) (*BookResponse, error) {
	// 1. 查缓存
	if uc.cache != nil {
		if b, err := uc.cache.Get(ctx, id); err == nil {
			return toBookResponse(b), nil
		}
	}

	// 2. 回源数据库
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. 回填缓存
	if uc.cache != nil {
		uc.cache.Set(ctx, b)
	}

	return toBookResponse(b), nil
}

// ByISBN 根据ISBN查询图书
// ISBN查询频率低,不走缓存
func (uc *GetBookUseCase) ByISBN(ctx context.Context, isbn string) (*BookResponse, error) {
	b, err := uc.bookService.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	return toBookResponse(b), nil
}
