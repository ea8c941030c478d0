package book

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
)

// RegisterBookUseCase 图书入馆用例
type RegisterBookUseCase struct {
	bookService book.Service
}

// NewRegisterBookUseCase 创建图书入馆用例
func NewRegisterBookUseCase(bookService book.Service) *RegisterBookUseCase {
	return &RegisterBookUseCase{bookService: bookService}
}

// RegisterBookRequest 图书入馆请求DTO
type RegisterBookRequest struct {
	ISBN        string
	Title       string
	Author      string
	Publisher   string
	Price       int64 // 最小货币单位
	TotalCopies int
	Description string
}

// BookResponse 图书响应DTO
type BookResponse struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	Price           int64  `json:"price"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
}

// Execute 执行图书入馆
func (uc *RegisterBookUseCase) Execute(ctx context.Context, req RegisterBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.RegisterBook(ctx, req.ISBN, req.Title, req.Author,
		req.Publisher, req.Price, req.TotalCopies, req.Description)
	if err != nil {
		return nil, err
	}

	return toBookResponse(b), nil
}

// toBookResponse 领域实体 → 响应DTO
func toBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		Price:           b.Price,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}
