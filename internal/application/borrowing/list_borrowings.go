package borrowing

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/borrowing"
)

// ListBorrowingsUseCase 借阅记录查询用例
type ListBorrowingsUseCase struct {
	borrowingRepo borrowing.Repository
}

// NewListBorrowingsUseCase 创建借阅记录查询用例
func NewListBorrowingsUseCase(borrowingRepo borrowing.Repository) *ListBorrowingsUseCase {
	return &ListBorrowingsUseCase{borrowingRepo: borrowingRepo}
}

// ByUser 查询用户的全部借阅记录(含已归还)
func (uc *ListBorrowingsUseCase) ByUser(ctx context.Context, userID uint) ([]*BorrowingResponse, error) {
	if userID == 0 {
		return nil, borrowing.ErrInvalidID
	}

	list, err := uc.borrowingRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toBorrowingResponses(list), nil
}

// ByBook 查询图书的全部借阅记录
func (uc *ListBorrowingsUseCase) ByBook(ctx context.Context, bookID uint) ([]*BorrowingResponse, error) {
	if bookID == 0 {
		return nil, borrowing.ErrInvalidID
	}

	list, err := uc.borrowingRepo.FindByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return toBorrowingResponses(list), nil
}

// Get 查询单条借阅记录
func (uc *ListBorrowingsUseCase) Get(ctx context.Context, id uint) (*BorrowingResponse, error) {
	if id == 0 {
		return nil, borrowing.ErrInvalidID
	}

	b, err := uc.borrowingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toBorrowingResponse(b, time.Now()), nil
}

func toBorrowingResponses(list []*borrowing.Borrowing) []*BorrowingResponse {
	now := time.Now()
	resps := make([]*BorrowingResponse, len(list))
	for i, b := range list {
		resps[i] = toBorrowingResponse(b, now)
	}
	return resps
}
