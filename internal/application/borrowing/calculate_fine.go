package borrowing

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/borrowing"
)

// CalculateFineUseCase 罚款查询用例
// 只读操作,不修改任何状态,不需要事务
type CalculateFineUseCase struct {
	borrowingRepo borrowing.Repository
}

// NewCalculateFineUseCase 创建罚款查询用例
func NewCalculateFineUseCase(borrowingRepo borrowing.Repository) *CalculateFineUseCase {
	return &CalculateFineUseCase{borrowingRepo: borrowingRepo}
}

// FineResponse 罚款查询响应DTO
type FineResponse struct {
	BorrowingID uint   `json:"borrowing_id"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
	Overdue     bool   `json:"overdue"`
	OverdueDays int64  `json:"overdue_days"`
	FineAmount  int64  `json:"fine_amount"` // 最小货币单位
	FinePerDay  int64  `json:"fine_per_day"`
	Finalized   bool   `json:"finalized"` // true表示已归还,金额不再变化
}

// Execute 查询借阅的罚款
// 语义:
// - 未归还的借阅按当前时间预估(只读预览,不落库)
// - 已归还的借阅按实际归还时间定格
// - 未逾期返回0
func (uc *CalculateFineUseCase) Execute(ctx context.Context, borrowingID uint) (*FineResponse, error) {
	if borrowingID == 0 {
		return nil, borrowing.ErrInvalidID
	}

	b, err := uc.borrowingRepo.FindByID(ctx, borrowingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &FineResponse{
		BorrowingID: b.ID,
		Status:      b.Status.String(),
		DueDate:     b.DueDate.Format(time.RFC3339),
		Overdue:     b.IsOverdueAt(now),
		OverdueDays: b.OverdueDaysAt(now),
		FineAmount:  b.FineAt(now),
		FinePerDay:  borrowing.FinePerDay,
		Finalized:   !b.IsActive(),
	}, nil
}
