package borrowing

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrowing"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReturnBookUseCase 还书用例
type ReturnBookUseCase struct {
	borrowingRepo borrowing.Repository
	bookRepo      book.Repository
	txManager     TxManager
	publisher     EventPublisher // 可为nil
	cache         BookCache      // 可为nil
}

// NewReturnBookUseCase 创建还书用例
func NewReturnBookUseCase(
	borrowingRepo borrowing.Repository,
	bookRepo book.Repository,
	txManager TxManager,
	publisher EventPublisher,
	cache BookCache,
) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		borrowingRepo: borrowingRepo,
		bookRepo:      bookRepo,
		txManager:     txManager,
		publisher:     publisher,
		cache:         cache,
	}
}

// ReturnBookRequest 还书请求DTO
type ReturnBookRequest struct {
	BorrowingID uint // 借阅记录ID
}

// ReturnBookResponse 还书响应DTO
// 罚款在归还时定格:此后不再随时间增长
type ReturnBookResponse struct {
	BorrowingID uint   `json:"borrowing_id"`
	BookID      uint   `json:"book_id"`
	ReturnDate  string `json:"return_date"`
	Status      string `json:"status"`
	OverdueDays int64  `json:"overdue_days"`
	FineAmount  int64  `json:"fine_amount"` // 最小货币单位,0表示按期归还
}

// Execute 执行还书用例
//
// 并发问题:重复归还
// 场景:同一借阅记录被并发归还两次
// 错误实现:查状态→判断是borrowed→更新,两个请求都通过判断,
// 副本计数被回增两次,突破馆藏总数
// 解决:SELECT FOR UPDATE锁定借阅记录行,后到的事务看到的已是
// returned状态,在状态检查处收到ErrAlreadyReturned
//
// 事务内执行顺序:
//  1. 锁定借阅记录行
//  2. 状态转换 borrowed → returned(重复归还在这里拒绝)
//  3. 持久化状态转换
//  4. 守卫式回增副本计数
//  5. COMMIT或ROLLBACK
//
// 归还永远不会因为逾期被拒绝:罚款只是计算并随响应返回
func (uc *ReturnBookUseCase) Execute(ctx context.Context, req ReturnBookRequest) (*ReturnBookResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "library", "ReturnBook")
	defer span.End()

	if req.BorrowingID == 0 {
		return nil, borrowing.ErrInvalidID
	}

	var result *borrowing.Borrowing
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 锁定借阅记录行(并发归还在这里排队)
		b, err := uc.borrowingRepo.LockByID(txCtx, req.BorrowingID)
		if err != nil {
			return err
		}

		// 2. 状态转换(重复归还返回ErrAlreadyReturned)
		now := time.Now()
		if err := b.MarkReturned(now); err != nil {
			return err
		}

		// 3. 持久化状态转换
		if err := uc.borrowingRepo.Update(txCtx, b); err != nil {
			return err
		}

		// 4. 回增可借副本
		// 守卫式UPDATE兜底:计数永远不会超过馆藏总数
		if err := uc.bookRepo.ReleaseCopy(txCtx, b.BookID); err != nil {
			return err
		}

		result = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 后置动作:缓存失效、事件发布(尽力而为)
	if uc.cache != nil {
		uc.cache.Delete(ctx, result.BookID)
	}
	uc.publishReturned(result)

	// 罚款按归还时间定格计算
	fine := result.FineAt(*result.ReturnDate)
	return &ReturnBookResponse{
		BorrowingID: result.ID,
		BookID:      result.BookID,
		ReturnDate:  result.ReturnDate.Format(time.RFC3339),
		Status:      result.Status.String(),
		OverdueDays: result.OverdueDaysAt(*result.ReturnDate),
		FineAmount:  fine,
	}, nil
}

// publishReturned 发布归还成功事件
func (uc *ReturnBookUseCase) publishReturned(b *borrowing.Borrowing) {
	if uc.publisher == nil {
		return
	}
	event := BorrowingReturnedEvent{
		BorrowingID: b.ID,
		UserID:      b.UserID,
		BookID:      b.BookID,
		ReturnDate:  b.ReturnDate.Format(time.RFC3339),
		FineAmount:  b.FineAt(*b.ReturnDate),
	}
	if err := uc.publisher.Publish(RoutingKeyBorrowingReturned, event); err != nil {
		log.Printf("[borrowing] 发布归还事件失败: borrowing_id=%d err=%v", b.ID, err)
	}
}
