package borrowing

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrowing"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/tracing"
)

// DefaultLoanDays 默认借期(天)
const DefaultLoanDays = 14

// BorrowBookUseCase 借书用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制、业务规则校验
type BorrowBookUseCase struct {
	borrowingRepo borrowing.Repository
	bookRepo      book.Repository
	userRepo      user.Repository
	txManager     TxManager
	publisher     EventPublisher // 可为nil(未部署MQ的环境)
	cache         BookCache      // 可为nil(未部署Redis的环境)
}

// NewBorrowBookUseCase 创建借书用例
func NewBorrowBookUseCase(
	borrowingRepo borrowing.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
	txManager TxManager,
	publisher EventPublisher,
	cache BookCache,
) *BorrowBookUseCase {
	return &BorrowBookUseCase{
		borrowingRepo: borrowingRepo,
		bookRepo:      bookRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		publisher:     publisher,
		cache:         cache,
	}
}

// BorrowBookRequest 借书请求DTO
type BorrowBookRequest struct {
	UserID   uint // 借阅人ID
	BookID   uint // 图书ID
	LoanDays int  // 借期天数(0表示使用默认借期)
}

// BorrowingResponse 借阅记录响应DTO
type BorrowingResponse struct {
	BorrowingID uint   `json:"borrowing_id"`
	UserID      uint   `json:"user_id"`
	BookID      uint   `json:"book_id"`
	BorrowDate  string `json:"borrow_date"`
	DueDate     string `json:"due_date"`
	ReturnDate  string `json:"return_date,omitempty"` // 未归还为空
	Status      string `json:"status"`
	FineAmount  int64  `json:"fine_amount"` // 当前应收罚款(未归还按现在预估)
}

// Execute 执行借书用例
// 教学重点:防止超借的完整流程
//
// 两个并发问题必须同时解决:
//
// 问题1:副本超借
// 场景:图书剩1个副本,两人同时借
// 错误实现:查询副本数→判断>0→减1,两个请求都通过判断,副本数变成-1
// 解决:守卫式UPDATE(WHERE available_copies > 0),判断和扣减在一条语句内
//
// 问题2:借阅上限击穿
// 场景:用户已借4本,同时发起两次借阅
// 错误实现:COUNT未归还→判断<5→插入,两个请求都数到4,最终6本
// 解决:先SELECT FOR UPDATE锁定用户行,COUNT在行锁内执行,
// 同一用户的并发借阅被串行化
//
// 事务内执行顺序(锁定顺序固定为 用户行→图书行,避免交叉死锁):
//  1. 锁定用户行,检查用户状态
//  2. 图书存在性检查(不加锁,借不存在的图书要报图书不存在而非上限)
//  3. 统计活跃借阅数,检查上限
//  4. 锁定图书行,检查可借副本
//  5. 插入借阅记录
//  6. 守卫式扣减副本计数
//  7. COMMIT(全部成功)或ROLLBACK(任一步失败,无部分效果)
func (uc *BorrowBookUseCase) Execute(ctx context.Context, req BorrowBookRequest) (*BorrowingResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "library", "BorrowBook")
	defer span.End()

	// 1. 参数校验
	if req.UserID == 0 || req.BookID == 0 {
		return nil, borrowing.ErrInvalidID
	}
	loanDays := req.LoanDays
	if loanDays == 0 {
		loanDays = DefaultLoanDays
	}
	if loanDays < 0 {
		return nil, borrowing.ErrInvalidLoanDays
	}

	var result *borrowing.Borrowing
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定用户行(串行化借阅上限检查)
		// ========================================
		u, err := uc.userRepo.LockByID(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if !u.IsActive() {
			return user.ErrUserInactive
		}

		// ========================================
		// 步骤2:图书存在性检查
		// 不加锁,真正的锁定在步骤4,保持用户行→图书行的固定锁序
		// ========================================
		if _, err := uc.bookRepo.FindByID(txCtx, req.BookID); err != nil {
			return err
		}

		// ========================================
		// 步骤3:借阅上限检查
		// 此时持有用户行锁,并发借阅的COUNT在这里排队
		// ========================================
		active, err := uc.borrowingRepo.CountActiveByUser(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if active >= borrowing.MaxActiveBorrowings {
			return borrowing.ErrBorrowLimitExceeded
		}

		// ========================================
		// 步骤4:锁定图书行,检查可借副本
		// 教学要点:必须在锁定后检查,否则并发扣减导致超借
		// ========================================
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}
		if !b.HasAvailableCopy() {
			return book.ErrNoCopiesAvailable
		}

		// ========================================
		// 步骤5:创建借阅记录
		// ========================================
		nb := borrowing.NewBorrowing(req.UserID, req.BookID, loanDays)
		if err := uc.borrowingRepo.Create(txCtx, nb); err != nil {
			return err
		}

		// ========================================
		// 步骤6:扣减可借副本
		// 守卫式UPDATE兜底:即使锁逻辑有漏洞,计数也不会变负
		// ========================================
		if err := uc.bookRepo.ReserveCopy(txCtx, req.BookID); err != nil {
			// 扣减失败整个事务回滚,借阅记录不会留下
			return err
		}

		result = nb
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 事务已提交,缓存失效与事件发布是尽力而为的后置动作,
	// 失败只记日志,不能让已提交的借阅"失败"
	uc.invalidateCache(ctx, req.BookID)
	uc.publishCreated(result)

	return toBorrowingResponse(result, time.Now()), nil
}

// invalidateCache 删除图书缓存(副本计数已变化)
func (uc *BorrowBookUseCase) invalidateCache(ctx context.Context, bookID uint) {
	if uc.cache != nil {
		uc.cache.Delete(ctx, bookID)
	}
}

// publishCreated 发布借阅成功事件
func (uc *BorrowBookUseCase) publishCreated(b *borrowing.Borrowing) {
	if uc.publisher == nil {
		return
	}
	event := BorrowingCreatedEvent{
		BorrowingID: b.ID,
		UserID:      b.UserID,
		BookID:      b.BookID,
		BorrowDate:  b.BorrowDate.Format(time.RFC3339),
		DueDate:     b.DueDate.Format(time.RFC3339),
	}
	if err := uc.publisher.Publish(RoutingKeyBorrowingCreated, event); err != nil {
		log.Printf("[borrowing] 发布借阅事件失败: borrowing_id=%d err=%v", b.ID, err)
	}
}

// toBorrowingResponse 领域实体 → 响应DTO
func toBorrowingResponse(b *borrowing.Borrowing, now time.Time) *BorrowingResponse {
	resp := &BorrowingResponse{
		BorrowingID: b.ID,
		UserID:      b.UserID,
		BookID:      b.BookID,
		BorrowDate:  b.BorrowDate.Format(time.RFC3339),
		DueDate:     b.DueDate.Format(time.RFC3339),
		Status:      b.Status.String(),
		FineAmount:  b.FineAt(now),
	}
	if b.ReturnDate != nil {
		resp.ReturnDate = b.ReturnDate.Format(time.RFC3339)
	}
	return resp
}
