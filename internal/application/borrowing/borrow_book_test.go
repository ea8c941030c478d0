package borrowing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrowing"
	"github.com/xiebiao/library/internal/domain/user"
)

// TestBorrowBook_Success 测试正常借书
func TestBorrowBook_Success(t *testing.T) {
	env := newTestEnv()
	env.addUser(1, user.StatusActive)
	env.addBook(10, 3, 3)

	uc := NewBorrowBookUseCase(
		env.borrowingRepo, env.bookRepo, env.userRepo,
		env.txManager, env.publisher, env.cache)

	resp, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 10})
	if err != nil {
		t.Fatalf("借书失败: %v", err)
	}

	if resp.BorrowingID == 0 {
		t.Error("借阅ID未回填")
	}
	if resp.Status != "borrowed" {
		t.Errorf("状态错误: expected=borrowed, got=%s", resp.Status)
	}
	if resp.FineAmount != 0 {
		t.Errorf("新借阅不应有罚款: got=%d", resp.FineAmount)
	}

	// 副本计数扣减
	b := env.store.books[10]
	if b.AvailableCopies != 2 {
		t.Errorf("可借数错误: expected=2, got=%d", b.AvailableCopies)
	}

	// 借书成功后发布事件、删除图书缓存
	if len(env.publisher.events) != 1 || env.publisher.events[0].routingKey != RoutingKeyBorrowingCreated {
		t.Errorf("期望发布%s事件，实际%v", RoutingKeyBorrowingCreated, env.publisher.events)
	}
	if len(env.cache.deleted) != 1 || env.cache.deleted[0] != 10 {
		t.Errorf("期望删除图书10的缓存，实际%v", env.cache.deleted)
	}

	t.Log("✅ 正常借书测试通过")
}

// TestBorrowBook_DefaultLoanDays 测试默认借期
func TestBorrowBook_DefaultLoanDays(t *testing.T) {
	env := newTestEnv()
	env.addUser(1, user.StatusActive)
	env.addBook(10, 1, 1)

	uc := NewBorrowBookUseCase(
		env.borrowingRepo, env.bookRepo, env.userRepo,
		env.txManager, nil, nil) // publisher/cache为nil也能工作

	resp, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 10})
	if err != nil {
		t.Fatalf("借书失败: %v", err)
	}

	stored := env.store.borrowings[resp.BorrowingID]
	wantDue := stored.BorrowDate.AddDate(0, 0, DefaultLoanDays)
	if !stored.DueDate.Equal(wantDue) {
		t.Errorf("默认借期错误: expected=%v, got=%v", wantDue, stored.DueDate)
	}

	t.Log("✅ 默认借期测试通过")
}

// TestBorrowBook_Rejections 测试各类拒绝场景
func TestBorrowBook_Rejections(t *testing.T) {
	t.Run("无可借副本", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(1, user.StatusActive)
		env.addBook(10, 3, 0)

		uc := NewBorrowBookUseCase(
			env.borrowingRepo, env.bookRepo, env.userRepo,
			env.txManager, env.publisher, env.cache)

		_, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 10})
		if !errors.Is(err, book.ErrNoCopiesAvailable) {
			t.Errorf("期望ErrNoCopiesAvailable，实际%v", err)
		}
		if len(env.store.borrowings) != 0 {
			t.Error("被拒绝的借阅不应留下记录")
		}
		if len(env.publisher.events) != 0 {
			t.Error("被拒绝的借阅不应发布事件")
		}
	})

	t.Run("达到借阅上限", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(1, user.StatusActive)
		env.addBook(10, 10, 10)

		uc := NewBorrowBookUseCase(
			env.borrowingRepo, env.bookRepo, env.userRepo,
			env.txManager, nil, nil)

		// 先借满5本
		for i := 0; i < borrowing.MaxActiveBorrowings; i++ {
			if _, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 10}); err != nil {
				t.Fatalf("第%d次借书失败: %v", i+1, err)
			}
		}

		// 第6本被拒绝
		_, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 10})
		if !errors.Is(err, borrowing.ErrBorrowLimitExceeded) {
			t.Errorf("期望ErrBorrowLimitExceeded，实际%v", err)
		}

		// 拒绝不能扣减副本
		b := env.store.books[10]
		if b.AvailableCopies != 10-borrowing.MaxActiveBorrowings {
			t.Errorf("可借数错误: expected=%d, got=%d",
				10-borrowing.MaxActiveBorrowings, b.AvailableCopies)
		}
	})

	t.Run("停用用户", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(1, user.StatusInactive)
		env.addBook(10, 1, 1)

		uc := NewBorrowBookUseCase(
			env.borrowingRepo, env.bookRepo, env.userRepo,
			env.txManager, nil, nil)

		_, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 10})
		if !errors.Is(err, user.ErrUserInactive) {
			t.Errorf("期望ErrUserInactive，实际%v", err)
		}
	})

	t.Run("用户不存在", func(t *testing.T) {
		env := newTestEnv()
		env.addBook(10, 1, 1)

		uc := NewBorrowBookUseCase(
			env.borrowingRepo, env.bookRepo, env.userRepo,
			env.txManager, nil, nil)

		_, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 99, BookID: 10})
		if !errors.Is(err, user.ErrUserNotFound) {
			t.Errorf("期望ErrUserNotFound，实际%v", err)
		}
	})

	t.Run("图书不存在", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(1, user.StatusActive)

		uc := NewBorrowBookUseCase(
			env.borrowingRepo, env.bookRepo, env.userRepo,
			env.txManager, nil, nil)

		_, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 99})
		if !errors.Is(err, book.ErrBookNotFound) {
			t.Errorf("期望ErrBookNotFound，实际%v", err)
		}
	})

	t.Run("借满后借不存在的图书报图书不存在", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(1, user.StatusActive)
		env.addBook(10, 10, 10)

		uc := NewBorrowBookUseCase(
			env.borrowingRepo, env.bookRepo, env.userRepo,
			env.txManager, nil, nil)

		for i := 0; i < borrowing.MaxActiveBorrowings; i++ {
			if _, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 10}); err != nil {
				t.Fatalf("第%d次借书失败: %v", i+1, err)
			}
		}

		// 图书存在性先于上限检查,不能把图书不存在掩盖成上限拒绝
		_, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 99})
		if !errors.Is(err, book.ErrBookNotFound) {
			t.Errorf("期望ErrBookNotFound，实际%v", err)
		}
	})

	t.Run("参数非法", func(t *testing.T) {
		env := newTestEnv()
		uc := NewBorrowBookUseCase(
			env.borrowingRepo, env.bookRepo, env.userRepo,
			env.txManager, nil, nil)

		if _, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 0, BookID: 1}); !errors.Is(err, borrowing.ErrInvalidID) {
			t.Errorf("期望ErrInvalidID，实际%v", err)
		}
		if _, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 1, LoanDays: -1}); !errors.Is(err, borrowing.ErrInvalidLoanDays) {
			t.Errorf("期望ErrInvalidLoanDays，实际%v", err)
		}
	})

	t.Log("✅ 借书拒绝场景测试通过")
}

// TestBorrowBook_Rollback 测试事务回滚
// 借阅记录插入失败时,整个事务回滚,副本计数不变
func TestBorrowBook_Rollback(t *testing.T) {
	env := newTestEnv()
	env.addUser(1, user.StatusActive)
	env.addBook(10, 2, 2)
	env.borrowingRepo.createErr = errors.New("模拟写入失败")

	uc := NewBorrowBookUseCase(
		env.borrowingRepo, env.bookRepo, env.userRepo,
		env.txManager, env.publisher, env.cache)

	_, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 10})
	if err == nil {
		t.Fatal("期望借书失败")
	}

	// 回滚后无部分效果
	if len(env.store.borrowings) != 0 {
		t.Error("回滚后不应留下借阅记录")
	}
	b := env.store.books[10]
	if b.AvailableCopies != 2 {
		t.Errorf("回滚后副本计数应还原: expected=2, got=%d", b.AvailableCopies)
	}
	if len(env.publisher.events) != 0 {
		t.Error("回滚后不应发布事件")
	}

	t.Log("✅ 事务回滚测试通过")
}

// TestBorrowBook_ConcurrentCopies 并发借同一本书不超借
// 场景:3个副本,10个用户同时借,恰好3人成功
func TestBorrowBook_ConcurrentCopies(t *testing.T) {
	env := newTestEnv()
	env.addBook(10, 3, 3)
	for i := uint(1); i <= 10; i++ {
		env.addUser(i, user.StatusActive)
	}

	uc := NewBorrowBookUseCase(
		env.borrowingRepo, env.bookRepo, env.userRepo,
		env.txManager, nil, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	success, noCopies := 0, 0

	for i := uint(1); i <= 10; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: userID, BookID: 10})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, book.ErrNoCopiesAvailable):
				noCopies++
			default:
				t.Errorf("意外错误: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if success != 3 {
		t.Errorf("成功数错误: expected=3, got=%d", success)
	}
	if noCopies != 7 {
		t.Errorf("拒绝数错误: expected=7, got=%d", noCopies)
	}

	// 守恒检查:可借数 + 活跃借阅数 == 馆藏总数
	b := env.store.books[10]
	if b.AvailableCopies != 0 {
		t.Errorf("可借数应为0: got=%d", b.AvailableCopies)
	}
	if len(env.store.borrowings) != 3 {
		t.Errorf("借阅记录数错误: expected=3, got=%d", len(env.store.borrowings))
	}

	t.Log("✅ 并发借书不超借测试通过")
}

// TestBorrowBook_ConcurrentLimit 并发借书不突破借阅上限
// 场景:同一用户同时发起10次借阅,恰好5次成功
func TestBorrowBook_ConcurrentLimit(t *testing.T) {
	env := newTestEnv()
	env.addUser(1, user.StatusActive)
	env.addBook(10, 100, 100)

	uc := NewBorrowBookUseCase(
		env.borrowingRepo, env.bookRepo, env.userRepo,
		env.txManager, nil, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	success, limited := 0, 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), BorrowBookRequest{UserID: 1, BookID: 10})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, borrowing.ErrBorrowLimitExceeded):
				limited++
			default:
				t.Errorf("意外错误: %v", err)
			}
		}()
	}
	wg.Wait()

	if success != borrowing.MaxActiveBorrowings {
		t.Errorf("成功数错误: expected=%d, got=%d", borrowing.MaxActiveBorrowings, success)
	}
	if limited != 10-borrowing.MaxActiveBorrowings {
		t.Errorf("拒绝数错误: expected=%d, got=%d", 10-borrowing.MaxActiveBorrowings, limited)
	}

	t.Log("✅ 并发借书不突破上限测试通过")
}
