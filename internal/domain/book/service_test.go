package book

import (
	"context"
	"testing"
)

// mockRepo 内存图书仓储(只实现Service用到的方法)
type mockRepo struct {
	Repository
	books map[string]*Book
}

func newMockRepo() *mockRepo {
	return &mockRepo{books: make(map[string]*Book)}
}

func (r *mockRepo) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	if b, ok := r.books[isbn]; ok {
		return b, nil
	}
	return nil, ErrBookNotFound
}

func (r *mockRepo) Create(ctx context.Context, b *Book) error {
	b.ID = uint(len(r.books) + 1)
	r.books[b.ISBN] = b
	return nil
}

func (r *mockRepo) FindByID(ctx context.Context, id uint) (*Book, error) {
	for _, b := range r.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrBookNotFound
}

func (r *mockRepo) Delete(ctx context.Context, id uint) error {
	for isbn, b := range r.books {
		if b.ID == id {
			delete(r.books, isbn)
			return nil
		}
	}
	return ErrBookNotFound
}

// TestRegisterBook 测试图书入馆的业务规则
func TestRegisterBook(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	t.Run("正常入馆", func(t *testing.T) {
		b, err := svc.RegisterBook(ctx, "9787115428028", "Go语言实战", "William Kennedy", "人民邮电出版社", 7900, 3, "")
		if err != nil {
			t.Fatalf("入馆失败: %v", err)
		}
		if b.AvailableCopies != 3 {
			t.Errorf("新书可借数错误: expected=3, got=%d", b.AvailableCopies)
		}
	})

	t.Run("带分隔符的ISBN", func(t *testing.T) {
		_, err := svc.RegisterBook(ctx, "978-7-115-42802-9", "测试图书", "作者", "", 0, 1, "")
		if err != nil {
			t.Errorf("带分隔符的ISBN应该合法: %v", err)
		}
	})

	t.Run("非法ISBN", func(t *testing.T) {
		_, err := svc.RegisterBook(ctx, "12345", "测试图书", "作者", "", 0, 1, "")
		if err != ErrInvalidISBN {
			t.Errorf("期望ErrInvalidISBN，实际%v", err)
		}
	})

	t.Run("副本数为0", func(t *testing.T) {
		_, err := svc.RegisterBook(ctx, "9787115428030", "测试图书", "作者", "", 0, 0, "")
		if err != ErrInvalidCopies {
			t.Errorf("期望ErrInvalidCopies，实际%v", err)
		}
	})

	t.Run("重复ISBN", func(t *testing.T) {
		_, err := svc.RegisterBook(ctx, "9787115428028", "另一本", "作者", "", 0, 1, "")
		if err != ErrISBNDuplicate {
			t.Errorf("期望ErrISBNDuplicate，实际%v", err)
		}
	})
}

// TestRemoveBook 测试图书下架的业务规则
// 有副本在外时拒绝,避免悬空的借阅记录
func TestRemoveBook(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	b, err := svc.RegisterBook(ctx, "9787115428031", "测试图书", "作者", "", 0, 2, "")
	if err != nil {
		t.Fatalf("入馆失败: %v", err)
	}

	// 有副本在外时拒绝下架
	b.AvailableCopies = 1
	if err := svc.RemoveBook(ctx, b.ID); err != ErrBookInUse {
		t.Errorf("期望ErrBookInUse，实际%v", err)
	}

	// 全部在馆时可以下架
	b.AvailableCopies = 2
	if err := svc.RemoveBook(ctx, b.ID); err != nil {
		t.Errorf("下架失败: %v", err)
	}
}
