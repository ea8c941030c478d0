package borrowing

import (
	"context"
	"sync"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrowing"
	"github.com/xiebiao/library/internal/domain/user"
)

// 内存仓储假实现
// 用例只依赖接口,单元测试不需要真实MySQL:
// 1. memStore用map保存三类实体,fakeTxManager用互斥锁串行化事务,
//    模拟行锁对并发借阅的排队效果
// 2. 事务开始时对store做快照,fn返回error时整体恢复,模拟ROLLBACK

type memStore struct {
	mu         sync.Mutex
	users      map[uint]user.User
	books      map[uint]book.Book
	borrowings map[uint]borrowing.Borrowing
	nextID     uint
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uint]user.User),
		books:      make(map[uint]book.Book),
		borrowings: make(map[uint]borrowing.Borrowing),
		nextID:     1,
	}
}

func (s *memStore) snapshot() (map[uint]user.User, map[uint]book.Book, map[uint]borrowing.Borrowing, uint) {
	users := make(map[uint]user.User, len(s.users))
	for k, v := range s.users {
		users[k] = v
	}
	books := make(map[uint]book.Book, len(s.books))
	for k, v := range s.books {
		books[k] = v
	}
	borrowings := make(map[uint]borrowing.Borrowing, len(s.borrowings))
	for k, v := range s.borrowings {
		borrowings[k] = v
	}
	return users, books, borrowings, s.nextID
}

// fakeTxManager 内存事务管理器
// 互斥锁把所有事务串行化(比真实数据库的行锁更粗,但并发语义一致)
type fakeTxManager struct {
	store *memStore
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	users, books, borrowings, nextID := m.store.snapshot()
	if err := fn(ctx); err != nil {
		// ROLLBACK:恢复快照,事务内的修改全部丢弃
		m.store.users = users
		m.store.books = books
		m.store.borrowings = borrowings
		m.store.nextID = nextID
		return err
	}
	return nil
}

// fakeUserRepo 内存用户仓储
type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.store.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			v := u
			return &v, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) LockByID(ctx context.Context, id uint) (*user.User, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	r.store.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	delete(r.store.users, id)
	return nil
}

// fakeBookRepo 内存图书仓储
type fakeBookRepo struct {
	store *memStore
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.store.books[b.ID] = *b
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := r.store.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

func (r *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	for _, b := range r.store.books {
		if b.ISBN == isbn {
			v := b
			return &v, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error {
	r.store.books[b.ID] = *b
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	delete(r.store.books, id)
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var out []*book.Book
	for _, b := range r.store.books {
		v := b
		out = append(out, &v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

// ReserveCopy 守卫式扣减:判断和扣减一起做,与MySQL实现的语义一致
func (r *fakeBookRepo) ReserveCopy(ctx context.Context, id uint) error {
	b, ok := r.store.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.AvailableCopies <= 0 {
		return book.ErrNoCopiesAvailable
	}
	b.AvailableCopies--
	r.store.books[id] = b
	return nil
}

func (r *fakeBookRepo) ReleaseCopy(ctx context.Context, id uint) error {
	b, ok := r.store.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.AvailableCopies >= b.TotalCopies {
		return book.ErrCopiesExceedTotal
	}
	b.AvailableCopies++
	r.store.books[id] = b
	return nil
}

func (r *fakeBookRepo) UpdateAvailableCopies(ctx context.Context, id uint, newCount int) error {
	b, ok := r.store.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if newCount < 0 || newCount > b.TotalCopies {
		return book.ErrInvalidCopies
	}
	b.AvailableCopies = newCount
	r.store.books[id] = b
	return nil
}

// fakeBorrowingRepo 内存借阅仓储
type fakeBorrowingRepo struct {
	store *memStore

	// createErr 注入Create失败(测试事务回滚)
	createErr error
}

func (r *fakeBorrowingRepo) Create(ctx context.Context, b *borrowing.Borrowing) error {
	if r.createErr != nil {
		return r.createErr
	}
	b.ID = r.store.nextID
	r.store.nextID++
	r.store.borrowings[b.ID] = *b
	return nil
}

func (r *fakeBorrowingRepo) FindByID(ctx context.Context, id uint) (*borrowing.Borrowing, error) {
	b, ok := r.store.borrowings[id]
	if !ok {
		return nil, borrowing.ErrBorrowingNotFound
	}
	return &b, nil
}

func (r *fakeBorrowingRepo) LockByID(ctx context.Context, id uint) (*borrowing.Borrowing, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBorrowingRepo) FindByUserID(ctx context.Context, userID uint) ([]*borrowing.Borrowing, error) {
	var out []*borrowing.Borrowing
	for _, b := range r.store.borrowings {
		if b.UserID == userID {
			v := b
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r *fakeBorrowingRepo) FindByBookID(ctx context.Context, bookID uint) ([]*borrowing.Borrowing, error) {
	var out []*borrowing.Borrowing
	for _, b := range r.store.borrowings {
		if b.BookID == bookID {
			v := b
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r *fakeBorrowingRepo) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	for _, b := range r.store.borrowings {
		if b.UserID == userID && b.Status == borrowing.StatusBorrowed {
			n++
		}
	}
	return n, nil
}

func (r *fakeBorrowingRepo) Update(ctx context.Context, b *borrowing.Borrowing) error {
	if _, ok := r.store.borrowings[b.ID]; !ok {
		return borrowing.ErrBorrowingNotFound
	}
	r.store.borrowings[b.ID] = *b
	return nil
}

func (r *fakeBorrowingRepo) Delete(ctx context.Context, id uint) error {
	delete(r.store.borrowings, id)
	return nil
}

// fakePublisher 记录发布的事件
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	routingKey string
	message    interface{}
}

func (p *fakePublisher) Publish(routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{routingKey: routingKey, message: message})
	return nil
}

// fakeCache 记录缓存失效调用
type fakeCache struct {
	mu      sync.Mutex
	deleted []uint
}

func (c *fakeCache) Delete(ctx context.Context, id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, id)
}

// testEnv 组装一套完整的测试环境
type testEnv struct {
	store         *memStore
	txManager     *fakeTxManager
	userRepo      *fakeUserRepo
	bookRepo      *fakeBookRepo
	borrowingRepo *fakeBorrowingRepo
	publisher     *fakePublisher
	cache         *fakeCache
}

func newTestEnv() *testEnv {
	store := newMemStore()
	return &testEnv{
		store:         store,
		txManager:     &fakeTxManager{store: store},
		userRepo:      &fakeUserRepo{store: store},
		bookRepo:      &fakeBookRepo{store: store},
		borrowingRepo: &fakeBorrowingRepo{store: store},
		publisher:     &fakePublisher{},
		cache:         &fakeCache{},
	}
}

// addUser 预置一个用户
func (e *testEnv) addUser(id uint, status user.Status) {
	u := user.NewUser("reader", "reader@example.com", "读者", "13800000000")
	u.ID = id
	u.Status = status
	e.store.users[id] = *u
}

// addBook 预置一本图书
func (e *testEnv) addBook(id uint, total, available int) {
	b := book.NewBook("isbn-test", "测试图书", "作者", "出版社", 9900, total, "")
	b.ID = id
	b.AvailableCopies = available
	e.store.books[id] = *b
}
