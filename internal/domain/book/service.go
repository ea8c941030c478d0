package book

import (
	"context"
	"regexp"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// RegisterBook 图书入馆(上架)
	// 业务规则:
	// - ISBN格式必须合法(10位或13位数字)
	// - 副本数必须>=1
	// - ISBN不能重复
	RegisterBook(ctx context.Context, isbn, title, author, publisher string, price int64, totalCopies int, description string) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// GetBookByISBN 根据ISBN获取图书
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)

	// UpdateBookInfo 更新图书基本信息
	UpdateBookInfo(ctx context.Context, id uint, title, author, publisher, description string) error

	// RemoveBook 图书下架
	// 业务规则:馆藏副本必须全部在馆(无未归还借阅)才能下架
	RemoveBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// RegisterBook 图书入馆
func (s *service) RegisterBook(ctx context.Context, isbn, title, author, publisher string, price int64, totalCopies int, description string) (*Book, error) {
	// 1. ISBN格式校验
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}

	// 2. 副本数校验
	if totalCopies < 1 {
		return nil, ErrInvalidCopies
	}

	// 3. 检查ISBN是否已存在(数据库唯一索引兜底)
	existing, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil && existing != nil {
		return nil, ErrISBNDuplicate
	}
	if err != nil && err != ErrBookNotFound {
		return nil, err
	}

	// 4. 创建图书实体并持久化
	b := NewBook(isbn, title, author, publisher, price, totalCopies, description)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBookByISBN 根据ISBN获取图书
func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}
	return s.repo.FindByISBN(ctx, isbn)
}

// UpdateBookInfo 更新图书基本信息
func (s *service) UpdateBookInfo(ctx context.Context, id uint, title, author, publisher, description string) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	b.UpdateInfo(title, author, publisher, description)
	return s.repo.Update(ctx, b)
}

// RemoveBook 图书下架
// 业务规则:有副本在外(AvailableCopies < TotalCopies)时拒绝删除,
// 避免悬空的借阅记录指向不存在的图书
func (s *service) RemoveBook(ctx context.Context, id uint) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if b.AvailableCopies < b.TotalCopies {
		return ErrBookInUse
	}

	return s.repo.Delete(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// isValidISBN 校验ISBN格式
// 支持ISBN-10和ISBN-13,允许带分隔符(978-7-115-42802-8)
// 简化实现:只检查位数和是否全为数字(生产环境应校验校验位)
func isValidISBN(isbn string) bool {
	re := regexp.MustCompile(`[^0-9]`)
	cleanISBN := re.ReplaceAllString(isbn, "")

	length := len(cleanISBN)
	return length == 10 || length == 13
}
