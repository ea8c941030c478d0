package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. ReserveCopy/ReleaseCopy用守卫式UPDATE实现读-判-写的原子性:
//    条件写在WHERE里,由数据库在行锁内完成判断,两个并发借阅不可能
//    同时基于同一个旧计数通过检查
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := &BookModel{
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		Price:           b.Price,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
	}

	// 2. 插入数据库
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		// 检查是否为ISBN重复错误
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return wrapDBError(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, wrapDBError(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Where("isbn = ?", isbn).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, wrapDBError(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书信息
// 注意:Save会覆盖所有字段,不要在借阅事务中用它更新副本计数,
// 副本计数只走ReserveCopy/ReleaseCopy
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		Price:           b.Price,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt,
	}

	if err := r.getDB(ctx).Save(model).Error; err != nil {
		return wrapDBError(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&BookModel{}, id)

	if result.Error != nil {
		return wrapDBError(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := r.getDB(ctx).Model(&BookModel{})

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "查询图书总数失败")
	}

	// 排序
	switch params.SortBy {
	case "title_asc":
		query = query.Order("title ASC")
	case "created_at_desc":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("created_at DESC") // 默认按创建时间降序
	}

	// 分页
	offset := (params.Page - 1) * params.PageSize
	query = query.Limit(params.PageSize).Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, wrapDBError(err, "查询图书列表失败")
	}

	// 转换为领域实体
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

// LockByID 悲观锁查询图书(用于借阅事务)
// SELECT FOR UPDATE锁定行
// 教学要点:必须在TxManager.Transaction内调用,否则锁随语句结束就释放
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, wrapDBError(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// ReserveCopy 借出一个副本(原子操作)
// UPDATE books SET available_copies = available_copies - 1
// WHERE id = ? AND available_copies > 0
// 教学要点:守卫条件写在WHERE里,判断和扣减在同一条语句内完成
func (r *bookRepository) ReserveCopy(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("available_copies > 0"). // 防止副本数为负
		Update("available_copies", gorm.Expr("available_copies - 1"))

	if result.Error != nil {
		return wrapDBError(result.Error, "扣减可借副本失败")
	}

	if result.RowsAffected == 0 {
		// 可能是图书不存在,或者无可借副本
		// 再查一次确定原因
		var model BookModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return wrapDBError(err, "查询图书失败")
		}
		// 图书存在,说明是无可借副本
		return book.ErrNoCopiesAvailable
	}

	return nil
}

// ReleaseCopy 归还一个副本(原子操作)
// UPDATE books SET available_copies = available_copies + 1
// WHERE id = ? AND available_copies < total_copies
// 守卫条件防止回增超过馆藏总数(重复归还在借阅记录层已拦截,这里是兜底)
func (r *bookRepository) ReleaseCopy(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("available_copies < total_copies").
		Update("available_copies", gorm.Expr("available_copies + 1"))

	if result.Error != nil {
		return wrapDBError(result.Error, "回增可借副本失败")
	}

	if result.RowsAffected == 0 {
		var model BookModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return wrapDBError(err, "查询图书失败")
		}
		// 图书存在,说明回增会超过馆藏总数
		return book.ErrCopiesExceedTotal
	}

	return nil
}

// UpdateAvailableCopies 直接设置可借副本数(管理用途)
func (r *bookRepository) UpdateAvailableCopies(ctx context.Context, id uint, newCount int) error {
	result := r.getDB(ctx).Model(&BookModel{}).
		Where("id = ?", id).
		Where("? BETWEEN 0 AND total_copies", newCount).
		Update("available_copies", newCount)

	if result.Error != nil {
		return wrapDBError(result.Error, "设置可借副本数失败")
	}

	if result.RowsAffected == 0 {
		var model BookModel
		if err := r.getDB(ctx).First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return wrapDBError(err, "查询图书失败")
		}
		// MySQL对值未变化的UPDATE报告0行,不算失败
		if model.AvailableCopies == newCount {
			return nil
		}
		return book.ErrInvalidCopies
	}

	return nil
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:              model.ID,
		ISBN:            model.ISBN,
		Title:           model.Title,
		Author:          model.Author,
		Publisher:       model.Publisher,
		Price:           model.Price,
		TotalCopies:     model.TotalCopies,
		AvailableCopies: model.AvailableCopies,
		Description:     model.Description,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
