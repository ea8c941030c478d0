package borrowing

import (
	"context"
)

// TxManager 事务管理器接口
// 设计说明:定义为接口而非直接依赖*mysql.TxManager,
// 单元测试用内存实现替换,不需要真实数据库
// mysql.TxManager满足此接口
type TxManager interface {
	// Transaction 在单个事务中执行fn
	// fn返回error时回滚,返回nil时提交
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 借阅事件发布接口
// mq.Publisher满足此接口
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// BookCache 图书缓存失效接口
// 借出/归还改变可借副本数后删除缓存,下次读取时重建
// redis.BookCache满足此接口
type BookCache interface {
	Delete(ctx context.Context, id uint)
}

// 事件路由键
const (
	// RoutingKeyBorrowingCreated 借阅成功事件
	RoutingKeyBorrowingCreated = "borrowing.created"

	// RoutingKeyBorrowingReturned 归还成功事件
	RoutingKeyBorrowingReturned = "borrowing.returned"
)

// BorrowingCreatedEvent 借阅成功事件
// 事务提交后发布,下游(逾期提醒等)订阅
type BorrowingCreatedEvent struct {
	BorrowingID uint   `json:"borrowing_id"`
	UserID      uint   `json:"user_id"`
	BookID      uint   `json:"book_id"`
	BorrowDate  string `json:"borrow_date"`
	DueDate     string `json:"due_date"`
}

// BorrowingReturnedEvent 归还成功事件
type BorrowingReturnedEvent struct {
	BorrowingID uint   `json:"borrowing_id"`
	UserID      uint   `json:"user_id"`
	BookID      uint   `json:"book_id"`
	ReturnDate  string `json:"return_date"`
	FineAmount  int64  `json:"fine_amount"` // 最小货币单位,0表示未逾期
}
