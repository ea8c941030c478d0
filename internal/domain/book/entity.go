package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是馆藏聚合的根实体,一条记录代表一个书目(title),副本数用计数表示
// 2. TotalCopies是馆藏容量(固定),AvailableCopies是当前可借数量
// 3. 不变量: 0 <= AvailableCopies <= TotalCopies,借出减1、归还加1,由数据库
//    层的原子更新保证(见Repository.ReserveCopy/ReleaseCopy)
// 4. 价格使用int64存储最小货币单位(避免浮点数精度问题)
// 5. ISBN作为业务唯一标识(数据库层保证唯一性)
type Book struct {
	ID              uint
	ISBN            string // ISBN号(国际标准书号)
	Title           string // 书名
	Author          string // 作者
	Publisher       string // 出版社
	Price           int64  // 价格(最小货币单位)
	TotalCopies     int    // 馆藏副本总数
	AvailableCopies int    // 当前可借副本数
	Description     string // 图书描述
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// 新入馆的图书所有副本均可借: AvailableCopies == TotalCopies
func NewBook(isbn, title, author, publisher string, price int64, totalCopies int, description string) *Book {
	now := time.Now()
	return &Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		Publisher:       publisher,
		Price:           price,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasAvailableCopy 是否还有可借副本
func (b *Book) HasAvailableCopy() bool {
	return b.AvailableCopies > 0
}

// ReserveCopy 借出一个副本(领域行为)
// 业务规则: 无可借副本时拒绝,不变量AvailableCopies >= 0
// 注意: 并发安全由Repository的原子更新保证,此方法用于内存中的实体推演
func (b *Book) ReserveCopy() error {
	if b.AvailableCopies <= 0 {
		return ErrNoCopiesAvailable
	}
	b.AvailableCopies--
	b.UpdatedAt = time.Now()
	return nil
}

// ReleaseCopy 归还一个副本(领域行为)
// 业务规则: 归还后不能超过馆藏总数,超过说明调用方有缺陷(重复归还等)
func (b *Book) ReleaseCopy() error {
	if b.AvailableCopies >= b.TotalCopies {
		return ErrCopiesExceedTotal
	}
	b.AvailableCopies++
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(title, author, publisher, description string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	if description != "" {
		b.Description = description
	}
	b.UpdatedAt = time.Now()
}
