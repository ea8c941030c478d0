package borrowing

import (
	"time"
)

// 借阅业务规则常量
// 参照馆方的借阅政策:每人最多同时借5本,逾期按日历天数计罚,
// 每天5000(最小货币单位),当天逾期也按一天计
const (
	// MaxActiveBorrowings 单个用户同时借阅的上限
	MaxActiveBorrowings = 5

	// FinePerDay 每逾期一天的罚款金额(最小货币单位)
	FinePerDay int64 = 5000
)

// Status 借阅状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 定义为类型别名,便于添加方法
type Status int

const (
	StatusBorrowed Status = 1 // 已借出
	StatusReturned Status = 2 // 已归还(终态)
)

// String 实现Stringer接口(对外展示及日志输出)
func (s Status) String() string {
	switch s {
	case StatusBorrowed:
		return "borrowed"
	case StatusReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// Borrowing 借阅实体(聚合根)
// 设计说明:
// 1. 状态机: {none} → borrowed → returned,returned是终态,不存在其他转换
// 2. 只保存UserID/BookID弱引用,不直接关联User/Book对象(避免跨聚合引用)
// 3. ReturnDate在归还前为nil,归还时与状态转换一起原子赋值
// 4. 创建与图书副本扣减、归还与副本回增必须在同一事务中完成(应用层保证)
type Borrowing struct {
	ID         uint
	UserID     uint       // 借阅人ID(弱引用)
	BookID     uint       // 图书ID(弱引用)
	BorrowDate time.Time  // 借出时间
	DueDate    time.Time  // 应还时间(借出时间+借期天数)
	ReturnDate *time.Time // 实际归还时间(未归还为nil)
	Status     Status     // 借阅状态
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBorrowing 创建新借阅(工厂方法)
// 初始状态为borrowed,应还时间 = 借出时间 + loanDays天
func NewBorrowing(userID, bookID uint, loanDays int) *Borrowing {
	now := time.Now()
	return &Borrowing{
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: now,
		DueDate:    now.AddDate(0, 0, loanDays),
		Status:     StatusBorrowed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsActive 是否为未归还的借阅
func (b *Borrowing) IsActive() bool {
	return b.Status == StatusBorrowed
}

// MarkReturned 归还(状态转换)
// 业务规则:
// 1. 只能从borrowed转换到returned,重复归还返回ErrAlreadyReturned
// 2. 转换一次且不可逆,ReturnDate与状态一起赋值
func (b *Borrowing) MarkReturned(at time.Time) error {
	if b.Status != StatusBorrowed {
		return ErrAlreadyReturned
	}
	b.Status = StatusReturned
	b.ReturnDate = &at
	b.UpdatedAt = at
	return nil
}

// IsOverdueAt 在指定时刻是否已逾期
// 逾期定义:严格晚于应还时间(刚好等于应还时间不算逾期)
func (b *Borrowing) IsOverdueAt(now time.Time) bool {
	return b.referenceTime(now).After(b.DueDate)
}

// OverdueDaysAt 在指定时刻的逾期天数
// 按日历日差计算:参照日期与应还日期的天数差,
// 应还当天内的逾期不足一天也按一天计(向上取整)
// 例:应还时间是昨天此刻,今天归还算逾期1天而非2天
func (b *Borrowing) OverdueDaysAt(now time.Time) int64 {
	ref := b.referenceTime(now)
	if !ref.After(b.DueDate) {
		return 0
	}
	span := calendarDay(ref).Sub(calendarDay(b.DueDate))
	// Round抹平夏令时造成的±1小时偏差
	days := int64(span.Round(24*time.Hour) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return days
}

// calendarDay 截断到当天零点(保留原时区)
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FineAt 在指定时刻应收的罚款金额
// 罚款 = 逾期天数 × 每日罚款额;未逾期为0
// 说明:未归还的借阅按now预估(只读预览),已归还的按实际归还时间定格,
// 归还之后罚款不再随时间增长
func (b *Borrowing) FineAt(now time.Time) int64 {
	return b.OverdueDaysAt(now) * FinePerDay
}

// referenceTime 罚款计算的参照时刻
// 已归还按归还时间,未归还按当前时间
func (b *Borrowing) referenceTime(now time.Time) time.Time {
	if b.Status == StatusReturned && b.ReturnDate != nil {
		return *b.ReturnDate
	}
	return now
}
