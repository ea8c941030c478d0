package dto

// BorrowBookRequest 借书请求
type BorrowBookRequest struct {
	UserID   uint `json:"user_id" binding:"required" example:"1"`
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	LoanDays int  `json:"loan_days" binding:"omitempty,min=1,max=90" example:"14"` // 省略时使用默认借期
}

// BorrowingResponse 借阅记录响应
type BorrowingResponse struct {
	BorrowingID uint   `json:"borrowing_id" example:"1"`
	UserID      uint   `json:"user_id" example:"1"`
	BookID      uint   `json:"book_id" example:"1"`
	BorrowDate  string `json:"borrow_date" example:"2025-03-01T10:00:00+08:00"`
	DueDate     string `json:"due_date" example:"2025-03-15T10:00:00+08:00"`
	ReturnDate  string `json:"return_date,omitempty"`
	Status      string `json:"status" example:"borrowed"` // borrowed/returned
	FineAmount  int64  `json:"fine_amount" example:"0"`
}

// ReturnBookResponse 还书响应
type ReturnBookResponse struct {
	BorrowingID uint   `json:"borrowing_id" example:"1"`
	BookID      uint   `json:"book_id" example:"1"`
	ReturnDate  string `json:"return_date"`
	Status      string `json:"status" example:"returned"`
	OverdueDays int64  `json:"overdue_days" example:"0"`
	FineAmount  int64  `json:"fine_amount" example:"0"` // 最小货币单位
}

// FineResponse 罚款查询响应
type FineResponse struct {
	BorrowingID uint   `json:"borrowing_id" example:"1"`
	Status      string `json:"status" example:"borrowed"`
	DueDate     string `json:"due_date"`
	Overdue     bool   `json:"overdue" example:"false"`
	OverdueDays int64  `json:"overdue_days" example:"0"`
	FineAmount  int64  `json:"fine_amount" example:"0"`
	FinePerDay  int64  `json:"fine_per_day" example:"5000"`
	Finalized   bool   `json:"finalized" example:"false"` // true表示已归还,金额不再变化
}
