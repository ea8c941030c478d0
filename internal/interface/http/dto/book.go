package dto

// RegisterBookRequest 图书入馆请求
type RegisterBookRequest struct {
	ISBN        string `json:"isbn" binding:"required" example:"9787115428028"`
	Title       string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author      string `json:"author" binding:"required,max=100" example:"William Kennedy"`
	Publisher   string `json:"publisher" binding:"omitempty,max=100" example:"人民邮电出版社"`
	Price       int64  `json:"price" binding:"omitempty,min=0" example:"7900"` // 最小货币单位
	TotalCopies int    `json:"total_copies" binding:"required,min=1" example:"3"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateBookRequest 图书信息更新请求(空字段表示不修改)
type UpdateBookRequest struct {
	Title       string `json:"title" binding:"omitempty,max=200"`
	Author      string `json:"author" binding:"omitempty,max=100"`
	Publisher   string `json:"publisher" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// BookResponse 图书响应
type BookResponse struct {
	ID              uint   `json:"id" example:"1"`
	ISBN            string `json:"isbn" example:"9787115428028"`
	Title           string `json:"title" example:"Go语言实战"`
	Author          string `json:"author" example:"William Kennedy"`
	Publisher       string `json:"publisher" example:"人民邮电出版社"`
	Price           int64  `json:"price" example:"7900"`
	TotalCopies     int    `json:"total_copies" example:"3"`
	AvailableCopies int    `json:"available_copies" example:"2"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
}
