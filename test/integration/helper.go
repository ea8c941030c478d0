package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 集成测试辅助工具
// 这些测试需要一个运行中的服务实例(go run ./cmd/api)和配套的MySQL，
// 服务不可达时自动跳过

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// PingURL 健康检查URL
	PingURL = "http://localhost:8080/ping"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
	// TestDSN 开发库连接串(与config/config.yaml一致)
	TestDSN = "library:library123@tcp(localhost:3306)/library?charset=utf8mb4&parseTime=True&loc=Local"
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// UserData 用户响应数据
type UserData struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// BookData 图书响应数据
type BookData struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	Price           int64  `json:"price"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	Description     string `json:"description"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	List       []BookData `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// BorrowingData 借阅记录响应数据
type BorrowingData struct {
	BorrowingID uint   `json:"borrowing_id"`
	UserID      uint   `json:"user_id"`
	BookID      uint   `json:"book_id"`
	BorrowDate  string `json:"borrow_date"`
	DueDate     string `json:"due_date"`
	ReturnDate  string `json:"return_date"`
	Status      string `json:"status"`
	FineAmount  int64  `json:"fine_amount"`
}

// ReturnData 还书响应数据
type ReturnData struct {
	BorrowingID uint   `json:"borrowing_id"`
	BookID      uint   `json:"book_id"`
	ReturnDate  string `json:"return_date"`
	Status      string `json:"status"`
	OverdueDays int64  `json:"overdue_days"`
	FineAmount  int64  `json:"fine_amount"`
}

// FineData 罚款查询响应数据
type FineData struct {
	BorrowingID uint   `json:"borrowing_id"`
	Status      string `json:"status"`
	Overdue     bool   `json:"overdue"`
	OverdueDays int64  `json:"overdue_days"`
	FineAmount  int64  `json:"fine_amount"`
	FinePerDay  int64  `json:"fine_per_day"`
	Finalized   bool   `json:"finalized"`
}

// RequireServer 服务不可达时跳过测试
func RequireServer(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(PingURL)
	if err != nil {
		t.Skipf("服务不可达，跳过集成测试: %v", err)
	}
	resp.Body.Close()
}

// doJSON 发送请求并解析统一响应
func doJSON(t *testing.T, method, url string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}) *Response {
	return doJSON(t, http.MethodPost, url, data)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string) *Response {
	return doJSON(t, http.MethodGet, url, nil)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}) *Response {
	return doJSON(t, http.MethodPut, url, data)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string) *Response {
	return doJSON(t, http.MethodDelete, url, nil)
}

// uniqueSeq 同一秒内多次调用也能生成不同的用户名/ISBN
var uniqueSeq uint64

// GenerateTestUsername 生成唯一的测试用户名
func GenerateTestUsername(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().Unix(), atomic.AddUint64(&uniqueSeq, 1))
}

// GenerateTestISBN 生成唯一的测试ISBN
// ISBN-13格式：978 + 10位数字，取纳秒时间戳的后10位
func GenerateTestISBN() string {
	n := time.Now().UnixNano() + int64(atomic.AddUint64(&uniqueSeq, 1))
	return fmt.Sprintf("978%010d", n%10000000000)
}

// RegisterTestUser 注册测试用户并返回用户ID
func RegisterTestUser(t *testing.T, prefix string) uint {
	t.Helper()

	username := GenerateTestUsername(prefix)
	req := map[string]string{
		"username":  username,
		"email":     username + "@test.com",
		"full_name": "集成测试用户",
		"phone":     "13800138000",
	}

	resp := PostJSON(t, BaseURL+"/users", req)
	require.Equal(t, 0, resp.Code, "注册用户失败: %s", resp.Message)

	var data UserData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析用户响应失败")
	require.NotZero(t, data.ID, "用户ID为空")

	return data.ID
}

// RegisterTestBook 图书入馆并返回图书ID
func RegisterTestBook(t *testing.T, title string, totalCopies int) uint {
	t.Helper()

	req := map[string]interface{}{
		"isbn":         GenerateTestISBN(),
		"title":        title,
		"author":       "测试作者",
		"publisher":    "测试出版社",
		"price":        8900,
		"total_copies": totalCopies,
		"description":  "集成测试用图书",
	}

	resp := PostJSON(t, BaseURL+"/books", req)
	require.Equal(t, 0, resp.Code, "图书入馆失败: %s", resp.Message)

	var data BookData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析图书响应失败")
	require.NotZero(t, data.ID, "图书ID为空")

	return data.ID
}

// BorrowTestBook 借书并返回借阅记录ID
func BorrowTestBook(t *testing.T, userID, bookID uint) uint {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/borrowings", map[string]interface{}{
		"user_id": userID,
		"book_id": bookID,
	})
	require.Equal(t, 0, resp.Code, "借书失败: %s", resp.Message)

	var data BorrowingData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析借阅响应失败")
	require.NotZero(t, data.BorrowingID, "借阅ID为空")

	return data.BorrowingID
}

// BackdateBorrowing 把借阅的应还时间改写到days天前
// 集成环境没有时间旅行,逾期场景直接改写数据库的due_date,
// 服务端随后读到的就是一条已逾期的借阅(数据库不可达时跳过)
func BackdateBorrowing(t *testing.T, borrowingID uint, days int) {
	t.Helper()

	db, err := gorm.Open(mysql.Open(TestDSN), &gorm.Config{})
	if err != nil {
		t.Skipf("数据库不可达，跳过逾期用例: %v", err)
	}

	result := db.Exec(
		"UPDATE borrowings SET due_date = DATE_SUB(NOW(), INTERVAL ? DAY) WHERE id = ?",
		days, borrowingID)
	require.NoError(t, result.Error, "改写应还时间失败")
	require.EqualValues(t, 1, result.RowsAffected, "借阅记录不存在: id=%d", borrowingID)
}

// GetBookAvailable 查询图书当前可借数
func GetBookAvailable(t *testing.T, bookID uint) int {
	t.Helper()

	resp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID))
	require.Equal(t, 0, resp.Code, "查询图书失败: %s", resp.Message)

	var data BookData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析图书响应失败")

	return data.AvailableCopies
}
