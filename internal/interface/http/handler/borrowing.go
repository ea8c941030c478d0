package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appborrowing "github.com/xiebiao/library/internal/application/borrowing"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/response"
)

// BorrowingHandler 借阅HTTP处理器
type BorrowingHandler struct {
	borrowUseCase *appborrowing.BorrowBookUseCase
	returnUseCase *appborrowing.ReturnBookUseCase
	fineUseCase   *appborrowing.CalculateFineUseCase
	listUseCase   *appborrowing.ListBorrowingsUseCase
}

// NewBorrowingHandler 创建借阅处理器
func NewBorrowingHandler(
	borrowUseCase *appborrowing.BorrowBookUseCase,
	returnUseCase *appborrowing.ReturnBookUseCase,
	fineUseCase *appborrowing.CalculateFineUseCase,
	listUseCase *appborrowing.ListBorrowingsUseCase,
) *BorrowingHandler {
	return &BorrowingHandler{
		borrowUseCase: borrowUseCase,
		returnUseCase: returnUseCase,
		fineUseCase:   fineUseCase,
		listUseCase:   listUseCase,
	}
}

// BorrowBook 借书
// @Summary      借书
// @Description  为用户借出一本图书,借阅记录创建与副本扣减在同一事务中完成
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Param        request body dto.BorrowBookRequest true "借书请求"
// @Success      200 {object} response.Response{data=dto.BorrowingResponse}
// @Failure      400 {object} response.Response "无可借副本/借阅上限/用户停用"
// @Failure      404 {object} response.Response "用户或图书不存在"
// @Router       /api/v1/borrowings [post]
func (h *BorrowingHandler) BorrowBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.BorrowBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	start := time.Now()
	result, err := h.borrowUseCase.Execute(c.Request.Context(), appborrowing.BorrowBookRequest{
		UserID:   req.UserID,
		BookID:   req.BookID,
		LoanDays: req.LoanDays,
	})
	metrics.ObserveHistogram(metrics.BorrowTxDuration, time.Since(start).Seconds())

	if err != nil {
		metrics.IncCounterVec(metrics.BorrowingsRejectedTotal, map[string]string{
			"reason": rejectReason(err),
		})
		response.Error(c, err)
		return
	}

	metrics.IncCounter(metrics.BorrowingsCreatedTotal)

	// 3. 构建HTTP响应
	response.Success(c, toBorrowingDTO(result))
}

// ReturnBook 还书
// @Summary      还书
// @Description  归还借阅的图书并结算罚款,状态转换与副本回增在同一事务中完成
// @Tags         借阅
// @Produce      json
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.ReturnBookResponse}
// @Failure      400 {object} response.Response "重复归还"
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/borrowings/{id}/return [post]
func (h *BorrowingHandler) ReturnBook(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的借阅记录ID")
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), appborrowing.ReturnBookRequest{
		BorrowingID: id,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	metrics.IncCounter(metrics.ReturnsTotal)
	if result.FineAmount > 0 {
		metrics.IncCounter(metrics.FinesAssessedTotal)
	}

	response.Success(c, &dto.ReturnBookResponse{
		BorrowingID: result.BorrowingID,
		BookID:      result.BookID,
		ReturnDate:  result.ReturnDate,
		Status:      result.Status,
		OverdueDays: result.OverdueDays,
		FineAmount:  result.FineAmount,
	})
}

// GetFine 查询罚款
// @Summary      查询罚款
// @Description  查询借阅的罚款金额:未归还按当前时间预估,已归还按归还时间定格
// @Tags         借阅
// @Produce      json
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.FineResponse}
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/borrowings/{id}/fine [get]
func (h *BorrowingHandler) GetFine(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的借阅记录ID")
		return
	}

	result, err := h.fineUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.FineResponse{
		BorrowingID: result.BorrowingID,
		Status:      result.Status,
		DueDate:     result.DueDate,
		Overdue:     result.Overdue,
		OverdueDays: result.OverdueDays,
		FineAmount:  result.FineAmount,
		FinePerDay:  result.FinePerDay,
		Finalized:   result.Finalized,
	})
}

// GetBorrowing 查询借阅记录
// @Summary      查询借阅记录
// @Tags         借阅
// @Produce      json
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.BorrowingResponse}
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/borrowings/{id} [get]
func (h *BorrowingHandler) GetBorrowing(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的借阅记录ID")
		return
	}

	result, err := h.listUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBorrowingDTO(result))
}

// ListUserBorrowings 查询用户的借阅记录
// @Summary      查询用户借阅记录
// @Description  返回用户的全部借阅记录(含已归还)
// @Tags         借阅
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response{data=[]dto.BorrowingResponse}
// @Router       /api/v1/users/{id}/borrowings [get]
func (h *BorrowingHandler) ListUserBorrowings(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的用户ID")
		return
	}

	results, err := h.listUseCase.ByUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.BorrowingResponse, len(results))
	for i, r := range results {
		list[i] = toBorrowingDTO(r)
	}
	response.Success(c, list)
}

// ListBookBorrowings 查询图书的借阅记录
// @Summary      查询图书借阅记录
// @Tags         借阅
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=[]dto.BorrowingResponse}
// @Router       /api/v1/books/{id}/borrowings [get]
func (h *BorrowingHandler) ListBookBorrowings(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	results, err := h.listUseCase.ByBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.BorrowingResponse, len(results))
	for i, r := range results {
		list[i] = toBorrowingDTO(r)
	}
	response.Success(c, list)
}

// toBorrowingDTO 应用层DTO → HTTP DTO
func toBorrowingDTO(r *appborrowing.BorrowingResponse) *dto.BorrowingResponse {
	return &dto.BorrowingResponse{
		BorrowingID: r.BorrowingID,
		UserID:      r.UserID,
		BookID:      r.BookID,
		BorrowDate:  r.BorrowDate,
		DueDate:     r.DueDate,
		ReturnDate:  r.ReturnDate,
		Status:      r.Status,
		FineAmount:  r.FineAmount,
	}
}

// rejectReason 借阅被拒原因(监控标签,低基数)
func rejectReason(err error) string {
	switch apperrors.Code(err) {
	case apperrors.ErrCodeNoCopies:
		return "no_copies"
	case apperrors.ErrCodeBorrowLimit:
		return "limit_exceeded"
	case apperrors.ErrCodeUserInactive:
		return "user_inactive"
	case apperrors.ErrCodeTxConflict:
		return "conflict"
	case apperrors.ErrCodeUserNotFound, apperrors.ErrCodeBookNotFound:
		return "not_found"
	default:
		return "other"
	}
}

// parseIDParam 解析路径中的:id参数
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
