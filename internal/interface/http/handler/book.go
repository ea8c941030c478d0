package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	registerUseCase *appbook.RegisterBookUseCase
	getUseCase      *appbook.GetBookUseCase
	listUseCase     *appbook.ListBooksUseCase
	manageUseCase   *appbook.ManageBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	registerUseCase *appbook.RegisterBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	manageUseCase *appbook.ManageBookUseCase,
) *BookHandler {
	return &BookHandler{
		registerUseCase: registerUseCase,
		getUseCase:      getUseCase,
		listUseCase:     listUseCase,
		manageUseCase:   manageUseCase,
	}
}

// RegisterBook 图书入馆
// @Summary      图书入馆
// @Description  登记新图书,所有副本初始均可借
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误/ISBN已存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) RegisterBook(c *gin.Context) {
	var req dto.RegisterBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appbook.RegisterBookRequest{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Price:       req.Price,
		TotalCopies: req.TotalCopies,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookDTO(result))
}

// GetBook 查询图书详情
// @Summary      查询图书详情
// @Description  优先读缓存,未命中回源数据库
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	result, err := h.getUseCase.ByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookDTO(result))
}

// ListBooks 查询图书列表
// @Summary      查询图书列表
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20,最大100)"
// @Param        sort_by query string false "排序(created_at_desc/title_asc)"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var query struct {
		Page     int    `form:"page,default=1"`
		PageSize int    `form:"page_size,default=20"`
		SortBy   string `form:"sort_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	results, total, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
		SortBy:   query.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.BookResponse, len(results))
	for i, r := range results {
		list[i] = toBookDTO(r)
	}
	response.SuccessWithPage(c, list, total, query.Page, query.PageSize)
}

// UpdateBook 更新图书信息
// @Summary      更新图书信息
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息(空字段表示不修改)"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.Update(c.Request.Context(), appbook.UpdateBookRequest{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Description: req.Description,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// RemoveBook 图书下架
// @Summary      图书下架
// @Description  有副本在外(未归还借阅)时拒绝下架
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "图书仍有未归还的借阅"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) RemoveBook(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	if err := h.manageUseCase.Remove(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// toBookDTO 应用层DTO → HTTP DTO
func toBookDTO(r *appbook.BookResponse) *dto.BookResponse {
	return &dto.BookResponse{
		ID:              r.ID,
		ISBN:            r.ISBN,
		Title:           r.Title,
		Author:          r.Author,
		Publisher:       r.Publisher,
		Price:           r.Price,
		TotalCopies:     r.TotalCopies,
		AvailableCopies: r.AvailableCopies,
		Description:     r.Description,
		CreatedAt:       r.CreatedAt,
	}
}
