package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// UserHandler 用户HTTP处理器
type UserHandler struct {
	registerUseCase *appuser.RegisterUserUseCase
	manageUseCase   *appuser.ManageUserUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUserUseCase,
	manageUseCase *appuser.ManageUserUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		manageUseCase:   manageUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  图书馆办证,新用户默认为active状态
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterUserRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.UserResponse}
// @Failure      400 {object} response.Response "参数错误/用户名已存在"
// @Router       /api/v1/users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterUserRequest{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toUserDTO(result))
}

// GetUser 查询用户
// @Summary      查询用户
// @Tags         用户
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response{data=dto.UserResponse}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的用户ID")
		return
	}

	result, err := h.manageUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toUserDTO(result))
}

// SetStatus 变更用户状态
// @Summary      变更用户状态
// @Description  激活或停用用户,停用只阻止后续借阅,不回收已借出的图书
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        id path int true "用户ID"
// @Param        request body dto.SetUserStatusRequest true "目标状态"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/users/{id}/status [put]
func (h *UserHandler) SetStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的用户ID")
		return
	}

	var req dto.SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// toUserDTO 应用层DTO → HTTP DTO
func toUserDTO(r *appuser.UserResponse) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FullName:  r.FullName,
		Phone:     r.Phone,
		Role:      r.Role,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}
