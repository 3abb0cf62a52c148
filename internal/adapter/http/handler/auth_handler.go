package handler

import (
	"alumni-platform/internal/adapter/http/dto"
	"alumni-platform/internal/adapter/http/middleware"
	"alumni-platform/internal/core/ports"
	"alumni-platform/pkg/apperror"
	"alumni-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.authSvc.Register(c.Request.Context(), ports.RegisterRequest{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		GraduationYear: req.GraduationYear,
		Major:          req.Major,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	h.identify(c, result)

	response.Created(c, authResponse(result))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.identify(c, result)

	response.OK(c, authResponse(result))
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.authSvc.GetAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewUserResponse(account))
}

// identify exposes the new session's account to the audit middleware.
func (h *AuthHandler) identify(c *gin.Context, result *ports.AuthResult) {
	c.Set(middleware.CtxAccountID, result.Account.ID)
	c.Set(middleware.CtxAuditResource, result.Account.ID.String())
}

func authResponse(result *ports.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
		User:      dto.NewUserResponse(result.Account),
	}
}
