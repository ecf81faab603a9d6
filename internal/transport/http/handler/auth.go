package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moodsapp/moods-server/internal/domain"
)

type authUsecaser interface {
	SendLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (string, *domain.User, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type sendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /auth/code
// Always reports success for a well-formed email, whether or not it is
// registered, so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.SendLoginCode(c.Request.Context(), req.Email); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "send login code", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type verifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code"  binding:"required,len=6"`
}

// POST /auth/verify
// Returns {"token": …, "user": …} on success, 401 on any invalid code.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	signed, user, err := h.authUsecase.VerifyLoginCode(ctx, req.Email, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrCodeInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errCodeInvalid})
			return
		}
		h.logger.ErrorContext(ctx, "verify login code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  newUserResponse(user),
	})
}
