package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodsapp/moods-server/internal/domain"
)

type userUsecaser interface {
	List(ctx context.Context, includeArchived bool) ([]*domain.User, error)
	Create(ctx context.Context, name, email string) (*domain.User, error)
	UpdateSettings(ctx context.Context, id string, settings map[string]any) (*domain.User, error)
	Archive(ctx context.Context, id string) (*domain.User, error)
}

type UserHandler struct {
	userUsecase userUsecaser
	logger      *slog.Logger
}

func NewUserHandler(userUsecase userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, logger: logger.With("component", "user_handler")}
}

type userResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Settings   map[string]any `json:"settings"`
	CreatedAt  time.Time      `json:"created_at"`
	ArchivedAt *time.Time     `json:"archived_at"`
}

func newUserResponse(u *domain.User) userResponse {
	settings := u.Settings
	if settings == nil {
		settings = make(map[string]any)
	}
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Settings:   settings,
		CreatedAt:  u.CreatedAt,
		ArchivedAt: u.ArchivedAt,
	}
}

type listUsersQuery struct {
	IncludeArchived bool `form:"include_archived"`
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	users, err := h.userUsecase.List(ctx, q.IncludeArchived)
	if err != nil {
		h.logger.ErrorContext(ctx, "list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, newUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

type createUserRequest struct {
	Name  string `json:"name"  binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.userUsecase.Create(ctx, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errDuplicateEmail})
			return
		}
		h.logger.ErrorContext(ctx, "create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

type updateSettingsRequest struct {
	Settings map[string]any `json:"settings" binding:"required"`
}

// PUT /users/:id/settings
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userUsecase.UpdateSettings(c.Request.Context(), c.Param("id"), req.Settings)
	h.respond(c, user, err, "update user settings")
}

// POST /users/:id/archive
func (h *UserHandler) Archive(c *gin.Context) {
	user, err := h.userUsecase.Archive(c.Request.Context(), c.Param("id"))
	h.respond(c, user, err, "archive user")
}

func (h *UserHandler) respond(c *gin.Context, user *domain.User, err error, op string) {
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}
