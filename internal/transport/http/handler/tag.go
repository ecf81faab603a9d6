package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/pagination"
	"github.com/moodsapp/moods-server/internal/usecase"
)

type tagUsecaser interface {
	List(ctx context.Context, input usecase.ListTagsInput) (pagination.Connection[*domain.Tag], error)
	UpdateMetadata(ctx context.Context, name string, metadata map[string]any) (*domain.Tag, error)
	Archive(ctx context.Context, name string) (*domain.Tag, error)
	Unarchive(ctx context.Context, name string) (*domain.Tag, error)
}

type TagHandler struct {
	tagUsecase tagUsecaser
	logger     *slog.Logger
}

func NewTagHandler(tagUsecase tagUsecaser, logger *slog.Logger) *TagHandler {
	return &TagHandler{tagUsecase: tagUsecase, logger: logger.With("component", "tag_handler")}
}

type tagResponse struct {
	Name       string         `json:"name"`
	Metadata   map[string]any `json:"metadata"`
	ArchivedAt *time.Time     `json:"archived_at"`
}

func newTagResponse(t *domain.Tag) tagResponse {
	metadata := t.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return tagResponse{Name: t.Name, Metadata: metadata, ArchivedAt: t.ArchivedAt}
}

type listTagsQuery struct {
	Search          string `form:"search"`
	IncludeArchived bool   `form:"include_archived"`
	First           int    `form:"first" binding:"omitempty,min=1,max=100"`
	After           string `form:"after"`
}

// GET /tags
func (h *TagHandler) List(c *gin.Context) {
	var q listTagsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	conn, err := h.tagUsecase.List(ctx, usecase.ListTagsInput{
		Search:          q.Search,
		IncludeArchived: q.IncludeArchived,
		First:           q.First,
		After:           q.After,
	})
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCursor})
			return
		}
		h.logger.ErrorContext(ctx, "list tags", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, pagination.Map(conn, func(t *domain.Tag) tagResponse {
		return newTagResponse(t)
	}))
}

type updateTagMetadataRequest struct {
	Metadata map[string]any `json:"metadata" binding:"required"`
}

// PUT /tags/:name/metadata
func (h *TagHandler) UpdateMetadata(c *gin.Context) {
	var req updateTagMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tagUsecase.UpdateMetadata(c.Request.Context(), c.Param("name"), req.Metadata)
	h.respond(c, tag, err, "update tag metadata")
}

// POST /tags/:name/archive
func (h *TagHandler) Archive(c *gin.Context) {
	tag, err := h.tagUsecase.Archive(c.Request.Context(), c.Param("name"))
	h.respond(c, tag, err, "archive tag")
}

// POST /tags/:name/unarchive
func (h *TagHandler) Unarchive(c *gin.Context) {
	tag, err := h.tagUsecase.Unarchive(c.Request.Context(), c.Param("name"))
	h.respond(c, tag, err, "unarchive tag")
}

func (h *TagHandler) respond(c *gin.Context, tag *domain.Tag, err error, op string) {
	if err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTagNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, newTagResponse(tag))
}
