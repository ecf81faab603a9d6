package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/loader"
	"github.com/moodsapp/moods-server/internal/pagination"
	"github.com/moodsapp/moods-server/internal/usecase"
)

// moodUsecaser is the subset of MoodUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type moodUsecaser interface {
	List(ctx context.Context, input usecase.ListEntriesInput) (pagination.Connection[*domain.MoodEntry], error)
	LogMood(ctx context.Context, input usecase.LogMoodInput) (*domain.MoodEntry, error)
	Archive(ctx context.Context, id int64) (*domain.MoodEntry, error)
}

type entryTagsSource interface {
	TagsForEntries(ctx context.Context, entryIDs []int64) (map[int64][]domain.Tag, error)
}

type usersSource interface {
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
}

type MoodHandler struct {
	moodUsecase moodUsecaser
	entryTags   entryTagsSource
	users       usersSource
	logger      *slog.Logger
}

func NewMoodHandler(moodUsecase moodUsecaser, entryTags entryTagsSource, users usersSource, logger *slog.Logger) *MoodHandler {
	return &MoodHandler{
		moodUsecase: moodUsecase,
		entryTags:   entryTags,
		users:       users,
		logger:      logger.With("component", "mood_handler"),
	}
}

type listEntriesQuery struct {
	UserIDs         []string `form:"user_ids"`
	IncludeArchived bool     `form:"include_archived"`
	First           int      `form:"first" binding:"omitempty,min=1,max=100"`
	After           string   `form:"after"`
}

type entryResponse struct {
	ID         string        `json:"id"`
	Mood       int           `json:"mood"`
	Notes      string        `json:"notes"`
	Delta      *int          `json:"delta"`
	CreatedAt  time.Time     `json:"created_at"`
	ArchivedAt *time.Time    `json:"archived_at"`
	User       *userResponse `json:"user,omitempty"`
	Tags       []tagResponse `json:"tags"`
}

// GET /mood-entries
func (h *MoodHandler) List(c *gin.Context) {
	var q listEntriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.list(c, usecase.ListEntriesInput{
		UserIDs:         q.UserIDs,
		IncludeArchived: q.IncludeArchived,
		First:           q.First,
		After:           q.After,
	})
}

// GET /users/:id/entries
func (h *MoodHandler) ListForUser(c *gin.Context) {
	var q listEntriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.list(c, usecase.ListEntriesInput{
		UserIDs:         []string{c.Param("id")},
		IncludeArchived: q.IncludeArchived,
		First:           q.First,
		After:           q.After,
	})
}

func (h *MoodHandler) list(c *gin.Context, input usecase.ListEntriesInput) {
	ctx := c.Request.Context()

	conn, err := h.moodUsecase.List(ctx, input)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCursor})
			return
		}
		h.logger.ErrorContext(ctx, "list mood entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp, err := h.renderConnection(ctx, conn)
	if err != nil {
		h.logger.ErrorContext(ctx, "render mood entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, resp)
}

type logMoodRequest struct {
	UserID string   `json:"user_id" binding:"required"`
	Mood   int      `json:"mood"    binding:"required,min=1,max=10"`
	Notes  string   `json:"notes"`
	Tags   []string `json:"tags"`
}

// POST /mood-entries
func (h *MoodHandler) Create(c *gin.Context) {
	var req logMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	entry, err := h.moodUsecase.LogMood(ctx, usecase.LogMoodInput{
		UserID: req.UserID,
		Mood:   req.Mood,
		Notes:  req.Notes,
		Tags:   req.Tags,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(ctx, "log mood", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp, err := h.renderEntry(ctx, entry)
	if err != nil {
		h.logger.ErrorContext(ctx, "render mood entry", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// POST /mood-entries/:id/archive
func (h *MoodHandler) Archive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errEntryNotFound})
		return
	}

	ctx := c.Request.Context()
	entry, err := h.moodUsecase.Archive(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errEntryNotFound})
			return
		}
		h.logger.ErrorContext(ctx, "archive mood entry", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp, err := h.renderEntry(ctx, entry)
	if err != nil {
		h.logger.ErrorContext(ctx, "render mood entry", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// renderConnection attaches tags and authors to a page of entries. Both
// lookups are batched: one query for every tag list on the page, one for
// every distinct author.
func (h *MoodHandler) renderConnection(ctx context.Context, conn pagination.Connection[*domain.MoodEntry]) (pagination.Connection[entryResponse], error) {
	var zero pagination.Connection[entryResponse]

	entryIDs := make([]int64, 0, len(conn.Edges))
	userIDs := make([]string, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		entryIDs = append(entryIDs, e.Node.ID)
		userIDs = append(userIDs, e.Node.UserID)
	}

	tagsByEntry, err := loader.NewEntryTags(h.entryTags).LoadMany(ctx, entryIDs)
	if err != nil {
		return zero, err
	}
	usersByID, err := loader.NewUsers(h.users).LoadMany(ctx, userIDs)
	if err != nil {
		return zero, err
	}

	return pagination.Map(conn, func(e *domain.MoodEntry) entryResponse {
		return newEntryResponse(e, tagsByEntry[e.ID], usersByID[e.UserID])
	}), nil
}

func (h *MoodHandler) renderEntry(ctx context.Context, entry *domain.MoodEntry) (entryResponse, error) {
	tagsByEntry, err := loader.NewEntryTags(h.entryTags).LoadMany(ctx, []int64{entry.ID})
	if err != nil {
		return entryResponse{}, err
	}
	usersByID, err := loader.NewUsers(h.users).LoadMany(ctx, []string{entry.UserID})
	if err != nil {
		return entryResponse{}, err
	}
	return newEntryResponse(entry, tagsByEntry[entry.ID], usersByID[entry.UserID]), nil
}

func newEntryResponse(e *domain.MoodEntry, tags []domain.Tag, user *domain.User) entryResponse {
	resp := entryResponse{
		ID:         strconv.FormatInt(e.ID, 10),
		Mood:       e.Mood,
		Notes:      e.Notes,
		Delta:      e.Delta,
		CreatedAt:  e.CreatedAt,
		ArchivedAt: e.ArchivedAt,
		Tags:       make([]tagResponse, 0, len(tags)),
	}
	for _, t := range tags {
		resp.Tags = append(resp.Tags, newTagResponse(&t))
	}
	if user != nil {
		u := newUserResponse(user)
		resp.User = &u
	}
	return resp
}
