package handler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/pagination"
	"github.com/moodsapp/moods-server/internal/transport/http/handler"
	"github.com/moodsapp/moods-server/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMoodUsecase struct {
	list    func(ctx context.Context, input usecase.ListEntriesInput) (pagination.Connection[*domain.MoodEntry], error)
	logMood func(ctx context.Context, input usecase.LogMoodInput) (*domain.MoodEntry, error)
	archive func(ctx context.Context, id int64) (*domain.MoodEntry, error)
}

func (f *fakeMoodUsecase) List(ctx context.Context, input usecase.ListEntriesInput) (pagination.Connection[*domain.MoodEntry], error) {
	return f.list(ctx, input)
}

func (f *fakeMoodUsecase) LogMood(ctx context.Context, input usecase.LogMoodInput) (*domain.MoodEntry, error) {
	return f.logMood(ctx, input)
}

func (f *fakeMoodUsecase) Archive(ctx context.Context, id int64) (*domain.MoodEntry, error) {
	return f.archive(ctx, id)
}

type fakeEntryTags struct {
	tagsForEntries func(ctx context.Context, entryIDs []int64) (map[int64][]domain.Tag, error)
}

func (f *fakeEntryTags) TagsForEntries(ctx context.Context, entryIDs []int64) (map[int64][]domain.Tag, error) {
	return f.tagsForEntries(ctx, entryIDs)
}

type fakeUsers struct {
	findByIDs func(ctx context.Context, ids []string) ([]*domain.User, error)
}

func (f *fakeUsers) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	return f.findByIDs(ctx, ids)
}

func newMoodTestEngine(uc *fakeMoodUsecase, tags *fakeEntryTags, users *fakeUsers) *gin.Engine {
	if tags == nil {
		tags = &fakeEntryTags{
			tagsForEntries: func(_ context.Context, _ []int64) (map[int64][]domain.Tag, error) {
				return map[int64][]domain.Tag{}, nil
			},
		}
	}
	if users == nil {
		users = &fakeUsers{
			findByIDs: func(_ context.Context, _ []string) ([]*domain.User, error) {
				return nil, nil
			},
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewMoodHandler(uc, tags, users, logger)

	r := gin.New()
	r.GET("/mood-entries", h.List)
	r.POST("/mood-entries", h.Create)
	r.POST("/mood-entries/:id/archive", h.Archive)
	r.GET("/users/:id/entries", h.ListForUser)
	return r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func entryConn(entries ...*domain.MoodEntry) pagination.Connection[*domain.MoodEntry] {
	return pagination.Build(entries, len(entries), func(e *domain.MoodEntry) string {
		return "1"
	})
}

// ---- List ----

func TestListEntries_InvalidFirst_Returns400(t *testing.T) {
	uc := &fakeMoodUsecase{}
	w := get(t, newMoodTestEngine(uc, nil, nil), "/mood-entries?first=0")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEntries_InvalidCursor_Returns400(t *testing.T) {
	uc := &fakeMoodUsecase{
		list: func(_ context.Context, _ usecase.ListEntriesInput) (pagination.Connection[*domain.MoodEntry], error) {
			return pagination.Connection[*domain.MoodEntry]{}, pagination.ErrInvalidCursor
		},
	}
	w := get(t, newMoodTestEngine(uc, nil, nil), "/mood-entries?after=%21%21%21")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEntries_RendersTagsAndUsers(t *testing.T) {
	now := time.Now()
	delta := -3
	uc := &fakeMoodUsecase{
		list: func(_ context.Context, input usecase.ListEntriesInput) (pagination.Connection[*domain.MoodEntry], error) {
			return entryConn(
				&domain.MoodEntry{ID: 2, UserID: "u1", Mood: 4, Delta: &delta, CreatedAt: now},
				&domain.MoodEntry{ID: 1, UserID: "u1", Mood: 7, CreatedAt: now},
			), nil
		},
	}
	tags := &fakeEntryTags{
		tagsForEntries: func(_ context.Context, entryIDs []int64) (map[int64][]domain.Tag, error) {
			assert.ElementsMatch(t, []int64{2, 1}, entryIDs)
			return map[int64][]domain.Tag{
				2: {{Name: "stress"}},
				1: {},
			}, nil
		},
	}
	users := &fakeUsers{
		findByIDs: func(_ context.Context, ids []string) ([]*domain.User, error) {
			assert.Equal(t, []string{"u1"}, ids)
			return []*domain.User{{ID: "u1", Name: "Ada", Email: "ada@example.com"}}, nil
		},
	}

	w := get(t, newMoodTestEngine(uc, tags, users), "/mood-entries")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Edges []struct {
			Cursor string `json:"cursor"`
			Node   struct {
				ID    string `json:"id"`
				Mood  int    `json:"mood"`
				Delta *int   `json:"delta"`
				User  *struct {
					Name string `json:"name"`
				} `json:"user"`
				Tags []struct {
					Name string `json:"name"`
				} `json:"tags"`
			} `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool `json:"has_next_page"`
		} `json:"page_info"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Edges, 2)
	assert.Equal(t, "2", resp.Edges[0].Node.ID)
	require.NotNil(t, resp.Edges[0].Node.Delta)
	assert.Equal(t, -3, *resp.Edges[0].Node.Delta)
	assert.Nil(t, resp.Edges[1].Node.Delta)
	require.NotNil(t, resp.Edges[0].Node.User)
	assert.Equal(t, "Ada", resp.Edges[0].Node.User.Name)
	require.Len(t, resp.Edges[0].Node.Tags, 1)
	assert.Equal(t, "stress", resp.Edges[0].Node.Tags[0].Name)
	assert.Empty(t, resp.Edges[1].Node.Tags)
	assert.False(t, resp.PageInfo.HasNextPage)
}

func TestListForUser_ScopesToPathParam(t *testing.T) {
	var gotUserIDs []string
	uc := &fakeMoodUsecase{
		list: func(_ context.Context, input usecase.ListEntriesInput) (pagination.Connection[*domain.MoodEntry], error) {
			gotUserIDs = input.UserIDs
			return entryConn(), nil
		},
	}
	w := get(t, newMoodTestEngine(uc, nil, nil), "/users/u42/entries")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"u42"}, gotUserIDs)
}

// ---- Create ----

func TestLogMood_MissingMood_Returns400(t *testing.T) {
	uc := &fakeMoodUsecase{}
	w := postJSON(t, newMoodTestEngine(uc, nil, nil), "/mood-entries", `{"user_id":"u1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogMood_MoodOutOfRange_Returns400(t *testing.T) {
	uc := &fakeMoodUsecase{}
	w := postJSON(t, newMoodTestEngine(uc, nil, nil), "/mood-entries", `{"user_id":"u1","mood":11}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogMood_UnknownUser_Returns404(t *testing.T) {
	uc := &fakeMoodUsecase{
		logMood: func(_ context.Context, _ usecase.LogMoodInput) (*domain.MoodEntry, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	w := postJSON(t, newMoodTestEngine(uc, nil, nil), "/mood-entries", `{"user_id":"ghost","mood":5}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogMood_Success_Returns201(t *testing.T) {
	uc := &fakeMoodUsecase{
		logMood: func(_ context.Context, input usecase.LogMoodInput) (*domain.MoodEntry, error) {
			assert.Equal(t, "u1", input.UserID)
			assert.Equal(t, 8, input.Mood)
			assert.Equal(t, []string{"happy", "sunny"}, input.Tags)
			return &domain.MoodEntry{ID: 9, UserID: "u1", Mood: 8, CreatedAt: time.Now()}, nil
		},
	}
	w := postJSON(t, newMoodTestEngine(uc, nil, nil), "/mood-entries",
		`{"user_id":"u1","mood":8,"tags":["happy","sunny"]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"9"`)
}

// ---- Archive ----

func TestArchiveEntry_NonNumericID_Returns404(t *testing.T) {
	uc := &fakeMoodUsecase{}
	w := postJSON(t, newMoodTestEngine(uc, nil, nil), "/mood-entries/abc/archive", `{}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchiveEntry_NotFound_Returns404(t *testing.T) {
	uc := &fakeMoodUsecase{
		archive: func(_ context.Context, id int64) (*domain.MoodEntry, error) {
			assert.Equal(t, int64(7), id)
			return nil, domain.ErrEntryNotFound
		},
	}
	w := postJSON(t, newMoodTestEngine(uc, nil, nil), "/mood-entries/7/archive", `{}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchiveEntry_Success_Returns200(t *testing.T) {
	archivedAt := time.Now()
	uc := &fakeMoodUsecase{
		archive: func(_ context.Context, id int64) (*domain.MoodEntry, error) {
			return &domain.MoodEntry{ID: id, UserID: "u1", Mood: 5, ArchivedAt: &archivedAt}, nil
		},
	}
	w := postJSON(t, newMoodTestEngine(uc, nil, nil), "/mood-entries/7/archive", `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"archived_at"`)
}
