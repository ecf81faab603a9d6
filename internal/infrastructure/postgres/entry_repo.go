package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/repository"
)

type EntryRepository struct {
	pool *pgxpool.Pool
}

func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

func (r *EntryRepository) Create(ctx context.Context, entry *domain.MoodEntry, tags []string) (*domain.MoodEntry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO mood_entries (user_id, mood, notes)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, mood, notes, created_at, archived_at`,
		entry.UserID, entry.Mood, entry.Notes,
	)

	created, err := scanEntry(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	for _, name := range tags {
		if _, err := tx.Exec(ctx,
			`INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			name,
		); err != nil {
			return nil, fmt.Errorf("ensure tag %q: %w", name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO mood_entry_tags (mood_entry_id, tag_name)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			created.ID, name,
		); err != nil {
			return nil, fmt.Errorf("attach tag %q: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// List annotates every entry's delta over the user's full, unfiltered history
// first, then filters and paginates the annotated set. Filtering before the
// window function would break deltas at page and archive boundaries.
func (r *EntryRepository) List(ctx context.Context, input repository.ListEntriesInput) ([]*domain.MoodEntry, error) {
	args := []any{}
	where := []string{"TRUE"}

	if len(input.UserIDs) > 0 {
		args = append(args, input.UserIDs)
		where = append(where, fmt.Sprintf("user_id = ANY($%d)", len(args)))
	}
	if !input.IncludeArchived {
		where = append(where, "archived_at IS NULL")
	}
	if input.AfterID != nil {
		args = append(args, *input.AfterID)
		where = append(where, fmt.Sprintf("id < $%d", len(args)))
	}
	args = append(args, input.Limit)

	query := fmt.Sprintf(`
		WITH annotated AS (
			SELECT id, user_id, mood, notes,
			       mood - LAG(mood) OVER (
			           PARTITION BY user_id ORDER BY created_at, id
			       ) AS delta,
			       created_at, archived_at
			FROM mood_entries
		)
		SELECT id, user_id, mood, notes, delta, created_at, archived_at
		FROM annotated
		WHERE %s
		ORDER BY id DESC
		LIMIT $%d`,
		strings.Join(where, " AND "), len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mood entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.MoodEntry
	for rows.Next() {
		e, err := scanAnnotatedEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *EntryRepository) Archive(ctx context.Context, id int64) (*domain.MoodEntry, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE mood_entries
		SET    archived_at = NOW()
		WHERE  id = $1 AND archived_at IS NULL
		RETURNING id, user_id, mood, notes, created_at, archived_at`, id)
	return scanEntry(row)
}

func (r *EntryRepository) TagsForEntries(ctx context.Context, entryIDs []int64) (map[int64][]domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT met.mood_entry_id, t.name, t.metadata, t.archived_at
		FROM   mood_entry_tags met
		JOIN   tags t ON t.name = met.tag_name
		WHERE  met.mood_entry_id = ANY($1)
		ORDER BY t.name`, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("tags for entries: %w", err)
	}
	defer rows.Close()

	byEntry := make(map[int64][]domain.Tag)
	for rows.Next() {
		var entryID int64
		var t domain.Tag
		if err := rows.Scan(&entryID, &t.Name, &t.Metadata, &t.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan entry tag: %w", err)
		}
		byEntry[entryID] = append(byEntry[entryID], t)
	}
	return byEntry, rows.Err()
}

func scanEntry(row rowScanner) (*domain.MoodEntry, error) {
	var e domain.MoodEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Mood, &e.Notes, &e.CreatedAt, &e.ArchivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("scan mood entry: %w", err)
	}
	return &e, nil
}

func scanAnnotatedEntry(row rowScanner) (*domain.MoodEntry, error) {
	var e domain.MoodEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Mood, &e.Notes, &e.Delta, &e.CreatedAt, &e.ArchivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("scan mood entry: %w", err)
	}
	return &e, nil
}
