package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/repository"
)

type TagRepository struct {
	pool *pgxpool.Pool
}

func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

func (r *TagRepository) List(ctx context.Context, input repository.ListTagsInput) ([]*domain.Tag, error) {
	args := []any{}
	where := []string{"TRUE"}

	if !input.IncludeArchived {
		where = append(where, "archived_at IS NULL")
	}
	if input.AfterName != nil {
		args = append(args, *input.AfterName)
		where = append(where, fmt.Sprintf("name > $%d", len(args)))
	}
	if input.Search != "" {
		// Substring match plus pg_trgm similarity for typo tolerance
		// ("hapy" still finds "happy"). 0.3 is pg_trgm's default threshold.
		args = append(args, input.Search)
		where = append(where, fmt.Sprintf(
			"(name ILIKE '%%' || $%d || '%%' OR similarity(name, $%d) > 0.3)",
			len(args), len(args)))
	}
	args = append(args, input.Limit)

	query := fmt.Sprintf(`
		SELECT name, metadata, archived_at
		FROM tags
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d`,
		strings.Join(where, " AND "), len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) UpdateMetadata(ctx context.Context, name string, metadata map[string]any) (*domain.Tag, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tags
		SET    metadata = $2
		WHERE  name = $1
		RETURNING name, metadata, archived_at`, name, metadata)
	return scanTag(row)
}

func (r *TagRepository) SetArchived(ctx context.Context, name string, archived bool) (*domain.Tag, error) {
	var row pgx.Row
	if archived {
		row = r.pool.QueryRow(ctx, `
			UPDATE tags
			SET    archived_at = NOW()
			WHERE  name = $1 AND archived_at IS NULL
			RETURNING name, metadata, archived_at`, name)
	} else {
		row = r.pool.QueryRow(ctx, `
			UPDATE tags
			SET    archived_at = NULL
			WHERE  name = $1 AND archived_at IS NOT NULL
			RETURNING name, metadata, archived_at`, name)
	}
	return scanTag(row)
}

func scanTag(row rowScanner) (*domain.Tag, error) {
	var t domain.Tag
	err := row.Scan(&t.Name, &t.Metadata, &t.ArchivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, fmt.Errorf("scan tag: %w", err)
	}
	return &t, nil
}
