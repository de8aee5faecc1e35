package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"notes/internal/domain"
	"notes/internal/domain/models/content"
	"notes/internal/domain/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = "id, title, tags, description, content, created_time, is_deleted"

// PostgresItemRepository implements the ItemRepository interface for one category table
type PostgresItemRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

// NewItemRepository creates a new item repository for the category's collection
func NewItemRepository(config *RepositoryConfig, category content.Category) repositories.ItemRepository {
	return &PostgresItemRepository{
		pool:   config.Pool,
		table:  config.Tables.For(category.Collection),
		logger: config.Logger,
	}
}

// Find returns one page of items, most recently inserted first
func (r *PostgresItemRepository) Find(ctx context.Context, filter content.ItemFilter, offset, limit int) ([]content.Item, error) {
	where, args := buildWhere(filter)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		%s
		ORDER BY seq DESC
		LIMIT $%d OFFSET $%d
	`, itemColumns, r.table, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateQueryError("find items", err)
	}
	defer rows.Close()

	items := []content.Item{}
	for rows.Next() {
		var item content.Item
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Tags,
			&item.Description,
			&item.Content,
			&item.CreatedTime,
			&item.IsDeleted,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, translateQueryError("iterate items", err)
	}

	return items, nil
}

// Count returns the number of items matching the filter
func (r *PostgresItemRepository) Count(ctx context.Context, filter content.ItemFilter) (int64, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, r.table, where)

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, translateQueryError("count items", err)
	}

	return count, nil
}

// Insert creates a new item
func (r *PostgresItemRepository) Insert(ctx context.Context, item *content.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.table, itemColumns)

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Title,
		item.Tags,
		item.Description,
		item.Content,
		item.CreatedTime,
		item.IsDeleted,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("item %s: %w", item.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

// Update sets the non-nil fields of patch
func (r *PostgresItemRepository) Update(ctx context.Context, id string, patch *content.ItemPatch) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", id)}
	}

	sets, args := buildSet(patch)
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d
	`, r.table, strings.Join(sets, ", "), len(args))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", id)}
	}

	return nil
}

// Delete physically removes an item
func (r *PostgresItemRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", id)}
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", id)}
	}

	return nil
}

// AllContent returns the content column of every row
func (r *PostgresItemRepository) AllContent(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT content FROM %s`, r.table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all content: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		contents = append(contents, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content: %w", err)
	}

	return contents, nil
}

// buildWhere translates a filter into a WHERE clause with positional args
func buildWhere(filter content.ItemFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Keyword != "" {
		args = append(args, filter.Keyword)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ~* $%d OR description ~* $%d OR content ~* $%d OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ~* $%d))",
			n, n, n, n,
		))
	}

	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		conditions = append(conditions, fmt.Sprintf("created_time >= $%d", len(args)))
	}

	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		conditions = append(conditions, fmt.Sprintf("created_time <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// buildSet translates a patch into SET assignments with positional args
func buildSet(patch *content.ItemPatch) ([]string, []interface{}) {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Tags != nil {
		add("tags", *patch.Tags)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.IsDeleted != nil {
		add("is_deleted", *patch.IsDeleted)
	}
	add("created_time", patch.CreatedTime)

	return sets, args
}

// translateQueryError maps a rejected keyword pattern onto a validation error
func translateQueryError(op string, err error) error {
	if IsPgInvalidRegexError(err) {
		return &domain.ValidationError{Message: "keyword is not a valid regular expression"}
	}
	return fmt.Errorf("%s: %w", op, err)
}
