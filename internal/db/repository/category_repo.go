package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

type categoryStore interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const listCategoriesSQL = `SELECT id, type FROM categories ORDER BY id`

// CategoryRepository reads the categories table.
type CategoryRepository struct {
	store categoryStore
}

var _ trivia.CategoryStore = (*CategoryRepository)(nil)

func NewCategoryRepository(store categoryStore) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// ListCategories returns all categories ordered by id.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	rows, err := r.store.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []trivia.Category
	for rows.Next() {
		var c trivia.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}
