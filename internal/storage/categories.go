package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/workshopkit/wrench/internal/common"
	"github.com/workshopkit/wrench/internal/model"
)

// GetCategories returns all active categories for a dimension.
func (s *SQLiteStorage) GetCategories(ctx context.Context, dim model.Dimension) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDimension(dim); err != nil {
		return nil, err
	}

	query := `
		SELECT id, dimension, name, color, is_active, created_at
		FROM categories
		WHERE dimension = ? AND is_active = 1
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, string(dim))
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		var dimension string
		if err := rows.Scan(&cat.ID, &dimension, &cat.Name, &cat.Color, &cat.IsActive, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Dimension = model.Dimension(dimension)
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "dimension", dim, "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns an active category by name within a dimension,
// or nil when not found.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, dim model.Dimension, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDimension(dim); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, dimension, name, color, is_active, created_at
		FROM categories
		WHERE dimension = ? AND name = ? AND is_active = 1`

	var cat model.Category
	var dimension string
	err := s.db.QueryRowContext(ctx, query, string(dim), name).Scan(
		&cat.ID, &dimension, &cat.Name, &cat.Color, &cat.IsActive, &cat.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	cat.Dimension = model.Dimension(dimension)
	return &cat, nil
}

// CreateCategory creates a new category in a dimension. Creating a name that
// exists but was deactivated reactivates it; a live duplicate returns
// ErrDuplicateEntry.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, dim model.Dimension, name, color string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDimension(dim); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if color == "" {
		color = "#6c757d"
	}

	existingQuery := `
		SELECT id, dimension, name, color, is_active, created_at
		FROM categories
		WHERE dimension = ? AND name = ?`

	var existing model.Category
	var dimension string
	err := s.db.QueryRowContext(ctx, existingQuery, string(dim), name).Scan(
		&existing.ID, &dimension, &existing.Name, &existing.Color, &existing.IsActive, &existing.CreatedAt,
	)
	if err == nil {
		existing.Dimension = model.Dimension(dimension)
		if existing.IsActive {
			return nil, fmt.Errorf("%w: category %q in %s", common.ErrDuplicateEntry, name, dim)
		}
		if _, err := s.db.ExecContext(ctx, `UPDATE categories SET is_active = 1, color = ? WHERE id = ?`, color, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to reactivate category: %w", err)
		}
		existing.IsActive = true
		existing.Color = color
		slog.Info("reactivated existing category", "dimension", dim, "name", name)
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (dimension, name, color, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)`, string(dim), name, color, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return nil, fmt.Errorf("%w: category %q in %s", common.ErrDuplicateEntry, name, dim)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category id: %w", err)
	}

	slog.Info("created category", "dimension", dim, "name", name, "id", id)
	return &model.Category{
		ID:        id,
		Dimension: dim,
		Name:      name,
		Color:     color,
		IsActive:  true,
		CreatedAt: now,
	}, nil
}

// DeactivateCategory marks a category inactive. Its keywords stop matching
// because rule loads join on active categories.
func (s *SQLiteStorage) DeactivateCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE categories SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivation: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}

	slog.Info("deactivated category", "id", id)
	return nil
}
