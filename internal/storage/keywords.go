package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/workshopkit/wrench/internal/common"
	"github.com/workshopkit/wrench/internal/model"
)

// AddKeyword attaches a keyword (with optional synonyms) to a category.
func (s *SQLiteStorage) AddKeyword(ctx context.Context, categoryID int64, literal string, synonyms []string, weight float64) (*model.Keyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(literal, "literal"); err != nil {
		return nil, err
	}
	if weight <= 0 {
		return nil, fmt.Errorf("%w: weight %.2f must be positive", common.ErrInvalidKeyword, weight)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)`, categoryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, categoryID)
	}

	if synonyms == nil {
		synonyms = []string{}
	}
	synonymsJSON, err := json.Marshal(synonyms)
	if err != nil {
		return nil, fmt.Errorf("failed to encode synonyms: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO keywords (category_id, literal, synonyms, weight, is_active)
		VALUES (?, ?, ?, ?, 1)`, categoryID, literal, string(synonymsJSON), weight)
	if err != nil {
		return nil, fmt.Errorf("failed to insert keyword: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword id: %w", err)
	}

	slog.Info("added keyword", "category_id", categoryID, "literal", literal, "id", id)
	return &model.Keyword{
		ID:         id,
		CategoryID: categoryID,
		Literal:    literal,
		Synonyms:   synonyms,
		Weight:     weight,
		IsActive:   true,
	}, nil
}

// GetKeywords returns all active keywords for a category.
func (s *SQLiteStorage) GetKeywords(ctx context.Context, categoryID int64) ([]model.Keyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, category_id, literal, synonyms, weight, is_active
		FROM keywords
		WHERE category_id = ? AND is_active = 1
		ORDER BY weight DESC, id`

	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer rows.Close()

	var keywords []model.Keyword
	for rows.Next() {
		var kw model.Keyword
		var synonymsJSON string
		if err := rows.Scan(&kw.ID, &kw.CategoryID, &kw.Literal, &synonymsJSON, &kw.Weight, &kw.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		if err := json.Unmarshal([]byte(synonymsJSON), &kw.Synonyms); err != nil {
			return nil, fmt.Errorf("keyword %d has malformed synonyms: %w", kw.ID, err)
		}
		keywords = append(keywords, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keywords: %w", err)
	}

	return keywords, nil
}

// DeactivateKeyword marks a keyword inactive.
func (s *SQLiteStorage) DeactivateKeyword(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE keywords SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate keyword: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivation: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: keyword %d", common.ErrNotFound, id)
	}

	slog.Info("deactivated keyword", "id", id)
	return nil
}
