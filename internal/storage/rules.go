package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/workshopkit/wrench/internal/common"
	"github.com/workshopkit/wrench/internal/model"
)

// loadRetryOpts is the retry policy for rule loads. Retries live here at
// the I/O boundary; the engine itself never retries.
var loadRetryOpts = common.RetryOptions{MaxAttempts: 3}

// LoadRules returns the active categories and keywords for a dimension.
// It implements rules.Store.
func (s *SQLiteStorage) LoadRules(ctx context.Context, dim model.Dimension) ([]model.Category, []model.Keyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, nil, err
	}
	if err := validateDimension(dim); err != nil {
		return nil, nil, err
	}

	var (
		categories []model.Category
		keywords   []model.Keyword
	)
	err := common.WithRetry(ctx, func() error {
		var err error
		categories, keywords, err = s.loadRules(ctx, dim)
		return err
	}, loadRetryOpts)
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("loaded rules", "dimension", dim, "categories", len(categories), "keywords", len(keywords))
	return categories, keywords, nil
}

func (s *SQLiteStorage) loadRules(ctx context.Context, dim model.Dimension) ([]model.Category, []model.Keyword, error) {
	catQuery := `
		SELECT id, dimension, name, color, is_active, created_at
		FROM categories
		WHERE dimension = ? AND is_active = 1
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, catQuery, string(dim))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		var dimension string
		if err := rows.Scan(&cat.ID, &dimension, &cat.Name, &cat.Color, &cat.IsActive, &cat.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Dimension = model.Dimension(dimension)
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating categories: %w", err)
	}

	kwQuery := `
		SELECT k.id, k.category_id, k.literal, k.synonyms, k.weight, k.is_active
		FROM keywords k
		JOIN categories c ON c.id = k.category_id
		WHERE c.dimension = ? AND c.is_active = 1 AND k.is_active = 1
		ORDER BY k.weight DESC, k.id`

	kwRows, err := s.db.QueryContext(ctx, kwQuery, string(dim))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer kwRows.Close()

	var keywords []model.Keyword
	for kwRows.Next() {
		var kw model.Keyword
		var synonymsJSON string
		if err := kwRows.Scan(&kw.ID, &kw.CategoryID, &kw.Literal, &synonymsJSON, &kw.Weight, &kw.IsActive); err != nil {
			return nil, nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		if err := json.Unmarshal([]byte(synonymsJSON), &kw.Synonyms); err != nil {
			return nil, nil, fmt.Errorf("keyword %d has malformed synonyms: %w", kw.ID, err)
		}
		keywords = append(keywords, kw)
	}
	if err := kwRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating keywords: %w", err)
	}

	return categories, keywords, nil
}
