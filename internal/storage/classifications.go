package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/workshopkit/wrench/internal/model"
)

// SaveClassifications persists audit records produced from an analysis.
// The engine never calls this; persistence is the caller's responsibility.
func (s *SQLiteStorage) SaveClassifications(ctx context.Context, records []model.ClassificationRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classifications
			(source_id, original_text, dimension, category_id, matched_texts, keyword_ids, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		matchedJSON, err := json.Marshal(rec.MatchedTexts)
		if err != nil {
			return fmt.Errorf("failed to encode matched texts: %w", err)
		}
		keywordJSON, err := json.Marshal(rec.KeywordIDs)
		if err != nil {
			return fmt.Errorf("failed to encode keyword ids: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			rec.SourceID,
			rec.OriginalText,
			string(rec.Dimension),
			rec.CategoryID,
			string(matchedJSON),
			string(keywordJSON),
			rec.Confidence,
		); err != nil {
			return fmt.Errorf("failed to insert classification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit classifications: %w", err)
	}

	slog.Debug("saved classifications", "count", len(records))
	return nil
}

// GetClassifications returns the audit trail for a source record, newest
// first.
func (s *SQLiteStorage) GetClassifications(ctx context.Context, sourceID int64) ([]model.ClassificationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, source_id, original_text, dimension, category_id,
		       matched_texts, keyword_ids, confidence, created_at
		FROM classifications
		WHERE source_id = ?
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var records []model.ClassificationRecord
	for rows.Next() {
		var rec model.ClassificationRecord
		var dimension, matchedJSON, keywordJSON string
		if err := rows.Scan(&rec.ID, &rec.SourceID, &rec.OriginalText, &dimension,
			&rec.CategoryID, &matchedJSON, &keywordJSON, &rec.Confidence, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		rec.Dimension = model.Dimension(dimension)
		if err := json.Unmarshal([]byte(matchedJSON), &rec.MatchedTexts); err != nil {
			return nil, fmt.Errorf("classification %d has malformed matched texts: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(keywordJSON), &rec.KeywordIDs); err != nil {
			return nil, fmt.Errorf("classification %d has malformed keyword ids: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classifications: %w", err)
	}

	return records, nil
}
