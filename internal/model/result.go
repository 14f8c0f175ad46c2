package model

import "time"

// CategoryScore is the scorer's per-category aggregate for one analysis.
type CategoryScore struct {
	MatchedTexts []string `json:"matched_texts"`
	KeywordIDs   []int64  `json:"keyword_ids"`
	CategoryID   int64    `json:"category_id"`
	Confidence   float64  `json:"confidence"`
	KeywordCount int      `json:"keyword_count"`
}

// CategoryDetection joins a CategoryScore with its category metadata for
// the output contract.
type CategoryDetection struct {
	CategoryName string   `json:"category_name"`
	Color        string   `json:"color"`
	MatchedTexts []string `json:"matched_texts"`
	KeywordIDs   []int64  `json:"keyword_ids"`
	CategoryID   int64    `json:"category_id"`
	Confidence   float64  `json:"confidence"`
}

// AnalysisResult is the structured output of classifying one description
// across both dimensions.
type AnalysisResult struct {
	SourceID          *int64              `json:"source_id,omitempty"`
	OverallConfidence *float64            `json:"overall_confidence"`
	PartsDetected     []CategoryDetection `json:"parts_detected"`
	LaborDetected     []CategoryDetection `json:"labor_detected"`
	TotalDetections   int                 `json:"total_detections"`
	ProcessingTimeMS  float64             `json:"processing_time_ms"`
}

// ClassificationRecord is the audit artifact built from one detection.
// The engine produces the data; persistence is the caller's responsibility.
type ClassificationRecord struct {
	CreatedAt    time.Time `json:"created_at"`
	OriginalText string    `json:"original_text"`
	Dimension    Dimension `json:"dimension"`
	MatchedTexts []string  `json:"matched_texts"`
	KeywordIDs   []int64   `json:"keyword_ids"`
	ID           int64     `json:"id"`
	SourceID     int64     `json:"source_id"`
	CategoryID   int64     `json:"category_id"`
	Confidence   float64   `json:"confidence"`
}

// Records flattens a result into audit records for the given source text.
// Results without a source id produce no records.
func (r *AnalysisResult) Records(originalText string) []ClassificationRecord {
	if r.SourceID == nil {
		return nil
	}
	records := make([]ClassificationRecord, 0, len(r.PartsDetected)+len(r.LaborDetected))
	appendDim := func(dim Dimension, detections []CategoryDetection) {
		for _, d := range detections {
			records = append(records, ClassificationRecord{
				SourceID:     *r.SourceID,
				OriginalText: originalText,
				Dimension:    dim,
				CategoryID:   d.CategoryID,
				MatchedTexts: d.MatchedTexts,
				KeywordIDs:   d.KeywordIDs,
				Confidence:   d.Confidence,
			})
		}
	}
	appendDim(DimensionParts, r.PartsDetected)
	appendDim(DimensionLabor, r.LaborDetected)
	return records
}
