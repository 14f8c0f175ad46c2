package engine

import (
	"context"

	"github.com/workshopkit/wrench/internal/model"
)

// RuleSource provides rule set snapshots for a dimension.
type RuleSource interface {
	Get(ctx context.Context, dimension model.Dimension) (*model.RuleSet, error)
}
