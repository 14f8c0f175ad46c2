// Package rules owns the refreshable in-memory cache of classification rules.
package rules

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/workshopkit/wrench/internal/common"
	"github.com/workshopkit/wrench/internal/metrics"
	"github.com/workshopkit/wrench/internal/model"
	"github.com/workshopkit/wrench/internal/normalize"
)

// Store loads the active rules for one dimension from the persistent store.
// Implementations own their retry policy; the repository only coalesces
// concurrent loads.
type Store interface {
	LoadRules(ctx context.Context, dimension model.Dimension) ([]model.Category, []model.Keyword, error)
}

// Repository serves immutable RuleSet snapshots, reloading from the store
// on TTL expiry or explicit invalidation.
//
// Semantics (fixed by design): an expired or missing snapshot blocks the
// caller on a single coalesced load; concurrent triggers share that load.
// If a reload fails and a previous snapshot exists, the stale snapshot is
// served and a warning is surfaced. Only a failed first-ever load returns
// a RuleLoadError. The snapshot pointer is swapped atomically, so the
// analysis hot path never takes a lock.
//
// Invalidate bumps a per-dimension generation that keys the coalesced
// flight: loads already in flight when the invalidation lands still return
// to their callers, but their result is never published, and callers
// arriving after the invalidation start a fresh load.
type Repository struct {
	store    Store
	now      func() time.Time
	parts    atomic.Pointer[model.RuleSet]
	labor    atomic.Pointer[model.RuleSet]
	partsGen atomic.Uint64
	laborGen atomic.Uint64
	group    singleflight.Group
	ttl      time.Duration
}

// NewRepository creates a repository over the given store.
func NewRepository(store Store, ttl time.Duration) *Repository {
	return &Repository{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the current snapshot for a dimension, loading or refreshing
// it when needed.
func (r *Repository) Get(ctx context.Context, dim model.Dimension) (*model.RuleSet, error) {
	slot, gen := r.slot(dim)
	if slot == nil {
		return nil, common.ErrInvalidDimension
	}

	if rs := slot.Load(); rs != nil && rs.Age(r.now()) <= r.ttl {
		return rs, nil
	}

	g := gen.Load()
	v, err, _ := r.group.Do(fmt.Sprintf("%s#%d", dim, g), func() (any, error) {
		// Re-check: another caller may have published while this one
		// waited on the flight.
		if rs := slot.Load(); rs != nil && rs.Age(r.now()) <= r.ttl {
			return rs, nil
		}
		return r.reload(ctx, dim, slot, gen, g)
	})
	if err != nil {
		return nil, err
	}
	rs, ok := v.(*model.RuleSet)
	if !ok {
		return nil, common.NewRuleLoadError(string(dim), common.ErrRuleLoad)
	}
	return rs, nil
}

// Invalidate forces the next Get for a dimension to reload regardless of
// TTL. Administrative edits must call this for immediate consistency.
func (r *Repository) Invalidate(dim model.Dimension) {
	slot, gen := r.slot(dim)
	if slot == nil {
		return
	}
	gen.Add(1)
	slot.Store(nil)
	common.LogDebug("rule cache invalidated", common.Fields{"dimension": dim})
}

// InvalidateAll invalidates both dimensions.
func (r *Repository) InvalidateAll() {
	for _, dim := range model.Dimensions() {
		r.Invalidate(dim)
	}
}

func (r *Repository) slot(dim model.Dimension) (*atomic.Pointer[model.RuleSet], *atomic.Uint64) {
	switch dim {
	case model.DimensionParts:
		return &r.parts, &r.partsGen
	case model.DimensionLabor:
		return &r.labor, &r.laborGen
	default:
		return nil, nil
	}
}

func (r *Repository) reload(ctx context.Context, dim model.Dimension, slot *atomic.Pointer[model.RuleSet], gen *atomic.Uint64, g uint64) (*model.RuleSet, error) {
	categories, keywords, err := r.store.LoadRules(ctx, dim)
	if err != nil {
		metrics.RuleReloads.WithLabelValues(string(dim), metrics.OutcomeFailure).Inc()

		if stale := slot.Load(); stale != nil {
			metrics.RuleReloads.WithLabelValues(string(dim), metrics.OutcomeStaleServed).Inc()
			common.LogWarn("rule reload failed, serving stale rule set", common.Fields{
				"dimension": dim,
				"age":       stale.Age(r.now()).String(),
				"error":     err.Error(),
			})
			return stale, nil
		}

		common.LogError(err, "rule load failed with no snapshot to fall back on", common.Fields{
			"dimension": dim,
		})
		return nil, common.NewRuleLoadError(string(dim), err)
	}

	rs := buildRuleSet(dim, categories, keywords, r.now())
	// An invalidation that landed mid-load supersedes this result: return
	// it to the callers that joined the flight, but do not publish it.
	if gen.Load() == g {
		slot.Store(rs)
	}

	metrics.RuleReloads.WithLabelValues(string(dim), metrics.OutcomeSuccess).Inc()
	metrics.RuleSetSize.WithLabelValues(string(dim)).Set(float64(len(rs.Keywords)))
	slog.Debug("rule set loaded",
		"dimension", dim,
		"categories", len(rs.Categories),
		"keywords", len(rs.Keywords))

	return rs, nil
}

// buildRuleSet filters inactive rows, drops keywords with non-positive
// weights or empty normalized literals, and normalizes every phrase so the
// matcher compares canonical forms.
func buildRuleSet(dim model.Dimension, categories []model.Category, keywords []model.Keyword, loadedAt time.Time) *model.RuleSet {
	activeCategories := make([]model.Category, 0, len(categories))
	categoryIDs := make(map[int64]bool, len(categories))
	for _, c := range categories {
		if !c.IsActive || c.Dimension != dim {
			continue
		}
		activeCategories = append(activeCategories, c)
		categoryIDs[c.ID] = true
	}

	activeKeywords := make([]model.Keyword, 0, len(keywords))
	for _, kw := range keywords {
		if !kw.IsActive || !categoryIDs[kw.CategoryID] {
			continue
		}
		if kw.Weight <= 0 {
			// Rejected at load time, treated as inactive rather than
			// failing the whole load.
			common.LogWarn("keyword has non-positive weight, skipping", common.Fields{
				"keyword_id": kw.ID,
				"literal":    kw.Literal,
				"weight":     kw.Weight,
			})
			continue
		}

		kw.Literal = normalize.Normalize(kw.Literal)
		if kw.Literal == "" {
			continue
		}
		synonyms := make([]string, 0, len(kw.Synonyms))
		for _, syn := range kw.Synonyms {
			if n := normalize.Normalize(syn); n != "" {
				synonyms = append(synonyms, n)
			}
		}
		kw.Synonyms = synonyms

		activeKeywords = append(activeKeywords, kw)
	}

	return model.NewRuleSet(dim, activeCategories, activeKeywords, loadedAt)
}
