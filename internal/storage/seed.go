package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/workshopkit/wrench/internal/model"
)

type seedKeyword struct {
	Literal  string
	Synonyms []string
	Weight   float64
}

type seedCategory struct {
	Name     string
	Color    string
	Keywords []seedKeyword
}

// defaultRules is the starter vocabulary for a hydraulic-equipment workshop.
func defaultRules() map[model.Dimension][]seedCategory {
	return map[model.Dimension][]seedCategory{
		model.DimensionParts: {
			{
				Name:  "Filters",
				Color: "#007bff",
				Keywords: []seedKeyword{
					{Literal: "filter", Synonyms: []string{"strainer", "filtro"}, Weight: 1.0},
					{Literal: "oil filter", Synonyms: []string{"filtro de aceite"}, Weight: 1.2},
					{Literal: "air filter", Synonyms: []string{"filtro de aire"}, Weight: 1.2},
				},
			},
			{
				Name:  "Hoses",
				Color: "#28a745",
				Keywords: []seedKeyword{
					{Literal: "hose", Synonyms: []string{"manguera", "line"}, Weight: 1.0},
					{Literal: "hydraulic hose", Synonyms: []string{"manguera hidraulica"}, Weight: 1.2},
				},
			},
			{
				Name:  "Seals",
				Color: "#ffc107",
				Keywords: []seedKeyword{
					{Literal: "seal", Synonyms: []string{"reten", "o ring", "gasket"}, Weight: 1.0},
				},
			},
			{
				Name:  "Hydraulic Pumps",
				Color: "#dc3545",
				Keywords: []seedKeyword{
					{Literal: "pump", Synonyms: []string{"bomba"}, Weight: 1.0},
					{Literal: "hydraulic pump", Synonyms: []string{"bomba hidraulica"}, Weight: 1.3},
				},
			},
			{
				Name:  "Oils and Lubricants",
				Color: "#6f42c1",
				Keywords: []seedKeyword{
					{Literal: "oil", Synonyms: []string{"aceite", "lubricant", "grease"}, Weight: 0.8},
					{Literal: "hydraulic oil", Synonyms: []string{"aceite hidraulico"}, Weight: 1.2},
				},
			},
			{
				Name:  "Electrical Parts",
				Color: "#fd7e14",
				Keywords: []seedKeyword{
					{Literal: "cable", Synonyms: []string{"wire", "terminal"}, Weight: 1.0},
					{Literal: "battery", Synonyms: []string{"bateria"}, Weight: 1.1},
				},
			},
		},
		model.DimensionLabor: {
			{
				Name:  "General Service",
				Color: "#17a2b8",
				Keywords: []seedKeyword{
					{Literal: "service", Synonyms: []string{"servicio", "maintenance"}, Weight: 1.0},
					{Literal: "preventive service", Synonyms: []string{"service preventivo"}, Weight: 1.2},
					{Literal: "lubrication", Synonyms: []string{"lubricacion", "greasing"}, Weight: 1.0},
				},
			},
			{
				Name:  "Repair",
				Color: "#dc3545",
				Keywords: []seedKeyword{
					{Literal: "repair", Synonyms: []string{"reparacion", "fix", "overhaul"}, Weight: 1.0},
					{Literal: "replacement", Synonyms: []string{"cambio", "reemplazo"}, Weight: 1.0},
				},
			},
			{
				Name:  "Welding",
				Color: "#6c757d",
				Keywords: []seedKeyword{
					{Literal: "welding", Synonyms: []string{"soldadura", "weld"}, Weight: 1.2},
				},
			},
			{
				Name:  "Electrical Work",
				Color: "#fd7e14",
				Keywords: []seedKeyword{
					{Literal: "electrical", Synonyms: []string{"electrico", "electrica", "wiring"}, Weight: 1.1},
				},
			},
		},
	}
}

// Seed installs the starter vocabulary. Dimensions that already have
// categories are left untouched.
func (s *SQLiteStorage) Seed(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	for dim, seedCategories := range defaultRules() {
		existing, err := s.GetCategories(ctx, dim)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			slog.Debug("dimension already seeded, skipping", "dimension", dim, "categories", len(existing))
			continue
		}

		for _, sc := range seedCategories {
			cat, err := s.CreateCategory(ctx, dim, sc.Name, sc.Color)
			if err != nil {
				return fmt.Errorf("seeding category %q: %w", sc.Name, err)
			}
			for _, kw := range sc.Keywords {
				if _, err := s.AddKeyword(ctx, cat.ID, kw.Literal, kw.Synonyms, kw.Weight); err != nil {
					return fmt.Errorf("seeding keyword %q: %w", kw.Literal, err)
				}
			}
		}

		slog.Info("seeded default rules", "dimension", dim, "categories", len(seedCategories))
	}

	return nil
}
