package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/workshopkit/wrench/internal/model"
)

// RenderAnalysis formats one analysis result for terminal display. Category
// names are tinted with each category's configured display color.
func RenderAnalysis(result *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Analysis"))
	b.WriteString("\n")

	renderDimension(&b, "Parts", result.PartsDetected)
	renderDimension(&b, "Labor", result.LaborDetected)

	if result.OverallConfidence != nil {
		b.WriteString(fmt.Sprintf("\n%s %s\n",
			BoldStyle.Render("Overall confidence:"),
			confidenceStyle(*result.OverallConfidence).Render(fmt.Sprintf("%.1f%%", *result.OverallConfidence))))
	} else {
		b.WriteString("\n" + SubtleStyle.Render("No categories detected") + "\n")
	}

	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%d detection(s) in %.2fms", result.TotalDetections, result.ProcessingTimeMS)))
	b.WriteString("\n")

	return b.String()
}

func renderDimension(b *strings.Builder, label string, detections []model.CategoryDetection) {
	b.WriteString(BoldStyle.Render(label) + "\n")
	if len(detections) == 0 {
		b.WriteString("  " + SubtleStyle.Render("none") + "\n")
		return
	}
	for _, d := range detections {
		nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(d.Color))
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			nameStyle.Render(d.CategoryName),
			confidenceStyle(d.Confidence).Render(fmt.Sprintf("%.1f%%", d.Confidence)),
			SubtleStyle.Render(strings.Join(d.MatchedTexts, ", "))))
	}
}

// RenderCategories formats a rule listing: each category with its keywords.
func RenderCategories(categories []model.Category, keywordsByCategory map[int64][]model.Keyword) string {
	var b strings.Builder

	for _, cat := range categories {
		nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Bold(true)
		b.WriteString(fmt.Sprintf("%s %s\n", nameStyle.Render(cat.Name), SubtleStyle.Render(fmt.Sprintf("(#%d)", cat.ID))))
		for _, kw := range keywordsByCategory[cat.ID] {
			line := fmt.Sprintf("  %s (weight %.1f", kw.Literal, kw.Weight)
			if len(kw.Synonyms) > 0 {
				line += ", synonyms: " + strings.Join(kw.Synonyms, ", ")
			}
			line += ")"
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

func confidenceStyle(confidence float64) lipgloss.Style {
	switch {
	case confidence >= 80:
		return SuccessStyle
	case confidence >= 60:
		return WarningStyle
	default:
		return ErrorStyle
	}
}
