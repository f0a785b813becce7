package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chrissnell/remotewater/pkg/cwqi"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle  = lipgloss.NewStyle().Width(18)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// ratingStyle paints a rating in its band color.
func ratingStyle(name string) lipgloss.Style {
	for _, r := range cwqi.Ratings {
		if r.Name == name {
			return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(r.Color))
		}
	}
	return lipgloss.NewStyle()
}

func renderAnalysis(a cwqi.SampleAnalysis) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Water Quality Index"))
	b.WriteString("\n")
	writeResult(&b, "Health", a.HealthCWQI)
	writeResult(&b, "Aesthetic", a.AOCWQI)

	if len(a.HealthConcerns) > 0 || len(a.AOConcerns) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Concerns"))
		b.WriteString("\n")
		writeConcerns(&b, "health", a.HealthConcerns)
		writeConcerns(&b, "aesthetic", a.AOConcerns)
	}

	if a.RoadSalt != nil {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Road Salt"))
		b.WriteString("\n")
		status := a.RoadSalt.Status
		if a.RoadSalt.HasContamination {
			status = alertStyle.Render(status)
		}
		b.WriteString(labelStyle.Render("Status") + status + "\n")
		if a.RoadSalt.ClBrRatio != nil {
			b.WriteString(labelStyle.Render("Cl/Br ratio") + fmt.Sprintf("%d", *a.RoadSalt.ClBrRatio) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d health, %d aesthetic, %d general, %d bacteriological parameters",
		len(a.HealthParameters), len(a.AOParameters), len(a.GeneralParameters), len(a.Bacteriological))))
	b.WriteString("\n")
	return b.String()
}

func writeResult(b *strings.Builder, label string, r *cwqi.Result) {
	if r == nil {
		b.WriteString(labelStyle.Render(label) + mutedStyle.Render("no parameters") + "\n")
		return
	}

	line := fmt.Sprintf("%5.1f  %s", r.Score, ratingStyle(r.Rating).Render(r.Rating))
	line += mutedStyle.Render(fmt.Sprintf("  (%d/%d parameters, %d/%d tests failed)",
		r.FailedParameters, r.TotalParameters, r.FailedTests, r.TotalTests))
	b.WriteString(labelStyle.Render(label) + line + "\n")

	if r.ColiformDetected {
		msg := "coliforms detected"
		if r.PotentialScore != nil {
			msg += fmt.Sprintf(", %.1f without them", *r.PotentialScore)
		}
		b.WriteString(labelStyle.Render("") + alertStyle.Render(msg) + "\n")
	}
}

func writeConcerns(b *strings.Builder, kind string, concerns []cwqi.CategorizedParameter) {
	for _, c := range concerns {
		result := c.ResultDisplayValue
		if result == "" {
			result = c.ResultNumeric.String()
		}
		objective := c.ObjectiveDisplay
		if objective == "" {
			objective = c.ObjectiveValue.String()
		}
		b.WriteString(labelStyle.Render(c.ParameterName) +
			fmt.Sprintf("%s %s", result, c.ResultUnits) +
			mutedStyle.Render(fmt.Sprintf("  %s objective %s", kind, objective)) + "\n")
	}
}

func renderRatings(ratings []cwqi.Rating) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Rating Bands"))
	b.WriteString("\n")
	for _, r := range ratings {
		b.WriteString(labelStyle.Render(ratingStyle(r.Name).Render(r.Name)) +
			fmt.Sprintf(">= %g", r.MinScore) + mutedStyle.Render("  "+r.Color) + "\n")
	}
	return b.String()
}
