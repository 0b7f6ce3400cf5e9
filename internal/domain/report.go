package domain

import (
	"fmt"
	"strings"
)

const (
	reportTitle      = "WATER QUALITY ANALYSIS REPORT"
	reportDateLayout = "2006-01-02"
	reportDisclaimer = "This report is generated automatically from submitted observations and " +
		"reference thresholds. Confirm with a certified laboratory or your local health center " +
		"before making health decisions."

	markerRisk    = "⚠️"
	markerUrgent  = "🚨"
	markerCheck   = "✅"
	markerBullet  = "-"
	sectionRule   = "=================================="
	footerDivider = "----------------------------------"
)

// FormatReport renders a verdict as a plain-text report. Sections whose list
// is empty are omitted. The generation date comes from the package clock.
func FormatReport(v Verdict) string {
	var sb strings.Builder

	sb.WriteString(reportTitle + "\n")
	sb.WriteString(sectionRule + "\n\n")
	fmt.Fprintf(&sb, "Status: %s\n", v.SafetyLevel.Label())
	fmt.Fprintf(&sb, "Safety score: %d/100\n", v.Score)
	fmt.Fprintf(&sb, "Generated: %s\n", clock.Now().Format(reportDateLayout))

	writeSection(&sb, "DETECTED CONTAMINANTS", markerBullet, v.Contaminants)
	writeSection(&sb, "HEALTH RISKS", markerRisk, v.HealthRisks)
	writeSection(&sb, "IMMEDIATE ACTIONS", markerUrgent, v.ImmediateActions)
	writeSection(&sb, "RECOMMENDATIONS", markerCheck, v.Recommendations)

	sb.WriteString("\n" + footerDivider + "\n")
	sb.WriteString(reportDisclaimer + "\n")
	return sb.String()
}

func writeSection(sb *strings.Builder, title, marker string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "%s %s\n", marker, item)
	}
}
