package triage

import "clamio/internal/domain"

// Pure presentation mapping for the dashboard: status/severity to icon name
// and hex color. No side effects; rendering only.

func SeverityIcon(severity string) string {
	switch severity {
	case domain.SeverityCritical:
		return "alert-octagon"
	case domain.SeverityHigh:
		return "alert-triangle"
	case domain.SeverityMedium:
		return "alert-circle"
	case domain.SeverityLow:
		return "info"
	default:
		return "help-circle"
	}
}

func SeverityColor(severity string) string {
	switch severity {
	case domain.SeverityCritical:
		return "#dc2626"
	case domain.SeverityHigh:
		return "#ea580c"
	case domain.SeverityMedium:
		return "#d97706"
	case domain.SeverityLow:
		return "#2563eb"
	default:
		return "#6b7280"
	}
}

func StatusIcon(status string) string {
	switch status {
	case domain.StatusPending:
		return "clock"
	case domain.StatusInProgress:
		return "loader"
	case domain.StatusResolved:
		return "check-circle"
	case domain.StatusDismissed:
		return "x-circle"
	default:
		return "help-circle"
	}
}

func StatusColor(status string) string {
	switch status {
	case domain.StatusPending:
		return "#d97706"
	case domain.StatusInProgress:
		return "#2563eb"
	case domain.StatusResolved:
		return "#16a34a"
	case domain.StatusDismissed:
		return "#6b7280"
	default:
		return "#6b7280"
	}
}
