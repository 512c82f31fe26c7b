package audit

import (
	"log/slog"
	"slices"
)

// Severity classifies an entry for triage.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

var (
	criticalActions = []string{"delete_course", "permission_change", "failed_login", "suspicious_activity"}
	warningActions  = []string{"payment", "update_course", "password_change"}

	// securityActions are highlighted on the admin dashboard.
	securityActions = []string{"failed_login", "suspicious_activity", "permission_change"}
)

// SeverityOf returns the fixed classification of action. Unknown actions are
// info.
func SeverityOf(action string) Severity {
	switch {
	case slices.Contains(criticalActions, action):
		return SeverityCritical
	case slices.Contains(warningActions, action):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// IsSecurityEvent reports whether action belongs on the security feed.
func IsSecurityEvent(action string) bool {
	return slices.Contains(securityActions, action)
}

// Level maps severity to the slog level entries are logged at.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityCritical:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
