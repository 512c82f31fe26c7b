package audit

import (
	"context"
	"fmt"
	"maps"
	"time"
)

// Detail keys NewEntry always sets.
const (
	DetailClientTimestamp = "client_timestamp"
	DetailPageURL         = "page_url"
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one audit record.
type Entry struct {
	ID           string         `json:"id,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Details      map[string]any `json:"details"`
	Timestamp    time.Time      `json:"timestamp"`
	Severity     Severity       `json:"severity"`
	UserID       string         `json:"user_id,omitempty"`
	UserEmail    string         `json:"user_email,omitempty"`
}

// Validate checks if the entry has all required fields.
func (e Entry) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidEntry)
	}
	return nil
}

// NewEntry builds an entry stamped with the current time.
func NewEntry(ctx context.Context, action, resourceType, resourceID string, details map[string]any) Entry {
	return newEntryAt(ctx, time.Now(), action, resourceType, resourceID, details)
}

// newEntryAt copies details, never mutating the caller's map, and adds
// client_timestamp and page_url. page_url is nil without WithPagePath.
func newEntryAt(ctx context.Context, now time.Time, action, resourceType, resourceID string, details map[string]any) Entry {
	now = now.UTC()

	d := make(map[string]any, len(details)+2)
	maps.Copy(d, details)
	d[DetailClientTimestamp] = FormatTimestamp(now)
	d[DetailPageURL] = nil
	if path, ok := PagePath(ctx); ok {
		d[DetailPageURL] = path
	}

	return Entry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      d,
		Timestamp:    now,
		Severity:     SeverityOf(action),
	}
}

// FormatTimestamp renders t in UTC with millisecond precision and a Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
