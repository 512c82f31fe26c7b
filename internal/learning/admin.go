package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/learnhub/courseguard/pkg/audit"
	"github.com/learnhub/courseguard/pkg/entity"
	"github.com/learnhub/courseguard/pkg/sanitizer"
)

const (
	RoleAdmin = "admin"

	adminPageSize  = 100
	activeUserSpan = 7 * 24 * time.Hour
)

// RequireAdmin fails with ErrForbidden unless userID has the admin role.
// Denied attempts by known users land on the security feed.
func (s *Service) RequireAdmin(ctx context.Context, userID string) error {
	rec, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if rec.String("role") != RoleAdmin {
		s.record(ctx, rec, "suspicious_activity", "user", userID, map[string]any{
			"reason": "admin_access_denied",
		})
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

// AdminUser is a user row in the admin console. Contact details are masked.
type AdminUser struct {
	ID          string     `json:"id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedDate time.Time  `json:"created_date"`
}

// Users lists the newest 100 users, optionally narrowed by a case-insensitive
// match on name or email. The match runs before masking.
func (s *Service) Users(ctx context.Context, search string) ([]AdminUser, error) {
	recs, err := s.store.List(ctx, entity.User, "-"+entity.FieldCreatedDate, adminPageSize)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(sanitizer.SanitizePlain(search)))
	out := make([]AdminUser, 0, len(recs))
	for _, rec := range recs {
		name := rec.String("full_name")
		email := rec.String("email")
		if needle != "" &&
			!strings.Contains(strings.ToLower(name), needle) &&
			!strings.Contains(strings.ToLower(email), needle) {
			continue
		}
		created, _ := rec.Time(entity.FieldCreatedDate)
		out = append(out, AdminUser{
			ID:          rec.ID(),
			FullName:    sanitizer.SanitizePlain(name),
			Email:       sanitizer.MaskEmail(email),
			Phone:       sanitizer.MaskPhoneNumber(rec.String("phone")),
			Role:        rec.String("role"),
			LastLoginAt: timePtr(rec, "last_login_at"),
			CreatedDate: created,
		})
	}
	return out, nil
}

// AuditView is an audit entry as shown to admins.
type AuditView struct {
	audit.Entry
	Security bool `json:"security"`
}

// AuditLog returns the latest 100 entries, newest first, with emails masked.
func (s *Service) AuditLog(ctx context.Context) ([]AuditView, error) {
	entries, err := s.audit.Recent(ctx, adminPageSize)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	return auditViews(entries), nil
}

// SecurityEvents returns failed logins, suspicious activity and permission
// changes from the latest 100 entries.
func (s *Service) SecurityEvents(ctx context.Context) ([]AuditView, error) {
	entries, err := s.audit.SecurityEvents(ctx, adminPageSize)
	if err != nil {
		return nil, fmt.Errorf("list security events: %w", err)
	}
	return auditViews(entries), nil
}

func auditViews(entries []audit.Entry) []AuditView {
	out := make([]AuditView, 0, len(entries))
	for _, e := range entries {
		e.UserEmail = sanitizer.MaskEmail(e.UserEmail)
		out = append(out, AuditView{Entry: e, Security: audit.IsSecurityEvent(e.Action)})
	}
	return out
}

// PlatformStats are the admin dashboard counters.
type PlatformStats struct {
	TotalUsers       int                `json:"total_users"`
	ActiveUsers      int                `json:"active_users"`
	TotalCourses     int                `json:"total_courses"`
	PublishedCourses int                `json:"published_courses"`
	CoursesByStatus  map[string]int     `json:"courses_by_status"`
	TotalEnrollments int                `json:"total_enrollments"`
	TotalRevenue     float64            `json:"total_revenue"`
	GeneratedAt      time.Time          `json:"generated_at"`
	RevenueByCourse  map[string]float64 `json:"revenue_by_course,omitempty"`
}

// Stats aggregates users, courses and enrollments. Active users logged in
// during the last seven days.
func (s *Service) Stats(ctx context.Context) (PlatformStats, error) {
	now := s.now()

	users, err := s.store.List(ctx, entity.User, "", 0)
	if err != nil {
		return PlatformStats{}, fmt.Errorf("list users: %w", err)
	}
	courses, err := s.store.List(ctx, entity.Course, "", 0)
	if err != nil {
		return PlatformStats{}, fmt.Errorf("list courses: %w", err)
	}
	enrollments, err := s.store.List(ctx, entity.Enrollment, "", 0)
	if err != nil {
		return PlatformStats{}, fmt.Errorf("list enrollments: %w", err)
	}

	stats := PlatformStats{
		TotalUsers:       len(users),
		TotalCourses:     len(courses),
		TotalEnrollments: len(enrollments),
		CoursesByStatus:  map[string]int{},
		RevenueByCourse:  map[string]float64{},
		GeneratedAt:      now.UTC(),
	}
	for _, u := range users {
		if t, ok := u.Time("last_login_at"); ok && now.Sub(t) < activeUserSpan {
			stats.ActiveUsers++
		}
	}
	for _, c := range courses {
		status := c.String("status")
		stats.CoursesByStatus[status]++
		if status == CoursePublished {
			stats.PublishedCourses++
		}
	}
	for _, e := range enrollments {
		amount := e.Float("payment_amount")
		stats.TotalRevenue += amount
		if amount > 0 {
			stats.RevenueByCourse[e.String("course_id")] += amount
		}
	}
	return stats, nil
}
