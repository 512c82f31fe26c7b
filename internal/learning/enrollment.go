package learning

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/learnhub/courseguard/pkg/entity"
	"github.com/learnhub/courseguard/pkg/ratelimiter"
	"github.com/learnhub/courseguard/pkg/sanitizer"
)

// Enrollment statuses.
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
)

// Enrollment ties a learner to a course and tracks progress.
type Enrollment struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	UserEmail            string     `json:"user_email,omitempty"`
	CourseID             string     `json:"course_id"`
	CourseTitle          string     `json:"course_title"`
	Status               string     `json:"status"`
	ProgressPercentage   float64    `json:"progress_percentage"`
	CompletedLessons     []string   `json:"completed_lessons"`
	PaymentAmount        float64    `json:"payment_amount"`
	EnrolledAt           time.Time  `json:"enrolled_at"`
	LastAccessedLessonID string     `json:"last_accessed_lesson_id,omitempty"`
	LastAccessedAt       *time.Time `json:"last_accessed_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	CertificateIssued    bool       `json:"certificate_issued"`
}

func enrollmentFromRecord(rec entity.Record) Enrollment {
	enrolled, _ := rec.Time("enrolled_at")
	completed := rec.Strings("completed_lessons")
	if completed == nil {
		completed = []string{}
	}
	return Enrollment{
		ID:                   rec.ID(),
		UserID:               rec.String("user_id"),
		UserEmail:            rec.String("user_email"),
		CourseID:             rec.String("course_id"),
		CourseTitle:          sanitizer.SanitizePlain(rec.String("course_title")),
		Status:               rec.String("status"),
		ProgressPercentage:   rec.Float("progress_percentage"),
		CompletedLessons:     completed,
		PaymentAmount:        rec.Float("payment_amount"),
		EnrolledAt:           enrolled,
		LastAccessedLessonID: rec.String("last_accessed_lesson_id"),
		LastAccessedAt:       timePtr(rec, "last_accessed_at"),
		CompletedAt:          timePtr(rec, "completed_at"),
		CertificateIssued:    rec.Bool("certificate_issued"),
	}
}

// Enroll signs userID up for a published course, bumps its student count and
// audits the enrollment.
func (s *Service) Enroll(ctx context.Context, userID, courseID string) (Enrollment, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return Enrollment{}, err
	}
	courseRec, err := s.get(ctx, entity.Course, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	if courseRec.String("status") != CoursePublished {
		return Enrollment{}, fmt.Errorf("%w: %s", ErrCourseUnavailable, courseID)
	}

	if _, err := s.findEnrollment(ctx, userID, courseID); err == nil {
		return Enrollment{}, fmt.Errorf("%w: %s", ErrAlreadyEnrolled, courseID)
	} else if !isNotEnrolled(err) {
		return Enrollment{}, err
	}

	title := sanitizer.SanitizePlain(courseRec.String("title"))
	payment := courseRec.Float("price")
	if courseRec.Bool("is_free") {
		payment = 0
	}

	rec, err := s.store.Create(ctx, entity.Enrollment, entity.Record{
		"user_id":             userID,
		"user_email":          user.String("email"),
		"course_id":           courseID,
		"course_title":        title,
		"enrolled_at":         s.now().UTC(),
		"status":              EnrollmentActive,
		"progress_percentage": 0.0,
		"completed_lessons":   []string{},
		"payment_amount":      payment,
	})
	if err != nil {
		return Enrollment{}, fmt.Errorf("create enrollment: %w", err)
	}

	s.record(ctx, user, "enroll", "enrollment", courseID, map[string]any{"course_title": title})

	if _, err := s.store.Update(ctx, entity.Course, courseID, entity.Record{
		"total_students": courseRec.Int("total_students") + 1,
	}); err != nil {
		return Enrollment{}, fmt.Errorf("update student count: %w", err)
	}

	return enrollmentFromRecord(rec), nil
}

func (s *Service) findEnrollment(ctx context.Context, userID, courseID string) (Enrollment, error) {
	rec, err := s.enrollmentRecord(ctx, userID, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	return enrollmentFromRecord(rec), nil
}

func (s *Service) enrollmentRecord(ctx context.Context, userID, courseID string) (entity.Record, error) {
	recs, err := s.store.Filter(ctx, entity.Enrollment,
		entity.Record{"user_id": userID, "course_id": courseID}, "-enrolled_at", 1)
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotEnrolled, courseID)
	}
	return recs[0], nil
}

func isNotEnrolled(err error) bool {
	return errors.Is(err, ErrNotEnrolled)
}

// My learning tabs.
const (
	StatusFilterAll        = "all"
	StatusFilterInProgress = "in-progress"
	StatusFilterNotStarted = "not-started"
	StatusFilterCompleted  = "completed"
)

// EnrolledCourse pairs an enrollment with its course.
type EnrolledCourse struct {
	Enrollment Enrollment `json:"enrollment"`
	Course     Course     `json:"course"`
}

// MyLearning lists the user's enrollments, newest first, filtered by tab.
// Enrollments whose course no longer exists are skipped.
func (s *Service) MyLearning(ctx context.Context, userID, status string) ([]EnrolledCourse, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}

	recs, err := s.store.Filter(ctx, entity.Enrollment, entity.Record{"user_id": userID}, "-enrolled_at", 0)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	out := make([]EnrolledCourse, 0, len(recs))
	for _, rec := range recs {
		e := enrollmentFromRecord(rec)
		if !matchesStatus(e, status) {
			continue
		}
		courseRec, err := s.get(ctx, entity.Course, e.CourseID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, EnrolledCourse{Enrollment: e, Course: courseFromRecord(courseRec)})
	}
	return out, nil
}

func matchesStatus(e Enrollment, status string) bool {
	switch status {
	case StatusFilterInProgress:
		return e.Status == EnrollmentActive && e.ProgressPercentage > 0
	case StatusFilterNotStarted:
		return e.ProgressPercentage == 0
	case StatusFilterCompleted:
		return e.Status == EnrollmentCompleted
	default:
		return true
	}
}

// lessonContext loads a lesson and the caller's enrollment in its course.
func (s *Service) lessonContext(ctx context.Context, userID, lessonID string) (entity.Record, entity.Record, error) {
	if userID == "" {
		return nil, nil, ErrUnknownUser
	}
	lesson, err := s.get(ctx, entity.Lesson, lessonID)
	if err != nil {
		return nil, nil, err
	}
	enrollment, err := s.enrollmentRecord(ctx, userID, lesson.String("course_id"))
	if err != nil {
		return nil, nil, err
	}
	return lesson, enrollment, nil
}

// Lesson returns a lesson for an enrolled learner. Preview lessons are open
// to everyone.
func (s *Service) Lesson(ctx context.Context, userID, lessonID string) (Lesson, error) {
	rec, err := s.get(ctx, entity.Lesson, lessonID)
	if err != nil {
		return Lesson{}, err
	}
	if !rec.Bool("is_preview") {
		if _, err := s.enrollmentRecord(ctx, userID, rec.String("course_id")); err != nil {
			return Lesson{}, err
		}
	}
	return lessonFromRecord(rec), nil
}

// RecordProgress notes that userID is watching lessonID. Heartbeats beyond
// the video-progress quota are dropped: recorded is false and err is nil.
func (s *Service) RecordProgress(ctx context.Context, userID, lessonID string) (bool, error) {
	if userID == "" {
		return false, ErrUnknownUser
	}
	if err := s.throttle(ctx, ratelimiter.VideoProgressPolicy, userID); err != nil {
		if errors.Is(err, ErrRateLimited) {
			s.log.DebugContext(ctx, "progress heartbeat throttled")
			return false, nil
		}
		return false, err
	}

	lesson, enrollment, err := s.lessonContext(ctx, userID, lessonID)
	if err != nil {
		return false, err
	}

	if _, err := s.store.Update(ctx, entity.Enrollment, enrollment.ID(), entity.Record{
		"last_accessed_lesson_id": lesson.ID(),
		"last_accessed_at":        s.now().UTC(),
	}); err != nil {
		return false, fmt.Errorf("update progress: %w", err)
	}
	return true, nil
}

// CompleteLesson marks lessonID done, recomputes the course progress and
// completes the enrollment at 100%. Completing a lesson twice is a no-op.
func (s *Service) CompleteLesson(ctx context.Context, userID, lessonID string) (Enrollment, error) {
	lesson, enrollment, err := s.lessonContext(ctx, userID, lessonID)
	if err != nil {
		return Enrollment{}, err
	}

	completed := enrollment.Strings("completed_lessons")
	if slices.Contains(completed, lesson.ID()) {
		return enrollmentFromRecord(enrollment), nil
	}
	completed = append(completed, lesson.ID())

	courseID := lesson.String("course_id")
	lessons, err := s.store.Filter(ctx, entity.Lesson, entity.Record{"course_id": courseID}, "order", 0)
	if err != nil {
		return Enrollment{}, fmt.Errorf("list lessons: %w", err)
	}

	progress := 100.0
	if len(lessons) > 0 {
		progress = min(100, float64(len(completed))/float64(len(lessons))*100)
	}
	now := s.now().UTC()

	patch := entity.Record{
		"completed_lessons":       completed,
		"progress_percentage":     progress,
		"last_accessed_lesson_id": lesson.ID(),
		"last_accessed_at":        now,
		"status":                  EnrollmentActive,
		"completed_at":            nil,
	}
	if progress >= 100 {
		patch["status"] = EnrollmentCompleted
		patch["completed_at"] = now
	}

	updated, err := s.store.Update(ctx, entity.Enrollment, enrollment.ID(), patch)
	if err != nil {
		return Enrollment{}, fmt.Errorf("update enrollment: %w", err)
	}

	s.record(ctx, entity.Record{
		entity.FieldID: userID,
		"email":        enrollment.String("user_email"),
	}, "complete_lesson", "lesson", lesson.ID(), map[string]any{
		"course_id": courseID,
		"progress":  progress,
	})

	return enrollmentFromRecord(updated), nil
}
