package learning

import (
	"time"

	"github.com/learnhub/courseguard/pkg/entity"
	"github.com/learnhub/courseguard/pkg/sanitizer"
	"github.com/learnhub/courseguard/pkg/validator"
)

// Course statuses.
const (
	CourseDraft         = "draft"
	CoursePendingReview = "pending_review"
	CoursePublished     = "published"
	CourseArchived      = "archived"
)

// Course is the public view of a course record. Free text is sanitized on
// the way out regardless of what the store holds.
type Course struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	InstructorID     string    `json:"instructor_id"`
	InstructorName   string    `json:"instructor_name"`
	Category         string    `json:"category"`
	Level            string    `json:"level"`
	Tags             []string  `json:"tags"`
	Price            float64   `json:"price"`
	IsFree           bool      `json:"is_free"`
	AverageRating    float64   `json:"average_rating"`
	TotalStudents    int       `json:"total_students"`
	Status           string    `json:"status"`
	ThumbnailURL     string    `json:"thumbnail_url,omitempty"`
	CreatedDate      time.Time `json:"created_date"`
}

func courseFromRecord(rec entity.Record) Course {
	tags := rec.Strings("tags")
	for i, t := range tags {
		tags[i] = sanitizer.SanitizePlain(t)
	}
	if tags == nil {
		tags = []string{}
	}
	created, _ := rec.Time(entity.FieldCreatedDate)

	return Course{
		ID:               rec.ID(),
		Title:            sanitizer.SanitizePlain(rec.String("title")),
		ShortDescription: sanitizer.SanitizePlain(rec.String("short_description")),
		Description:      sanitizer.SanitizeRich(rec.String("description")),
		InstructorID:     rec.String("instructor_id"),
		InstructorName:   sanitizer.SanitizePlain(rec.String("instructor_name")),
		Category:         rec.String("category"),
		Level:            rec.String("level"),
		Tags:             tags,
		Price:            rec.Float("price"),
		IsFree:           rec.Bool("is_free"),
		AverageRating:    rec.Float("average_rating"),
		TotalStudents:    rec.Int("total_students"),
		Status:           rec.String("status"),
		ThumbnailURL:     safeImageSrc(rec.String("thumbnail_url")),
		CreatedDate:      created,
	}
}

// Section groups lessons in display order.
type Section struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Order   int      `json:"order"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson is the public view of a lesson. VideoURL is empty when the stored
// URL fails IsSafeURL.
type Lesson struct {
	ID              string `json:"id"`
	CourseID        string `json:"course_id"`
	SectionID       string `json:"section_id"`
	Title           string `json:"title"`
	Content         string `json:"content,omitempty"`
	VideoURL        string `json:"video_url,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Order           int    `json:"order"`
	IsPreview       bool   `json:"is_preview"`
}

func lessonFromRecord(rec entity.Record) Lesson {
	return Lesson{
		ID:              rec.ID(),
		CourseID:        rec.String("course_id"),
		SectionID:       rec.String("section_id"),
		Title:           sanitizer.SanitizePlain(rec.String("title")),
		Content:         sanitizer.SanitizeRich(rec.String("content")),
		VideoURL:        safeURL(rec.String("video_url")),
		DurationMinutes: rec.Int("duration_minutes"),
		Order:           rec.Int("order"),
		IsPreview:       rec.Bool("is_preview"),
	}
}

// Review is a learner's rating of a course.
type Review struct {
	ID          string    `json:"id"`
	UserName    string    `json:"user_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedDate time.Time `json:"created_date"`
}

func reviewFromRecord(rec entity.Record) Review {
	created, _ := rec.Time(entity.FieldCreatedDate)
	return Review{
		ID:          rec.ID(),
		UserName:    sanitizer.SanitizePlain(rec.String("user_name")),
		Rating:      rec.Int("rating"),
		Comment:     sanitizer.SanitizePlain(rec.String("comment")),
		CreatedDate: created,
	}
}

func safeURL(raw string) string {
	if raw == "" || !validator.IsSafeURL(raw) {
		return ""
	}
	return raw
}

// safeImageSrc also keeps site-relative paths, which is how locally stored
// uploads are addressed.
func safeImageSrc(raw string) string {
	if raw == "" || !validator.IsSafeImageSrc(raw) {
		return ""
	}
	return raw
}
