package learning

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/learnhub/courseguard/pkg/entity"
	"github.com/learnhub/courseguard/pkg/sanitizer"
)

const (
	homeFeaturedLimit    = 8
	homePopularLimit     = 8
	homeCategoryLimit    = 10
	dashboardReviewLimit = 50
	recentReviewLimit    = 10
)

// Category is a catalog category shown on the home page.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       int    `json:"order"`
}

func categoryFromRecord(rec entity.Record) Category {
	return Category{
		ID:          rec.ID(),
		Name:        sanitizer.SanitizePlain(rec.String("name")),
		Slug:        sanitizer.SanitizePlain(rec.String("slug")),
		Description: sanitizer.SanitizePlain(rec.String("description")),
		Icon:        sanitizer.SanitizePlain(rec.String("icon")),
		Order:       rec.Int("order"),
	}
}

// HomeFeed is the landing page content.
type HomeFeed struct {
	Featured   []Course   `json:"featured"`
	Popular    []Course   `json:"popular"`
	Categories []Category `json:"categories"`
}

// Home returns featured and popular published courses, most students first,
// and the active categories in display order.
func (s *Service) Home(ctx context.Context) (HomeFeed, error) {
	featured, err := s.store.Filter(ctx, entity.Course,
		entity.Record{"status": CoursePublished, "is_featured": true}, "-total_students", homeFeaturedLimit)
	if err != nil {
		return HomeFeed{}, fmt.Errorf("list featured courses: %w", err)
	}
	popular, err := s.store.Filter(ctx, entity.Course,
		entity.Record{"status": CoursePublished}, "-total_students", homePopularLimit)
	if err != nil {
		return HomeFeed{}, fmt.Errorf("list popular courses: %w", err)
	}
	cats, err := s.store.Filter(ctx, entity.Category,
		entity.Record{"is_active": true}, "order", homeCategoryLimit)
	if err != nil {
		return HomeFeed{}, fmt.Errorf("list categories: %w", err)
	}

	feed := HomeFeed{
		Featured:   make([]Course, 0, len(featured)),
		Popular:    make([]Course, 0, len(popular)),
		Categories: make([]Category, 0, len(cats)),
	}
	for _, rec := range featured {
		feed.Featured = append(feed.Featured, courseFromRecord(rec))
	}
	for _, rec := range popular {
		feed.Popular = append(feed.Popular, courseFromRecord(rec))
	}
	for _, rec := range cats {
		feed.Categories = append(feed.Categories, categoryFromRecord(rec))
	}
	return feed, nil
}

// InstructorCourse is a course row on the instructor dashboard.
type InstructorCourse struct {
	Course
	Enrollments int     `json:"enrollments"`
	Revenue     float64 `json:"revenue"`
	ReviewCount int     `json:"review_count"`
}

// InstructorStats aggregates over every course the instructor owns.
// AverageRating is the mean over rated courses, rounded to one decimal.
type InstructorStats struct {
	TotalCourses     int     `json:"total_courses"`
	PublishedCourses int     `json:"published_courses"`
	TotalStudents    int     `json:"total_students"`
	TotalRevenue     float64 `json:"total_revenue"`
	AverageRating    float64 `json:"average_rating"`
}

// CourseReview is a review together with the course it belongs to.
type CourseReview struct {
	Review
	CourseID    string `json:"course_id"`
	CourseTitle string `json:"course_title"`
}

// InstructorDashboard is what an instructor sees about their own courses.
type InstructorDashboard struct {
	Stats         InstructorStats    `json:"stats"`
	Courses       []InstructorCourse `json:"courses"`
	RecentReviews []CourseReview     `json:"recent_reviews"`
}

// InstructorDashboard lists the caller's courses, newest first, with
// enrollment and revenue figures and their latest reviews. Users without
// courses get an empty dashboard.
func (s *Service) InstructorDashboard(ctx context.Context, userID string) (InstructorDashboard, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return InstructorDashboard{}, err
	}

	recs, err := s.store.Filter(ctx, entity.Course,
		entity.Record{"instructor_id": userID}, "-"+entity.FieldCreatedDate, 0)
	if err != nil {
		return InstructorDashboard{}, fmt.Errorf("list instructor courses: %w", err)
	}

	dash := InstructorDashboard{
		Courses:       make([]InstructorCourse, 0, len(recs)),
		RecentReviews: []CourseReview{},
	}
	var ratingSum float64
	var rated int

	for _, rec := range recs {
		row := InstructorCourse{Course: courseFromRecord(rec)}

		enrollments, err := s.store.Filter(ctx, entity.Enrollment,
			entity.Record{"course_id": row.ID}, "-enrolled_at", 0)
		if err != nil {
			return InstructorDashboard{}, fmt.Errorf("list enrollments: %w", err)
		}
		row.Enrollments = len(enrollments)
		for _, e := range enrollments {
			row.Revenue += e.Float("payment_amount")
		}

		reviews, err := s.store.Filter(ctx, entity.Review,
			entity.Record{"course_id": row.ID}, "-"+entity.FieldCreatedDate, dashboardReviewLimit)
		if err != nil {
			return InstructorDashboard{}, fmt.Errorf("list reviews: %w", err)
		}
		row.ReviewCount = len(reviews)
		for _, r := range reviews {
			dash.RecentReviews = append(dash.RecentReviews, CourseReview{
				Review:      reviewFromRecord(r),
				CourseID:    row.ID,
				CourseTitle: row.Title,
			})
		}

		dash.Stats.TotalCourses++
		if row.Status == CoursePublished {
			dash.Stats.PublishedCourses++
		}
		dash.Stats.TotalStudents += row.TotalStudents
		dash.Stats.TotalRevenue += row.Revenue
		if row.AverageRating > 0 {
			ratingSum += row.AverageRating
			rated++
		}
		dash.Courses = append(dash.Courses, row)
	}

	if rated > 0 {
		dash.Stats.AverageRating = math.Round(ratingSum/float64(rated)*10) / 10
	}

	slices.SortStableFunc(dash.RecentReviews, func(a, b CourseReview) int {
		return b.CreatedDate.Compare(a.CreatedDate)
	})
	if len(dash.RecentReviews) > recentReviewLimit {
		dash.RecentReviews = dash.RecentReviews[:recentReviewLimit]
	}
	return dash, nil
}
