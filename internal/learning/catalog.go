package learning

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/learnhub/courseguard/pkg/entity"
	"github.com/learnhub/courseguard/pkg/ratelimiter"
	"github.com/learnhub/courseguard/pkg/sanitizer"
	"github.com/learnhub/courseguard/pkg/validator"
)

// Catalog sort orders.
const (
	SortPopular      = "popular"
	SortHighestRated = "highest-rated"
	SortNewest       = "newest"
	SortPriceLow     = "price-low"
	SortPriceHigh    = "price-high"
)

const (
	maxQueryLength  = 100
	catalogPageSize = 100
	reviewsPageSize = 20
	filterAll       = "all"
)

var catalogSorts = []string{SortPopular, SortHighestRated, SortNewest, SortPriceLow, SortPriceHigh}

// CatalogQuery narrows the published catalog. Empty fields and "all" do not
// filter. FreeOnly wins over the price range.
type CatalogQuery struct {
	Query     string   `json:"q"`
	Category  string   `json:"category"`
	Level     string   `json:"level"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	FreeOnly  bool     `json:"free_only"`
	MinRating float64  `json:"min_rating"`
	Sort      string   `json:"sort"`
}

// CatalogResult echoes the query as it was applied.
type CatalogResult struct {
	Query   string   `json:"query"`
	Sort    string   `json:"sort"`
	Courses []Course `json:"courses"`
}

// Search lists published courses matching q. clientKey identifies the caller
// for the search rate limit.
func (s *Service) Search(ctx context.Context, clientKey string, q CatalogQuery) (CatalogResult, error) {
	if q.Sort == "" {
		q.Sort = SortPopular
	}
	if err := validator.Apply(
		validator.OneOf("sort", q.Sort, catalogSorts...),
	); err != nil {
		return CatalogResult{}, err
	}

	if err := s.throttle(ctx, ratelimiter.SearchPolicy, clientKey); err != nil {
		return CatalogResult{}, err
	}

	// Truncate the raw text so the cut never lands inside an escaped entity.
	query := strings.TrimSpace(sanitizer.SanitizePlain(
		sanitizer.LimitLength(strings.TrimSpace(q.Query), maxQueryLength)))

	recs, err := s.store.Filter(ctx, entity.Course,
		entity.Record{"status": CoursePublished}, "-"+entity.FieldCreatedDate, catalogPageSize)
	if err != nil {
		return CatalogResult{}, fmt.Errorf("list courses: %w", err)
	}

	courses := make([]Course, 0, len(recs))
	for _, rec := range recs {
		c := courseFromRecord(rec)
		if matchesCatalog(c, query, q) {
			courses = append(courses, c)
		}
	}
	sortCourses(courses, q.Sort)

	return CatalogResult{Query: query, Sort: q.Sort, Courses: courses}, nil
}

func matchesCatalog(c Course, query string, q CatalogQuery) bool {
	if query != "" && !matchesText(c, strings.ToLower(query)) {
		return false
	}
	if q.Category != "" && q.Category != filterAll && c.Category != q.Category {
		return false
	}
	if q.Level != "" && q.Level != filterAll && c.Level != q.Level {
		return false
	}
	if q.FreeOnly {
		if !c.IsFree {
			return false
		}
	} else {
		if q.MinPrice != nil && c.Price < *q.MinPrice {
			return false
		}
		if q.MaxPrice != nil && c.Price > *q.MaxPrice {
			return false
		}
	}
	if q.MinRating > 0 && c.AverageRating < q.MinRating {
		return false
	}
	return true
}

func matchesText(c Course, query string) bool {
	if strings.Contains(strings.ToLower(c.Title), query) ||
		strings.Contains(strings.ToLower(c.ShortDescription), query) ||
		strings.Contains(strings.ToLower(c.InstructorName), query) {
		return true
	}
	return slices.ContainsFunc(c.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), query)
	})
}

func sortCourses(courses []Course, order string) {
	slices.SortStableFunc(courses, func(a, b Course) int {
		switch order {
		case SortHighestRated:
			return cmp.Compare(b.AverageRating, a.AverageRating)
		case SortNewest:
			return b.CreatedDate.Compare(a.CreatedDate)
		case SortPriceLow:
			return cmp.Compare(a.Price, b.Price)
		case SortPriceHigh:
			return cmp.Compare(b.Price, a.Price)
		default:
			return cmp.Compare(b.TotalStudents, a.TotalStudents)
		}
	})
}

// CourseDetails is everything the course page shows.
type CourseDetails struct {
	Course     Course      `json:"course"`
	Sections   []Section   `json:"sections"`
	Reviews    []Review    `json:"reviews"`
	Enrollment *Enrollment `json:"enrollment,omitempty"`
}

// Course loads a course with its curriculum and latest reviews. Only
// published courses are visible, except to their instructor. The caller's
// enrollment is included when userID is set.
func (s *Service) Course(ctx context.Context, userID, courseID string) (CourseDetails, error) {
	rec, err := s.get(ctx, entity.Course, courseID)
	if err != nil {
		return CourseDetails{}, err
	}
	course := courseFromRecord(rec)
	if course.Status != CoursePublished && (userID == "" || course.InstructorID != userID) {
		return CourseDetails{}, fmt.Errorf("%w: course %s", ErrNotFound, courseID)
	}

	sections, err := s.curriculum(ctx, courseID)
	if err != nil {
		return CourseDetails{}, err
	}

	reviewRecs, err := s.store.Filter(ctx, entity.Review,
		entity.Record{"course_id": courseID}, "-"+entity.FieldCreatedDate, reviewsPageSize)
	if err != nil {
		return CourseDetails{}, fmt.Errorf("list reviews: %w", err)
	}
	reviews := make([]Review, 0, len(reviewRecs))
	for _, r := range reviewRecs {
		reviews = append(reviews, reviewFromRecord(r))
	}

	details := CourseDetails{Course: course, Sections: sections, Reviews: reviews}
	if userID != "" {
		enr, err := s.findEnrollment(ctx, userID, courseID)
		switch {
		case err == nil:
			details.Enrollment = &enr
		case !isNotEnrolled(err):
			return CourseDetails{}, err
		}
	}
	return details, nil
}

// curriculum returns sections in order, each with its lessons in order.
// Lessons pointing at an unknown section are dropped.
func (s *Service) curriculum(ctx context.Context, courseID string) ([]Section, error) {
	where := entity.Record{"course_id": courseID}

	sectionRecs, err := s.store.Filter(ctx, entity.Section, where, "order", 0)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	lessonRecs, err := s.store.Filter(ctx, entity.Lesson, where, "order", 0)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	sections := make([]Section, 0, len(sectionRecs))
	index := make(map[string]int, len(sectionRecs))
	for _, rec := range sectionRecs {
		index[rec.ID()] = len(sections)
		sections = append(sections, Section{
			ID:      rec.ID(),
			Title:   sanitizer.SanitizePlain(rec.String("title")),
			Order:   rec.Int("order"),
			Lessons: []Lesson{},
		})
	}
	for _, rec := range lessonRecs {
		l := lessonFromRecord(rec)
		if i, ok := index[l.SectionID]; ok {
			sections[i].Lessons = append(sections[i].Lessons, l)
		}
	}
	return sections, nil
}
