package learning_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/courseguard/internal/learning"
	"github.com/learnhub/courseguard/pkg/entity"
)

func TestService_Home(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedCourse(t, "a", entity.Record{"is_featured": true, "total_students": 300})
	f.seedCourse(t, "b", entity.Record{"total_students": 500})
	f.seedCourse(t, "c", entity.Record{"is_featured": true, "total_students": 900, "status": learning.CourseDraft})
	f.seedCourse(t, "d", entity.Record{"is_featured": true, "total_students": 100, "title": "<img src=x onerror=alert(1)>Rust"})

	f.create(t, entity.Category, entity.Record{entity.FieldID: "cat-web", "name": "Web", "slug": "web", "order": 2, "is_active": true})
	f.create(t, entity.Category, entity.Record{entity.FieldID: "cat-data", "name": "<b>Data</b>", "slug": "data", "order": 1, "is_active": true})
	f.create(t, entity.Category, entity.Record{entity.FieldID: "cat-old", "name": "Old", "slug": "old", "order": 0, "is_active": false})

	feed, err := f.svc.Home(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "d"}, courseIDs(feed.Featured))
	assert.Equal(t, []string{"b", "a", "d"}, courseIDs(feed.Popular))
	assert.Equal(t, "Rust", feed.Featured[1].Title)

	require.Len(t, feed.Categories, 2)
	assert.Equal(t, "cat-data", feed.Categories[0].ID)
	assert.Equal(t, "Data", feed.Categories[0].Name)
	assert.Equal(t, "cat-web", feed.Categories[1].ID)
}

func TestService_Home_Limits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for i := range 10 {
		f.seedCourse(t, fmt.Sprintf("c%02d", i), entity.Record{"is_featured": true, "total_students": i})
	}
	for i := range 12 {
		f.create(t, entity.Category, entity.Record{"name": fmt.Sprintf("cat %d", i), "order": i, "is_active": true})
	}

	feed, err := f.svc.Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed.Featured, 8)
	assert.Len(t, feed.Popular, 8)
	assert.Equal(t, "c09", feed.Popular[0].ID)
	assert.Len(t, feed.Categories, 10)
}

func TestService_Home_Empty(t *testing.T) {
	t.Parallel()

	feed, err := newFixture(t).svc.Home(context.Background())
	require.NoError(t, err)
	assert.Empty(t, feed.Featured)
	assert.NotNil(t, feed.Featured)
	assert.NotNil(t, feed.Categories)
}

func TestService_InstructorDashboard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedUser(t, "inst", "grace@example.com")
	f.seedCourse(t, "c1", entity.Record{
		"instructor_id":         "inst",
		"total_students":        3,
		"average_rating":        4.5,
		entity.FieldCreatedDate: baseTime.Add(-48 * time.Hour),
	})
	f.seedCourse(t, "c2", entity.Record{
		"instructor_id":         "inst",
		"status":                learning.CourseDraft,
		"average_rating":        0.0,
		entity.FieldCreatedDate: baseTime.Add(-24 * time.Hour),
	})
	f.seedCourse(t, "other", entity.Record{"instructor_id": "someone-else", "total_students": 40})

	for i, amount := range []float64{49, 0, 29.5} {
		f.create(t, entity.Enrollment, entity.Record{
			"course_id":      "c1",
			"user_id":        fmt.Sprintf("learner-%d", i),
			"payment_amount": amount,
			"enrolled_at":    baseTime.Add(-time.Duration(i) * time.Hour),
		})
	}
	f.create(t, entity.Enrollment, entity.Record{"course_id": "other", "user_id": "x", "payment_amount": 100.0})

	f.create(t, entity.Review, entity.Record{
		entity.FieldID:          "r1",
		"course_id":             "c1",
		"user_name":             "<b>Bob</b>",
		"rating":                5,
		"comment":               "Great <script>alert(1)</script>course",
		entity.FieldCreatedDate: baseTime.Add(-10 * time.Hour),
	})
	f.create(t, entity.Review, entity.Record{
		entity.FieldID:          "r2",
		"course_id":             "c1",
		"user_name":             "Eve",
		"rating":                4,
		entity.FieldCreatedDate: baseTime.Add(-5 * time.Hour),
	})
	f.create(t, entity.Review, entity.Record{entity.FieldID: "r-other", "course_id": "other", "rating": 1})

	dash, err := f.svc.InstructorDashboard(context.Background(), "inst")
	require.NoError(t, err)

	require.Len(t, dash.Courses, 2)
	assert.Equal(t, "c2", dash.Courses[0].ID)
	assert.Equal(t, "c1", dash.Courses[1].ID)
	assert.Equal(t, 3, dash.Courses[1].Enrollments)
	assert.InDelta(t, 78.5, dash.Courses[1].Revenue, 0.001)
	assert.Equal(t, 2, dash.Courses[1].ReviewCount)
	assert.Zero(t, dash.Courses[0].Enrollments)

	assert.Equal(t, learning.InstructorStats{
		TotalCourses:     2,
		PublishedCourses: 1,
		TotalStudents:    3,
		TotalRevenue:     78.5,
		AverageRating:    4.5,
	}, dash.Stats)

	require.Len(t, dash.RecentReviews, 2)
	assert.Equal(t, "r2", dash.RecentReviews[0].ID)
	assert.Equal(t, "r1", dash.RecentReviews[1].ID)
	assert.Equal(t, "c1", dash.RecentReviews[1].CourseID)
	assert.Equal(t, "Course c1", dash.RecentReviews[1].CourseTitle)
	assert.Equal(t, "Bob", dash.RecentReviews[1].UserName)
	assert.NotContains(t, dash.RecentReviews[1].Comment, "<script>")
}

func TestService_InstructorDashboard_NoCourses(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedUser(t, "u1", "ada@example.com")
	f.seedCourse(t, "c1", nil)

	dash, err := f.svc.InstructorDashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, dash.Courses)
	assert.Empty(t, dash.RecentReviews)
	assert.Equal(t, learning.InstructorStats{}, dash.Stats)

	_, err = f.svc.InstructorDashboard(context.Background(), "")
	require.ErrorIs(t, err, learning.ErrUnknownUser)
	_, err = f.svc.InstructorDashboard(context.Background(), "ghost")
	require.ErrorIs(t, err, learning.ErrUnknownUser)
}
