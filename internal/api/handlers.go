package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/learnhub/courseguard/internal/learning"
	"github.com/learnhub/courseguard/pkg/clientip"
	"github.com/learnhub/courseguard/pkg/securejson"
	"github.com/learnhub/courseguard/pkg/validator"
)

func currentUser(r *http.Request) (string, error) {
	id, ok := UserID(r.Context())
	if !ok {
		return "", ErrUnauthorized
	}
	return id, nil
}

// clientKey identifies the caller for per-client quotas.
func clientKey(r *http.Request) string {
	if id, ok := UserID(r.Context()); ok {
		return "user:" + id
	}
	if ip := clientip.Key(r); ip != "" {
		return "ip:" + ip
	}
	return ""
}

func (a *API) searchCourses(r *http.Request) (Response, error) {
	q := r.URL.Query()
	query := learning.CatalogQuery{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Level:    q.Get("level"),
		Sort:     q.Get("sort"),
		FreeOnly: q.Get("free_only") == "true",
	}

	var errs validator.ValidationErrors
	parse := func(field string) *float64 {
		raw := strings.TrimSpace(q.Get(field))
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			errs.Add(validator.ValidationError{Field: field, Message: "must be a non-negative number"})
			return nil
		}
		return &v
	}
	query.MinPrice = parse("min_price")
	query.MaxPrice = parse("max_price")
	if rating := parse("min_rating"); rating != nil {
		query.MinRating = *rating
	}
	if !errs.IsEmpty() {
		return nil, errs
	}

	res, err := a.svc.Search(r.Context(), clientKey(r), query)
	if err != nil {
		return nil, err
	}
	return JSON(res.Courses, WithMeta(map[string]any{
		"query": res.Query,
		"sort":  res.Sort,
		"total": len(res.Courses),
	})), nil
}

func (a *API) getCourse(r *http.Request) (Response, error) {
	uid, _ := UserID(r.Context())
	details, err := a.svc.Course(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return JSON(details), nil
}

func (a *API) enroll(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	enr, err := a.svc.Enroll(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return JSON(enr, WithStatus(http.StatusCreated)), nil
}

func (a *API) getLesson(r *http.Request) (Response, error) {
	uid, _ := UserID(r.Context())
	lesson, err := a.svc.Lesson(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return JSON(lesson), nil
}

func (a *API) recordProgress(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	recorded, err := a.svc.RecordProgress(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return JSON(map[string]bool{"recorded": recorded}, WithStatus(http.StatusAccepted)), nil
}

func (a *API) completeLesson(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	enr, err := a.svc.CompleteLesson(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return JSON(enr), nil
}

func (a *API) myLearning(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	status := r.URL.Query().Get("status")
	if status != "" {
		if err := validator.Apply(validator.OneOf("status", status,
			learning.StatusFilterAll,
			learning.StatusFilterInProgress,
			learning.StatusFilterNotStarted,
			learning.StatusFilterCompleted,
		)); err != nil {
			return nil, err
		}
	}
	items, err := a.svc.MyLearning(r.Context(), uid, status)
	if err != nil {
		return nil, err
	}
	return JSON(items, WithMeta(map[string]any{"total": len(items)})), nil
}

func (a *API) getProfile(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	profile, err := a.svc.Profile(r.Context(), uid)
	if err != nil {
		return nil, err
	}
	return JSON(profile), nil
}

func (a *API) updateProfile(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	in, err := securejson.DecodeReader[learning.ProfileInput](r.Body, a.maxBody)
	if err != nil {
		return nil, err
	}
	profile, err := a.svc.UpdateProfile(r.Context(), uid, in)
	if err != nil {
		return nil, err
	}
	return JSON(profile), nil
}

func (a *API) upload(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	req, cleanup, err := multipartUpload(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	up, err := a.svc.Upload(r.Context(), uid, req)
	if err != nil {
		return nil, err
	}
	return JSON(up, WithStatus(http.StatusCreated)), nil
}

func (a *API) uploadAvatar(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	req, cleanup, err := multipartUpload(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	profile, err := a.svc.UploadAvatar(r.Context(), uid, req)
	if err != nil {
		return nil, err
	}
	return JSON(profile), nil
}

// multipartUpload reads the "file" part. cleanup closes it and removes any
// temporary files the parser spilled to disk.
func multipartUpload(r *http.Request) (learning.UploadRequest, func(), error) {
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return learning.UploadRequest{}, nil, ErrRequestEntityTooLarge
		}
		return learning.UploadRequest{}, nil, ErrBadRequest
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		return learning.UploadRequest{}, nil, validator.ValidationErrors{{Field: "file", Message: "field is required"}}
	}

	cleanup := func() {
		_ = f.Close()
		_ = r.MultipartForm.RemoveAll()
	}
	return learning.UploadRequest{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, cleanup, nil
}

// deleteUpload takes the full key below uploads/, owner segment included.
func (a *API) deleteUpload(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	if err := a.svc.DeleteUpload(r.Context(), uid, "uploads/"+chi.URLParam(r, "*")); err != nil {
		return nil, err
	}
	return NoContent(), nil
}

func (a *API) home(r *http.Request) (Response, error) {
	feed, err := a.svc.Home(r.Context())
	if err != nil {
		return nil, err
	}
	return JSON(feed), nil
}

func (a *API) instructorDashboard(r *http.Request) (Response, error) {
	uid, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	dash, err := a.svc.InstructorDashboard(r.Context(), uid)
	if err != nil {
		return nil, err
	}
	return JSON(dash), nil
}

func (a *API) adminUsers(r *http.Request) (Response, error) {
	users, err := a.svc.Users(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		return nil, err
	}
	return JSON(users, WithMeta(map[string]any{"total": len(users)})), nil
}

func (a *API) adminAudit(r *http.Request) (Response, error) {
	logs, err := a.svc.AuditLog(r.Context())
	if err != nil {
		return nil, err
	}
	return JSON(logs, WithMeta(map[string]any{"total": len(logs)})), nil
}

func (a *API) adminSecurityEvents(r *http.Request) (Response, error) {
	events, err := a.svc.SecurityEvents(r.Context())
	if err != nil {
		return nil, err
	}
	return JSON(events, WithMeta(map[string]any{"total": len(events)})), nil
}

func (a *API) adminStats(r *http.Request) (Response, error) {
	stats, err := a.svc.Stats(r.Context())
	if err != nil {
		return nil, err
	}
	return JSON(stats), nil
}
