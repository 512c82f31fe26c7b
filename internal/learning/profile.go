package learning

import (
	"context"
	"fmt"
	"time"

	"github.com/learnhub/courseguard/pkg/entity"
	"github.com/learnhub/courseguard/pkg/sanitizer"
	"github.com/learnhub/courseguard/pkg/validator"
)

// Profile field limits.
const (
	fullNameMin = 2
	fullNameMax = 100
	bioMax      = 1000
	headlineMax = 200
)

// Profile is what a user sees and edits on the account page.
type Profile struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Role        string          `json:"role"`
	Bio         string          `json:"bio"`
	Headline    string          `json:"headline"`
	Website     string          `json:"website"`
	LinkedInURL string          `json:"linkedin_url"`
	TwitterURL  string          `json:"twitter_url"`
	AvatarURL   string          `json:"avatar_url,omitempty"`
	Preferences map[string]bool `json:"preferences"`
	UpdatedDate *time.Time      `json:"updated_date,omitempty"`
}

func profileFromRecord(rec entity.Record) Profile {
	prefs := map[string]bool{}
	if m, ok := rec["preferences"].(map[string]any); ok {
		for k, v := range m {
			if b, ok := v.(bool); ok {
				prefs[k] = b
			}
		}
	}
	return Profile{
		ID:          rec.ID(),
		Email:       rec.String("email"),
		FullName:    sanitizer.SanitizePlain(rec.String("full_name")),
		Role:        rec.String("role"),
		Bio:         sanitizer.SanitizePlain(rec.String("bio")),
		Headline:    sanitizer.SanitizePlain(rec.String("headline")),
		Website:     safeURL(rec.String("website")),
		LinkedInURL: safeURL(rec.String("linkedin_url")),
		TwitterURL:  safeURL(rec.String("twitter_url")),
		AvatarURL:   safeImageSrc(rec.String("avatar_url")),
		Preferences: prefs,
		UpdatedDate: timePtr(rec, entity.FieldUpdatedDate),
	}
}

// ProfileInput is the editable part of a profile. Empty optional fields
// clear the stored value.
type ProfileInput struct {
	FullName    string          `json:"full_name"`
	Bio         string          `json:"bio"`
	Headline    string          `json:"headline"`
	Website     string          `json:"website"`
	LinkedInURL string          `json:"linkedin_url"`
	TwitterURL  string          `json:"twitter_url"`
	Preferences map[string]bool `json:"preferences"`
}

// Validate reports every invalid field at once.
func (in ProfileInput) Validate() error {
	return validator.Apply(
		validator.Length("full_name", in.FullName, fullNameMin, fullNameMax),
		validator.Length("bio", in.Bio, 0, bioMax).When(in.Bio != ""),
		validator.Length("headline", in.Headline, 0, headlineMax).When(in.Headline != ""),
		validator.SafeURL("website", in.Website).
			When(in.Website != "").
			WithMessage("Please enter a valid URL"),
		validator.URLHostSuffix("linkedin_url", in.LinkedInURL, "linkedin.com").
			When(in.LinkedInURL != "").
			WithMessage("Please enter a valid LinkedIn URL"),
		validator.URLHostSuffix("twitter_url", in.TwitterURL, "twitter.com", "x.com").
			When(in.TwitterURL != "").
			WithMessage("Please enter a valid Twitter/X URL"),
	)
}

// Profile returns the caller's profile.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	rec, err := s.user(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return profileFromRecord(rec), nil
}

// UpdateProfile validates in, stores the sanitized fields and audits the
// list of fields written.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (Profile, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if err := in.Validate(); err != nil {
		return Profile{}, err
	}

	patch := entity.Record{
		"full_name":    sanitizer.SanitizePlain(in.FullName),
		"bio":          sanitizer.SanitizePlain(in.Bio),
		"headline":     sanitizer.SanitizePlain(in.Headline),
		"website":      in.Website,
		"linkedin_url": in.LinkedInURL,
		"twitter_url":  in.TwitterURL,
	}
	if in.Preferences != nil {
		prefs := make(map[string]any, len(in.Preferences))
		for k, v := range in.Preferences {
			prefs[k] = v
		}
		patch["preferences"] = prefs
	}

	rec, err := s.store.Update(ctx, entity.User, userID, patch)
	if err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}

	s.record(ctx, user, "update_profile", "user", userID, map[string]any{
		"fields_updated": updatedFields(patch),
	})

	return profileFromRecord(rec), nil
}

// updatedFields lists patch keys in a fixed order.
func updatedFields(patch entity.Record) []string {
	order := []string{"full_name", "bio", "headline", "website", "linkedin_url", "twitter_url", "preferences"}
	out := make([]string, 0, len(patch))
	for _, k := range order {
		if _, ok := patch[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
