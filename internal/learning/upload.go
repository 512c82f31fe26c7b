package learning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/learnhub/courseguard/pkg/entity"
	"github.com/learnhub/courseguard/pkg/file"
	"github.com/learnhub/courseguard/pkg/ratelimiter"
	"github.com/learnhub/courseguard/pkg/sanitizer"
	"github.com/learnhub/courseguard/pkg/validator"
)

const (
	uploadPrefix = "uploads"
	avatarPrefix = "avatars"
)

var avatarUploadOptions = validator.UploadOptions{
	MaxSize:           5 * 1024 * 1024,
	AllowedTypes:      []string{"image/jpeg", "image/png", "image/webp"},
	AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".webp"},
}

// UploadRequest is a file as received from the client. Size is the declared
// size; the body is cut off once it exceeds the configured maximum.
type UploadRequest struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload is a stored file.
type Upload struct {
	file.Object
	OriginalName string    `json:"original_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Upload validates and stores a file for userID under the caller's own key
// prefix. The declared descriptor is checked first, then the sniffed content
// type must belong to the same family as the declared one.
func (s *Service) Upload(ctx context.Context, userID string, req UploadRequest) (Upload, error) {
	user, obj, err := s.storeUpload(ctx, userID, uploadPrefix, req, s.uploadOpts)
	if err != nil {
		return Upload{}, err
	}

	original := sanitizer.SanitizeFilename(req.Name)
	s.record(ctx, user, "upload_file", "file", obj.Key, map[string]any{
		"file_name":    original,
		"content_type": obj.ContentType,
		"size":         obj.Size,
	})

	return Upload{Object: *obj, OriginalName: original, UploadedAt: s.now().UTC()}, nil
}

// UploadAvatar stores a profile picture and points the caller's avatar_url at
// it. Only JPEG, PNG and WebP images up to 5MB are accepted.
func (s *Service) UploadAvatar(ctx context.Context, userID string, req UploadRequest) (Profile, error) {
	user, obj, err := s.storeUpload(ctx, userID, avatarPrefix, req, avatarUploadOptions)
	if err != nil {
		return Profile{}, err
	}

	rec, err := s.store.Update(ctx, entity.User, userID, entity.Record{"avatar_url": obj.URL})
	if err != nil {
		return Profile{}, fmt.Errorf("update avatar: %w", err)
	}

	s.record(ctx, user, "upload_file", "file", obj.Key, map[string]any{
		"file_name":    sanitizer.SanitizeFilename(req.Name),
		"content_type": obj.ContentType,
		"size":         obj.Size,
	})
	s.record(ctx, user, "update_profile", "user", userID, map[string]any{
		"fields_updated": []string{"avatar_url"},
	})

	return profileFromRecord(rec), nil
}

func (s *Service) storeUpload(ctx context.Context, userID, prefix string, req UploadRequest, opts validator.UploadOptions) (entity.Record, *file.Object, error) {
	if s.files == nil {
		return nil, nil, ErrStorageDisabled
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.throttle(ctx, ratelimiter.UploadPolicy, userID); err != nil {
		return nil, nil, err
	}

	verdict := validator.ValidateFileUpload(validator.FileDescriptor{
		Name:        req.Name,
		Size:        req.Size,
		ContentType: req.ContentType,
	}, opts)
	if !verdict.Valid {
		return nil, nil, &UploadRejectedError{Reasons: verdict.Errors}
	}
	if req.Body == nil {
		return nil, nil, &UploadRejectedError{Reasons: []string{"File is empty"}}
	}

	sniffed, body, err := file.Sniff(req.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("inspect upload: %w", err)
	}
	if !file.SameFamily(req.ContentType, sniffed) {
		return nil, nil, &UploadRejectedError{Reasons: []string{
			fmt.Sprintf("File content does not match declared type %q", req.ContentType),
		}}
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = validator.DefaultMaxUploadSize
	}
	key := file.NewKey(ownerPrefix(prefix, userID), req.Name)
	obj, err := s.files.Put(ctx, key, file.LimitReader(body, maxSize), req.Size, req.ContentType)
	if errors.Is(err, file.ErrFileTooLarge) {
		return nil, nil, &UploadRejectedError{Reasons: []string{
			fmt.Sprintf("File size exceeds maximum allowed (%dMB)", maxSize/(1024*1024)),
		}}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("store upload: %w", err)
	}
	return user, obj, nil
}

// DeleteUpload removes a file the caller uploaded. Keys outside the caller's
// prefix are reported as not found and logged as suspicious.
func (s *Service) DeleteUpload(ctx context.Context, userID, key string) error {
	if s.files == nil {
		return ErrStorageDisabled
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return err
	}

	cleaned, ok := ownedKey(userID, key)
	if !ok {
		s.record(ctx, user, "suspicious_activity", "file", key, map[string]any{
			"reason": "foreign_file_delete",
		})
		return fmt.Errorf("%w: file %s", ErrNotFound, key)
	}

	if err := s.files.Delete(ctx, cleaned); err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			return fmt.Errorf("%w: file %s", ErrNotFound, key)
		}
		return fmt.Errorf("delete upload: %w", err)
	}
	s.record(ctx, user, "delete_file", "file", cleaned, nil)
	return nil
}

var ownerSegmentRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ownerPrefix returns prefix/<owner>. Ids that are not safe as a path
// segment are replaced by a hash of the id.
func ownerPrefix(prefix, userID string) string {
	segment := userID
	if !ownerSegmentRegex.MatchString(segment) {
		sum := sha256.Sum256([]byte(userID))
		segment = hex.EncodeToString(sum[:16])
	}
	return prefix + "/" + segment
}

// ownedKey reports whether key lies under the caller's upload prefix and
// returns it in canonical form.
func ownedKey(userID, key string) (string, bool) {
	if key == "" || strings.ContainsAny(key, "\\\x00") {
		return "", false
	}
	cleaned := path.Clean(strings.TrimPrefix(key, "/"))
	owner := ownerPrefix(uploadPrefix, userID) + "/"
	return cleaned, strings.HasPrefix(cleaned, owner) && len(cleaned) > len(owner)
}
