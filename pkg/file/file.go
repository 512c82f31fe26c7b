package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

// Storage is a flat key/value blob store for uploaded media.
type Storage interface {
	// Put streams r under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) bool
	URL(key string) string
}

const (
	sniffLen        = 512
	maxFilenameLen  = 100
	unnamedFilename = "unnamed"
)

// Sniff reads up to 512 bytes of r and detects their MIME type with
// http.DetectContentType. The returned reader replays the sniffed bytes
// followed by the rest of r.
func Sniff(r io.Reader) (string, io.Reader, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, errors.Join(ErrFailedToDetectMIMEType, err)
	}
	head := buf[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}

// SameFamily reports whether a sniffed MIME type is consistent with the
// declared one. image/* and video/* match within their family; anything else
// must match exactly. Parameters such as charset are ignored.
func SameFamily(declared, sniffed string) bool {
	declared = mediaType(declared)
	sniffed = mediaType(sniffed)
	if declared == "" || sniffed == "" {
		return false
	}
	if declared == sniffed {
		return true
	}
	dMajor, _, _ := strings.Cut(declared, "/")
	sMajor, _, _ := strings.Cut(sniffed, "/")
	switch dMajor {
	case "image", "video":
		return dMajor == sMajor
	}
	return false
}

func mediaType(s string) string {
	s, _, _ = strings.Cut(s, ";")
	return strings.ToLower(strings.TrimSpace(s))
}

// SanitizeFilename drops directories and NUL bytes from name and replaces
// every character outside [A-Za-z0-9._-] with an underscore. The result is
// at most 100 characters and never empty.
//
//	SanitizeFilename("../../etc/passwd")  // "passwd"
//	SanitizeFilename("my photo (1).JPG") // "my_photo__1_.JPG"
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.ReplaceAll(name, "\x00", "")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name = strings.TrimLeft(b.String(), ".")

	if utf8.RuneCountInString(name) > maxFilenameLen {
		name = name[len(name)-maxFilenameLen:]
	}
	if name == "" || strings.Trim(name, "_") == "" {
		return unnamedFilename
	}
	return name
}

// NewKey builds a collision-free object key: prefix/<uuid>-<sanitized name>.
func NewKey(prefix, filename string) string {
	key := fmt.Sprintf("%s-%s", uuid.NewString(), SanitizeFilename(filename))
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

// cleanKey rejects keys that could escape the storage root.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.ReplaceAll(key, "\\", "/"), "/")
	if key == "" || strings.Contains(key, "\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
		}
	}
	return path.Clean(key), nil
}

// LimitReader fails with ErrFileTooLarge once more than n bytes are read.
func LimitReader(r io.Reader, n int64) io.Reader {
	return &limitedReader{r: r, remaining: n}
}

type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
