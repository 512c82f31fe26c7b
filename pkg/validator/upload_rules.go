package validator

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// DefaultMaxUploadSize is 10 MiB.
const DefaultMaxUploadSize int64 = 10 * 1024 * 1024

var dangerousExtensions = []string{"exe", "js", "php", "asp", "jsp", "sh", "bat"}

// FileDescriptor is what the client tells us about a file before it is stored.
type FileDescriptor struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"type"`
}

// UploadOptions bounds an upload. The zero value of a field means "use the
// default"; see DefaultUploadOptions.
type UploadOptions struct {
	MaxSize           int64
	AllowedTypes      []string
	AllowedExtensions []string
}

// UploadResult lists every problem with the file, not just the first.
type UploadResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func DefaultUploadOptions() UploadOptions {
	return UploadOptions{
		MaxSize: DefaultMaxUploadSize,
		AllowedTypes: []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"video/mp4", "application/pdf",
		},
		AllowedExtensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".webp", ".mp4", ".pdf",
		},
	}
}

func (o UploadOptions) withDefaults() UploadOptions {
	d := DefaultUploadOptions()
	if o.MaxSize <= 0 {
		o.MaxSize = d.MaxSize
	}
	if o.AllowedTypes == nil {
		o.AllowedTypes = d.AllowedTypes
	}
	if o.AllowedExtensions == nil {
		o.AllowedExtensions = d.AllowedExtensions
	}
	return o
}

// ValidateFileUpload checks size, declared type, extension and name shape.
// Messages accumulate in that order.
func ValidateFileUpload(file FileDescriptor, opts UploadOptions) UploadResult {
	opts = opts.withDefaults()
	errs := []string{}

	if file.Size > opts.MaxSize {
		mb := int64(math.Round(float64(opts.MaxSize) / (1024 * 1024)))
		errs = append(errs, fmt.Sprintf("File size exceeds maximum allowed (%dMB)", mb))
	}

	if !slices.Contains(opts.AllowedTypes, file.ContentType) {
		errs = append(errs, fmt.Sprintf("File type %q is not allowed", file.ContentType))
	}

	ext := FileExtension(file.Name)
	if !slices.Contains(opts.AllowedExtensions, ext) {
		errs = append(errs, fmt.Sprintf("File extension %q is not allowed", ext))
	}

	if HasSuspiciousExtension(file.Name) {
		errs = append(errs, "Suspicious file name detected")
	}

	return UploadResult{Valid: len(errs) == 0, Errors: errs}
}

// FileExtension returns "." plus the lowercased text after the last dot.
// A name without a dot yields "." plus the whole lowercased name.
func FileExtension(name string) string {
	parts := strings.Split(name, ".")
	return "." + strings.ToLower(parts[len(parts)-1])
}

// HasSuspiciousExtension flags names with more than one dot where any
// segment, the leading one included, is executable or script-like, e.g.
// "report.pdf.exe", "x.php.jpg" or "exe.pdf.jpg".
func HasSuspiciousExtension(name string) bool {
	parts := strings.Split(strings.ToLower(name), ".")
	if len(parts) <= 2 {
		return false
	}
	return slices.ContainsFunc(parts, func(p string) bool {
		return slices.Contains(dangerousExtensions, p)
	})
}

// FileUpload builds a rule around ValidateFileUpload. The first error becomes
// the rule message.
func FileUpload(field string, file FileDescriptor, opts UploadOptions) Rule {
	res := ValidateFileUpload(file, opts)
	msg := "file is not allowed"
	if len(res.Errors) > 0 {
		msg = res.Errors[0]
	}
	return Rule{
		Check: func() bool {
			return res.Valid
		},
		Error: ValidationError{
			Field:          field,
			Message:        msg,
			TranslationKey: "validation.file_upload",
			TranslationValues: map[string]any{
				"field":  field,
				"errors": res.Errors,
			},
		},
	}
}
