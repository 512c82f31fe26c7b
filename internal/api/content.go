package api

import (
	"net/http"

	"github.com/learnhub/courseguard/pkg/sanitizer"
	"github.com/learnhub/courseguard/pkg/securejson"
	"github.com/learnhub/courseguard/pkg/validator"
)

type previewRequest struct {
	Content string `json:"content"`
}

// ContentPreview shows how user content will be rendered under each policy.
type ContentPreview struct {
	Rich    string `json:"rich"`
	Plain   string `json:"plain"`
	Escaped string `json:"escaped"`
}

func (a *API) previewContent(r *http.Request) (Response, error) {
	in, err := securejson.DecodeReader[previewRequest](r.Body, a.maxBody)
	if err != nil {
		return nil, err
	}
	return JSON(ContentPreview{
		Rich:    sanitizer.SanitizeRich(in.Content),
		Plain:   sanitizer.SanitizePlain(in.Content),
		Escaped: sanitizer.EscapeHTML(in.Content),
	}), nil
}

type passwordRequest struct {
	Password string `json:"password"`
}

// PasswordStrength is the strength report plus the names of failed checks.
type PasswordStrength struct {
	validator.PasswordStrengthReport
	Failed []string `json:"failed"`
}

func (a *API) passwordStrength(r *http.Request) (Response, error) {
	in, err := securejson.DecodeReader[passwordRequest](r.Body, a.maxBody)
	if err != nil {
		return nil, err
	}
	report := validator.CheckPasswordStrength(in.Password)
	failed := report.Failed()
	if failed == nil {
		failed = []string{}
	}
	return JSON(PasswordStrength{PasswordStrengthReport: report, Failed: failed}), nil
}
