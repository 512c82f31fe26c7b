// Package validator holds the input checks shared by the HTTP handlers and
// services.
//
// Each check comes in two forms: a predicate (IsSafeURL, IsEmail, IsLength)
// that never errors, and a Rule constructor for form validation. Rules are
// evaluated together by Apply, which reports every failure at once:
//
//	err := validator.Apply(
//		validator.Length("full_name", in.FullName, 2, 100),
//		validator.SafeURL("website", in.Website).When(in.Website != ""),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//		// errs.Map() -> {"full_name": "...", "website": "..."}
//	}
//
// CheckPasswordStrength and ValidateFileUpload return structured reports
// instead of a bool because callers render the individual findings.
package validator
