package validation

import (
	"net/url"
	"strings"

	apperrors "go-insight-studio/internal/errors"
)

// URLValidator checks the addresses the service is configured with
type URLValidator struct {
	allowedSchemes []string
}

// NewURLValidator creates a URL validator accepting http and https
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom schemes
func NewURLValidatorWithOptions(schemes []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
	}
}

// ValidateBaseURL checks a prediction backend base URL. Endpoint paths are
// appended to it, so it may carry a path but no query or fragment.
func (v *URLValidator) ValidateBaseURL(raw string) error {
	parsed, err := v.parse(raw)
	if err != nil {
		return err
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return apperrors.NewValidationError("base URL must not contain a query or fragment", nil)
	}
	return nil
}

// ValidateOrigin checks a CORS origin. "*" allows every origin.
func (v *URLValidator) ValidateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	parsed, err := v.parse(origin)
	if err != nil {
		return err
	}
	if parsed.Path != "" && parsed.Path != "/" {
		return apperrors.NewValidationError("origin must not contain a path", nil)
	}
	return nil
}

func (v *URLValidator) parse(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsed.Scheme) {
		return nil, apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsed.Host == "" {
		return nil, apperrors.NewValidationError("URL must have a valid host", nil)
	}

	return parsed, nil
}

// isSchemeAllowed checks if the URL scheme is in the allowed list
func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}
