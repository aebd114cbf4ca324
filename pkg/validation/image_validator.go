package validation

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	apperrors "go-insight-studio/internal/errors"
	"go-insight-studio/pkg/models"
)

// ImageValidator checks uploaded MRI scans against the accepted formats
type ImageValidator struct {
	allowedTypes      []string
	allowedExtensions []string
}

// NewImageValidator accepts PNG and JPEG scans
func NewImageValidator() *ImageValidator {
	return NewImageValidatorWithOptions(
		[]string{"image/png", "image/jpeg"},
		[]string{".png", ".jpg", ".jpeg"},
	)
}

// NewImageValidatorWithOptions creates an image validator with custom accepted types
func NewImageValidatorWithOptions(types []string, extensions []string) *ImageValidator {
	return &ImageValidator{
		allowedTypes:      types,
		allowedExtensions: extensions,
	}
}

// ValidateUpload sniffs the content type of data and returns the accepted upload.
// Unsupported files are rejected with an explicit error rather than ignored.
func (v *ImageValidator) ValidateUpload(filename string, data []byte) (models.ImageUpload, error) {
	if len(data) == 0 {
		return models.ImageUpload{}, apperrors.NewValidationError("Uploaded image is empty", nil)
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && !contains(v.allowedExtensions, ext) {
		return models.ImageUpload{}, apperrors.NewUnsupportedMediaError(
			"Unsupported file type "+ext+": upload a "+v.accepted()+" scan", nil)
	}

	detected := mimetype.Detect(data)
	contentType := ""
	for _, allowed := range v.allowedTypes {
		if detected.Is(allowed) {
			contentType = allowed
			break
		}
	}
	if contentType == "" {
		return models.ImageUpload{}, apperrors.NewUnsupportedMediaError(
			"Unsupported image format "+detected.String()+": upload a "+v.accepted()+" scan", nil)
	}

	name := filepath.Base(filename)
	if filename == "" {
		name = "scan"
	}

	return models.ImageUpload{
		Filename:    name,
		ContentType: contentType,
		Size:        len(data),
		Data:        data,
	}, nil
}

// accepted renders the allowed extensions as "PNG, JPG or JPEG"
func (v *ImageValidator) accepted() string {
	names := make([]string, len(v.allowedExtensions))
	for i, ext := range v.allowedExtensions {
		names[i] = strings.ToUpper(strings.TrimPrefix(ext, "."))
	}
	if len(names) < 2 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
