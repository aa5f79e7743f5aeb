package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct runs the `validate` struct tags on v and reports the first
// failing field as an INVALID_INPUT error (or the supplied code, if any).
func ValidateStruct(v any, code ...Code) error {
	c := ErrCodeInvalidInput
	if len(code) > 0 {
		c = code[0]
	}

	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return New(c, "%s", fieldMessage(fieldErrs[0]))
	}
	return Wrap(c, err, "validation failed")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s elements", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

// identifierRegex matches layer ids, object ids and ring slugs.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// validateIdentifier checks an identifier for safety before it is used in
// cache keys and set ids.
func validateIdentifier(kind, id string, code Code) error {
	if id == "" {
		return New(code, "%s cannot be empty", kind)
	}
	if len(id) > 128 {
		return New(code, "%s too long (max 128 characters)", kind)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(code, "%s contains invalid control characters", kind)
		}
	}
	if strings.Contains(id, "..") {
		return New(code, "%s cannot contain \"..\"", kind)
	}
	if !identifierRegex.MatchString(id) {
		return New(code, "invalid %s: %q", kind, id)
	}
	return nil
}

// ValidateLayerID validates a layer identifier such as "natal" or "transit".
func ValidateLayerID(id string) error {
	return validateIdentifier("layer id", id, ErrCodeInvalidLayer)
}

// ValidateObjectID validates a body identifier such as "sun" or "mean_node".
func ValidateObjectID(id string) error {
	return validateIdentifier("object id", id, ErrCodeInvalidLayer)
}

// ValidateSlug validates a ring slug within a template.
func ValidateSlug(slug string) error {
	return validateIdentifier("ring slug", slug, ErrCodeInvalidTemplate)
}

// ValidatePath validates a relative file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
