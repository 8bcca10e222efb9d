package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-netstat/pkg/logging"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// bucketPattern accepts S3 bucket names
	bucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

	// identPattern accepts unquoted SQL identifiers, optionally schema-qualified
	identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)
)

func init() {
	validate = validator.New()

	validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := logging.ParseLevel(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("s3bucket", func(fl validator.FieldLevel) bool {
		return bucketPattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	})
}

// Struct validates v against its `validate` tags and reports every failing
// field.
func Struct(v any) error {
	if v == nil {
		return errors.New("value to validate cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

// ValidateBucket checks an S3 bucket name.
func ValidateBucket(name string) error {
	if !bucketPattern.MatchString(name) {
		return fmt.Errorf("bucket %q is not a valid S3 bucket name", name)
	}
	return nil
}

// ValidateIdentifier checks a table name before it is spliced into SQL.
func ValidateIdentifier(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("identifier %q is invalid (letters, digits and underscore, optional schema prefix)", name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			errs = append(errs, fmt.Errorf("%s: field is required", field))
		case "min", "gte":
			errs = append(errs, fmt.Errorf("%s: must be at least %s", field, param))
		case "max", "lte":
			errs = append(errs, fmt.Errorf("%s: must not exceed %s", field, param))
		case "gt":
			errs = append(errs, fmt.Errorf("%s: must be greater than %s", field, param))
		case "oneof":
			errs = append(errs, fmt.Errorf("%s: %v is not one of [%s]", field, e.Value(), param))
		case "loglevel":
			errs = append(errs, fmt.Errorf("%s: unknown log level %q", field, e.Value()))
		case "s3bucket":
			errs = append(errs, fmt.Errorf("%s: %q is not a valid S3 bucket name", field, e.Value()))
		case "sqlident":
			errs = append(errs, fmt.Errorf("%s: %q is not a valid SQL identifier", field, e.Value()))
		default:
			errs = append(errs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.Join(errs...)
}
