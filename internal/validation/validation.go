// Package validation checks and normalizes request bodies before they reach
// the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dimitrije/teamup-api/pkg/dto"
	"github.com/go-playground/validator/v10"
)

const (
	msgTitleRequired       = "Project title is required"
	msgDescriptionRequired = "Project description is required"
	msgLookingForRequired  = "Please specify at least one role you are looking for"
	msgTeamSize            = "Team size must be between 3 and 9 members"
	msgUsername            = "Username must be 3-32 characters of lowercase letters, digits, '.', '_' or '-'"
	msgBatchYear           = "Batch year must be between 1950 and 2100"
)

var messages = map[string]string{
	"title.required":       msgTitleRequired,
	"title.max":            "Project title must be at most 255 characters",
	"description.required": msgDescriptionRequired,
	"description.max":      "Project description must be at most 5000 characters",
	"looking_for.min":      msgLookingForRequired,
	"looking_for.required": msgLookingForRequired,
	"looking_for.max":      "At most 20 roles can be listed",
	"tags.max":             "At most 20 tags can be listed",
	"max_team_size.min":    msgTeamSize,
	"max_team_size.max":    msgTeamSize,
	"username.required":    msgUsername,
	"username.username":    msgUsername,
	"batch_year.min":       msgBatchYear,
	"batch_year.max":       msgBatchYear,
	"skills.max":           "At most 30 skills can be listed",
	"message.max":          "Message must be at most 1000 characters",
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// Errors is a list of per-field failures.
type Errors []dto.FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Message
}

// AsErrors reports whether err carries field errors.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// Struct validates a tagged struct.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldName(fe)
		out = append(out, dto.FieldError{Field: field, Message: message(field, fe.Tag())})
	}
	return out
}

// collector validates individual values of a partial update.
type collector struct {
	errs Errors
}

func (c *collector) check(field string, value any, tag string) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		c.errs = append(c.errs, dto.FieldError{Field: field, Message: message(field, verrs[0].Tag())})
		return
	}
	c.errs = append(c.errs, dto.FieldError{Field: field, Message: fmt.Sprintf("%s is invalid", field)})
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}

// fieldName strips the index from dive errors so "tags[3]" reports as "tags".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

func message(field, tag string) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	switch tag {
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s is too long", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
