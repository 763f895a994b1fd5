package forms

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/foodonline/backend/internal/service"
)

// NonFieldErrors is the key under which errors not tied to a single field
// are reported.
const NonFieldErrors = "__all__"

const (
	MsgRequired         = "This field is required."
	MsgInvalidEmail     = "Enter a valid email address."
	MsgPasswordMismatch = "Passwords do not match"
)

const maxFormMemory = 1 << 20

// ValidationError is a single problem with submitted form data
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == NonFieldErrors {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every problem found while validating a form
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// RegistrationForm is the set of fields accepted by the registration page.
// ConfirmPassword is only compared against Password and never stored.
type RegistrationForm struct {
	FirstName       string `form:"first_name" binding:"required"`
	LastName        string `form:"last_name" binding:"required"`
	Username        string `form:"username" binding:"required"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`

	errs ValidationErrors
}

// formNames maps struct fields onto their submitted names
var formNames = map[string]string{
	"FirstName":       "first_name",
	"LastName":        "last_name",
	"Username":        "username",
	"Email":           "email",
	"Password":        "password",
	"ConfirmPassword": "confirm_password",
}

// Fields lists the submitted field names in display order
var Fields = []string{"first_name", "last_name", "username", "email", "password", "confirm_password"}

// Bind decodes the request body into the form and validates it. A
// ValidationErrors value is returned when the submission is invalid; any
// other error means the body could not be read.
func (f *RegistrationForm) Bind(c *gin.Context) error {
	if err := c.Request.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("parse form: %w", err)
	}
	if err := binding.MapFormWithTag(f, c.Request.PostForm, "form"); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return f.Validate()
}

// Validate runs the field rules followed by the cross-field password check
func (f *RegistrationForm) Validate() error {
	f.errs = nil
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	if err := binding.Validator.ValidateStruct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			f.addError(formNames[fe.StructField()], message(fe))
		}
	}

	// Only compare once both values are present; a missing one is already
	// reported as required.
	if f.Password != "" && f.ConfirmPassword != "" && f.Password != f.ConfirmPassword {
		f.addError(NonFieldErrors, MsgPasswordMismatch)
	}

	if len(f.errs) == 0 {
		return nil
	}
	return f.errs
}

func (f *RegistrationForm) addError(field, msg string) {
	f.errs = append(f.errs, ValidationError{Field: field, Message: msg})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "email":
		return MsgInvalidEmail
	default:
		return fmt.Sprintf("Enter a valid value (%s).", fe.Tag())
	}
}

// Valid reports whether the last validation found no problems
func (f *RegistrationForm) Valid() bool {
	return len(f.errs) == 0
}

// Errors groups messages by field name, with NonFieldErrors for the rest
func (f *RegistrationForm) Errors() map[string][]string {
	out := make(map[string][]string, len(f.errs))
	for _, e := range f.errs {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

func (f *RegistrationForm) FieldErrors(field string) []string {
	return f.Errors()[field]
}

func (f *RegistrationForm) NonFieldErrors() []string {
	return f.FieldErrors(NonFieldErrors)
}

// ToNewUser maps the validated form onto the user factory input
func (f *RegistrationForm) ToNewUser() service.NewUser {
	return service.NewUser{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Username:  f.Username,
		Email:     f.Email,
		Password:  f.Password,
	}
}
