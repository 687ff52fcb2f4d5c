package http

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/fauzaanirsyaadi/user-management-BE/pkg/httpx"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Password policy pieces. Go regexps have no lookahead, so each class is
// checked on its own and the failures read as one combined message.
var (
	reUsername      = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	rePasswordUpper = regexp.MustCompile(`[A-Z]`)
	rePasswordLower = regexp.MustCompile(`[a-z]`)
	rePasswordDigit = regexp.MustCompile(`[0-9]`)
	rePasswordSpec  = regexp.MustCompile(`[\W_]`)
)

const passwordPolicyMsg = "must include upper, lower, number, and special character"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// UserRequest is the shared body for register, create, and update. On
// update the password may be blank, which means "keep the current one".
type UserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r UserRequest) Validate() error {
	return r.validate(true)
}

// ValidateForUpdate applies the same rules but tolerates a blank password.
func (r UserRequest) ValidateForUpdate() error {
	return r.validate(false)
}

func (r UserRequest) validate(passwordRequired bool) error {
	passwordRules := []validation.Rule{
		validation.Length(8, 0).Error("must be at least 8 characters"),
		validation.Match(rePasswordUpper).Error(passwordPolicyMsg),
		validation.Match(rePasswordLower).Error(passwordPolicyMsg),
		validation.Match(rePasswordDigit).Error(passwordPolicyMsg),
		validation.Match(rePasswordSpec).Error(passwordPolicyMsg),
	}
	if passwordRequired {
		passwordRules = append([]validation.Rule{validation.Required}, passwordRules...)
	}

	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(3, 50).Error("must be between 3 and 50 characters"),
			validation.Match(reUsername).Error("may contain letters, numbers, dot, underscore, hyphen"),
		),
		validation.Field(&r.Email,
			validation.Required,
			is.Email.Error("must be a valid email address"),
		),
		validation.Field(&r.Password, passwordRules...),
		validation.Field(&r.Role,
			validation.Required,
			validation.In("ADMIN", "USER").Error("must be ADMIN or USER"),
		),
	)
}

// decodeJSON reads the request body into dst, rejecting unknown fields and
// trailing garbage.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeValidationError turns an ozzo validation.Errors into a 400 with
// per-field messages; anything else becomes a plain bad-request body.
func writeValidationError(w http.ResponseWriter, err error) {
	var errs validation.Errors
	if ok := asValidationErrors(err, &errs); ok {
		fields := make(map[string]string, len(errs))
		for name, fieldErr := range errs {
			fields[name] = fieldErr.Error()
		}
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:  "validation failed",
			Fields: fields,
		})
		return
	}
	httpx.WriteError(w, http.StatusBadRequest, err.Error())
}

func asValidationErrors(err error, target *validation.Errors) bool {
	errs, ok := err.(validation.Errors)
	if ok {
		*target = errs
	}
	return ok
}
