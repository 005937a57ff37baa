// Package validation holds the rules title, content and signup input must
// satisfy before a service touches a store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"feedline/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// Policy تصمیم می‌گیرد ورودی پست معتبر است یا نه
type Policy interface {
	ValidatePost(title, content string) error
}

type postInput struct {
	Title   string `validate:"required,min=5,max=200"`
	Content string `validate:"required,min=5,max=10000"`
}

// RawPassword همان رمزی است که hash می‌شود؛ Password نسخه trim شده
type signupInput struct {
	Email       string `validate:"required,email"`
	Name        string `validate:"required"`
	Password    string `validate:"required,min=5"`
	RawPassword string `validate:"maxbytes=72" field:"password"`
}

// Default checks trimmed title and content against length bounds.
type Default struct {
	validate *validator.Validate
}

func NewDefault() *Default {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return strings.ToLower(f.Name)
	})
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return &Default{validate: v}
}

// maxBytes: طول رشته بر حسب بایت؛ تگ max کاراکترها را می‌شمارد
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func (d *Default) ValidatePost(title, content string) error {
	in := postInput{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
	return d.check(in, "Validation failed, entered data is incorrect.")
}

func (d *Default) ValidateSignup(email, name, password string) error {
	in := signupInput{Email: strings.TrimSpace(email), Name: strings.TrimSpace(name), Password: strings.TrimSpace(password), RawPassword: password}
	return d.check(in, "Validation failed.")
}

func (d *Default) check(in any, message string) error {
	err := d.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: describe(fe),
		})
	}
	return apperr.Validation(message, fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "email":
		return "must be a valid email"
	default:
		return "is invalid"
	}
}
