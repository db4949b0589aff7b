package auth

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/iudanet/fishlog/pkg/api"
)

// LoginForm - данные формы входа
type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm - данные формы регистрации.
// ConfirmPassword проверяется только на клиенте и на сервер не уходит.
type RegisterForm struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FullName        string `json:"fullName" validate:"required"`
}

// Request превращает форму в тело запроса входа
func (f LoginForm) Request() api.LoginRequest {
	f = f.trimmed()
	return api.LoginRequest{Username: f.Username, Password: f.Password}
}

// Request превращает форму в тело запроса регистрации
func (f RegisterForm) Request() api.RegisterRequest {
	f = f.trimmed()
	return api.RegisterRequest{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
		FullName: f.FullName,
	}
}

// trimmed убирает пробелы по краям; пароли не трогаем
func (f LoginForm) trimmed() LoginForm {
	f.Username = strings.TrimSpace(f.Username)
	return f
}

func (f RegisterForm) trimmed() RegisterForm {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FullName = strings.TrimSpace(f.FullName)
	return f
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// В сообщениях используем json имена полей
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate проверяет форму входа в том виде, в каком она уйдет на сервер
func (f LoginForm) Validate() error {
	return validateForm(f.trimmed())
}

// Validate проверяет форму регистрации в том виде, в каком она уйдет на сервер
func (f RegisterForm) Validate() error {
	return validateForm(f.trimmed())
}

func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return &ValidationError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return "passwords do not match"
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
