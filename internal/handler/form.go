package handler

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gschargev/giftdesk/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the form field name, not the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// decodeForm parses the request form into dest using `form` struct tags and
// runs `validate` tag checks. Returns a domain.ValidationError on failure.
func decodeForm(r *http.Request, dest any) error {
	const op = "handler.decode_form"

	if err := r.ParseForm(); err != nil {
		return domain.Invalid(op, "요청을 해석할 수 없습니다.")
	}

	v := reflect.ValueOf(dest).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if tag == "" || tag == "-" {
			continue
		}
		value := strings.TrimSpace(r.PostFormValue(tag))
		if value == "" {
			value = strings.TrimSpace(r.FormValue(tag))
		}
		if v.Field(i).Kind() == reflect.String {
			v.Field(i).SetString(value)
		}
	}

	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(op, err)
	}
	return nil
}

func formatValidationErrors(op string, err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Invalid(op, "입력값을 확인해 주세요.")
	}

	ve := &domain.ValidationError{Op: op, Fields: map[string]string{}}
	for _, fieldErr := range errs {
		ve.Fields[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return ve
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "필수 입력 항목입니다."
	case "email":
		return "올바른 이메일 주소를 입력해 주세요."
	case "min":
		return fmt.Sprintf("%s자 이상 입력해 주세요.", fe.Param())
	case "max":
		return fmt.Sprintf("%s자 이하로 입력해 주세요.", fe.Param())
	case "numeric":
		return "숫자만 입력할 수 있습니다."
	}
	return "입력값이 올바르지 않습니다."
}
