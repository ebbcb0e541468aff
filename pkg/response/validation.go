package response

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("notblank", validators.NotBlank)
}

// jsonFieldName makes validation errors report the wire name of a field.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// DecodeError is returned by custom JSON decoders that know which field
// they failed on.
type DecodeError struct {
	Field   string
	Message string
}

func (e *DecodeError) Error() string {
	return e.Message
}

// ValidationDetails turns a request binding error into per-field details.
func ValidationDetails(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []FieldError{{Field: field, Message: field + " has an invalid type"}}
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return []FieldError{{Field: decodeErr.Field, Message: decodeErr.Message}}
	}

	if errors.Is(err, io.EOF) {
		return []FieldError{{Field: "body", Message: "request body must not be empty"}}
	}

	return []FieldError{{Field: "body", Message: "malformed JSON request body"}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return fe.Field() + " must not be blank"
	case "required":
		return fe.Field() + " must not be null"
	case "oneof":
		return fe.Field() + " must be one of [" + fe.Param() + "]"
	default:
		return fe.Field() + " is invalid"
	}
}
