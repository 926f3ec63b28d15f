// Package validation переводит ошибки go-playground/validator в ответ вида
// {field: [messages]} с формулировками "The name field is required."
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayouts — какие форматы дат принимаем
var DateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Error — ошибки по полям; отдаётся клиенту как 422
type Error struct {
	Fields map[string][]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "The given data was invalid."
	}
	first := e.Fields[keys[0]][0]
	if n := e.Count() - 1; n > 0 {
		return fmt.Sprintf("%s (and %d more error%s)", first, n, plural(n))
	}
	return first
}

func (e *Error) Count() int {
	n := 0
	for _, msgs := range e.Fields {
		n += len(msgs)
	}
	return n
}

// Add добавляет сообщение к полю
func (e *Error) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil удобно для "return v.OrNil()" после серии Add
func (e *Error) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func Field(field, msg string) *Error {
	e := &Error{}
	e.Add(field, msg)
	return e
}

// Configure: имена полей берутся из тега tag (json / col), плюс правило "date"
func Configure(v *validator.Validate, tag string) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, ok := ParseDate(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
}

// New — отдельный валидатор (для импорта), имена полей из тега tag
func New(tag string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	Configure(v, tag)
	return v
}

func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromError переводит ошибку биндинга/валидации в *Error.
// prefix добавляется к имени поля (для импорта: "2.").
// Остальные ошибки возвращает как есть.
func FromError(err error, prefix string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &Error{}
		for _, fe := range verrs {
			field := fieldPath(fe)
			out.Add(prefix+field, Message(field, fe.Tag(), fe.Param()))
		}
		return out
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		tag := "string"
		switch typeErr.Type.Kind() {
		case reflect.Float32, reflect.Float64:
			tag = "numeric"
		case reflect.Int, reflect.Int64, reflect.Int32, reflect.Uint, reflect.Uint64, reflect.Uint32:
			tag = "integer"
		case reflect.Bool:
			tag = "boolean"
		case reflect.Slice:
			tag = "array"
		}
		return Field(prefix+typeErr.Field, Message(typeErr.Field, tag, ""))
	}
	return err
}

// fieldPath: "categories[0]" -> "categories.0"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

// Message — текст в стиле "The <field> field ..."
func Message(field, tag, param string) string {
	name := strings.ReplaceAll(field, "_", " ")
	switch tag {
	case "required", "required_without":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", name, param)
	case "min", "gte":
		return fmt.Sprintf("The %s field must be at least %s.", name, param)
	case "numeric", "number":
		return fmt.Sprintf("The %s field must be a number.", name)
	case "integer":
		return fmt.Sprintf("The %s field must be an integer.", name)
	case "boolean":
		return fmt.Sprintf("The %s field must be true or false.", name)
	case "date":
		return fmt.Sprintf("The %s field must be a valid date.", name)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", name)
	case "array":
		return fmt.Sprintf("The %s field must be an array.", name)
	case "unique":
		return fmt.Sprintf("The %s has already been taken.", name)
	case "exists":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "image":
		return fmt.Sprintf("The %s field must be an image.", name)
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
