package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const payloadKey = "payload"

var registerOnce sync.Once

// useJSONFieldNames makes validation errors report json field names.
func useJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// BindJSON decodes, trims and validates the request body into T before the
// handler runs. Every violation is reported in a single 400 response and the
// chain stops there.
func BindJSON[T any]() gin.HandlerFunc {
	useJSONFieldNames()

	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			RespondBindError(c, err)
			return
		}

		var req T
		if err := bindBody(body, &req); err != nil {
			RespondBindError(c, err)
			return
		}
		c.Set(payloadKey, &req)
		c.Next()
	}
}

// FieldErrors is a collected list of field messages.
type FieldErrors []string

func (e FieldErrors) Error() string {
	return strings.Join(e, "; ")
}

// bindBody validates what the handler will store: strings are trimmed before
// validation. A value of the wrong JSON type is reported together with the
// validator's messages for the rest of the payload.
func bindBody(body []byte, obj any) error {
	err := json.NewDecoder(bytes.NewReader(body)).Decode(obj)
	var typeErr *json.UnmarshalTypeError
	if err != nil && !errors.As(err, &typeErr) {
		return err
	}

	trimStrings(reflect.ValueOf(obj))
	verr := binding.Validator.ValidateStruct(obj)
	if typeErr == nil {
		return verr
	}

	path := jsonPathAt(body, typeErr.Offset)
	if path == "" {
		path = typeErr.Field
	}
	if path == "" {
		path = "body"
	}
	messages := FieldErrors{fmt.Sprintf("%s must be of type %s", path, jsonTypeName(typeErr.Type))}

	var validationErrors validator.ValidationErrors
	if errors.As(verr, &validationErrors) {
		for _, fe := range validationErrors {
			if fieldPath(fe.Namespace()) == path {
				continue
			}
			messages = append(messages, fieldMessage(fe))
		}
	}
	return messages
}

// trimStrings trims every string reachable through exported struct fields,
// pointers and slices. Fields tagged trim:"-" are kept as sent.
func trimStrings(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			trimStrings(v.Elem())
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(strings.TrimSpace(v.String()))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			trimStrings(v.Index(i))
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() || field.Tag.Get("trim") == "-" {
				continue
			}
			trimStrings(v.Field(i))
		}
	}
}

type pathFrame struct {
	array     bool
	index     int
	key       string
	expectKey bool
}

// jsonPathAt returns the path, in validator notation, of the JSON value that
// ends at offset, e.g. products[0].quantity.
func jsonPathAt(body []byte, offset int64) string {
	dec := json.NewDecoder(bytes.NewReader(body))
	var stack []pathFrame

	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}

		if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		if n := len(stack); n > 0 {
			top := &stack[n-1]
			if !top.array && top.expectKey {
				top.key, _ = tok.(string)
				top.expectKey = false
				continue
			}
			if top.array {
				top.index++
			} else {
				top.expectKey = true
			}
		}

		if dec.InputOffset() >= offset {
			return renderPath(stack)
		}
		if d, ok := tok.(json.Delim); ok {
			stack = append(stack, pathFrame{array: d == '[', index: -1, expectKey: d == '{'})
		}
	}
}

func renderPath(stack []pathFrame) string {
	var b strings.Builder
	for _, f := range stack {
		if f.array {
			fmt.Fprintf(&b, "[%d]", f.index)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(f.key)
	}
	return b.String()
}

// Payload returns the body bound by BindJSON[T], or nil.
func Payload[T any](c *gin.Context) *T {
	v, ok := c.Get(payloadKey)
	if !ok {
		return nil
	}
	req, _ := v.(*T)
	return req
}

func RespondBindError(c *gin.Context, err error) {
	if details := ValidationMessages(err); len(details) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	if errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": "request body is required"})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

// ValidationMessages turns binding errors into field messages. It returns nil
// for errors that are not field-level (malformed JSON, empty body).
func ValidationMessages(err error) []string {
	var collected FieldErrors
	if errors.As(err, &collected) {
		return collected
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			details = append(details, fieldMessage(fe))
		}
		return details
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unitSuffix(fe.Kind()))
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unitSuffix(fe.Kind()))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "mongodb":
		return fmt.Sprintf("%s must be a valid id", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func unitSuffix(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " item(s)"
	default:
		return ""
	}
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Pointer:
		return jsonTypeName(t.Elem())
	default:
		return "object"
	}
}
