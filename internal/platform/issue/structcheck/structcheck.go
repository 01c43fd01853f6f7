// Package structcheck validates tagged structs with go-playground/validator
// and reports failures as issues.
package structcheck

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/louisbranch/localeforms/internal/platform/issue"
)

// Checker validates structs. Safe for concurrent use.
type Checker struct {
	validate *validator.Validate
}

// New returns a Checker that reports paths with JSON field names.
func New() *Checker {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Checker{validate: v}
}

// RegisterValidation adds a custom tag. Failures on it surface as custom
// issues.
func (c *Checker) RegisterValidation(tag string, fn validator.Func) error {
	return c.validate.RegisterValidation(tag, fn)
}

// Check validates value and returns nil when it passes. Messages are resolved
// through errorMap with the validator's own text as the default error.
func (c *Checker) Check(value any, errorMap issue.ErrorMap) []issue.Issue {
	err := c.validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		iss := issue.Issue{Kind: issue.KindCustom}
		iss.Message = resolve(errorMap, iss, err.Error())
		return []issue.Issue{iss}
	}

	out := make([]issue.Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		iss := toIssue(fe)
		iss.Message = resolve(errorMap, iss, fe.Error())
		out = append(out, iss)
	}
	return out
}

var namedChecks = map[string]issue.NamedCheck{
	"email":        "email",
	"url":          "url",
	"http_url":     "url",
	"uri":          "url",
	"uuid":         "uuid",
	"uuid3":        "uuid",
	"uuid4":        "uuid",
	"uuid5":        "uuid",
	"uuid_rfc4122": "uuid",
	"ip":           "ip",
	"ipv4":         "ip",
	"ipv6":         "ip",
	"ip_addr":      "ip",
	"datetime":     "datetime",
	"ulid":         "ulid",
}

func toIssue(fe validator.FieldError) issue.Issue {
	path := parseNamespace(fe.Namespace())
	tag := fe.Tag()

	switch tag {
	case "min", "gte":
		return sizeIssue(fe, path, issue.KindTooSmall, true, false)
	case "gt":
		return sizeIssue(fe, path, issue.KindTooSmall, false, false)
	case "max", "lte":
		return sizeIssue(fe, path, issue.KindTooBig, true, false)
	case "lt":
		return sizeIssue(fe, path, issue.KindTooBig, false, false)
	case "len":
		k := issue.KindTooBig
		if actual, ok := measure(fe); ok {
			if bound, ok := parseFloat(fe.Param()); ok && actual < bound {
				k = issue.KindTooSmall
			}
		}
		return sizeIssue(fe, path, k, true, true)
	case "startswith":
		return issue.Issue{Kind: issue.KindInvalidString, Path: path, Validation: issue.StartsWith{Prefix: fe.Param()}}
	case "endswith":
		return issue.Issue{Kind: issue.KindInvalidString, Path: path, Validation: issue.EndsWith{Suffix: fe.Param()}}
	case "contains":
		return issue.Issue{Kind: issue.KindInvalidString, Path: path, Validation: issue.Includes{Substring: fe.Param()}}
	case "oneof":
		fields := strings.Fields(fe.Param())
		options := make([]any, len(fields))
		for i, f := range fields {
			options[i] = f
		}
		return issue.Issue{Kind: issue.KindInvalidEnumValue, Path: path, Options: options, Received: fe.Value()}
	case "eq":
		return issue.Issue{Kind: issue.KindInvalidLiteral, Path: path, Expected: fe.Param(), Received: fe.Value()}
	}

	if strings.HasPrefix(tag, "required") {
		return issue.Issue{
			Kind:     issue.KindInvalidType,
			Path:     path,
			Expected: typeName(fe),
			Received: issue.ReceivedUndefined,
		}
	}
	if check, ok := namedChecks[tag]; ok {
		return issue.Issue{Kind: issue.KindInvalidString, Path: path, Validation: check}
	}
	return issue.Issue{Kind: issue.KindCustom, Path: path}
}

var timeType = reflect.TypeOf(time.Time{})

func fieldType(fe validator.FieldError) reflect.Type {
	t := fe.Type()
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func sizeType(fe validator.FieldError) issue.SizeType {
	t := fieldType(fe)
	if t == nil {
		return issue.SizeNumber
	}
	if t == timeType {
		return issue.SizeDate
	}
	switch t.Kind() {
	case reflect.String:
		return issue.SizeString
	case reflect.Slice, reflect.Array:
		return issue.SizeArray
	case reflect.Map:
		return issue.SizeSet
	default:
		return issue.SizeNumber
	}
}

func sizeIssue(fe validator.FieldError, path issue.Path, k issue.Kind, inclusive, exact bool) issue.Issue {
	typ := sizeType(fe)
	iss := issue.Issue{Kind: k, Path: path, Type: typ, Inclusive: inclusive, Exact: exact}
	bound := boundValue(typ, fe.Param())
	if k == issue.KindTooSmall {
		iss.Minimum = bound
	} else {
		iss.Maximum = bound
	}
	return iss
}

// boundValue keeps the tag parameter as text unless it parses as a number.
func boundValue(typ issue.SizeType, param string) any {
	if typ == issue.SizeDate {
		if t, err := time.Parse(time.RFC3339, param); err == nil {
			return t
		}
		return param
	}
	if n, err := strconv.ParseInt(param, 10, 64); err == nil {
		return n
	}
	if f, ok := parseFloat(param); ok {
		return f
	}
	return param
}

func parseFloat(param string) (float64, bool) {
	f, err := strconv.ParseFloat(param, 64)
	return f, err == nil
}

func measure(fe validator.FieldError) (float64, bool) {
	v := reflect.ValueOf(fe.Value())
	switch v.Kind() {
	case reflect.String:
		return float64(utf8.RuneCountInString(v.String())), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return float64(v.Len()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

func typeName(fe validator.FieldError) string {
	switch sizeType(fe) {
	case issue.SizeString:
		return "string"
	case issue.SizeArray:
		return "array"
	case issue.SizeSet:
		return "object"
	case issue.SizeDate:
		return "date"
	}
	t := fieldType(fe)
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Struct, reflect.Interface:
		return "object"
	default:
		return "number"
	}
}

// parseNamespace turns "profile.tags[1].name" into tags, 1, name. The root
// struct name is dropped.
func parseNamespace(ns string) issue.Path {
	_, rest, found := strings.Cut(ns, ".")
	if !found {
		return nil
	}
	var path issue.Path
	for _, part := range strings.Split(rest, ".") {
		name, index, hasIndex := strings.Cut(part, "[")
		if name != "" {
			path = append(path, name)
		}
		for hasIndex {
			var key string
			key, index, _ = strings.Cut(index, "]")
			if n, err := strconv.Atoi(key); err == nil {
				path = append(path, n)
			} else {
				path = append(path, key)
			}
			_, index, hasIndex = strings.Cut(index, "[")
		}
	}
	return path
}

func resolve(errorMap issue.ErrorMap, iss issue.Issue, defaultError string) string {
	if errorMap == nil {
		return defaultError
	}
	return errorMap(iss, defaultError)
}
