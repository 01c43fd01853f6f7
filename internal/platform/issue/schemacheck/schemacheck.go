// Package schemacheck validates documents against a JSON schema and reports
// failures as issues.
package schemacheck

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/localeforms/internal/platform/issue"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Schema is a compiled JSON schema.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// Compile parses raw as a JSON schema registered under name. Format
// keywords are asserted, not just annotated.
func Compile(name string, raw []byte) (*Schema, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("schema name is required")
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}
	compiled, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: compiled}, nil
}

// Name returns the resource name the schema was compiled under.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks doc and returns one issue per failed keyword, or nil when
// doc is valid. Each issue's Message is resolved through errorMap with the
// validator's English text as the default error. A nil errorMap keeps the
// default error.
func (s *Schema) Validate(doc any, errorMap issue.ErrorMap) []issue.Issue {
	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		iss := issue.Issue{Kind: issue.KindCustom}
		iss.Message = resolve(errorMap, iss, err.Error())
		return []issue.Issue{iss}
	}

	var collected []located
	collect(verr, &collected)
	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].key < collected[j].key
	})

	out := make([]issue.Issue, 0, len(collected))
	for _, c := range collected {
		c.issue.Message = resolve(errorMap, c.issue, c.defaultError)
		out = append(out, c.issue)
	}
	return out
}

type located struct {
	key          string
	issue        issue.Issue
	defaultError string
}

var english = message.NewPrinter(language.English)

func collect(verr *jsonschema.ValidationError, out *[]located) {
	path := toPath(verr.InstanceLocation)
	defaultError := verr.ErrorKind.LocalizedString(english)
	add := func(iss issue.Issue) {
		*out = append(*out, located{key: iss.Path.Key(), issue: iss, defaultError: defaultError})
	}

	switch k := verr.ErrorKind.(type) {
	case *kind.Type:
		add(issue.Issue{
			Kind:     issue.KindInvalidType,
			Path:     path,
			Expected: strings.Join(k.Want, issue.DefaultSeparator),
			Received: k.Got,
		})
	case *kind.Required:
		for _, missing := range k.Missing {
			add(issue.Issue{
				Kind:     issue.KindInvalidType,
				Path:     path.Append(missing),
				Received: issue.ReceivedUndefined,
			})
		}
	case *kind.AdditionalProperties:
		add(issue.Issue{Kind: issue.KindUnrecognizedKeys, Path: path, Keys: k.Properties})
	case *kind.Enum:
		add(issue.Issue{Kind: issue.KindInvalidEnumValue, Path: path, Options: k.Want, Received: k.Got})
	case *kind.Const:
		add(issue.Issue{Kind: issue.KindInvalidLiteral, Path: path, Expected: k.Want, Received: k.Got})
	case *kind.Format:
		add(formatIssue(path, k.Want))
	case *kind.Pattern:
		add(issue.Issue{Kind: issue.KindInvalidString, Path: path, Validation: issue.NamedCheck("regex")})
	case *kind.MinLength:
		add(sizeIssue(issue.KindTooSmall, path, issue.SizeString, k.Want, true))
	case *kind.MaxLength:
		add(sizeIssue(issue.KindTooBig, path, issue.SizeString, k.Want, true))
	case *kind.MinItems:
		add(sizeIssue(issue.KindTooSmall, path, issue.SizeArray, k.Want, true))
	case *kind.MaxItems:
		add(sizeIssue(issue.KindTooBig, path, issue.SizeArray, k.Want, true))
	case *kind.Minimum:
		add(sizeIssue(issue.KindTooSmall, path, issue.SizeNumber, ratValue(k.Want), true))
	case *kind.Maximum:
		add(sizeIssue(issue.KindTooBig, path, issue.SizeNumber, ratValue(k.Want), true))
	case *kind.ExclusiveMinimum:
		add(sizeIssue(issue.KindTooSmall, path, issue.SizeNumber, ratValue(k.Want), false))
	case *kind.ExclusiveMaximum:
		add(sizeIssue(issue.KindTooBig, path, issue.SizeNumber, ratValue(k.Want), false))
	case *kind.MultipleOf:
		add(issue.Issue{Kind: issue.KindNotMultipleOf, Path: path, MultipleOf: ratValue(k.Want)})
	case *kind.AnyOf, *kind.OneOf:
		add(issue.Issue{Kind: issue.KindInvalidUnion, Path: path})
	default:
		if len(verr.Causes) == 0 {
			add(issue.Issue{Kind: issue.KindCustom, Path: path})
			return
		}
		for _, cause := range verr.Causes {
			collect(cause, out)
		}
	}
}

func formatIssue(path issue.Path, format string) issue.Issue {
	switch format {
	case "date":
		return issue.Issue{Kind: issue.KindInvalidDate, Path: path}
	case "email", "idn-email":
		return stringIssue(path, "email")
	case "uri", "iri", "uri-reference", "iri-reference":
		return stringIssue(path, "url")
	case "date-time":
		return stringIssue(path, "datetime")
	case "ipv4", "ipv6":
		return stringIssue(path, "ip")
	default:
		return stringIssue(path, issue.NamedCheck(format))
	}
}

func stringIssue(path issue.Path, check issue.NamedCheck) issue.Issue {
	return issue.Issue{Kind: issue.KindInvalidString, Path: path, Validation: check}
}

func sizeIssue(k issue.Kind, path issue.Path, typ issue.SizeType, bound any, inclusive bool) issue.Issue {
	iss := issue.Issue{Kind: k, Path: path, Type: typ, Inclusive: inclusive}
	if k == issue.KindTooSmall {
		iss.Minimum = bound
	} else {
		iss.Maximum = bound
	}
	return iss
}

// ratValue turns a schema bound into an int64 when integral and a float64
// otherwise.
func ratValue(r *big.Rat) any {
	if r == nil {
		return nil
	}
	if r.IsInt() && r.Num().IsInt64() {
		return r.Num().Int64()
	}
	f, _ := r.Float64()
	return f
}

func toPath(location []string) issue.Path {
	if len(location) == 0 {
		return nil
	}
	path := make(issue.Path, len(location))
	for i, token := range location {
		if isIndex(token) {
			if n, err := strconv.Atoi(token); err == nil {
				path[i] = n
				continue
			}
		}
		path[i] = token
	}
	return path
}

func isIndex(token string) bool {
	if token == "" || (len(token) > 1 && token[0] == '0') {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func resolve(errorMap issue.ErrorMap, iss issue.Issue, defaultError string) string {
	if errorMap == nil {
		return defaultError
	}
	return errorMap(iss, defaultError)
}
