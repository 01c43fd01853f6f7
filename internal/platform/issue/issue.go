// Package issue models structured validation failures and the helpers that
// turn them into display data.
//
// An Issue is produced by a validator (JSON schema, struct tags) and carries
// a Kind plus the kind-specific payload needed to render a message. The
// message itself is resolved through an ErrorMap so each request can render
// in its own locale.
package issue

import (
	"fmt"
	"strings"
)

// Kind identifies the class of validation failure.
type Kind string

const (
	KindInvalidType               Kind = "invalid_type"
	KindInvalidLiteral            Kind = "invalid_literal"
	KindUnrecognizedKeys          Kind = "unrecognized_keys"
	KindInvalidUnion              Kind = "invalid_union"
	KindInvalidUnionDiscriminator Kind = "invalid_union_discriminator"
	KindInvalidEnumValue          Kind = "invalid_enum_value"
	KindInvalidArguments          Kind = "invalid_arguments"
	KindInvalidReturnType         Kind = "invalid_return_type"
	KindInvalidDate               Kind = "invalid_date"
	KindInvalidString             Kind = "invalid_string"
	KindTooSmall                  Kind = "too_small"
	KindTooBig                    Kind = "too_big"
	KindCustom                    Kind = "custom"
	KindInvalidIntersectionTypes  Kind = "invalid_intersection_types"
	KindNotMultipleOf             Kind = "not_multiple_of"
	KindNotFinite                 Kind = "not_finite"
)

var kinds = []Kind{
	KindInvalidType,
	KindInvalidLiteral,
	KindUnrecognizedKeys,
	KindInvalidUnion,
	KindInvalidUnionDiscriminator,
	KindInvalidEnumValue,
	KindInvalidArguments,
	KindInvalidReturnType,
	KindInvalidDate,
	KindInvalidString,
	KindTooSmall,
	KindTooBig,
	KindCustom,
	KindInvalidIntersectionTypes,
	KindNotMultipleOf,
	KindNotFinite,
}

// Kinds returns every known issue kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ReceivedUndefined is the received type name reported for a missing value.
const ReceivedUndefined = "undefined"

// SizeType tells too_small/too_big which kind of bound was violated.
type SizeType string

const (
	SizeString SizeType = "string"
	SizeNumber SizeType = "number"
	SizeArray  SizeType = "array"
	SizeDate   SizeType = "date"
	SizeSet    SizeType = "set"
	SizeBigInt SizeType = "bigint"
)

// StringCheck describes the string validation that failed.
// It is one of NamedCheck, StartsWith, EndsWith or Includes.
type StringCheck interface {
	stringCheck()
}

// NamedCheck is a format check such as "email" or "uuid".
type NamedCheck string

// StartsWith requires a prefix.
type StartsWith struct{ Prefix string }

// EndsWith requires a suffix.
type EndsWith struct{ Suffix string }

// Includes requires a substring.
type Includes struct{ Substring string }

func (NamedCheck) stringCheck() {}
func (StartsWith) stringCheck() {}
func (EndsWith) stringCheck()   {}
func (Includes) stringCheck()   {}

// Issue is a single validation failure.
type Issue struct {
	Kind Kind
	Path Path
	// Message is the resolved display message. Validators fill it through an
	// ErrorMap; for KindCustom it may be preset by the check itself.
	Message string

	// invalid_type: type names. invalid_literal: values. invalid_enum_value:
	// Received only.
	Expected any
	Received any

	Keys       []string    // unrecognized_keys
	Options    []any       // invalid_union_discriminator, invalid_enum_value
	Validation StringCheck // invalid_string

	// too_small / too_big. Date bounds are time.Time or Unix milliseconds.
	Type      SizeType
	Minimum   any
	Maximum   any
	Exact     bool
	Inclusive bool

	MultipleOf any // not_multiple_of
}

// ErrorMap resolves the display message for an issue. defaultError is the
// message the producing validator would have used on its own.
type ErrorMap func(iss Issue, defaultError string) string

// Path locates an issue inside nested input. Segments are string field
// names or int indexes.
type Path []any

// Key joins the segments with ".". The empty path yields "".
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, segment := range p {
		parts[i] = fmt.Sprint(segment)
	}
	return strings.Join(parts, ".")
}

// Append returns a new path with segment added.
func (p Path) Append(segment any) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, segment)
}

// String implements fmt.Stringer.
func (p Path) String() string {
	return p.Key()
}
