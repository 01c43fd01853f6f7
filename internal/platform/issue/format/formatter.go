// Package format turns validation issues into localized display messages.
package format

import (
	"fmt"
	"log"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	errori18n "github.com/louisbranch/localeforms/internal/platform/errors/i18n"
	"github.com/louisbranch/localeforms/internal/platform/issue"
)

// DefaultLocale is used when a caller does not supply one.
const DefaultLocale = "en"

// NamespaceIssues is the catalog namespace holding issue templates.
const NamespaceIssues = "issues"

// Message keys. Kinds without a variant use "issue.<kind>".
const (
	keyPrefix              = "issue."
	keyRequired            = "issue.required"
	keyFallback            = "issue.fallback"
	keyStringStartsWith    = "issue.invalid_string.starts_with"
	keyStringEndsWith      = "issue.invalid_string.ends_with"
	validationLabelsPrefix = "validation."
)

// stringCheckLabels lists the named string checks that have a label.
var stringCheckLabels = map[issue.NamedCheck]string{
	"email":    validationLabelsPrefix + "email",
	"url":      validationLabelsPrefix + "url",
	"emoji":    validationLabelsPrefix + "emoji",
	"uuid":     validationLabelsPrefix + "uuid",
	"regex":    validationLabelsPrefix + "regex",
	"cuid":     validationLabelsPrefix + "cuid",
	"cuid2":    validationLabelsPrefix + "cuid2",
	"ulid":     validationLabelsPrefix + "ulid",
	"datetime": validationLabelsPrefix + "datetime",
	"ip":       validationLabelsPrefix + "ip",
}

// Result is the outcome of formatting one issue. Message is never empty.
type Result struct {
	Message string
}

// Formatter renders issues with locale templates and locale formats.
type Formatter struct {
	formats Formats
	catalog func(locale string) *errori18n.Catalog
}

// New returns a Formatter. A nil formats uses LocaleFormats.
func New(formats Formats) *Formatter {
	if formats == nil {
		formats = NewLocaleFormats()
	}
	return &Formatter{
		formats: formats,
		catalog: func(locale string) *errori18n.Catalog {
			return errori18n.GetNamespaceCatalog(NamespaceIssues, locale)
		},
	}
}

// ErrorMap binds the formatter to locale for use by validators.
func (f *Formatter) ErrorMap(locale string) issue.ErrorMap {
	return func(iss issue.Issue, defaultError string) string {
		return f.Format(iss, locale, defaultError).Message
	}
}

// Format renders iss for locale. When the issue kind yields no message the
// default error is used, and when that is blank too the localized generic
// fallback is.
func (f *Formatter) Format(iss issue.Issue, locale string, defaultError string) Result {
	locale = normalizeLocale(locale)
	cat := f.catalog(locale)

	if message, ok := f.message(cat, iss, locale); ok && message != "" {
		return Result{Message: message}
	}
	if strings.TrimSpace(defaultError) != "" {
		return Result{Message: defaultError}
	}
	return Result{Message: cat.Format(keyFallback, nil)}
}

func (f *Formatter) message(cat *errori18n.Catalog, iss issue.Issue, locale string) (string, bool) {
	switch iss.Kind {
	case issue.KindInvalidType:
		if text(iss.Received) == issue.ReceivedUndefined {
			return cat.Format(keyRequired, nil), true
		}
		return render(cat, iss.Kind, map[string]string{
			"expected": text(iss.Expected),
			"received": text(iss.Received),
		})
	case issue.KindInvalidLiteral:
		return render(cat, iss.Kind, map[string]string{
			"expected": text(iss.Expected),
			"received": text(iss.Received),
		})
	case issue.KindUnrecognizedKeys:
		return render(cat, iss.Kind, map[string]string{"keys": issue.JoinValues(iss.Keys)})
	case issue.KindInvalidUnionDiscriminator:
		return render(cat, iss.Kind, map[string]string{"options": issue.JoinValues(iss.Options)})
	case issue.KindInvalidEnumValue:
		return render(cat, iss.Kind, map[string]string{
			"options":  issue.JoinValues(iss.Options),
			"received": text(iss.Received),
		})
	case issue.KindInvalidUnion,
		issue.KindInvalidArguments,
		issue.KindInvalidReturnType,
		issue.KindInvalidDate,
		issue.KindInvalidIntersectionTypes,
		issue.KindNotFinite:
		return render(cat, iss.Kind, nil)
	case issue.KindInvalidString:
		return stringMessage(cat, iss.Validation)
	case issue.KindTooSmall:
		return cat.Format(sizeKey(iss), map[string]string{
			"minimum": f.bound(locale, iss.Type, iss.Minimum),
		}), true
	case issue.KindTooBig:
		return cat.Format(sizeKey(iss), map[string]string{
			"maximum": f.bound(locale, iss.Type, iss.Maximum),
		}), true
	case issue.KindNotMultipleOf:
		return render(cat, iss.Kind, map[string]string{"multipleOf": text(iss.MultipleOf)})
	case issue.KindCustom:
		return iss.Message, iss.Message != ""
	default:
		log.Printf("unexpected validation issue kind=%q path=%q", iss.Kind, iss.Path.Key())
		return "", false
	}
}

func render(cat *errori18n.Catalog, kind issue.Kind, metadata map[string]string) (string, bool) {
	return cat.Format(keyPrefix+string(kind), metadata), true
}

// stringMessage leaves unknown checks unresolved so the default error shows.
func stringMessage(cat *errori18n.Catalog, check issue.StringCheck) (string, bool) {
	switch c := check.(type) {
	case issue.StartsWith:
		return cat.Format(keyStringStartsWith, map[string]string{"startsWith": c.Prefix}), true
	case issue.EndsWith:
		return cat.Format(keyStringEndsWith, map[string]string{"endsWith": c.Suffix}), true
	case issue.NamedCheck:
		labelKey, ok := stringCheckLabels[c]
		if !ok {
			return "", false
		}
		return render(cat, issue.KindInvalidString, map[string]string{
			"validation": cat.Format(labelKey, nil),
		})
	default:
		return "", false
	}
}

// sizeKey selects one of the twelve too_small/too_big templates.
func sizeKey(iss issue.Issue) string {
	subject := "value"
	if iss.Type == issue.SizeArray {
		subject = "array"
	}
	variant := "exclusive"
	switch {
	case iss.Exact:
		variant = "exact"
	case iss.Inclusive:
		variant = "inclusive"
	}
	return keyPrefix + string(iss.Kind) + "." + subject + "." + variant
}

func (f *Formatter) bound(locale string, typ issue.SizeType, value any) string {
	switch typ {
	case issue.SizeDate:
		if t, ok := toTime(value); ok {
			return f.formats.FormatDate(locale, t)
		}
	case issue.SizeNumber:
		if integers, ok := f.formats.(IntegerFormats); ok {
			if n, ok := toInt(value); ok {
				return integers.FormatInteger(locale, n)
			}
		}
		if n, ok := toFloat(value); ok {
			return f.formats.FormatNumber(locale, n)
		}
	}
	return text(value)
}

func text(value any) string {
	if value == nil {
		return ""
	}
	if r, ok := value.(*big.Rat); ok && r != nil {
		if r.IsInt() {
			return r.RatString()
		}
		f, _ := r.Float64()
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case *big.Rat:
		if v == nil {
			return 0, false
		}
		f, _ := v.Float64()
		return f, true
	}
	if n, ok := toInt(value); ok {
		return float64(n), true
	}
	if v, ok := value.(uint64); ok {
		return float64(v), true
	}
	if v, ok := value.(uint); ok {
		return float64(v), true
	}
	return 0, false
}

// toInt reports integer bounds that fit in an int64.
func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case *big.Rat:
		if v == nil || !v.IsInt() || !v.Num().IsInt64() {
			return 0, false
		}
		return v.Num().Int64(), true
	default:
		return 0, false
	}
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	}
	if ms, ok := toInt(value); ok {
		return time.UnixMilli(ms), true
	}
	ms, ok := toFloat(value)
	// Out-of-range floats have no defined int64 conversion.
	if !ok || math.IsNaN(ms) || ms < math.MinInt64 || ms >= math.MaxInt64 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}
