package format

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/louisbranch/localeforms/internal/platform/issue"
)

type stubFormats struct {
	locales []string
}

func (s *stubFormats) FormatNumber(locale string, value float64) string {
	s.locales = append(s.locales, locale)
	return fmt.Sprintf("num(%v)", value)
}

func (s *stubFormats) FormatDate(locale string, t time.Time) string {
	s.locales = append(s.locales, locale)
	return "date(" + t.UTC().Format(time.DateOnly) + ")"
}

func TestFormatInvalidType(t *testing.T) {
	t.Parallel()

	f := New(nil)
	tests := []struct {
		name   string
		iss    issue.Issue
		locale string
		want   string
	}{
		{
			name: "undefined is required",
			iss:  issue.Issue{Kind: issue.KindInvalidType, Expected: "string", Received: issue.ReceivedUndefined},
			want: "Required",
		},
		{
			name: "undefined ignores expected",
			iss:  issue.Issue{Kind: issue.KindInvalidType, Expected: "number", Received: issue.ReceivedUndefined},
			want: "Required",
		},
		{
			name:   "undefined in german",
			iss:    issue.Issue{Kind: issue.KindInvalidType, Expected: "string", Received: issue.ReceivedUndefined},
			locale: "de",
			want:   "Erforderlich",
		},
		{
			name:   "undefined in italian",
			iss:    issue.Issue{Kind: issue.KindInvalidType, Expected: "string", Received: issue.ReceivedUndefined},
			locale: "it",
			want:   "Obbligatorio",
		},
		{
			name: "mismatch keeps type names verbatim",
			iss:  issue.Issue{Kind: issue.KindInvalidType, Expected: "number", Received: "string"},
			want: "Invalid type! Expected number, received string.",
		},
	}
	for _, tc := range tests {
		got := f.Format(tc.iss, tc.locale, "default").Message
		if got != tc.want {
			t.Fatalf("%s: Format = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatSizeVariants(t *testing.T) {
	t.Parallel()

	f := New(nil)
	tests := []struct {
		name string
		iss  issue.Issue
		want string
	}{
		{
			name: "array exact",
			iss:  issue.Issue{Kind: issue.KindTooSmall, Type: issue.SizeArray, Minimum: 3, Exact: true},
			want: "Too small. Expected the array to have exactly 3 items",
		},
		{
			name: "array inclusive",
			iss:  issue.Issue{Kind: issue.KindTooSmall, Type: issue.SizeArray, Minimum: 3, Inclusive: true},
			want: "Too small. Expected the array to have at least 3 items",
		},
		{
			name: "array exclusive",
			iss:  issue.Issue{Kind: issue.KindTooSmall, Type: issue.SizeArray, Minimum: 3},
			want: "Too small. Expected the array to have more than 3 items",
		},
		{
			name: "array too big inclusive",
			iss:  issue.Issue{Kind: issue.KindTooBig, Type: issue.SizeArray, Maximum: 3, Inclusive: true},
			want: "Too big. Expected the array to have at most 3 items",
		},
		{
			name: "array too big exclusive",
			iss:  issue.Issue{Kind: issue.KindTooBig, Type: issue.SizeArray, Maximum: 3},
			want: "Too big. Expected the array to have less than 3 items",
		},
		{
			name: "exact wins over inclusive",
			iss:  issue.Issue{Kind: issue.KindTooBig, Type: issue.SizeArray, Maximum: 3, Exact: true, Inclusive: true},
			want: "Too big. Expected the array to have exactly 3 items",
		},
		{
			name: "string length uses raw bound",
			iss:  issue.Issue{Kind: issue.KindTooBig, Type: issue.SizeString, Maximum: 1000, Inclusive: true},
			want: "Too big. Expected the value to be at most 1000",
		},
		{
			name: "number is grouped",
			iss:  issue.Issue{Kind: issue.KindTooSmall, Type: issue.SizeNumber, Minimum: 1000, Inclusive: true},
			want: "Too small. Expected the value to be at least 1,000",
		},
	}
	for _, tc := range tests {
		got := f.Format(tc.iss, "en", "default").Message
		if got != tc.want {
			t.Fatalf("%s: Format = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatSizeTemplates(t *testing.T) {
	t.Parallel()

	f := New(nil)
	tests := []struct {
		kind      issue.Kind
		typ       issue.SizeType
		exact     bool
		inclusive bool
		want      string
	}{
		{issue.KindTooSmall, issue.SizeArray, true, false, "Too small. Expected the array to have exactly 4 items"},
		{issue.KindTooSmall, issue.SizeArray, false, true, "Too small. Expected the array to have at least 4 items"},
		{issue.KindTooSmall, issue.SizeArray, false, false, "Too small. Expected the array to have more than 4 items"},
		{issue.KindTooSmall, issue.SizeNumber, true, false, "Too small. Expected the value to be exactly 4"},
		{issue.KindTooSmall, issue.SizeNumber, false, true, "Too small. Expected the value to be at least 4"},
		{issue.KindTooSmall, issue.SizeNumber, false, false, "Too small. Expected the value to be more than 4"},
		{issue.KindTooBig, issue.SizeArray, true, false, "Too big. Expected the array to have exactly 4 items"},
		{issue.KindTooBig, issue.SizeArray, false, true, "Too big. Expected the array to have at most 4 items"},
		{issue.KindTooBig, issue.SizeArray, false, false, "Too big. Expected the array to have less than 4 items"},
		{issue.KindTooBig, issue.SizeNumber, true, false, "Too big. Expected the value to be exactly 4"},
		{issue.KindTooBig, issue.SizeNumber, false, true, "Too big. Expected the value to be at most 4"},
		{issue.KindTooBig, issue.SizeNumber, false, false, "Too big. Expected the value to be less than 4"},
	}
	for _, tc := range tests {
		iss := issue.Issue{Kind: tc.kind, Type: tc.typ, Exact: tc.exact, Inclusive: tc.inclusive}
		if tc.kind == issue.KindTooSmall {
			iss.Minimum = 4
		} else {
			iss.Maximum = 4
		}
		if got := f.Format(iss, "en", "default").Message; got != tc.want {
			t.Fatalf("%s %s exact=%v inclusive=%v: Format = %q, want %q", tc.kind, tc.typ, tc.exact, tc.inclusive, got, tc.want)
		}
	}
}

func TestFormatIntegerBounds(t *testing.T) {
	t.Parallel()

	f := New(nil)
	tests := []struct {
		name   string
		bound  any
		locale string
		want   string
	}{
		{name: "uint32", bound: uint32(5000), locale: "de", want: "Zu groß. Der Wert darf höchstens 5.000 sein"},
		{name: "int16", bound: int16(1200), locale: "en", want: "Too big. Expected the value to be at most 1,200"},
		{name: "uint8", bound: uint8(200), locale: "en", want: "Too big. Expected the value to be at most 200"},
		{name: "max int64", bound: int64(math.MaxInt64), locale: "en", want: "Too big. Expected the value to be at most 9,223,372,036,854,775,807"},
		{name: "integral rat", bound: big.NewRat(12000, 1), locale: "de", want: "Zu groß. Der Wert darf höchstens 12.000 sein"},
	}
	for _, tc := range tests {
		iss := issue.Issue{Kind: issue.KindTooBig, Type: issue.SizeNumber, Maximum: tc.bound, Inclusive: true}
		if got := f.Format(iss, tc.locale, "default").Message; got != tc.want {
			t.Fatalf("%s: Format = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatOutOfRangeDateBound(t *testing.T) {
	t.Parallel()

	f := New(nil)
	iss := issue.Issue{Kind: issue.KindTooSmall, Type: issue.SizeDate, Minimum: 1e300, Inclusive: true}
	if got := f.Format(iss, "en", "default").Message; got != "Too small. Expected the value to be at least 1e+300" {
		t.Fatalf("Format = %q, want raw bound", got)
	}
	iss.Minimum = int64(86400000)
	if got := f.Format(iss, "en", "default").Message; got != "Too small. Expected the value to be at least 1/2/1970" {
		t.Fatalf("Format = %q, want locale date", got)
	}
}

func TestFormatGermanNumberGrouping(t *testing.T) {
	t.Parallel()

	f := New(nil)
	iss := issue.Issue{Kind: issue.KindTooSmall, Type: issue.SizeNumber, Minimum: 1000, Inclusive: true}
	got := f.Format(iss, "de", "default").Message
	if got != "Zu klein. Der Wert muss mindestens 1.000 sein" {
		t.Fatalf("Format = %q", got)
	}
}

func TestFormatUsesInjectedFormats(t *testing.T) {
	t.Parallel()

	stub := &stubFormats{}
	f := New(stub)

	day := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	got := f.Format(issue.Issue{Kind: issue.KindTooBig, Type: issue.SizeDate, Maximum: day.UnixMilli(), Inclusive: true}, "it", "").Message
	if !strings.Contains(got, "date(2024-03-09)") {
		t.Fatalf("date bound = %q", got)
	}
	got = f.Format(issue.Issue{Kind: issue.KindTooSmall, Type: issue.SizeNumber, Minimum: big.NewRat(5, 2)}, "it", "").Message
	if !strings.Contains(got, "num(2.5)") {
		t.Fatalf("number bound = %q", got)
	}
	if len(stub.locales) != 2 || stub.locales[0] != "it" || stub.locales[1] != "it" {
		t.Fatalf("locales = %v, want [it it]", stub.locales)
	}
}

func TestFormatDefaultsLocale(t *testing.T) {
	t.Parallel()

	stub := &stubFormats{}
	f := New(stub)
	f.Format(issue.Issue{Kind: issue.KindTooSmall, Type: issue.SizeNumber, Minimum: 1}, "  ", "")
	if len(stub.locales) != 1 || stub.locales[0] != DefaultLocale {
		t.Fatalf("locales = %v, want [%s]", stub.locales, DefaultLocale)
	}
}

func TestFormatJoinedValues(t *testing.T) {
	t.Parallel()

	f := New(nil)
	tests := []struct {
		name string
		iss  issue.Issue
		want string
	}{
		{
			name: "unrecognized keys",
			iss:  issue.Issue{Kind: issue.KindUnrecognizedKeys, Keys: []string{"a", "b"}},
			want: "Unrecognized keys: 'a' | 'b'",
		},
		{
			name: "union discriminator",
			iss:  issue.Issue{Kind: issue.KindInvalidUnionDiscriminator, Options: []any{"cat", "dog"}},
			want: "Invalid union discriminator: 'cat' | 'dog'",
		},
		{
			name: "enum value",
			iss:  issue.Issue{Kind: issue.KindInvalidEnumValue, Options: []any{1, 2}, Received: 3},
			want: "Invalid enum value. Expected 1 | 2, received 3.",
		},
		{
			name: "literal",
			iss:  issue.Issue{Kind: issue.KindInvalidLiteral, Expected: "yes", Received: "no"},
			want: "Invalid literal! Expected yes, received no.",
		},
		{
			name: "multiple of",
			iss:  issue.Issue{Kind: issue.KindNotMultipleOf, MultipleOf: 5},
			want: "Number must be a multiple of 5.",
		},
	}
	for _, tc := range tests {
		got := f.Format(tc.iss, "en", "default").Message
		if got != tc.want {
			t.Fatalf("%s: Format = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatInvalidString(t *testing.T) {
	t.Parallel()

	f := New(nil)
	tests := []struct {
		name  string
		check issue.StringCheck
		want  string
	}{
		{name: "email", check: issue.NamedCheck("email"), want: "Invalid Email"},
		{name: "cuid2", check: issue.NamedCheck("cuid2"), want: "Invalid CUID2"},
		{name: "starts with", check: issue.StartsWith{Prefix: "https://"}, want: "Invalid input: Must start with https://"},
		{name: "ends with", check: issue.EndsWith{Suffix: ".com"}, want: "Invalid input: Must end with .com"},
		{name: "unknown named check", check: issue.NamedCheck("base64"), want: "caller default"},
		{name: "includes", check: issue.Includes{Substring: "@"}, want: "caller default"},
		{name: "nil check", check: nil, want: "caller default"},
	}
	for _, tc := range tests {
		got := f.Format(issue.Issue{Kind: issue.KindInvalidString, Validation: tc.check}, "en", "caller default").Message
		if got != tc.want {
			t.Fatalf("%s: Format = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatCustomAndUnknown(t *testing.T) {
	t.Parallel()

	f := New(nil)
	if got := f.Format(issue.Issue{Kind: issue.KindCustom, Message: "Pick another name"}, "en", "default").Message; got != "Pick another name" {
		t.Fatalf("custom = %q", got)
	}
	if got := f.Format(issue.Issue{Kind: issue.KindCustom}, "en", "default").Message; got != "default" {
		t.Fatalf("custom without message = %q, want default", got)
	}
	if got := f.Format(issue.Issue{Kind: "brand_new"}, "en", "default").Message; got != "default" {
		t.Fatalf("unknown kind = %q, want default", got)
	}
	if got := f.Format(issue.Issue{Kind: "brand_new"}, "de", " ").Message; got != "Ungültige Eingabe" {
		t.Fatalf("unknown kind without default = %q", got)
	}
}

func TestErrorMapBindsLocale(t *testing.T) {
	t.Parallel()

	errorMap := New(nil).ErrorMap("it")
	got := errorMap(issue.Issue{Kind: issue.KindInvalidType, Received: issue.ReceivedUndefined}, "x")
	if got != "Obbligatorio" {
		t.Fatalf("ErrorMap = %q, want %q", got, "Obbligatorio")
	}
}

func TestFormatNeverEmptyProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	f := New(nil)
	kinds := issue.Kinds()
	sizes := []issue.SizeType{issue.SizeString, issue.SizeNumber, issue.SizeArray, issue.SizeDate, issue.SizeSet, issue.SizeBigInt}
	locales := []string{"", "en", "it", "de", "fr", "de-DE"}
	defaults := []string{"", "   ", "default"}

	properties.Property("every kind yields a message", prop.ForAll(
		func(kind, size, locale, fallback int, bound int64, exact bool) bool {
			iss := issue.Issue{
				Kind:       kinds[kind],
				Type:       sizes[size],
				Minimum:    bound,
				Maximum:    bound,
				Exact:      exact,
				Received:   "string",
				Expected:   "number",
				Validation: issue.NamedCheck("unknown"),
			}
			return f.Format(iss, locales[locale], defaults[fallback]).Message != ""
		},
		gen.IntRange(0, len(kinds)-1),
		gen.IntRange(0, len(sizes)-1),
		gen.IntRange(0, len(locales)-1),
		gen.IntRange(0, len(defaults)-1),
		gen.Int64Range(-1_000_000, 1_000_000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
