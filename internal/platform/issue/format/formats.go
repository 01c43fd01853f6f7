package format

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formats renders bound values for a locale.
type Formats interface {
	FormatNumber(locale string, value float64) string
	FormatDate(locale string, t time.Time) string
}

// IntegerFormats is implemented by Formats that render integer bounds
// without going through float64.
type IntegerFormats interface {
	FormatInteger(locale string, value int64) string
}

// dateLayouts holds the short numeric date form per base language.
var dateLayouts = map[string]string{
	"en": "1/2/2006",
	"de": "2.1.2006",
	"it": "2/1/2006",
}

const isoDateLayout = "2006-01-02"

// LocaleFormats formats numbers with CLDR data from x/text and dates with a
// short numeric layout per language. Dates are rendered in UTC.
// Safe for concurrent use.
type LocaleFormats struct {
	printers sync.Map // locale string -> *message.Printer
}

// NewLocaleFormats returns an empty LocaleFormats.
func NewLocaleFormats() *LocaleFormats {
	return &LocaleFormats{}
}

// FormatNumber groups digits and picks decimal symbols for locale.
func (f *LocaleFormats) FormatNumber(locale string, value float64) string {
	return f.printer(locale).Sprint(number.Decimal(value, number.MaxFractionDigits(3)))
}

// FormatInteger is FormatNumber for integers, exact across the int64 range.
func (f *LocaleFormats) FormatInteger(locale string, value int64) string {
	return f.printer(locale).Sprint(number.Decimal(value))
}

// FormatDate renders t as a short date for locale.
func (f *LocaleFormats) FormatDate(locale string, t time.Time) string {
	base, _ := parseLocale(locale).Base()
	layout, ok := dateLayouts[base.String()]
	if !ok {
		layout = isoDateLayout
	}
	return t.UTC().Format(layout)
}

func (f *LocaleFormats) printer(locale string) *message.Printer {
	locale = normalizeLocale(locale)
	if cached, ok := f.printers.Load(locale); ok {
		return cached.(*message.Printer)
	}
	printer := message.NewPrinter(parseLocale(locale))
	actual, _ := f.printers.LoadOrStore(locale, printer)
	return actual.(*message.Printer)
}

func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(normalizeLocale(locale))
	if err != nil {
		return language.English
	}
	return tag
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLocale
	}
	return locale
}
