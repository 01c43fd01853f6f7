// Package i18n defines the locales the service speaks and how incoming
// language identifiers are matched against them.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	tagEnglish = language.AmericanEnglish
	tagItalian = language.MustParse("it-IT")
	tagGerman  = language.MustParse("de-DE")

	supportedTags = []language.Tag{tagEnglish, tagItalian, tagGerman}
	matcher       = language.NewMatcher(supportedTags)
)

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return tagEnglish
}

// ParseTag parses value and matches it to a supported tag.
// The bool is false when value is not a language tag or nothing supported
// is close enough.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultTag(), false
	}
	return supportedTags[index], true
}

// MatchTags picks the best supported tag for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}

// NormalizeTag coerces value to a supported tag, falling back to the default.
func NormalizeTag(value string) language.Tag {
	tag, _ := ParseTag(value)
	return tag
}

// LocaleString returns the catalog locale identifier for tag, e.g. "de-DE".
func LocaleString(tag language.Tag) string {
	return tag.String()
}

// PathSegment returns the short URL segment for tag, e.g. "de".
func PathSegment(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
