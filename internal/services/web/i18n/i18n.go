// Package i18n resolves the request language for the web service.
package i18n

import (
	"net/http"
	"strings"
	"time"

	platformi18n "github.com/louisbranch/localeforms/internal/platform/i18n"
	// Registers catalog messages with x/text/message.
	_ "github.com/louisbranch/localeforms/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "lf_lang"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    language.Tag
	Path   string
	Label  string
	Active bool
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	return platformi18n.SupportedTags()
}

// Default returns the default language tag.
func Default() language.Tag {
	return platformi18n.DefaultTag()
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag determines the best language tag for the request from the lang
// query parameter, the language cookie and Accept-Language, in that order.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := platformi18n.ParseTag(langValue); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}

	return Default(), false
}

// SetLanguageCookie persists the selected language on the response. Secure
// marks the cookie HTTPS-only.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag, secure bool) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TagForPath maps a URL locale segment such as "de" to its supported tag.
// Only the exact short segments of supported tags are accepted.
func TagForPath(segment string) (language.Tag, bool) {
	segment = strings.ToLower(strings.TrimSpace(segment))
	for _, tag := range Supported() {
		if platformi18n.PathSegment(tag) == segment {
			return tag, true
		}
	}
	return Default(), false
}

// LocalePath returns the page path for tag, e.g. "/de/".
func LocalePath(tag language.Tag) string {
	return "/" + platformi18n.PathSegment(tag) + "/"
}

// LanguageOptions lists every supported language with the active one
// marked. labelFor receives the "page.lang_<segment>" key.
func LanguageOptions(active language.Tag, labelFor func(key string) string) []LanguageOption {
	supported := Supported()
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		segment := platformi18n.PathSegment(tag)
		label := tag.String()
		if labelFor != nil {
			if resolved := strings.TrimSpace(labelFor("page.lang_" + segment)); resolved != "" {
				label = resolved
			}
		}
		options = append(options, LanguageOption{
			Tag:    tag,
			Path:   LocalePath(tag),
			Label:  label,
			Active: tag == active,
		})
	}
	return options
}
