// Package i18n renders localized message templates for error codes and
// validation issues.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	platformi18n "github.com/louisbranch/localeforms/internal/platform/i18n"
	i18ncatalog "github.com/louisbranch/localeforms/internal/platform/i18n/catalog"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// NamespaceErrors holds the user-facing messages for error codes.
const NamespaceErrors = "errors"

// Catalog maps keys to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string

	parsedMu sync.RWMutex
	parsed   map[Code]*template.Template
}

type catalogKey struct {
	namespace string
	locale    string
}

var (
	catalogsMu sync.RWMutex
	// catalogs holds override and runtime-built catalogs by namespace and locale.
	catalogs = map[catalogKey]*Catalog{}
)

// GetCatalog returns the error-code catalog for the given locale.
// Falls back to en-US if the locale is not found.
func GetCatalog(locale string) *Catalog {
	return GetNamespaceCatalog(NamespaceErrors, locale)
}

// GetNamespaceCatalog returns the catalog for one namespace and locale.
// Locales are matched to a supported tag first, so "de" and "de-DE" share a
// catalog; anything unsupported resolves to en-US.
func GetNamespaceCatalog(namespace string, locale string) *Catalog {
	namespace = strings.TrimSpace(namespace)
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}

	if c, ok := lookupCatalog(catalogKey{namespace, requested}); ok {
		return c
	}

	matched := platformi18n.LocaleString(platformi18n.NormalizeTag(requested))
	resolvedLocale, messages := i18ncatalog.Default().NamespaceMessagesWithFallback(matched, namespace)
	if c, ok := lookupCatalog(catalogKey{namespace, resolvedLocale}); ok {
		return c
	}

	built := NewCatalog(resolvedLocale, toCodeMap(messages))
	return storeCatalogIfAbsent(catalogKey{namespace, resolvedLocale}, built)
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Lookup returns the raw template for key.
func (c *Catalog) Lookup(key Code) (string, bool) {
	tmpl, ok := c.messages[key]
	return tmpl, ok
}

// Format renders the message template with the given metadata.
// Falls back to the key itself if no template is found.
// Templates are always executed even with nil/empty metadata to ensure
// consistent output (template variables without metadata render as empty).
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	// Ensure metadata is non-nil for template execution
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := c.template(code, tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

func (c *Catalog) template(code Code, tmpl string) (*template.Template, error) {
	c.parsedMu.RLock()
	t, ok := c.parsed[code]
	c.parsedMu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := template.New(code).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return nil, err
	}
	c.parsedMu.Lock()
	c.parsed[code] = t
	c.parsedMu.Unlock()
	return t, nil
}

// RegisterCatalog registers a catalog for the given namespace and locale.
// This is primarily for testing purposes.
func RegisterCatalog(namespace string, locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[catalogKey{namespace, locale}] = cat
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
		parsed:   map[Code]*template.Template{},
	}
}

func lookupCatalog(key catalogKey) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[key]
	return cat, ok
}

func storeCatalogIfAbsent(key catalogKey, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[key]; ok {
		return existing
	}
	catalogs[key] = candidate
	return candidate
}

func toCodeMap(messages map[string]string) map[Code]string {
	out := make(map[Code]string, len(messages))
	for key, value := range messages {
		out[Code(key)] = value
	}
	return out
}
