package web

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/localeforms/internal/platform/errors"
	errorsi18n "github.com/louisbranch/localeforms/internal/platform/errors/i18n"
	"github.com/louisbranch/localeforms/internal/services/web/i18n"
	weberrors "github.com/louisbranch/localeforms/internal/services/web/platform/errors"
	"github.com/louisbranch/localeforms/internal/services/web/platform/httpx"
	"github.com/louisbranch/localeforms/internal/services/web/templates"
	"golang.org/x/text/language"
)

// formFields lists the profile form inputs in render order.
var formFields = []string{"name", "age"}

// handleRoot sends the visitor to the page for their preferred language.
func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag, h.scheme.IsHTTPS(r))
	}
	httpx.WriteRedirect(w, r, i18n.LocalePath(tag))
}

func (h *handler) handlePage(w http.ResponseWriter, r *http.Request) {
	tag, ok := i18n.TagForPath(r.PathValue("locale"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	i18n.SetLanguageCookie(w, tag, h.scheme.IsHTTPS(r))
	h.render(w, r, http.StatusOK, tag, templates.FormView{})
}

// handleAction validates the submitted profile form and re-renders the page
// with per-field messages in the page language.
func (h *handler) handleAction(w http.ResponseWriter, r *http.Request) {
	tag, ok := i18n.TagForPath(r.PathValue("locale"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if h.scheme.CrossOrigin(r) {
		err := apperrors.New(apperrors.CodeCrossOrigin, "cross-origin form post")
		log.Printf("web: request %s: %s: origin %q", httpx.RequestIDFrom(r), err.Code, r.Header.Get("Origin"))
		http.Error(w, errorsi18n.GetCatalog(tag.String()).Format(string(err.Code), nil), weberrors.HTTPStatus(err))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, r, weberrors.HTTPStatus(apperrors.Wrap(apperrors.CodeFormMalformed, "parse form", err)), tag, templates.FormView{})
		return
	}

	view := templates.FormView{
		Name: r.PostForm.Get("name"),
		Age:  r.PostForm.Get("age"),
	}
	doc := formDocument(r.PostForm)
	locale := tag.String()

	fields := h.validation.validateDocument(r.Context(), locale, doc)
	if len(fields) > 0 {
		err := apperrors.WithFields(apperrors.CodeFormInvalid, "form validation failed",
			map[string]string{"count": strconv.Itoa(len(fields))}, fields)
		log.Printf("web: request %s: %s: %d field(s) invalid (%s)",
			httpx.RequestIDFrom(r), err.Error(), len(fields), strings.Join(err.FieldNames(), ", "))

		view.Failed = true
		view.FieldErrors = fields
		view.Result = prettyJSON(map[string]any{"failed": true, "fieldErrors": fields})
		h.render(w, r, weberrors.HTTPStatus(err), tag, view)
		return
	}

	view.Result = prettyJSON(doc)
	h.render(w, r, http.StatusOK, tag, view)
}

// formDocument converts posted values into the document checked against the
// profile schema. Blank inputs are left out and finite numeric ages become
// numbers.
func formDocument(values map[string][]string) map[string]any {
	doc := make(map[string]any, len(formFields))
	for _, name := range formFields {
		raw := ""
		if v := values[name]; len(v) > 0 {
			raw = strings.TrimSpace(v[0])
		}
		if raw == "" {
			continue
		}
		if name == "age" {
			// NaN and Inf stay strings so they fail as a type mismatch.
			if n, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
				doc[name] = n
				continue
			}
		}
		doc[name] = raw
	}
	return doc
}

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, tag language.Tag, form templates.FormView) {
	c := templates.HomePage(h.pageContext(tag), form)
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *handler) pageContext(tag language.Tag) templates.PageContext {
	loc := i18n.Printer(tag)
	options := i18n.LanguageOptions(tag, func(key string) string {
		return templates.T(loc, key)
	})
	links := make([]templates.LanguageLink, 0, len(options))
	for _, option := range options {
		links = append(links, templates.LanguageLink{
			Path:   option.Path,
			Label:  option.Label,
			Active: option.Active,
		})
	}
	return templates.PageContext{
		Lang:      tag,
		Loc:       loc,
		AppName:   h.config.AppName,
		Languages: links,
	}
}
