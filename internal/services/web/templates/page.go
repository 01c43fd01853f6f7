package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang      language.Tag
	Loc       Localizer
	AppName   string
	Languages []LanguageLink
}

// LanguageLink is one entry of the language switcher.
type LanguageLink struct {
	Path   string
	Label  string
	Active bool
}

// FormView is the state of the profile form.
type FormView struct {
	Name string
	Age  string
	// FieldErrors maps dotted field paths to display messages.
	FieldErrors map[string]string
	// Result is the pretty JSON shown below the form after a submission.
	Result string
	Failed bool
}

// HasResult reports whether the form was submitted.
func (f FormView) HasResult() bool {
	return f.Result != ""
}

// Layout wraps body in the document shell.
func Layout(page PageContext, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := page.Lang.String()
		title := T(page.Loc, "page.title", page.AppName)
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="`+templ.EscapeString(lang)+`"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`+templ.EscapeString(title)+`</title></head><body>`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
