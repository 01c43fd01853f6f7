package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// HomePage renders the greeting, the language switcher and the profile form.
func HomePage(page PageContext, form FormView) templ.Component {
	return Layout(page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main><h1>`)
		b.WriteString(templ.EscapeString(T(page.Loc, "page.hello", page.AppName)))
		b.WriteString(`</h1><p>`)
		b.WriteString(templ.EscapeString(T(page.Loc, "page.change_translation")))
		b.WriteString(`</p><nav><ul>`)
		for _, link := range page.Languages {
			b.WriteString(`<li><a href="`)
			b.WriteString(templ.EscapeString(link.Path))
			b.WriteString(`"`)
			if link.Active {
				b.WriteString(` aria-current="page"`)
			}
			b.WriteString(`>`)
			b.WriteString(templ.EscapeString(link.Label))
			b.WriteString(`</a></li>`)
		}
		b.WriteString(`</ul></nav><p>`)
		b.WriteString(templ.EscapeString(T(page.Loc, "page.translation_note")))
		b.WriteString(`</p>`)
		writeForm(&b, page, form)
		b.WriteString(`</main>`)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}

func writeForm(b *strings.Builder, page PageContext, form FormView) {
	b.WriteString(`<form method="POST">`)
	if form.Failed {
		b.WriteString(`<p role="alert">`)
		b.WriteString(templ.EscapeString(T(page.Loc, "form.failed")))
		b.WriteString(`</p>`)
	}
	writeField(b, page, form, "name", "text", form.Name)
	writeField(b, page, form, "age", "number", form.Age)
	b.WriteString(`<button type="submit">`)
	b.WriteString(templ.EscapeString(T(page.Loc, "form.try_it")))
	b.WriteString(`</button></form>`)
	if form.HasResult() {
		if !form.Failed {
			b.WriteString(`<h2>`)
			b.WriteString(templ.EscapeString(T(page.Loc, "form.accepted")))
			b.WriteString(`</h2>`)
		}
		b.WriteString(`<pre id="result">`)
		b.WriteString(templ.EscapeString(form.Result))
		b.WriteString(`</pre>`)
	}
}

func writeField(b *strings.Builder, page PageContext, form FormView, name, inputType, value string) {
	id := "field-" + name
	b.WriteString(`<label for="`)
	b.WriteString(id)
	b.WriteString(`">`)
	b.WriteString(templ.EscapeString(T(page.Loc, "form."+name)))
	b.WriteString(`</label><input id="`)
	b.WriteString(id)
	b.WriteString(`" name="`)
	b.WriteString(name)
	b.WriteString(`" type="`)
	b.WriteString(inputType)
	b.WriteString(`" value="`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`"`)
	message, hasError := form.FieldErrors[name]
	if hasError {
		b.WriteString(` aria-invalid="true" aria-describedby="`)
		b.WriteString(id)
		b.WriteString(`-error"`)
	}
	b.WriteString(`>`)
	if hasError {
		b.WriteString(`<span id="`)
		b.WriteString(id)
		b.WriteString(`-error" class="field-error">`)
		b.WriteString(templ.EscapeString(message))
		b.WriteString(`</span>`)
	}
}
