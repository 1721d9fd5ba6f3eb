// Package templates renders the pages and partials of the web UI.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

var esc = templ.EscapeString[string]

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s · uikit</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/@fortawesome/fontawesome-free@6.5.2/css/all.min.css">
<link rel="stylesheet" href="/static/app.css">
<script src="https://cdn.jsdelivr.net/npm/htmx.org@1.9.12/dist/htmx.min.js"></script>
</head>
<body>
<nav class="navbar navbar-light bg-light mb-4"><div class="container"><a class="navbar-brand" href="/">uikit</a></div></nav>
<main class="container">
<h1 class="h3 mb-4">%s</h1>
`, esc(title), esc(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}

// ErrorAlert renders a dismissible error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-danger" role="alert"><strong>%s</strong>`+
				`<div class="small">%s</div><div class="small text-muted">Code: %s</div></div>`,
			esc(message), esc(action), esc(code))
		return err
	})
}

// Alert renders a bootstrap alert of the given level (success, info,
// warning, danger) above optional content.
func Alert(level, message string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="alert alert-%s" role="alert">%s</div>`, esc(level), esc(message)); err != nil {
			return err
		}
		if content == nil {
			return nil
		}
		return content.Render(ctx, w)
	})
}
