package components

import (
	"github.com/a-h/templ"

	"github.com/bintangmas1/app-point/internal/middleware"
	vm "github.com/bintangmas1/app-point/internal/viewmodels"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Layout wraps body in the page chrome: navbar, modal and toast area.
// The CSRF token is sent on every htmx request through hx-headers.
func Layout(title string, viewer *vm.Viewer, body templ.Component) templ.Component {
	return Component(func(m *Markup) {
		theme := middleware.GetTheme(m.ctx)
		csrf := middleware.GetCSRF(m.ctx)

		m.Raw(`<!DOCTYPE html><html lang="en" data-bs-theme="`)
		m.Text(theme)
		m.Raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.Raw(`<title>`)
		m.Text(title)
		m.Raw(` | Point Admin</title>`)
		m.Raw(`<link rel="stylesheet" href="/static/css/app.css">`)
		m.Raw(`<script src="` + htmxSrc + `"></script>`)
		m.Raw(`<script src="/static/js/app.js" defer></script>`)
		m.Raw(`</head><body hx-headers='{"X-CSRF-Token": "`)
		m.Text(csrf)
		m.Raw(`"}'>`)

		if viewer != nil {
			nav(m, viewer, csrf)
		}
		m.Raw(`<main class="container">`)
		m.Render(body)
		m.Raw(`</main>`)

		m.Raw(`<dialog id="modal"><div id="modal-content"></div></dialog>`)
		m.Raw(`<div id="toasts" class="toasts" aria-live="polite"></div>`)
		m.Raw(`<footer class="container muted">Point Admin v`)
		m.Text(middleware.GetVersion(m.ctx))
		m.Raw(`</footer></body></html>`)
	})
}

func nav(m *Markup, viewer *vm.Viewer, csrf string) {
	m.Raw(`<nav class="navbar"><a class="brand" href="/web/">Point Admin</a><ul>`)
	m.Raw(`<li><a href="/web/">Dashboard</a></li>`)
	m.Raw(`<li><a href="/web/customers">Customers</a></li>`)
	m.Raw(`<li><a href="/web/logs">Activity</a></li>`)
	if viewer.IsSuperAdmin {
		m.Raw(`<li><a href="/web/workers">Workers</a></li>`)
	}
	m.Raw(`</ul><div class="nav-user"><a href="/web/profile">`)
	m.Text(viewer.Name)
	m.Raw(`</a><button type="button" class="link" onclick="toggleTheme()">Theme</button>`)
	m.Raw(`<form method="post" action="/web/logout">`)
	m.Render(CSRFField(csrf))
	m.Raw(`<button type="submit" class="link">Log out</button></form></div></nav>`)
}

// CSRFField is the hidden input echo's CSRF middleware reads from forms.
func CSRFField(token string) templ.Component {
	return Component(func(m *Markup) {
		m.Raw(`<input type="hidden" name="_csrf" value="`)
		m.Text(token)
		m.Raw(`">`)
	})
}
