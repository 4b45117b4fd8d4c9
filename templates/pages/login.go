// Package pages holds the full HTML pages of the web UI.
package pages

import (
	"github.com/a-h/templ"

	"github.com/bintangmas1/app-point/templates/components"
)

// Login renders the sign-in form with an optional error message.
func Login(errMsg, username string) templ.Component {
	body := components.Component(func(m *components.Markup) {
		m.Raw(`<section class="card login"><h1>Point Admin</h1><p class="muted">Sign in to continue</p>`)
		if errMsg != "" {
			m.Raw(`<p class="form-error">`)
			m.Text(errMsg)
			m.Raw(`</p>`)
		}
		m.Raw(`<form method="post" action="/web/login">`)
		m.Raw(`<label>Username <input name="username" required autofocus autocomplete="username" value="`)
		m.Text(username)
		m.Raw(`"></label>`)
		m.Raw(`<label>Password <input type="password" name="password" required autocomplete="current-password"></label>`)
		m.Raw(`<button type="submit">Sign in</button></form></section>`)
	})
	return components.Layout("Sign in", nil, body)
}
