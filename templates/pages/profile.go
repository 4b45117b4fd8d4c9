package pages

import (
	"github.com/a-h/templ"

	vm "github.com/bintangmas1/app-point/internal/viewmodels"
	"github.com/bintangmas1/app-point/templates/components"
)

// Profile lets the signed-in worker rename themselves and change their
// password. Both forms answer with a toast only.
func Profile(viewer *vm.Viewer, d vm.WorkerDetail) templ.Component {
	body := components.Component(func(m *components.Markup) {
		m.Raw(`<h1>Profile</h1><div class="grid"><section class="card"><h2>Account</h2>`)
		m.Raw(`<form hx-put="/web/profile" hx-swap="none" hx-disabled-elt="find button[type=submit]">`)
		m.Raw(`<label>Username <input value="`)
		m.Text(d.Worker.Username)
		m.Raw(`" disabled></label><label>Name <input name="name" required value="`)
		m.Text(d.Worker.Name)
		m.Raw(`"></label><button type="submit">Save</button></form></section>`)

		m.Raw(`<section class="card"><h2>Change password</h2>`)
		m.Raw(`<form hx-put="/web/profile/password" hx-swap="none" hx-disabled-elt="find button[type=submit]" `)
		m.Raw(`hx-on::after-request="if(event.detail.successful) this.reset()">`)
		m.Raw(`<label>Current password <input type="password" name="current" required autocomplete="current-password"></label>`)
		m.Raw(`<label>New password <input type="password" name="new" required autocomplete="new-password"></label>`)
		m.Raw(`<button type="submit">Change password</button></form></section></div>`)

		m.Raw(`<section class="card"><h2>Your latest activity</h2>`)
		m.Render(components.LogsTable(d.Logs, true))
		m.Raw(`</section>`)
	})
	return components.Layout("Profile", viewer, body)
}
