package components

import (
	"github.com/a-h/templ"

	vm "github.com/bintangmas1/app-point/internal/viewmodels"
)

// WorkersTable lists staff accounts. selfID hides the delete action on
// the viewer's own row.
func WorkersTable(workers []vm.Worker, selfID string) templ.Component {
	return Component(func(m *Markup) {
		m.Raw(`<div id="workers-table"><table class="table"><thead><tr><th>Name</th><th>Username</th><th>Role</th><th>Status</th><th>Created</th><th></th></tr></thead><tbody>`)
		for _, w := range workers {
			m.Raw(`<tr><td><a href="/web/workers/`)
			m.Text(w.ID)
			m.Raw(`">`)
			m.Text(w.Name)
			m.Raw(`</a></td><td>`)
			m.Text(w.Username)
			m.Raw(`</td><td>`)
			if w.IsSuperAdmin {
				m.Raw(`Super admin`)
			} else {
				m.Raw(`Worker`)
			}
			m.Raw(`</td><td>`)
			m.Render(StatusBadge(w.Active))
			m.Raw(`</td><td>`)
			m.Text(w.CreatedAt)
			m.Raw(`</td><td class="actions"><button type="button" class="link" hx-get="/web/workers/`)
			m.Text(w.ID)
			m.Raw(`/edit" hx-target="#modal-content">Edit</button>`)
			if w.ID != selfID {
				m.Raw(`<button type="button" class="link danger" hx-delete="/web/workers/`)
				m.Text(w.ID)
				m.Raw(`" hx-target="#workers-table" hx-swap="outerHTML" hx-confirm="Delete worker `)
				m.Text(w.Username)
				m.Raw(` and their activity?">Delete</button>`)
			}
			m.Raw(`</td></tr>`)
		}
		m.Raw(`</tbody></table></div>`)
	})
}

// WorkerForm is the create (w == nil) or edit modal form. On edit the
// password is optional and only changed when filled in.
func WorkerForm(w *vm.Worker, errField, errMsg string) templ.Component {
	return Component(func(m *Markup) {
		value := vm.Worker{Active: true}
		if w != nil {
			value = *w
		}

		if value.ID == "" {
			m.Raw(`<h2>New worker</h2><form hx-post="/web/workers"`)
		} else {
			m.Raw(`<h2>Edit worker</h2><form hx-put="/web/workers/`)
			m.Text(value.ID)
			m.Raw(`"`)
		}
		m.Raw(` hx-target="#workers-table" hx-swap="outerHTML" hx-disabled-elt="find button[type=submit]">`)
		m.Render(FormError(errField, errMsg))

		m.Raw(`<label>Name <input name="name" required autofocus value="`)
		m.Text(value.Name)
		m.Raw(`"></label>`)
		m.Render(FieldError("name", errField, errMsg))
		m.Raw(`<label>Username <input name="username" required autocomplete="off" value="`)
		m.Text(value.Username)
		m.Raw(`"></label>`)
		m.Render(FieldError("username", errField, errMsg))
		if value.ID == "" {
			m.Raw(`<label>Password <input type="password" name="password" required autocomplete="new-password"></label>`)
		} else {
			m.Raw(`<label>New password <input type="password" name="password" autocomplete="new-password" placeholder="Leave blank to keep"></label>`)
			statusSelect(m, value.Active)
		}
		m.Render(FieldError("password", errField, errMsg))
		m.Render(FieldError("status", errField, errMsg))

		m.Raw(`<div class="form-actions"><button type="button" class="secondary" onclick="closeModal()">Cancel</button>`)
		m.Raw(`<button type="submit">Save</button></div></form>`)
	})
}
