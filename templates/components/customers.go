package components

import (
	"strconv"

	"github.com/a-h/templ"

	vm "github.com/bintangmas1/app-point/internal/viewmodels"
)

// CustomersTable is the swappable customer listing, including bulk delete
// and pagination. htmx requests for /web/customers return only this.
func CustomersTable(list vm.CustomerList) templ.Component {
	return Component(func(m *Markup) {
		m.Raw(`<div id="customers-table">`)
		m.Raw(`<div class="table-actions"><span class="muted">`)
		m.Textf("%d customers", list.Total)
		m.Raw(`</span><button type="button" class="danger" hx-post="/web/customers/delete" `)
		m.Raw(`hx-include="#customers-table input[name=ids]:checked" hx-target="#customers-table" hx-swap="outerHTML" `)
		m.Raw(`hx-confirm="Delete the selected customers and all their activity?">Delete selected</button></div>`)

		m.Raw(`<table class="table"><thead><tr><th></th><th>Name</th><th>Phone</th><th>Points</th><th>Tier</th><th>Status</th><th>Joined</th><th></th></tr></thead><tbody>`)
		if len(list.Items) == 0 {
			m.Raw(`<tr><td colspan="8" class="muted">No customers found</td></tr>`)
		}
		for _, c := range list.Items {
			customerRow(m, c)
		}
		m.Raw(`</tbody></table>`)
		m.Render(Pagination("/web/customers", "#customers-table", list.Page, list.Pages(), list.Query))
		m.Raw(`</div>`)
	})
}

func customerRow(m *Markup, c vm.Customer) {
	m.Raw(`<tr><td><input type="checkbox" name="ids" value="`)
	m.Text(c.ID)
	m.Raw(`"></td><td><a href="/web/customers/`)
	m.Text(c.ID)
	m.Raw(`">`)
	m.Text(c.Name)
	m.Raw(`</a></td><td>`)
	m.Text(c.Phone)
	m.Raw(`</td><td class="num">`)
	m.Raw(strconv.FormatInt(c.Point, 10))
	m.Raw(`</td><td>`)
	m.Render(TierBadge(c.Tier))
	m.Raw(`</td><td>`)
	m.Render(StatusBadge(c.Active))
	m.Raw(`</td><td>`)
	m.Text(c.CreatedAt)
	m.Raw(`</td><td class="actions"><button type="button" class="link" hx-get="/web/customers/`)
	m.Text(c.ID)
	m.Raw(`/edit" hx-target="#modal-content">Edit</button><button type="button" class="link danger" hx-delete="/web/customers/`)
	m.Text(c.ID)
	m.Raw(`" hx-target="#customers-table" hx-swap="outerHTML" hx-confirm="Delete `)
	m.Text(c.Name)
	m.Raw(` and all their activity?">Delete</button></td></tr>`)
}

// CustomerForm is the create (c == nil) or edit modal form.
func CustomerForm(c *vm.Customer, errField, errMsg string) templ.Component {
	return Component(func(m *Markup) {
		value := vm.Customer{Active: true}
		if c != nil {
			value = *c
		}

		if value.ID == "" {
			m.Raw(`<h2>New customer</h2><form hx-post="/web/customers"`)
		} else {
			m.Raw(`<h2>Edit customer</h2><form hx-put="/web/customers/`)
			m.Text(value.ID)
			m.Raw(`"`)
		}
		m.Raw(` hx-target="#customers-table" hx-swap="outerHTML" hx-disabled-elt="find button[type=submit]">`)
		m.Render(FormError(errField, errMsg))

		m.Raw(`<label>Name <input name="name" required autofocus value="`)
		m.Text(value.Name)
		m.Raw(`"></label>`)
		m.Render(FieldError("name", errField, errMsg))
		m.Raw(`<label>Address <textarea name="address" rows="2">`)
		m.Text(value.Address)
		m.Raw(`</textarea></label><label>Phone <input name="phone" value="`)
		m.Text(value.Phone)
		m.Raw(`"></label>`)
		statusSelect(m, value.Active)

		m.Raw(`<div class="form-actions"><button type="button" class="secondary" onclick="closeModal()">Cancel</button>`)
		m.Raw(`<button type="submit">Save</button></div></form>`)
	})
}

// CustomerPanel is the balance card on the detail page. Point changes
// swap the whole panel so balance, tier and notes stay consistent.
func CustomerPanel(d vm.CustomerDetail) templ.Component {
	return Component(func(m *Markup) {
		c := d.Customer
		m.Raw(`<section id="customer-panel" class="card">`)
		m.Raw(`<div class="balance"><span class="points">`)
		m.Raw(strconv.FormatInt(c.Point, 10))
		m.Raw(`</span> points `)
		m.Render(TierBadge(c.Tier))
		m.Raw(`</div><div class="points-forms">`)
		pointsForm(m, c.ID, "add", "Add points")
		pointsForm(m, c.ID, "redeem", "Redeem points")
		m.Raw(`</div><h3>Latest activity</h3>`)
		m.Render(LogsTable(d.Logs, false))
		m.Raw(`</section>`)
	})
}

func pointsForm(m *Markup, id, action, label string) {
	m.Raw(`<form class="points-form" hx-post="/web/customers/`)
	m.Text(id)
	m.Raw(`/points/` + action + `" hx-target="#customer-panel" hx-swap="outerHTML" hx-disabled-elt="find button[type=submit]">`)
	m.Raw(`<input type="number" name="points" min="1" step="1" required placeholder="Points">`)
	m.Raw(`<input name="note" placeholder="Note">`)
	m.Raw(`<button type="submit">`)
	m.Text(label)
	m.Raw(`</button></form>`)
}
