package pages

import (
	"github.com/a-h/templ"

	vm "github.com/bintangmas1/app-point/internal/viewmodels"
	"github.com/bintangmas1/app-point/templates/components"
)

func Customers(viewer *vm.Viewer, list vm.CustomerList) templ.Component {
	body := components.Component(func(m *components.Markup) {
		m.Raw(`<div class="page-header"><h1>Customers</h1>`)
		m.Raw(`<button type="button" hx-get="/web/customers/new" hx-target="#modal-content">New customer</button></div>`)

		m.Raw(`<form class="filters" hx-get="/web/customers" hx-target="#customers-table" hx-swap="outerHTML" hx-push-url="true" `)
		m.Raw(`hx-trigger="input changed delay:300ms from:input[name=search], change">`)
		m.Raw(`<input type="search" name="search" placeholder="Search name, phone or address" value="`)
		m.Text(list.Search)
		m.Raw(`">`)
		option := func(value, label, current string) {
			m.Raw(`<option value="` + value + `"`)
			if value == current {
				m.Raw(` selected`)
			}
			m.Raw(`>` + label + `</option>`)
		}
		m.Raw(`<select name="status">`)
		option("", "All", list.Status)
		option("true", "Active", list.Status)
		option("false", "Inactive", list.Status)
		m.Raw(`</select><select name="sort">`)
		option("", "Newest", list.Sort)
		option("name", "Name", list.Sort)
		option("point", "Points", list.Sort)
		m.Raw(`</select></form>`)

		m.Render(components.CustomersTable(list))
	})
	return components.Layout("Customers", viewer, body)
}

func CustomerDetail(viewer *vm.Viewer, d vm.CustomerDetail) templ.Component {
	body := components.Component(func(m *components.Markup) {
		c := d.Customer
		m.Raw(`<a href="/web/customers" class="muted">&larr; Customers</a><div class="page-header"><h1>`)
		m.Text(c.Name)
		m.Raw(`</h1>`)
		m.Render(components.StatusBadge(c.Active))
		m.Raw(`</div><dl class="details"><dt>Phone</dt><dd>`)
		m.Text(c.Phone)
		m.Raw(`</dd><dt>Address</dt><dd>`)
		m.Text(c.Address)
		m.Raw(`</dd><dt>Joined</dt><dd>`)
		m.Text(c.CreatedAt)
		m.Raw(`</dd></dl>`)
		m.Render(components.CustomerPanel(d))
	})
	return components.Layout(d.Customer.Name, viewer, body)
}
