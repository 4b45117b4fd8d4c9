package pages

import (
	"strconv"

	"github.com/a-h/templ"

	vm "github.com/bintangmas1/app-point/internal/viewmodels"
	"github.com/bintangmas1/app-point/templates/components"
)

func Dashboard(viewer *vm.Viewer, d vm.Dashboard) templ.Component {
	body := components.Component(func(m *components.Markup) {
		m.Raw(`<h1>Welcome, `)
		m.Text(viewer.Name)
		m.Raw(`</h1><div class="stats">`)
		stat(m, "Customers", strconv.Itoa(d.TotalCustomers))
		stat(m, "Active", strconv.Itoa(d.ActiveCustomers))
		stat(m, "Points outstanding", d.TotalPoints)
		stat(m, "New this month", strconv.Itoa(d.NewThisMonth))
		m.Raw(`</div>`)

		m.Raw(`<div class="grid"><section class="card"><h2>Top customers</h2><table class="table"><tbody>`)
		if len(d.Top) == 0 {
			m.Raw(`<tr><td class="muted">No active customers</td></tr>`)
		}
		for _, c := range d.Top {
			m.Raw(`<tr><td><a href="/web/customers/`)
			m.Text(c.ID)
			m.Raw(`">`)
			m.Text(c.Name)
			m.Raw(`</a></td><td class="num">`)
			m.Raw(strconv.FormatInt(c.Point, 10))
			m.Raw(`</td><td>`)
			m.Render(components.TierBadge(c.Tier))
			m.Raw(`</td></tr>`)
		}
		m.Raw(`</tbody></table></section>`)

		m.Raw(`<section class="card"><h2>Recent activity</h2>`)
		m.Render(components.LogsTable(d.Recent, true))
		m.Raw(`<a href="/web/logs">All activity</a></section></div>`)
	})
	return components.Layout("Dashboard", viewer, body)
}

func stat(m *components.Markup, label, value string) {
	m.Raw(`<div class="stat card"><span class="label">`)
	m.Text(label)
	m.Raw(`</span><span class="value">`)
	m.Text(value)
	m.Raw(`</span></div>`)
}
