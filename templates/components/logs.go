package components

import (
	"github.com/a-h/templ"

	vm "github.com/bintangmas1/app-point/internal/viewmodels"
)

// LogsTable lists activity notes. withCustomer adds the customer column.
func LogsTable(entries []vm.LogEntry, withCustomer bool) templ.Component {
	return Component(func(m *Markup) {
		m.Raw(`<table class="table logs"><thead><tr><th>When</th><th>Worker</th>`)
		if withCustomer {
			m.Raw(`<th>Customer</th>`)
		}
		m.Raw(`<th>Note</th></tr></thead><tbody>`)
		if len(entries) == 0 {
			m.Raw(`<tr><td colspan="4" class="muted">No activity yet</td></tr>`)
		}
		for _, e := range entries {
			m.Raw(`<tr><td>`)
			m.Text(e.CreatedAt)
			m.Raw(`</td><td>`)
			m.Text(e.WorkerName)
			m.Raw(`</td>`)
			if withCustomer {
				m.Raw(`<td>`)
				if e.CustomerID != "" {
					m.Raw(`<a href="/web/customers/`)
					m.Text(e.CustomerID)
					m.Raw(`">`)
					m.Text(e.CustomerName)
					m.Raw(`</a>`)
				}
				m.Raw(`</td>`)
			}
			m.Raw(`<td>`)
			m.Text(e.Note)
			m.Raw(`</td></tr>`)
		}
		m.Raw(`</tbody></table>`)
	})
}

// LogsList is the swappable activity log page body.
func LogsList(list vm.LogList) templ.Component {
	return Component(func(m *Markup) {
		m.Raw(`<div id="logs-list"><p class="muted">`)
		m.Textf("%d entries", list.Total)
		m.Raw(`</p>`)
		m.Render(LogsTable(list.Items, true))
		m.Render(Pagination("/web/logs", "#logs-list", list.Page, list.Pages(), list.Query))
		m.Raw(`</div>`)
	})
}
