package pages

import (
	"github.com/a-h/templ"

	vm "github.com/bintangmas1/app-point/internal/viewmodels"
	"github.com/bintangmas1/app-point/templates/components"
)

func Workers(viewer *vm.Viewer, selfID string, workers []vm.Worker) templ.Component {
	body := components.Component(func(m *components.Markup) {
		m.Raw(`<div class="page-header"><h1>Workers</h1>`)
		m.Raw(`<button type="button" hx-get="/web/workers/new" hx-target="#modal-content">New worker</button></div>`)
		m.Render(components.WorkersTable(workers, selfID))
	})
	return components.Layout("Workers", viewer, body)
}

func WorkerDetail(viewer *vm.Viewer, d vm.WorkerDetail) templ.Component {
	body := components.Component(func(m *components.Markup) {
		w := d.Worker
		m.Raw(`<a href="/web/workers" class="muted">&larr; Workers</a><div class="page-header"><h1>`)
		m.Text(w.Name)
		m.Raw(`</h1>`)
		m.Render(components.StatusBadge(w.Active))
		m.Raw(`</div><dl class="details"><dt>Username</dt><dd>`)
		m.Text(w.Username)
		m.Raw(`</dd><dt>Created</dt><dd>`)
		m.Text(w.CreatedAt)
		m.Raw(`</dd></dl><section class="card"><h2>Latest activity</h2>`)
		m.Render(components.LogsTable(d.Logs, true))
		m.Raw(`</section>`)
	})
	return components.Layout(d.Worker.Name, viewer, body)
}
