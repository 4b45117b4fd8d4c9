package pages

import (
	"github.com/a-h/templ"

	vm "github.com/bintangmas1/app-point/internal/viewmodels"
	"github.com/bintangmas1/app-point/templates/components"
)

func Logs(viewer *vm.Viewer, list vm.LogList) templ.Component {
	body := components.Component(func(m *components.Markup) {
		m.Raw(`<h1>Activity</h1><form class="filters" hx-get="/web/logs" hx-target="#logs-list" hx-swap="outerHTML" hx-push-url="true" `)
		m.Raw(`hx-trigger="input changed delay:300ms from:input[name=search]">`)
		m.Raw(`<input type="search" name="search" placeholder="Search notes" value="`)
		m.Text(list.Search)
		m.Raw(`"></form>`)
		m.Render(components.LogsList(list))
	})
	return components.Layout("Activity", viewer, body)
}
