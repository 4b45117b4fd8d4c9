package components

import (
	"strconv"

	"github.com/a-h/templ"

	vm "github.com/bintangmas1/app-point/internal/viewmodels"
)

func TierBadge(t vm.Tier) templ.Component {
	return Component(func(m *Markup) {
		m.Raw(`<span class="badge bg-`)
		m.Text(t.Color)
		m.Raw(`"><i class="bi bi-`)
		m.Text(t.Icon)
		m.Raw(`"></i> `)
		m.Text(t.Name)
		m.Raw(`</span>`)
	})
}

func StatusBadge(active bool) templ.Component {
	return Component(func(m *Markup) {
		if active {
			m.Raw(`<span class="badge bg-success">Active</span>`)
		} else {
			m.Raw(`<span class="badge bg-secondary">Inactive</span>`)
		}
	})
}

// Pagination renders numbered links that swap target with the page
// fetched from base+query(n).
func Pagination(base, target string, page, pages int, query func(int) string) templ.Component {
	return Component(func(m *Markup) {
		if pages <= 1 {
			return
		}
		if page < 1 {
			page = 1
		}
		m.Raw(`<nav class="pagination">`)
		for n := 1; n <= pages; n++ {
			if n == page {
				m.Raw(`<span class="current">` + strconv.Itoa(n) + `</span>`)
				continue
			}
			m.Raw(`<a href="`)
			m.Text(base + query(n))
			m.Raw(`" hx-get="`)
			m.Text(base + query(n))
			m.Raw(`" hx-target="`)
			m.Text(target)
			m.Raw(`" hx-swap="outerHTML" hx-push-url="true">` + strconv.Itoa(n) + `</a>`)
		}
		m.Raw(`</nav>`)
	})
}

// FieldError renders the message under a form field when field matches.
func FieldError(field, errField, message string) templ.Component {
	return Component(func(m *Markup) {
		if field == "" || field != errField {
			return
		}
		m.Raw(`<small class="field-error">`)
		m.Text(message)
		m.Raw(`</small>`)
	})
}

// FormError renders a message that does not belong to a single field.
func FormError(errField, message string) templ.Component {
	return Component(func(m *Markup) {
		if message == "" || errField != "" {
			return
		}
		m.Raw(`<p class="form-error">`)
		m.Text(message)
		m.Raw(`</p>`)
	})
}

func statusSelect(m *Markup, active bool) {
	m.Raw(`<label>Status <select name="status">`)
	if active {
		m.Raw(`<option value="true" selected>Active</option><option value="false">Inactive</option>`)
	} else {
		m.Raw(`<option value="true">Active</option><option value="false" selected>Inactive</option>`)
	}
	m.Raw(`</select></label>`)
}
