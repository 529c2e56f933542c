package drivers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"dispatchboard/frontend/shared/html"
)

// RosterPage renders the drivers roster table.
func RosterPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<section class="drivers-screen"><h1>Drivers</h1>`)
		sb.WriteString(`<table class="drivers-table"><thead><tr>` +
			`<th>Name</th><th>Phone</th><th>Email</th><th>Truck</th><th>Active Loads</th><th>Total Loads</th>` +
			`</tr></thead><tbody>`)
		for _, d := range data.Drivers {
			fmt.Fprintf(&sb, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td></tr>`,
				templ.EscapeString(d.Name), templ.EscapeString(d.Phone), templ.EscapeString(d.Email),
				templ.EscapeString(d.TruckUnit), d.ActiveLoads, d.TotalLoads)
		}
		if len(data.Drivers) == 0 {
			sb.WriteString(`<tr><td colspan="6" class="empty">No drivers on file.</td></tr>`)
		}
		sb.WriteString(`</tbody></table></section>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
	return html.Layout("Drivers", body)
}
