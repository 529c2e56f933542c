package exports

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"dispatchboard/frontend/shared/html"
)

// ExportsPage renders download links for the available exports.
func ExportsPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<section class="exports-screen"><h1>Exports</h1>`)
		fmt.Fprintf(&sb, `<p>%d loads on file.</p>`, data.TotalLoads)
		sb.WriteString(`<ul class="export-list">` +
			`<li><a href="/dispatch/exports/loads.csv">All loads (CSV)</a></li>` +
			`<li><a href="/dispatch/exports/rate-confirmations.zip">Active rate confirmations (ZIP)</a></li>` +
			`<li><a href="/dispatch/exports/rate-confirmations.zip?tab=archive">Archived rate confirmations (ZIP)</a></li>` +
			`</ul></section>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
	return html.Layout("Exports", body)
}
