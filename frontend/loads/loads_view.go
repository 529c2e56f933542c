package loads

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"dispatchboard/frontend/shared/html"
	"dispatchboard/infrastructure/docviewer"
	"dispatchboard/models"
)

// BoardPage renders the loads table for one tab.
func BoardPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<section class="loads-screen">`)
		fmt.Fprintf(&sb, `<h1>%s</h1>`, templ.EscapeString(data.Table.Title))
		if data.Status != "" {
			fmt.Fprintf(&sb, `<p class="status-banner">%s</p>`, templ.EscapeString(data.Status))
		}
		sb.WriteString(`<table class="loads-table"><thead><tr>` +
			`<th>Load #</th><th>Customer</th><th>Pickup</th><th>Delivery</th>` +
			`<th>Driver</th><th>Rate</th><th>Status</th><th>Documents</th>` +
			`</tr></thead><tbody>`)
		for _, load := range data.Loads {
			writeLoadRow(&sb, data.Table, load, data.Expanded[load.ID])
		}
		if len(data.Loads) == 0 {
			sb.WriteString(`<tr><td colspan="8" class="empty">No loads to show.</td></tr>`)
		}
		sb.WriteString(`</tbody></table></section>`)
		sb.WriteString(viewerScript())
		_, err := io.WriteString(w, sb.String())
		return err
	})
	return html.Layout(data.Table.Title, body)
}

func writeLoadRow(sb *strings.Builder, table TableConfig, load models.Load, expanded bool) {
	fmt.Fprintf(sb, `<tr id="load-row-%d" data-load-id="%d">`, load.ID, load.ID)
	fmt.Fprintf(sb, `<td>%s</td>`, templ.EscapeString(load.LoadNumber))
	fmt.Fprintf(sb, `<td>%s</td>`, templ.EscapeString(load.CustomerDisplay()))
	fmt.Fprintf(sb, `<td>%s<br><span class="muted">%s</span></td>`,
		templ.EscapeString(stopLocation(load.PickupCity, load.PickupState)),
		templ.EscapeString(docviewer.FormatShortDate(load.PickupDate)))
	fmt.Fprintf(sb, `<td>%s<br><span class="muted">%s</span></td>`,
		templ.EscapeString(stopLocation(load.DeliveryCity, load.DeliveryState)),
		templ.EscapeString(docviewer.FormatShortDate(load.DeliveryDate)))
	driver := PrimaryDriverName(load)
	if driver == "" {
		driver = "Unassigned"
	}
	fmt.Fprintf(sb, `<td>%s</td>`, templ.EscapeString(driver))
	fmt.Fprintf(sb, `<td>%s</td>`, templ.EscapeString(docviewer.FormatCurrency(load.Rate)))
	writeStatusCell(sb, table, load)
	writeDocumentCell(sb, table, load, expanded)
	sb.WriteString(`</tr>`)
	if expanded {
		writeViewerPanelRow(sb, load)
	}
}

func writeStatusCell(sb *strings.Builder, table TableConfig, load models.Load) {
	if table.Tab == TabArchive {
		fmt.Fprintf(sb, `<td><span class="status-pill status-%s">%s</span></td>`,
			templ.EscapeString(load.Status), templ.EscapeString(load.Status))
		return
	}
	fmt.Fprintf(sb, `<td><form method="post" action="/dispatch/loads/%d/status">`, load.ID)
	fmt.Fprintf(sb, `<input type="hidden" name="tab" value="%s">`, templ.EscapeString(table.Tab))
	sb.WriteString(`<input type="hidden" name="_csrf" value="">`)
	sb.WriteString(`<select name="status" onchange="this.form.submit()">`)
	for _, s := range []string{
		models.StatusNew, models.StatusAssigned, models.StatusAccepted, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled, models.StatusRefused, models.StatusOtherArchived,
	} {
		selected := ""
		if s == load.Status {
			selected = " selected"
		}
		fmt.Fprintf(sb, `<option value="%s"%s>%s</option>`, s, selected, s)
	}
	sb.WriteString(`</select></form></td>`)
}

func writeDocumentCell(sb *strings.Builder, table TableConfig, load models.Load, expanded bool) {
	label := "View Rate Con"
	if expanded {
		label = "Hide Rate Con"
	}
	sb.WriteString(`<td>`)
	if expanded || table.RowExpandable(load) {
		fmt.Fprintf(sb, `<button type="button" class="btn-viewer" onclick="toggleViewer(%d)">%s</button>`, load.ID, label)
	} else {
		sb.WriteString(`<span class="muted">&mdash;</span>`)
	}
	fmt.Fprintf(sb, ` <a class="btn-print" href="/dispatch/loads/%d/rate-confirmation.pdf" target="_blank">Print</a>`, load.ID)
	sb.WriteString(`</td>`)
}

func writeViewerPanelRow(sb *strings.Builder, load models.Load) {
	fmt.Fprintf(sb, `<tr class="viewer-row" id="viewer-row-%d"><td colspan="8">`, load.ID)
	fmt.Fprintf(sb, `<div class="viewer-panel" id="viewer-panel-%d" data-load-id="%d">`, load.ID, load.ID)
	sb.WriteString(`<div class="viewer-toolbar">`)
	fmt.Fprintf(sb, `<button type="button" onclick="viewerZoom(%d, -1)">&minus;</button>`, load.ID)
	fmt.Fprintf(sb, `<span class="viewer-zoom" id="viewer-zoom-%d">100%%</span>`, load.ID)
	fmt.Fprintf(sb, `<button type="button" onclick="viewerZoom(%d, 1)">+</button>`, load.ID)
	fmt.Fprintf(sb, `<button type="button" onclick="viewerPage(%d, 'prev')">&lsaquo;</button>`, load.ID)
	fmt.Fprintf(sb, `<span class="viewer-pages" id="viewer-pages-%d">&ndash;</span>`, load.ID)
	fmt.Fprintf(sb, `<button type="button" onclick="viewerPage(%d, 'next')">&rsaquo;</button>`, load.ID)
	fmt.Fprintf(sb, `<a class="viewer-download" href="/dispatch/loads/%d/viewer/download">Download</a>`, load.ID)
	fmt.Fprintf(sb, `<button type="button" class="viewer-retry hidden" id="viewer-retry-%d" onclick="viewerRetry(%d)">Retry</button>`, load.ID, load.ID)
	sb.WriteString(`</div>`)
	fmt.Fprintf(sb, `<p class="viewer-status" id="viewer-status-%d">Loading rate confirmation...</p>`, load.ID)
	fmt.Fprintf(sb, `<div class="viewer-document" id="viewer-document-%d">`, load.ID)
	fmt.Fprintf(sb, `<img id="viewer-image-%d" alt="Rate confirmation for load %s" class="hidden">`,
		load.ID, templ.EscapeString(load.LoadNumber))
	sb.WriteString(`</div>`)
	writeCommentsBlock(sb, load.ID)
	sb.WriteString(`</div></td></tr>`)
}

func writeCommentsBlock(sb *strings.Builder, loadID int64) {
	fmt.Fprintf(sb, `<div class="viewer-comments" id="viewer-comments-%d" data-src="/dispatch/loads/%d/comments">`, loadID, loadID)
	sb.WriteString(`<p class="muted">Loading comments...</p></div>`)
	fmt.Fprintf(sb, `<form class="comment-form" onsubmit="return submitComment(event, %d)">`, loadID)
	sb.WriteString(`<input type="text" name="body" placeholder="Add a note for this load" maxlength="500">` +
		`<button type="submit">Add Note</button></form>`)
}

// CommentsFragment renders the comment list for one load's panel.
func CommentsFragment(comments []CommentEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		if len(comments) == 0 {
			sb.WriteString(`<p class="muted">No notes yet.</p>`)
		}
		sb.WriteString(`<ul class="comment-list">`)
		for _, c := range comments {
			fmt.Fprintf(&sb, `<li><span class="comment-author">%s</span> <span class="comment-when">%s</span><br>%s</li>`,
				templ.EscapeString(c.Author), templ.EscapeString(c.CreatedAt), templ.EscapeString(c.Body))
		}
		sb.WriteString(`</ul>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func stopLocation(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	case state != "":
		return state
	default:
		return "N/A"
	}
}

func viewerScript() string {
	return `<script>
const viewerPollers = {};

function viewerURL(loadID, action) {
  return "/dispatch/loads/" + loadID + "/viewer/" + action;
}

function csrfToken() {
  const match = document.cookie.match(/(?:^|;\s*)dispatch_csrf=([^;]+)/);
  return match ? match[1] : "";
}

function postViewer(url, body) {
  return fetch(url, { method: "POST", body: body, headers: { "X-CSRF-Token": csrfToken() } });
}

async function toggleViewer(loadID) {
  const resp = await postViewer(viewerURL(loadID, "toggle"));
  if (!resp.ok) return;
  window.location.reload();
}

function mountViewer(loadID) {
  const doc = document.getElementById("viewer-document-" + loadID);
  if (!doc) return;
  const body = new URLSearchParams();
  body.set("width", String(doc.clientWidth || 800));
  body.set("height", String(doc.clientHeight || 1000));
  body.set("dpr", String(window.devicePixelRatio || 1));
  postViewer(viewerURL(loadID, "mount"), body)
    .then(function(resp) { return resp.json(); })
    .then(function(state) { applyViewerState(loadID, state); startPolling(loadID); })
    .catch(function() { setViewerStatus(loadID, "Failed to initialize document area"); });
}

function startPolling(loadID) {
  stopPolling(loadID);
  viewerPollers[loadID] = setInterval(async function() {
    const resp = await fetch(viewerURL(loadID, "state"));
    if (!resp.ok) { stopPolling(loadID); return; }
    const state = await resp.json();
    applyViewerState(loadID, state);
    if (state.loaded || state.errorMessage) stopPolling(loadID);
  }, 400);
}

function stopPolling(loadID) {
  if (viewerPollers[loadID]) {
    clearInterval(viewerPollers[loadID]);
    delete viewerPollers[loadID];
  }
}

function setViewerStatus(loadID, msg) {
  const el = document.getElementById("viewer-status-" + loadID);
  if (el) el.textContent = msg;
}

function applyViewerState(loadID, state) {
  const zoom = document.getElementById("viewer-zoom-" + loadID);
  if (zoom) zoom.textContent = Math.round(state.scale * 100) + "%";
  const pages = document.getElementById("viewer-pages-" + loadID);
  if (pages) pages.textContent = state.totalPages > 0 ? state.currentPage + " / " + state.totalPages : "–";
  const retry = document.getElementById("viewer-retry-" + loadID);
  if (retry) retry.classList.toggle("hidden", !state.errorMessage);

  if (state.errorMessage) {
    setViewerStatus(loadID, state.errorMessage);
  } else if (!state.loaded) {
    setViewerStatus(loadID, "Loading rate confirmation...");
  } else {
    setViewerStatus(loadID, "");
  }
  if (state.loaded && !state.errorMessage) refreshViewerImage(loadID);
}

function refreshViewerImage(loadID) {
  const img = document.getElementById("viewer-image-" + loadID);
  if (!img) return;
  img.src = viewerURL(loadID, "image") + "?t=" + Date.now();
  img.classList.remove("hidden");
}

async function viewerZoom(loadID, direction) {
  const zoom = document.getElementById("viewer-zoom-" + loadID);
  const current = zoom ? parseInt(zoom.textContent, 10) / 100 : 1;
  const body = new URLSearchParams();
  body.set("scale", String(current + direction * 0.25));
  const resp = await postViewer(viewerURL(loadID, "zoom"), body);
  if (resp.ok) applyViewerState(loadID, await resp.json());
}

async function viewerPage(loadID, direction) {
  const body = new URLSearchParams();
  body.set("direction", direction);
  const resp = await postViewer(viewerURL(loadID, "page"), body);
  if (resp.ok) applyViewerState(loadID, await resp.json());
}

async function viewerRetry(loadID) {
  const resp = await postViewer(viewerURL(loadID, "retry"));
  if (resp.ok) {
    applyViewerState(loadID, await resp.json());
    startPolling(loadID);
  }
}

async function loadComments(loadID) {
  const container = document.getElementById("viewer-comments-" + loadID);
  if (!container) return;
  const resp = await fetch(container.dataset.src);
  if (resp.ok) container.innerHTML = await resp.text();
}

async function submitComment(event, loadID) {
  event.preventDefault();
  const form = event.target;
  const body = new URLSearchParams(new FormData(form));
  const resp = await postViewer("/dispatch/loads/" + loadID + "/comments", body);
  if (resp.ok) {
    form.reset();
    loadComments(loadID);
  }
  return false;
}

(function attachViewerPanels() {
  document.querySelectorAll('input[name="_csrf"]').forEach(function(input) {
    input.value = csrfToken();
  });
  document.querySelectorAll(".viewer-panel").forEach(function(panel) {
    const loadID = parseInt(panel.dataset.loadId, 10);
    if (!loadID) return;
    mountViewer(loadID);
    loadComments(loadID);
  });
})();
</script>`
}
