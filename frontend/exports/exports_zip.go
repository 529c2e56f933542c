package exports

import (
	"archive/zip"
	"context"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"dispatchboard/frontend/loads"
	"dispatchboard/infrastructure/docviewer"
	"dispatchboard/models"
)

// writeRateConfirmationsZip renders a rate confirmation PDF for each load and
// streams them as a single zip archive. PDF rendering is CPU-bound so the
// renders fan out across a bounded worker group; the archive itself is
// written sequentially once all renders finish.
func writeRateConfirmationsZip(ctx context.Context, w io.Writer, list []models.Load, company docviewer.CompanyInfo) error {
	type rendered struct {
		filename string
		data     []byte
	}
	out := make([]rendered, len(list))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	seen := make(map[string]int, len(list))

	for i, load := range list {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := loads.RenderRateConfirmationPDF(load, company)
			if err != nil {
				return err
			}
			name := docviewer.DownloadFilename(load.DocumentReference(), "pdf")
			mu.Lock()
			seen[name]++
			if n := seen[name]; n > 1 {
				name = docviewer.DownloadFilename(load.DocumentReference()+"-"+toString(int64(n)), "pdf")
			}
			mu.Unlock()
			out[i] = rendered{filename: name, data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	archive := zip.NewWriter(w)
	for _, r := range out {
		f, err := archive.Create(r.filename)
		if err != nil {
			return err
		}
		if _, err := f.Write(r.data); err != nil {
			return err
		}
	}
	return archive.Close()
}
