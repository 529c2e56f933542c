package docviewer

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Artifact is the downloadable rate confirmation for a load. Exactly one of
// RemoteURL and Data is set: rows rendered from a real remote document
// download the original bytes, fallback rows download a raster image of the
// generated page. Both are equally successful outcomes.
type Artifact struct {
	Filename    string
	ContentType string
	RemoteURL   string
	Data        []byte
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DownloadFilename derives the artifact filename for a load reference.
func DownloadFilename(reference, ext string) string {
	ref := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(reference), "-")
	ref = strings.Trim(ref, "-")
	if ref == "" {
		ref = "load"
	}
	return fmt.Sprintf("rate-confirmation-%s.%s", ref, ext)
}

// Download resolves the artifact for a load's current viewer row.
func (s *Service) Download(ctx context.Context, id int64) (Artifact, error) {
	load, err := s.loads.LoadByID(ctx, id)
	if err != nil {
		return Artifact{}, fmt.Errorf("read load %d: %w", id, err)
	}

	s.mu.Lock()
	r, ok := s.rows[id]
	var remoteURL string
	var surfaceOK bool
	if ok {
		remoteURL = r.remoteURL
		surfaceOK = r.surface != nil
	}
	s.mu.Unlock()

	if remoteURL != "" {
		return Artifact{
			Filename:    DownloadFilename(load.DocumentReference(), "pdf"),
			ContentType: "application/pdf",
			RemoteURL:   remoteURL,
		}, nil
	}
	if !surfaceOK {
		return Artifact{}, ErrNoSurface
	}

	var buf bytes.Buffer
	if err := s.SurfacePNG(id, &buf); err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Filename:    DownloadFilename(load.DocumentReference(), "png"),
		ContentType: "image/png",
		Data:        buf.Bytes(),
	}, nil
}
