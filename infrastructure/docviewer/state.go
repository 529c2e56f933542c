package docviewer

// Zoom and retry bounds for the per-row viewer.
const (
	MinScale     = 0.5
	MaxScale     = 3.0
	ScaleStep    = 0.25
	DefaultScale = 1.0

	// MaxCreationAttempts caps surface-creation retries before the row
	// settles into a terminal error state instead of spinning forever.
	MaxCreationAttempts = 5
)

// ViewerState is the per-load mutable record tracking load/error/zoom/
// pagination status of a document viewer. One instance exists per
// currently-or-previously-expanded load; it is reset to defaults on
// re-initialization, never deleted for the lifetime of the process.
type ViewerState struct {
	Loaded           bool    `json:"loaded"`
	ErrorMessage     string  `json:"errorMessage"`
	Scale            float64 `json:"scale"`
	CurrentPage      int     `json:"currentPage"`
	TotalPages       int     `json:"totalPages"`
	CreationAttempts int     `json:"creationAttempts"`
}

func newViewerState() ViewerState {
	return ViewerState{
		Scale:       DefaultScale,
		CurrentPage: 1,
		TotalPages:  1,
	}
}

// ClampScale bounds a requested zoom scale into [MinScale, MaxScale] and
// snaps it to the nearest quarter step.
func ClampScale(v float64) float64 {
	if v < MinScale {
		return MinScale
	}
	if v > MaxScale {
		return MaxScale
	}
	steps := int(v/ScaleStep + 0.5)
	return float64(steps) * ScaleStep
}
