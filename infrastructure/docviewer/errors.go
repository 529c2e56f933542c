package docviewer

import "errors"

// Failure taxonomy for the document viewer. LibraryUnavailable, Timeout and
// Parse are demoted to the fallback renderer at the call site and never reach
// the user as hard failures. NoContainer is retried up to the attempt cap;
// NoSurface and Draw surface an inline error state with a retry affordance.
var (
	ErrLibraryUnavailable = errors.New("document library unavailable")
	ErrTimeout            = errors.New("document open timed out")
	ErrParse              = errors.New("document could not be parsed")
	ErrNoContainer        = errors.New("viewer container not mounted")
	ErrNoSurface          = errors.New("viewer surface unavailable")
	ErrDraw               = errors.New("document drawing failed")
)

// errStale marks an async continuation whose generation token is no longer
// current. Its result is discarded without touching row state.
var errStale = errors.New("stale viewer generation")
