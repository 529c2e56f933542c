package docviewer

import "testing"

func TestClampScale(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{10.0, 3.0},
		{0.01, 0.5},
		{1.0, 1.0},
		{1.1, 1.0},
		{1.2, 1.25},
		{3.0, 3.0},
		{0.5, 0.5},
		{-2, 0.5},
	}
	for _, tc := range cases {
		if got := ClampScale(tc.in); got != tc.want {
			t.Fatalf("ClampScale(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewViewerStateDefaults(t *testing.T) {
	t.Parallel()

	st := newViewerState()
	if st.Loaded || st.ErrorMessage != "" {
		t.Fatalf("expected pristine state, got %+v", st)
	}
	if st.Scale != DefaultScale || st.CurrentPage != 1 || st.TotalPages != 1 || st.CreationAttempts != 0 {
		t.Fatalf("unexpected defaults: %+v", st)
	}
}
