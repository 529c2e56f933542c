package exports

// PageData feeds the exports screen.
type PageData struct {
	TotalLoads int64
}
