package models

// Result is one raw record returned by a search provider.
type Result struct {
	Title       string
	URL         string
	Snippet     string
	Outlet      string
	PublishedAt string
}
