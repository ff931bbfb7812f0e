package fetcher

// Page is one fetched result page
type Page struct {
	URL  string
	Body string
}

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// Fetch retrieves the given URLs, invoking handle for every page
	// fetched. handle may be called from concurrent goroutines. Returns
	// the number of pages fetched; failures on individual URLs are
	// skipped, not fatal.
	Fetch(urls []string, handle func(Page)) (int, error)
}
