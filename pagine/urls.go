// Package pagine builds PagineGialle result-page URLs. The site exposes two
// URL kinds: category listings under /{region}/{city}/{category} and free
// search under /ricerca/{query}.
package pagine

import (
	"fmt"
	"strings"
)

// BaseURL is the PagineGialle site root
const BaseURL = "https://www.paginegialle.it"

// CategoryURLs returns the paginated result URLs for one city.
// Pages are zero-based upstream: p-0 is the first result page.
func CategoryURLs(region, city, category string, pageLimit int) []string {
	urls := make([]string, 0, pageLimit)
	for i := 0; i < pageLimit; i++ {
		urls = append(urls, fmt.Sprintf("%s/%s/%s/%s/p-%d.html", BaseURL, region, city, category, i))
	}
	return urls
}

// SearchURLs returns the paginated free-search URLs. The location is
// optional; search URLs carry no .html suffix.
func SearchURLs(query, location string, pageLimit int) []string {
	base := fmt.Sprintf("%s/ricerca/%s", BaseURL, query)
	if location != "" {
		base = fmt.Sprintf("%s/%s", base, location)
	}

	urls := make([]string, 0, pageLimit)
	urls = append(urls, base)
	for i := 1; i < pageLimit; i++ {
		urls = append(urls, fmt.Sprintf("%s/p-%d", base, i))
	}
	return urls
}

// CityFromURL extracts the city slug from a category result URL, the
// third-from-last path segment in /{region}/{city}/{category}/p-N.html.
// Free-search URLs carry a query instead of a city and yield "".
func CityFromURL(u string) string {
	// scheme, empty, host, then at least three path segments
	parts := strings.Split(strings.TrimRight(u, "/"), "/")
	if len(parts) < 6 {
		return ""
	}
	if parts[3] == "ricerca" {
		return ""
	}
	return parts[len(parts)-3]
}

// PageFromURL extracts the zero-based page number from a result URL.
// The bare search URL without a p- segment is page zero.
func PageFromURL(u string) int {
	parts := strings.Split(strings.TrimRight(u, "/"), "/")
	last := parts[len(parts)-1]
	last = strings.TrimSuffix(last, ".html")
	if !strings.HasPrefix(last, "p-") {
		return 0
	}

	var page int
	if _, err := fmt.Sscanf(last, "p-%d", &page); err != nil {
		return 0
	}
	return page
}
