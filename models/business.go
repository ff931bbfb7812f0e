package models

import "strings"

// Business represents a single directory record scraped from a result page
type Business struct {
	Name    string
	Address string
	Phones  string // "055-123456 | 339-7654321" when a card lists several numbers
	City    string // city slug the record was found under
	Page    int    // result page the record was found on
}

// Key returns the case-insensitive identity used for deduplication
func (b Business) Key() (name, address string) {
	return strings.ToLower(b.Name), strings.ToLower(b.Address)
}

// Summary reports what a scrape run did
type Summary struct {
	Requested   int      // HTTP requests issued
	Fetched     int      // pages fetched successfully
	Parsed      int      // records extracted before filtering
	Kept        int      // records written out
	EmptyCities []string // cities whose every page came back without results
}
