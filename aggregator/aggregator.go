// Package aggregator collects parse results from the concurrent fetch
// fan-out and produces the final deduplicated record set.
package aggregator

import (
	"sort"
	"sync"

	"github.com/Comba92/paginegialle-scraper/models"
)

// Aggregator is safe for use from concurrent fetch callbacks
type Aggregator struct {
	mu         sync.Mutex
	businesses []models.Business
	emptyPages map[string]int
	pageLimit  int
}

// New creates an Aggregator. pageLimit is the number of pages requested
// per city, used to decide when a city had no results at all.
func New(pageLimit int) *Aggregator {
	return &Aggregator{
		emptyPages: make(map[string]int),
		pageLimit:  pageLimit,
	}
}

// Add records parsed businesses
func (a *Aggregator) Add(businesses ...models.Business) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.businesses = append(a.businesses, businesses...)
}

// ReportEmpty records that one of a city's pages carried no results.
// Pages with no city attribution (free-search URLs) are not counted.
func (a *Aggregator) ReportEmpty(city string) {
	if city == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.emptyPages[city]++
}

// EmptyCities returns the cities whose every requested page was empty,
// sorted for stable output.
func (a *Aggregator) EmptyCities() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var cities []string
	for city, count := range a.emptyPages {
		if count >= a.pageLimit {
			cities = append(cities, city)
		}
	}
	sort.Strings(cities)
	return cities
}

// Count returns the number of records collected so far
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.businesses)
}

// Results returns the collected records sorted case-insensitively by
// (name, address), with exact duplicates removed. Cards for the same
// business repeated across overlapping pages collapse to one record.
func (a *Aggregator) Results() []models.Business {
	a.mu.Lock()
	defer a.mu.Unlock()

	sorted := make([]models.Business, len(a.businesses))
	copy(sorted, a.businesses)

	sort.SliceStable(sorted, func(i, j int) bool {
		ni, ai := sorted[i].Key()
		nj, aj := sorted[j].Key()
		if ni != nj {
			return ni < nj
		}
		return ai < aj
	})

	var out []models.Business
	for _, b := range sorted {
		if len(out) > 0 && sameRecord(out[len(out)-1], b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// sameRecord compares the fields that identify a directory entry; the
// page a duplicate was found on is not part of its identity.
func sameRecord(a, b models.Business) bool {
	return a.Name == b.Name && a.Address == b.Address && a.Phones == b.Phones
}
