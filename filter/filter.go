package filter

import (
	"strings"

	"github.com/Comba92/paginegialle-scraper/config"
	"github.com/Comba92/paginegialle-scraper/models"
)

// Filter applies record filters to scraped businesses
type Filter struct {
	cfg *config.ScraperConfig
}

// NewFilter creates a new filter with the given configuration
func NewFilter(cfg *config.ScraperConfig) *Filter {
	return &Filter{cfg: cfg}
}

// ApplyFilters returns the businesses that pass all configured filters
func (f *Filter) ApplyFilters(businesses []models.Business) []models.Business {
	var filtered []models.Business

	for _, b := range businesses {
		if f.matches(b) {
			filtered = append(filtered, b)
		}
	}

	return filtered
}

// matches checks if a business passes all filter criteria
func (f *Filter) matches(b models.Business) bool {
	// Records without a name are parser noise, never useful
	if b.Name == "" {
		return false
	}

	if f.cfg.Filters.RequirePhone && b.Phones == "" {
		return false
	}

	if kw := f.cfg.Filters.Keyword; kw != "" {
		if !strings.Contains(strings.ToLower(b.Name), strings.ToLower(kw)) {
			return false
		}
	}

	return true
}
