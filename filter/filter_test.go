package filter

import (
	"testing"

	"github.com/Comba92/paginegialle-scraper/config"
	"github.com/Comba92/paginegialle-scraper/models"
)

func TestApplyFilters(t *testing.T) {
	records := []models.Business{
		{Name: "Trattoria da Mario", Address: "Via Roma 1", Phones: "055-123456"},
		{Name: "", Address: "Via Ignota 3", Phones: "055-999999"},
		{Name: "Bar Sport", Address: "Corso Italia 12", Phones: ""},
		{Name: "Pizzeria Bella Napoli", Address: "Piazza Duomo 5", Phones: "055-998877"},
	}

	tests := []struct {
		name         string
		requirePhone bool
		keyword      string
		expected     []string
	}{
		{
			name:         "require phone drops phoneless",
			requirePhone: true,
			expected:     []string{"Trattoria da Mario", "Pizzeria Bella Napoli"},
		},
		{
			name:         "phoneless kept when not required",
			requirePhone: false,
			expected:     []string{"Trattoria da Mario", "Bar Sport", "Pizzeria Bella Napoli"},
		},
		{
			name:         "keyword matches case-insensitively",
			requirePhone: false,
			keyword:      "pizzeria",
			expected:     []string{"Pizzeria Bella Napoli"},
		},
		{
			name:         "keyword with no match",
			requirePhone: false,
			keyword:      "farmacia",
			expected:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GetDefaultConfig()
			cfg.Filters.RequirePhone = tt.requirePhone
			cfg.Filters.Keyword = tt.keyword

			got := NewFilter(cfg).ApplyFilters(records)
			if len(got) != len(tt.expected) {
				t.Fatalf("ApplyFilters() kept %d records, want %d: %v", len(got), len(tt.expected), got)
			}
			for i, want := range tt.expected {
				if got[i].Name != want {
					t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, want)
				}
			}
		})
	}
}
