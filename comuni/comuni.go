// Package comuni resolves an Italian province into the list of its cities,
// normalized into the slugs PagineGialle uses in its URLs.
package comuni

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultAPIURL is the comuni lookup endpoint, keyed by province name
const DefaultAPIURL = "https://axqvoqvbfjpaamphztgd.functions.supabase.co/comuni/provincia"

// Enumerator fetches the city list for a province
type Enumerator struct {
	BaseURL string
	Client  *http.Client
}

// NewEnumerator creates an Enumerator against the default comuni API
func NewEnumerator(timeout time.Duration) *Enumerator {
	return &Enumerator{
		BaseURL: DefaultAPIURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch returns the slugged city names of the given province
func (e *Enumerator) Fetch(ctx context.Context, province string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s?format=csv&onlyname=true", e.BaseURL, url.PathEscape(province))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build comuni request: %w", err)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comuni list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("comuni API returned status %d for province %q", resp.StatusCode, province)
	}

	cities, err := parseCityList(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("comuni API returned no cities for province %q", province)
	}

	return cities, nil
}

// parseCityList decodes the one-column CSV body into city slugs.
// A leading header row, when the API sends one, is skipped.
func parseCityList(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var cities []string
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode comuni CSV: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		if first {
			first = false
			if isHeaderRow(record[0]) {
				continue
			}
		}
		if slug := Slug(record[0]); slug != "" {
			cities = append(cities, slug)
		}
	}

	return cities, nil
}

// isHeaderRow matches the column names the API could send as a first
// row; none of them is the name of an Italian comune.
func isHeaderRow(field string) bool {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "nome", "name", "comune", "denominazione":
		return true
	}
	return false
}

// accentFolder strips combining marks so "Forlì" becomes "Forli"
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug turns a city name into the form PagineGialle expects in URL paths:
// trailing punctuation trimmed, spaces and punctuation replaced with
// underscores, lowercase, accents folded to ASCII.
func Slug(name string) string {
	s := strings.TrimRightFunc(strings.TrimSpace(name), isASCIIPunct)

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || isASCIIPunct(r) {
			return '_'
		}
		return r
	}, s)

	s = strings.ToLower(s)

	if folded, _, err := transform.String(accentFolder, s); err == nil {
		s = folded
	}

	return s
}

func isASCIIPunct(r rune) bool {
	return strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r)
}
