package parser

import (
	"fmt"
	"strings"

	"github.com/Comba92/paginegialle-scraper/models"
	"github.com/Comba92/paginegialle-scraper/pagine"

	"github.com/PuerkitoBio/goquery"
)

// PagineGialle result-card selectors
const (
	cardSelector    = ".search-itm"
	nameSelector    = ".search-itm__rag"
	addressSelector = ".search-itm__adr"
	phoneSelector   = ".search-itm__phone"
)

// Result is the outcome of parsing a single result page
type Result struct {
	Businesses []models.Business
	// Empty is true when the page carried no result cards. Past the last
	// real page PagineGialle still answers 200 with an empty result list.
	Empty bool
	City  string
	Page  int
}

// Parser extracts business records from result-page HTML
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParsePage extracts businesses from one result page. The page URL is
// used to attribute records (and empty pages) to their city.
func (p *Parser) ParsePage(pageURL, htmlContent string) (Result, error) {
	res := Result{
		City: pagine.CityFromURL(pageURL),
		Page: pagine.PageFromURL(pageURL),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return res, fmt.Errorf("failed to parse HTML: %w", err)
	}

	cards := doc.Find(cardSelector)
	if cards.Length() == 0 {
		res.Empty = true
		return res, nil
	}

	cards.Each(func(i int, s *goquery.Selection) {
		business := models.Business{
			Name:    extractText(s, nameSelector),
			Address: extractText(s, addressSelector),
			Phones:  joinPhones(extractText(s, phoneSelector)),
			City:    res.City,
			Page:    res.Page,
		}
		res.Businesses = append(res.Businesses, business)
	})

	return res, nil
}

// extractText returns the text content of the first match, tags stripped
// and whitespace runs collapsed to single spaces.
func extractText(s *goquery.Selection, selector string) string {
	text := s.Find(selector).First().Text()
	return strings.Join(strings.Fields(text), " ")
}

// joinPhones formats the phone text of a card. Numbers arrive as
// whitespace-separated prefix/number token pairs; each pair becomes
// "prefix-number" and multiple numbers are joined with " | ".
func joinPhones(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return ""
	}

	var phones []string
	for i := 0; i+1 < len(tokens); i += 2 {
		phones = append(phones, tokens[i]+"-"+tokens[i+1])
	}
	if len(tokens)%2 != 0 {
		phones = append(phones, tokens[len(tokens)-1])
	}

	return strings.Join(phones, " | ")
}
