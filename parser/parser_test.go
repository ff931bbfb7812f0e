package parser

import (
	"testing"
)

const resultPage = `<html><body>
<div class="search-results">
	<div class="search-itm">
		<h2 class="search-itm__rag">Trattoria da <span>Mario</span></h2>
		<div class="search-itm__adr">Via   Roma, 1<br>
			50123 Firenze (FI)</div>
		<div class="search-itm__phone"><span>055</span> <span>123456</span></div>
	</div>
	<div class="search-itm">
		<h2 class="search-itm__rag">Pizzeria Bella Napoli</h2>
		<div class="search-itm__adr">Piazza Duomo, 5 50122 Firenze (FI)</div>
		<div class="search-itm__phone">055 998877 339 4455667</div>
	</div>
	<div class="search-itm">
		<h2 class="search-itm__rag">Bar Sport</h2>
		<div class="search-itm__adr">Corso Italia, 12</div>
		<div class="search-itm__phone"></div>
	</div>
</div>
</body></html>`

const emptyPage = `<html><body>
<div class="search-results">
	<p>Nessun risultato trovato</p>
</div>
</body></html>`

func TestParsePage(t *testing.T) {
	p := NewParser()
	url := "https://www.paginegialle.it/toscana/firenze/ristoranti/p-1.html"

	res, err := p.ParsePage(url, resultPage)
	if err != nil {
		t.Fatalf("ParsePage() error = %v", err)
	}
	if res.Empty {
		t.Fatal("ParsePage() reported an empty page with result cards present")
	}
	if res.City != "firenze" {
		t.Errorf("City = %q, want %q", res.City, "firenze")
	}
	if res.Page != 1 {
		t.Errorf("Page = %d, want 1", res.Page)
	}
	if len(res.Businesses) != 3 {
		t.Fatalf("ParsePage() extracted %d records, want 3", len(res.Businesses))
	}

	first := res.Businesses[0]
	if first.Name != "Trattoria da Mario" {
		t.Errorf("Name = %q, want %q", first.Name, "Trattoria da Mario")
	}
	if first.Address != "Via Roma, 1 50123 Firenze (FI)" {
		t.Errorf("Address = %q, want collapsed whitespace", first.Address)
	}
	if first.Phones != "055-123456" {
		t.Errorf("Phones = %q, want %q", first.Phones, "055-123456")
	}
	if first.City != "firenze" || first.Page != 1 {
		t.Errorf("record attribution = (%q, %d), want (firenze, 1)", first.City, first.Page)
	}

	second := res.Businesses[1]
	if second.Phones != "055-998877 | 339-4455667" {
		t.Errorf("Phones = %q, want two joined numbers", second.Phones)
	}

	third := res.Businesses[2]
	if third.Phones != "" {
		t.Errorf("Phones = %q, want empty for a card without numbers", third.Phones)
	}
}

func TestParsePageEmpty(t *testing.T) {
	p := NewParser()
	url := "https://www.paginegialle.it/toscana/montespertoli/ristoranti/p-14.html"

	res, err := p.ParsePage(url, emptyPage)
	if err != nil {
		t.Fatalf("ParsePage() error = %v", err)
	}
	if !res.Empty {
		t.Error("ParsePage() should report a page without result cards as empty")
	}
	if res.City != "montespertoli" {
		t.Errorf("City = %q, want %q", res.City, "montespertoli")
	}
	if len(res.Businesses) != 0 {
		t.Errorf("ParsePage() extracted %d records from an empty page", len(res.Businesses))
	}
}

func TestJoinPhones(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n\t", ""},
		{"single token", "0551234567", "0551234567"},
		{"one pair", "055 123456", "055-123456"},
		{"two pairs", "055 998877 339 4455667", "055-998877 | 339-4455667"},
		{"odd tokens", "055 123456 800123123", "055-123456 | 800123123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinPhones(tt.input); got != tt.expected {
				t.Errorf("joinPhones(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
