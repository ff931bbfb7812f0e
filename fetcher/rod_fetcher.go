package fetcher

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodFetcher implements the Fetcher interface with a headless browser.
// It is the fallback for when PagineGialle answers the plain HTTP client
// with a JavaScript interstitial; fetches run sequentially.
type RodFetcher struct {
	browser *rod.Browser

	// OnProgress, when set, is called after every page settles
	OnProgress func(done, total int)
}

// NewRodFetcher launches a headless browser and connects to it
func NewRodFetcher() (*RodFetcher, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("mute-audio")

	// Prefer a system browser over downloading Chromium
	for _, path := range []string{
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	} {
		if _, err := os.Stat(path); err == nil {
			l = l.Bin(path)
			break
		}
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodFetcher{browser: browser}, nil
}

// Close closes the browser
func (rf *RodFetcher) Close() error {
	if rf.browser != nil {
		return rf.browser.Close()
	}
	return nil
}

// Fetch implements the Fetcher interface
func (rf *RodFetcher) Fetch(urls []string, handle func(Page)) (int, error) {
	page, err := rf.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return 0, fmt.Errorf("failed to open browser page: %w", err)
	}
	defer page.Close()

	fetched := 0
	for i, u := range urls {
		body, err := rf.fetchOne(page, u)
		if err != nil {
			log.Warn("browser fetch failed, skipping", "url", u, "err", err)
		} else {
			handle(Page{URL: u, Body: body})
			fetched++
		}

		if rf.OnProgress != nil {
			rf.OnProgress(i+1, len(urls))
		}
	}

	if fetched == 0 {
		return 0, fmt.Errorf("no pages could be fetched out of %d requests", len(urls))
	}

	return fetched, nil
}

func (rf *RodFetcher) fetchOne(page *rod.Page, url string) (string, error) {
	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("failed waiting for load: %w", err)
	}

	// Result cards render client-side; give the page a moment to settle
	if err := page.Timeout(10 * time.Second).WaitStable(500 * time.Millisecond); err != nil {
		log.Debug("page did not stabilize, reading anyway", "url", url, "err", err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}

	return html, nil
}
