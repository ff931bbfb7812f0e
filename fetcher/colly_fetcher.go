package fetcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector

	// OnProgress, when set, is called after every request settles.
	// It may be called from concurrent collector goroutines.
	OnProgress func(done, total int)
}

// NewCollyFetcher creates a new CollyFetcher instance.
// parallelism caps the number of in-flight requests.
func NewCollyFetcher(userAgent string, parallelism int, timeout time.Duration) (*CollyFetcher, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.Async(true),
	)
	c.SetRequestTimeout(timeout)

	// The collector only ever visits URLs we enqueue, so the cap can
	// apply to every domain.
	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: parallelism,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set collector limit: %w", err)
	}

	return &CollyFetcher{collector: c}, nil
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(urls []string, handle func(Page)) (int, error) {
	var (
		mu      sync.Mutex
		done    int
		fetched int
	)
	total := len(urls)

	// callers hold mu
	settle := func() {
		done++
		if cf.OnProgress != nil {
			cf.OnProgress(done, total)
		}
	}

	cf.collector.OnResponse(func(r *colly.Response) {
		handle(Page{
			URL:  r.Request.URL.String(),
			Body: string(r.Body),
		})

		mu.Lock()
		fetched++
		settle()
		mu.Unlock()
	})

	// Retry each failed URL once before giving up on it. Non-2xx
	// responses land here as well.
	cf.collector.OnError(func(r *colly.Response, err error) {
		if r.Request.Ctx.Get("retried") == "" {
			r.Request.Ctx.Put("retried", "1")
			if retryErr := r.Request.Retry(); retryErr == nil {
				return
			}
		}

		log.Warn("request failed, skipping", "url", r.Request.URL, "err", err)
		mu.Lock()
		settle()
		mu.Unlock()
	})

	for _, u := range urls {
		if err := cf.collector.Visit(u); err != nil {
			log.Warn("failed to enqueue url", "url", u, "err", err)
			mu.Lock()
			settle()
			mu.Unlock()
		}
	}

	cf.collector.Wait()

	if fetched == 0 {
		return 0, fmt.Errorf("no pages could be fetched out of %d requests", total)
	}

	return fetched, nil
}
