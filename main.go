package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Comba92/paginegialle-scraper/aggregator"
	"github.com/Comba92/paginegialle-scraper/comuni"
	"github.com/Comba92/paginegialle-scraper/config"
	"github.com/Comba92/paginegialle-scraper/db"
	"github.com/Comba92/paginegialle-scraper/fetcher"
	"github.com/Comba92/paginegialle-scraper/filter"
	"github.com/Comba92/paginegialle-scraper/models"
	"github.com/Comba92/paginegialle-scraper/notify"
	"github.com/Comba92/paginegialle-scraper/pagine"
	"github.com/Comba92/paginegialle-scraper/parser"
	"github.com/Comba92/paginegialle-scraper/sheets"
	"github.com/Comba92/paginegialle-scraper/writer"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scrape":
		runScrapeCommand(os.Args[2:])
	case "search":
		runSearchCommand(os.Args[2:])
	case "merge":
		runMergeCommand(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Scrapes PagineGialle business data into a CSV file.

Usage:
  paginegialle-scraper scrape [flags] <region> <province> <category>
  paginegialle-scraper search [flags] <query> [location]
  paginegialle-scraper merge [flags] <folder>

scrape fans out over every city of the province; search hits the
free-search pages directly; merge folds a folder of result CSVs into
one deduplicated file.

Common flags:
  -o name        output filename, .csv added if missing (default "output")
  -l limit       max pages per query (default 20)
  -c batch       max requests in flight (default 50)
  -config path   YAML config file
  -render        fetch with a headless browser instead of plain HTTP
  -db            persist results to Postgres (DATABASE_URL or DB_* env)
  -sheet url     export results to this Google Sheets spreadsheet
  -notify-chat n send a Telegram summary to this chat ID
  -debug         show debugging info
`)
}

// options holds the flags shared by the scrape and search commands
type options struct {
	output      string
	pageLimit   int
	batch       int
	configPath  string
	render      bool
	useDB       bool
	sheetURL    string
	credentials string
	notifyChat  int64
	debug       bool
}

func registerFlags(fs *flag.FlagSet) *options {
	opts := &options{}
	fs.StringVar(&opts.output, "o", "", "output filename (without the .csv extension)")
	fs.IntVar(&opts.pageLimit, "l", 0, "maximum pages to be scraped for each query")
	fs.IntVar(&opts.batch, "c", 0, "maximum requests in flight")
	fs.StringVar(&opts.configPath, "config", "", "path to YAML configuration file")
	fs.BoolVar(&opts.render, "render", false, "fetch with a headless browser")
	fs.BoolVar(&opts.useDB, "db", false, "persist results to Postgres")
	fs.StringVar(&opts.sheetURL, "sheet", "", "Google Sheets spreadsheet URL to export to")
	fs.StringVar(&opts.credentials, "credentials", "", "path to Google service account credentials JSON")
	fs.Int64Var(&opts.notifyChat, "notify-chat", 0, "Telegram chat ID to notify on completion")
	fs.BoolVar(&opts.debug, "debug", false, "show debugging info")
	return opts
}

// loadConfig merges the YAML config (when given) with flag overrides
func loadConfig(opts *options) *config.ScraperConfig {
	cfg := config.GetDefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			log.Fatal("failed to load config", "path", opts.configPath, "err", err)
		}
		cfg = loaded
	}

	if opts.pageLimit > 0 {
		cfg.PageLimit = opts.pageLimit
	}
	if opts.batch > 0 {
		cfg.RequestBatch = opts.batch
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}

	if opts.debug {
		log.SetLevel(log.DebugLevel)
	}

	return cfg
}

func runScrapeCommand(args []string) {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	opts := registerFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 3 {
		fmt.Fprintln(os.Stderr, "scrape needs <region> <province> <category>")
		os.Exit(1)
	}
	region := comuni.Slug(fs.Arg(0))
	province := fs.Arg(1)
	category := comuni.Slug(fs.Arg(2))

	cfg := loadConfig(opts)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSecs)*time.Second)
	defer cancel()

	enumerator := comuni.NewEnumerator(time.Duration(cfg.TimeoutSecs) * time.Second)
	cities, err := enumerator.Fetch(ctx, province)
	if err != nil {
		log.Fatal("failed to enumerate cities", "province", province, "err", err)
	}
	log.Info("cities to search", "province", province, "count", len(cities), "pageLimit", cfg.PageLimit)
	log.Debug("city list", "cities", strings.Join(cities, ", "))

	var urls []string
	for _, city := range cities {
		urls = append(urls, pagine.CategoryURLs(region, city, category, cfg.PageLimit)...)
	}

	label := fmt.Sprintf("%s/%s/%s", region, province, category)
	if err := runPipeline(cfg, opts, label, urls, len(cities), region, province, category); err != nil {
		log.Fatal("scrape failed", "err", err)
	}
}

func runSearchCommand(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	opts := registerFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "search needs <query> [location]")
		os.Exit(1)
	}
	query := comuni.Slug(fs.Arg(0))
	location := ""
	if fs.NArg() > 1 {
		location = comuni.Slug(fs.Arg(1))
	}

	cfg := loadConfig(opts)

	urls := pagine.SearchURLs(query, location, cfg.PageLimit)

	label := query
	if location != "" {
		label = fmt.Sprintf("%s in %s", query, location)
	}
	if err := runPipeline(cfg, opts, label, urls, 0, "", location, query); err != nil {
		log.Fatal("search failed", "err", err)
	}
}

func runMergeCommand(args []string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	output := fs.String("o", "merged", "output filename (without the .csv extension)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "merge needs <folder>")
		os.Exit(1)
	}
	folder := fs.Arg(0)

	outPath := writer.OutputPath(*output)
	count, err := writer.Merge(folder, outPath)
	if err != nil {
		log.Fatal("merge failed", "folder", folder, "err", err)
	}
	log.Info("merged CSV files", "folder", folder, "records", count, "output", outPath)
}

// runPipeline drives fetch, parse, aggregate, filter and the output
// surfaces for one scrape. totalCities is zero for search mode.
func runPipeline(cfg *config.ScraperConfig, opts *options, label string, urls []string, totalCities int, region, province, category string) error {
	log.Info("starting scrape", "query", label, "requests", len(urls), "batch", cfg.RequestBatch)

	agg := aggregator.New(cfg.PageLimit)
	pageParser := parser.NewParser()

	handle := func(page fetcher.Page) {
		res, err := pageParser.ParsePage(page.URL, page.Body)
		if err != nil {
			log.Warn("failed to parse page", "url", page.URL, "err", err)
			return
		}
		if res.Empty {
			agg.ReportEmpty(res.City)
			return
		}
		agg.Add(res.Businesses...)
	}

	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Suffix = fmt.Sprintf(" 0/%d requests", len(urls))
	progress := spinnerProgress(sp)

	var f fetcher.Fetcher
	if opts.render {
		rf, err := fetcher.NewRodFetcher()
		if err != nil {
			return fmt.Errorf("failed to start browser fetcher: %w", err)
		}
		defer rf.Close()
		rf.OnProgress = progress
		f = rf
	} else {
		cf, err := fetcher.NewCollyFetcher(cfg.UserAgent, cfg.RequestBatch, time.Duration(cfg.TimeoutSecs)*time.Second)
		if err != nil {
			return fmt.Errorf("failed to create fetcher: %w", err)
		}
		cf.OnProgress = progress
		f = cf
	}

	sp.Start()
	fetched, err := f.Fetch(urls, handle)
	sp.Stop()
	if err != nil {
		return err
	}

	emptyCities := agg.EmptyCities()
	if totalCities > 0 && len(emptyCities) == totalCities {
		return fmt.Errorf("no city produced any result: is %q a valid business category?", category)
	}
	if len(emptyCities) > 0 {
		log.Warn("no results for some cities", "cities", strings.Join(emptyCities, ", "))
	}

	all := agg.Results()
	filtered := filter.NewFilter(cfg).ApplyFilters(all)
	if len(filtered) == 0 {
		return fmt.Errorf("no records left after filtering (%d parsed)", len(all))
	}

	outPath := writer.OutputPath(cfg.Output)
	if err := writer.WriteCSV(outPath, filtered); err != nil {
		return err
	}

	summary := models.Summary{
		Requested:   len(urls),
		Fetched:     fetched,
		Parsed:      len(all),
		Kept:        len(filtered),
		EmptyCities: emptyCities,
	}
	log.Info("scrape finished",
		"fetched", summary.Fetched,
		"parsed", summary.Parsed,
		"kept", summary.Kept,
		"output", outPath,
	)

	if opts.useDB {
		if err := persistRun(region, province, category, summary, filtered); err != nil {
			log.Warn("failed to persist run to database", "err", err)
		}
	}

	if opts.sheetURL != "" {
		if err := exportToSheets(opts, label, filtered); err != nil {
			log.Warn("failed to export to Google Sheets", "err", err)
		}
	}

	if opts.notifyChat != 0 {
		notifier, err := notify.NewNotifier(opts.notifyChat)
		if err != nil {
			log.Warn("failed to create notifier", "err", err)
		} else if err := notifier.SendSummary(label, summary, outPath); err != nil {
			log.Warn("failed to send notification", "err", err)
		}
	}

	return nil
}

// spinnerProgress returns a progress callback safe to call from
// concurrent fetch goroutines while the spinner's render loop reads
// the suffix.
func spinnerProgress(sp *spinner.Spinner) func(done, total int) {
	return func(done, total int) {
		sp.Lock()
		sp.Suffix = fmt.Sprintf(" %d/%d requests", done, total)
		sp.Unlock()
	}
}

func persistRun(region, province, category string, summary models.Summary, businesses []models.Business) error {
	database, err := db.NewDB()
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := database.SaveRun(region, province, category, summary.Requested)
	if err != nil {
		return err
	}

	for _, b := range businesses {
		if err := database.SaveBusiness(runID, b); err != nil {
			log.Warn("failed to save business", "name", b.Name, "err", err)
		}
	}

	return database.FinishRun(runID, summary.Kept)
}

func exportToSheets(opts *options, label string, businesses []models.Business) error {
	spreadsheetID := sheets.ExtractSpreadsheetID(opts.sheetURL)
	if spreadsheetID == "" {
		return fmt.Errorf("could not extract spreadsheet ID from %q", opts.sheetURL)
	}

	w, err := sheets.NewWriter(spreadsheetID, opts.credentials)
	if err != nil {
		return err
	}

	sheetName := fmt.Sprintf("Scrape_%s", time.Now().Format("20060102_150405"))
	_, _, err = w.CreateSheetAndWriteBusinesses(sheetName, businesses, label)
	return err
}
