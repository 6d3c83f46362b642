package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/CSJesus/HardwarePriceCharting/internal/catalog"
	"github.com/CSJesus/HardwarePriceCharting/internal/config"
	"github.com/CSJesus/HardwarePriceCharting/internal/marketplace"
	"github.com/CSJesus/HardwarePriceCharting/internal/recorder"
	"github.com/CSJesus/HardwarePriceCharting/internal/scrape"
	"github.com/CSJesus/HardwarePriceCharting/internal/series"
	"github.com/CSJesus/HardwarePriceCharting/internal/terms"
	"github.com/CSJesus/HardwarePriceCharting/internal/view"
	"github.com/CSJesus/HardwarePriceCharting/pkg/model"
)

var (
	cfgFile    string
	format     string
	termsFile  string
	outputFile string
	dbPath     string
	workers    int
	maxPages   int
	dataFiles  []string
	comparison []string
	rolling    bool
	grid       bool
)

func main() {
	// A .env next to the binary can hold marketplace overrides.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "pricetracker",
		Short: "Hardware price history tracker",
		Long: `Pricetracker builds daily price histories for CPUs and GPUs from a
marketplace's sold-listings search feed.

Commands:
  scrape    - Scrape sold listings for each search term, write the daily price table
  products  - List every product across the merged category datasets
  stats     - Show trailing 30-day statistics for one product
  candles   - Show weekly OHLC candles for one product
  history   - Show the gap-filled daily history, optionally against other products

Examples:
  pricetracker scrape --terms search_terms_NVIDIA_GPU.csv --output Average_Prices_By_Day_NVIDIA_GPU.csv
  pricetracker stats "AMD Ryzen 7 5800X" --data Average_Prices_By_Day_AMD_CPU.csv
  pricetracker history "GeForce RTX 4080" --compare "RTX 4090" --data gpu.csv --data cpu.csv`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "output format: table, json")

	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape sold listings and write the daily price table",
		RunE:  runScrape,
	}
	scrapeCmd.Flags().StringVar(&termsFile, "terms", "", "search terms file (first column, one term per row)")
	scrapeCmd.Flags().StringVar(&outputFile, "output", "", "output dataset file")
	scrapeCmd.Flags().StringVar(&dbPath, "db", "", "sqlite database for accepted listings")
	scrapeCmd.Flags().IntVar(&workers, "workers", 0, "concurrent page fetches per term")
	scrapeCmd.Flags().IntVar(&maxPages, "pages", 0, "pages to request per term")
	scrapeCmd.MarkFlagRequired("terms")

	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "List products across the merged datasets",
		RunE:  runProducts,
	}
	productsCmd.Flags().StringArrayVar(&dataFiles, "data", nil, "dataset file (repeatable)")
	productsCmd.Flags().BoolVar(&grid, "grid", false, "print the legacy zero-filled price grid")
	productsCmd.MarkFlagRequired("data")

	statsCmd := &cobra.Command{
		Use:   "stats <product>",
		Short: "Show trailing 30-day statistics for a product",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().StringArrayVar(&dataFiles, "data", nil, "dataset file (repeatable)")
	statsCmd.MarkFlagRequired("data")

	candlesCmd := &cobra.Command{
		Use:   "candles <product>",
		Short: "Show weekly OHLC candles for a product",
		Args:  cobra.ExactArgs(1),
		RunE:  runCandles,
	}
	candlesCmd.Flags().StringArrayVar(&dataFiles, "data", nil, "dataset file (repeatable)")
	candlesCmd.Flags().BoolVar(&rolling, "rolling", false, "legacy 7-sample rolling windows instead of calendar weeks")
	candlesCmd.MarkFlagRequired("data")

	historyCmd := &cobra.Command{
		Use:   "history <product>",
		Short: "Show the gap-filled daily history for a product",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
	historyCmd.Flags().StringArrayVar(&dataFiles, "data", nil, "dataset file (repeatable)")
	historyCmd.Flags().StringArrayVar(&comparison, "compare", nil, "product to overlay (repeatable, substring match)")
	historyCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(scrapeCmd, productsCmd, statsCmd, candlesCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).With().Timestamp().Logger()
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Override config with CLI flags
	if cmd.Flags().Changed("workers") {
		cfg.Scrape.Workers = workers
	}
	if cmd.Flags().Changed("pages") {
		cfg.Marketplace.MaxPages = maxPages
	}
	if cmd.Flags().Changed("output") {
		cfg.Scrape.Output = outputFile
	}
	if cmd.Flags().Changed("db") {
		cfg.Scrape.Database = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := newLogger(cfg.Log.Level)

	searchTerms, err := terms.Load(termsFile)
	if err != nil {
		return fmt.Errorf("loading search terms: %w", err)
	}
	if len(searchTerms) == 0 {
		return fmt.Errorf("no search terms in %s", termsFile)
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Scrape.Database != "" {
		sqlRec, err := recorder.NewSQLiteRecorder(cfg.Scrape.Database)
		if err != nil {
			return fmt.Errorf("opening recorder: %w", err)
		}
		rec = sqlRec
	}
	defer rec.Close()

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted. Stopping scrape...")
		cancel()
	}()

	client := marketplace.NewClient(cfg.Marketplace, log)
	band := scrape.PriceBand{Min: cfg.Filter.MinPrice, Max: cfg.Filter.MaxPrice}
	scraper := scrape.NewScraper(client, rec, band, cfg.Marketplace.MaxPages, cfg.Scrape.Workers, log)

	fmt.Printf("Scraping %d search terms (%d pages each)...\n\n", len(searchTerms), cfg.Marketplace.MaxPages)

	bar := progressbar.NewOptions(len(searchTerms),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Scraping"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	scraper.SetProgressCallback(func(done, total int) {
		bar.Set(done)
	})

	table, summaries, err := scraper.Run(ctx, searchTerms)
	if err != nil {
		return fmt.Errorf("scraping: %w", err)
	}

	bar.Finish()
	fmt.Println()

	if err := table.SaveCSV(cfg.Scrape.Output); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	fmt.Printf("Daily price table written to %s\n\n", cfg.Scrape.Output)

	if format == "json" {
		return outputJSON(summaries)
	}
	return outputSummaryTable(summaries)
}

func outputSummaryTable(summaries []model.RunSummary) error {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Product", "Obs", "Days", "Low", "High", "Avg", "Median"}),
	)

	for _, s := range summaries {
		if s.Observations == 0 {
			table.Append([]string{s.Product, "0", "0", "-", "-", "-", "-"})
			continue
		}
		table.Append([]string{
			s.Product,
			fmt.Sprintf("%d", s.Observations),
			fmt.Sprintf("%d", s.Dates),
			fmt.Sprintf("$%.2f", s.Low),
			fmt.Sprintf("$%.2f", s.High),
			fmt.Sprintf("$%.2f", s.Average),
			fmt.Sprintf("$%.2f", s.Median),
		})
	}

	table.Render()
	return nil
}

func newService(cfg *config.Config, cat *catalog.Table) (*view.Service, error) {
	epoch, err := cfg.Series.EpochDate()
	if err != nil {
		return nil, fmt.Errorf("series epoch: %w", err)
	}
	return view.NewService(cat, epoch, cfg.Series.WindowDays), nil
}

func runProducts(cmd *cobra.Command, args []string) error {
	cat, err := catalog.LoadAndMerge(dataFiles...)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}

	if format == "json" {
		return outputJSON(cat.Products())
	}

	if grid {
		return outputGrid(cat)
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Product", "Days"}),
	)
	for _, row := range cat.Rows() {
		table.Append([]string{row.Product, fmt.Sprintf("%d", len(row.Prices))})
	}
	table.Render()
	fmt.Printf("\n%d products, %d dates\n", cat.Len(), len(cat.Dates()))
	return nil
}

// outputGrid prints the legacy zero-filled catalog grid. Missing cells
// show as 0.00 here and nowhere else.
func outputGrid(cat *catalog.Table) error {
	dates := cat.Dates()
	header := append([]string{"Product"}, dates...)
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))

	for i, cells := range cat.Dense(0) {
		record := make([]string, 0, len(cells)+1)
		record = append(record, cat.Products()[i])
		for _, v := range cells {
			record = append(record, fmt.Sprintf("%.2f", v))
		}
		table.Append(record)
	}

	table.Render()
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat, err := catalog.LoadAndMerge(dataFiles...)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}

	svc, err := newService(cfg, cat)
	if err != nil {
		return err
	}

	page, err := svc.ProductPage(args[0])
	if err != nil {
		return err
	}

	if format == "json" {
		return outputJSON(page.Stats)
	}

	fmt.Printf("[%s]\n", page.Product)
	fmt.Printf("  Current:        $%.2f", page.Stats.Current)
	if page.Stats.Previous != nil {
		fmt.Printf(" (%+.2f%% vs previous)", page.ChangePct)
	}
	fmt.Println()
	fmt.Printf("  %d-Day Low:     $%.2f\n", cfg.Series.WindowDays, page.Stats.Low)
	fmt.Printf("  %d-Day High:    $%.2f\n", cfg.Series.WindowDays, page.Stats.High)
	fmt.Printf("  %d-Day Average: $%.2f\n", cfg.Series.WindowDays, page.Stats.Average)
	return nil
}

func runCandles(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat, err := catalog.LoadAndMerge(dataFiles...)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}

	svc, err := newService(cfg, cat)
	if err != nil {
		return err
	}

	page, err := svc.ProductPage(args[0])
	if err != nil {
		return err
	}

	candles := page.Candles
	if rolling {
		row, _ := cat.Lookup(page.Product)
		candles = series.RollingCandles(series.FromRow(row))
	}

	if format == "json" {
		return outputJSON(candles)
	}

	label := "Week"
	if rolling {
		label = "Date"
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{label, "Open", "High", "Low", "Close"}),
	)
	for _, c := range candles {
		table.Append([]string{
			c.WeekStart.Format("2006-01-02"),
			fmt.Sprintf("$%.2f", c.Open),
			fmt.Sprintf("$%.2f", c.High),
			fmt.Sprintf("$%.2f", c.Low),
			fmt.Sprintf("$%.2f", c.Close),
		})
	}
	table.Render()
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat, err := catalog.LoadAndMerge(dataFiles...)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}

	svc, err := newService(cfg, cat)
	if err != nil {
		return err
	}

	page, err := svc.ProductPage(args[0], comparison...)
	if err != nil {
		return err
	}

	if format == "json" {
		return outputJSON(page.History)
	}

	header := []string{"Date"}
	for _, h := range page.History {
		header = append(header, h.Product)
	}
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))

	// All series share the same bounds, so row i lines up across products.
	for i, p := range page.History[0].Points {
		record := []string{p.Date.Format("2006-01-02")}
		for _, h := range page.History {
			record = append(record, fmt.Sprintf("$%.2f", h.Points[i].Price))
		}
		table.Append(record)
	}
	table.Render()
	return nil
}

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
