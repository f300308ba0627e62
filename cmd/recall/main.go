// Package main is the recall CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/recall/internal/cli"
	"github.com/hyperjump/recall/internal/config"
	"github.com/hyperjump/recall/internal/indexer"
	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/progress"
	"github.com/hyperjump/recall/internal/scraper"
	"github.com/hyperjump/recall/internal/server"
	"github.com/hyperjump/recall/internal/storage"
	"github.com/hyperjump/recall/internal/tui"
	"github.com/hyperjump/recall/internal/vector"
	"github.com/hyperjump/recall/internal/watcher"
	"github.com/hyperjump/recall/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

// loadConfig loads config from path. A missing file at the default path is not an error:
// the built-in defaults are used so the tool works from a bare checkout.
// Returns the config and the path that was loaded ("" when defaults were used).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env is optional; it usually carries OPENAI_API_KEY.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "scrape":
		runScrape()
	case "ingest":
		runIngest()
	case "search":
		runSearch()
	case "repl":
		runREPL()
	case "tui":
		runTUI()
	case "server":
		runServer()
	case "history":
		runHistory()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("recall version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// bootstrap loads and validates the config and builds the logger. It exits on failure.
func bootstrap(configPath string, debugFlag bool) (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode, cfg.Storage.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", debugMode))
	return cfg, logger
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runScrape() {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	limit := fs.Int("limit", 0, "number of most recent history entries (default from config)")
	out := fs.String("out", "", "output directory (default from config)")
	historyPath := fs.String("history-db", "", "Chrome History database (default: profile location for this OS)")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := bootstrap(*configPath, *debug)
	defer logger.Sync()

	if *limit <= 0 {
		*limit = cfg.Scraper.Limit
	}
	if *out == "" {
		*out = cfg.Storage.ScrapedDir
	}
	if *historyPath == "" {
		*historyPath = cfg.Scraper.ChromeHistoryPath
	}

	ctx, stop := signalContext()
	defer stop()

	fetcher := scraper.NewFetcher(
		time.Duration(cfg.Scraper.TimeoutSecs)*time.Second,
		cfg.Scraper.RequestsPerSecond,
		cfg.Scraper.UserAgent,
	)
	s := scraper.New(scraper.NewChromeHistory(*historyPath), fetcher, *out,
		scraper.WithLogger(logger),
		scraper.WithProgress(progress.New(progress.DefaultEnabled(), "Scraping websites")),
	)
	report, err := s.Run(ctx, *limit)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "%v\nMake sure Chrome is installed, or pass --history-db.\n", err)
			os.Exit(1)
		}
		if report == nil {
			fmt.Fprintf(os.Stderr, "Scrape failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Scrape stopped: %v\n", err)
	}
	fmt.Printf("Scraped %d of %d pages (%d skipped, %d failed) into %s\n",
		report.Written, report.Visits, report.Skipped, report.Failed, *out)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	dir := fs.String("dir", "", "directory of scraped files (default from config)")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := bootstrap(*configPath, *debug)
	defer logger.Sync()
	if *dir == "" {
		*dir = cfg.Storage.ScrapedDir
	}

	ctx, stop := signalContext()
	defer stop()

	embedder, err := newEmbedder(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize embedder", zap.Error(err))
	}
	defer embedder.Close()

	// Ingestion rebuilds the whole store from the scraped directory.
	index := vector.NewFlatIndex()
	chunker, err := indexer.NewChunker(cfg.Chunking.Size, cfg.Chunking.OverlapOrDefault())
	if err != nil {
		logger.Fatal("Invalid chunking config", zap.Error(err))
	}
	ing, err := indexer.NewIngester(index, embedder, chunker,
		indexer.WithLogger(logger),
		indexer.WithPattern(cfg.Ingest.Pattern),
		indexer.WithProgress(progress.New(progress.DefaultEnabled(), "Embedding files")),
	)
	if err != nil {
		logger.Fatal("Failed to initialize ingester", zap.Error(err))
	}
	report, err := ing.IngestDirectory(ctx, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingestion failed: %v\n", err)
		os.Exit(1)
	}
	stopSpinner := progress.StartSpinner(progress.DefaultEnabled(), "Saving embeddings")
	err = index.Save(cfg.Storage.EmbeddingsPath)
	stopSpinner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Saving embeddings failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Ingested %d of %d files (%d skipped, %d failed): %d chunks saved to %s\n",
		report.Ingested, report.Files, report.Skipped, report.Failed, report.Chunks, cfg.Storage.EmbeddingsPath)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: recall search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Queries mentioning "history", "recent" or "previous" list your past searches instead.

Examples:
  recall search kubernetes operators
  recall search --output json "vector databases"
  recall search --server http://localhost:5000 rust lifetimes
  recall search show my search history
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	serverURL := fs.String("server", "", "query a running server at this URL instead of loading the store")
	outputFormat := fs.String("output", "text", "output format: text, compact or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	query := buildSearchQuery(fs.Args())
	if query == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *serverURL != "" {
		response, err := newRemoteClient(*serverURL).Search(context.Background(), query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, logger := bootstrap(*configPath, *debug)
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	outcome, err := components.Executor.Handle(context.Background(), query, cfg.Search.HistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if outcome.IsHistory() {
		err = cli.WriteHistory(os.Stdout, outcome.History, format)
	} else {
		err = cli.WriteSearchResults(os.Stdout, outcome.Response, format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runREPL() {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := bootstrap(*configPath, *debug)
	defer logger.Sync()
	logger.Info("Starting search application")
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize memory", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	ctx, stop := signalContext()
	defer stop()
	if err := cli.RunLoop(ctx, os.Stdin, os.Stdout, components.Executor, cfg.Search.HistoryLimit, logger); err != nil {
		logger.Error("Input failed", zap.Error(err))
	}
	logger.Info("Application shutdown")
}

func runTUI() {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	// The screen belongs to the TUI, so logs only go to the daily file.
	logger, err := utils.NewFileLogger(cfg.Debug || *debug, cfg.Storage.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	ctx, stop := signalContext()
	defer stop()
	summary := fmt.Sprintf("%d chunks indexed, %d past searches", components.Index.Size(), components.History.Len())
	if err := tui.Run(ctx, components.Executor, cfg.Search.HistoryLimit, summary); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "TUI failed: %v\n", err)
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	watch := fs.Bool("watch", false, "ingest new scraped files into the running index")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := bootstrap(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx, stop := signalContext()
	defer stop()

	if *watch || cfg.Ingest.Watch {
		w, err := startWatcher(ctx, cfg, components, logger)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	srv := server.NewServer(components.Executor, components.Index, components.History, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}

func startWatcher(ctx context.Context, cfg *config.Config, c *Components, logger *zap.Logger) (*watcher.Watcher, error) {
	chunker, err := indexer.NewChunker(cfg.Chunking.Size, cfg.Chunking.OverlapOrDefault())
	if err != nil {
		return nil, err
	}
	ing, err := indexer.NewIngester(c.Index, c.Embedder, chunker,
		indexer.WithLogger(logger),
		indexer.WithPattern(cfg.Ingest.Pattern),
	)
	if err != nil {
		return nil, err
	}
	w := watcher.NewWatcher(cfg.Storage.ScrapedDir, ing.Matches,
		watcher.IngestHandler(ctx, ing, c.Index, cfg.Storage.EmbeddingsPath, logger),
		watcher.WithLogger(logger),
		watcher.WithDebounce(time.Duration(cfg.Ingest.DebounceMillis)*time.Millisecond),
	)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	go w.Sync()
	logger.Info("Watching for scraped files", zap.String("dir", cfg.Storage.ScrapedDir))
	return w, nil
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 0, "number of searches to show (default from config)")
	serverURL := fs.String("server", "", "read history from a running server")
	outputFormat := fs.String("output", "text", "output format: text, compact or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, logger := bootstrap(*configPath, false)
	defer logger.Sync()
	if *limit <= 0 {
		*limit = cfg.Search.HistoryLimit
	}

	var entries []models.SearchHistoryEntry
	if *serverURL != "" {
		entries, err = newRemoteClient(*serverURL).History(context.Background(), *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "History failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		hist := openHistory(cfg, logger)
		entries = hist.Recent(*limit)
	}
	if err := cli.WriteHistory(os.Stdout, entries, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	EmbeddingProvider string `json:"embedding_provider,omitempty"`
	ChunkSize         int    `json:"chunk_size,omitempty"`
	ChunkOverlap      int    `json:"chunk_overlap,omitempty"`
	EmbeddingsPath    string `json:"embeddings_path,omitempty"`
	HistoryPath       string `json:"history_path,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Chunks         int                   `json:"chunks"`
	Dimensions     int                   `json:"dimensions"`
	HistoryEntries int                   `json:"history_entries"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "ask a running server instead of reading the stores")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status *statusResponse
	if *serverURL != "" {
		res, err := newRemoteClient(*serverURL).Status(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = res
	} else {
		cfg, logger := bootstrap(*configPath, false)
		defer logger.Sync()
		status = localStatus(cfg, logger)
	}

	switch *outputFormat {
	case "json":
		if err := writeJSON(os.Stdout, status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		writeStatusText(status)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func localStatus(cfg *config.Config, logger *zap.Logger) *statusResponse {
	index := vector.NewFlatIndex()
	if err := index.Load(cfg.Storage.EmbeddingsPath); err != nil && !errors.Is(err, models.ErrNotFound) {
		logger.Warn("embedding store unreadable", zap.Error(err))
	}
	hist := openHistory(cfg, logger)
	status := &statusResponse{
		Chunks:         index.Size(),
		Dimensions:     index.Dimensions(),
		HistoryEntries: hist.Len(),
		Config: &statusConfigResponse{
			EmbeddingProvider: cfg.Embedding.Provider,
			ChunkSize:         cfg.Chunking.Size,
			ChunkOverlap:      cfg.Chunking.OverlapOrDefault(),
			EmbeddingsPath:    cfg.Storage.EmbeddingsPath,
			HistoryPath:       cfg.Storage.HistoryPath,
		},
	}
	if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.EmbeddingsPath, cfg.Storage.HistoryPath); err == nil {
		status.DiskUsageBytes = &diskBytes
	}
	return status
}

func writeStatusText(status *statusResponse) {
	fmt.Printf("chunks:             %d   # indexed text chunks\n", status.Chunks)
	fmt.Printf("dimensions:         %d   # embedding size (0 = empty index)\n", status.Dimensions)
	fmt.Printf("history_entries:    %d   # recorded searches\n", status.HistoryEntries)
	if status.DiskUsageBytes != nil {
		fmt.Printf("disk_usage_bytes:   %d   # embedding + history stores on disk\n", *status.DiskUsageBytes)
	}
	if status.Config != nil {
		fmt.Println()
		fmt.Println("# configuration")
		fmt.Printf("embedding_provider: %s\n", status.Config.EmbeddingProvider)
		fmt.Printf("chunk_size:         %d\n", status.Config.ChunkSize)
		fmt.Printf("chunk_overlap:      %d\n", status.Config.ChunkOverlap)
		fmt.Printf("embeddings_path:    %s\n", status.Config.EmbeddingsPath)
		fmt.Printf("history_path:       %s\n", status.Config.HistoryPath)
	}
}

func printUsage() {
	fmt.Printf(`recall - semantic search over your browsing history

Usage:
  recall scrape [flags]           Save text of recently visited pages
  recall ingest [flags]           Chunk, embed and store scraped pages
  recall search [flags] <query>   Run one query
  recall repl [flags]             Interactive query loop ("quit" to exit)
  recall tui [flags]              Full-screen search interface
  recall server [flags]           Start the HTTP API for the browser extension
  recall history [flags]          Show recent searches
  recall status [flags]           Show index and store status
  recall version                  Show version
  recall help                     Show this help

Common Flags:
  --config string    Config file path (default: ./%s, built-in defaults when missing)
  --debug            Enable debug logging

Scrape Flags:
  --limit int           Number of most recent history entries
  --out string          Output directory
  --history-db string   Chrome History database path

Ingest Flags:
  --dir string       Directory of scraped files

Search Flags:
  --server string    Query a running server (e.g. http://localhost:5000)
  --output string    Output format: text, compact or json (default: text)

Server Flags:
  --watch            Ingest new scraped files while serving

History Flags:
  --limit int        Number of searches to show
  --server string    Read history from a running server
  --output string    Output format: text, compact or json

Status Flags:
  --server string    Ask a running server
  --output string    Output format: text or json (default: text)

Examples:
  recall scrape --limit 200
  recall ingest
  recall search "vector databases"
  recall search --output json golang generics
  recall repl
  recall server --watch
  recall history --limit 10
`, filepath.Base(defaultConfigPath))
}
