// Package main is the Trouve CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/analytics"
	"github.com/meublerie/trouve/internal/cache"
	"github.com/meublerie/trouve/internal/cli"
	"github.com/meublerie/trouve/internal/config"
	"github.com/meublerie/trouve/internal/discovery"
	"github.com/meublerie/trouve/internal/expand"
	"github.com/meublerie/trouve/internal/fuzzy"
	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/ranking"
	"github.com/meublerie/trouve/internal/search"
	"github.com/meublerie/trouve/internal/server"
	"github.com/meublerie/trouve/internal/storage"
	"github.com/meublerie/trouve/internal/synonym"
	"github.com/meublerie/trouve/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/trouve/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "trouve server" from the project dir uses the project's
// config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "synonyms":
		runSynonyms()
	case "analyze":
		runAnalyze()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("trouve version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// Components holds the wired application graph.
type Components struct {
	Store     *storage.SQLiteStore
	Index     *synonym.Index
	Matcher   *fuzzy.Matcher
	Recorder  *analytics.Recorder
	Engine    *search.Engine
	Discovery *discovery.Discovery
}

func (c *Components) Close() {
	if c.Recorder != nil {
		c.Recorder.Drain()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	index := synonym.NewIndex(store, cache.New[*synonym.Snapshot](cfg.Search.SnapshotTTL), logger)
	expander := expand.NewExpander(index, cfg.Search.MaxTerms, logger)
	suggester := ranking.NewSuggester(store, cfg.Search.KeywordTTL, logger)
	matcher := fuzzy.NewMatcher(cfg.Search.FuzzyCacheSize)
	recorder := analytics.NewRecorder(store, cfg.Analytics.EnabledOrDefault(), cfg.Analytics.WriteTimeout, logger)
	engine := search.NewEngine(store, store, expander, suggester, matcher, recorder, &cfg.Search, logger)
	disc := discovery.New(store, store, index, matcher, logger)

	return &Components{
		Store:     store,
		Index:     index,
		Matcher:   matcher,
		Recorder:  recorder,
		Engine:    engine,
		Discovery: disc,
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Engine,
		components.Store,
		components.Index,
		components.Matcher,
		components.Discovery,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word queries work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// reorderArgs moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func reorderArgs(args []string) []string {
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
	searchArgs := reorderArgs(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct storage mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (empty = use direct storage when server is not running)`)
	locale := fs.String("locale", "", "search locale: en or fr (default from config)")
	category := fs.String("category", "", "category slug filter")
	page := fs.Int("page", 1, "result page")
	perPage := fs.Int("per-page", 0, "results per page (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgs)

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: trouve search [flags] <query>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req := &models.SearchRequest{
		Query:    queryStr,
		Page:     *page,
		PerPage:  *perPage,
		Category: *category,
		Locale:   *locale,
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		// Use the HTTP API when the server is running, avoiding a second
		// SQLite connection against the same database file.
		response, err = searchViaHTTP(*serverURL, req)
	} else {
		response, err = searchDirect(*configPath, req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req *models.SearchRequest) (*models.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	if req.Page > 1 {
		params.Set("page", strconv.Itoa(req.Page))
	}
	if req.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(req.PerPage))
	}
	if req.Category != "" {
		params.Set("category", req.Category)
	}
	if req.Locale != "" {
		params.Set("locale", req.Locale)
	}

	resp, err := http.Get(serverURL + "/api/v1/search?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func searchDirect(configPath string, req *models.SearchRequest) (*models.SearchResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	return components.Engine.Search(context.Background(), req)
}

func runSynonyms() {
	args := os.Args[2:]
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: trouve synonyms <list|add|remove> [flags]")
		os.Exit(1)
	}
	action := args[0]

	fs := flag.NewFlagSet("synonyms", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	canonical := fs.String("canonical", "", "canonical term (add)")
	syn := fs.String("synonym", "", "synonym term (add)")
	weight := fs.Float64("weight", 0, "expansion weight 0..1 (add, default 0.9)")
	language := fs.String("language", "", "entry language: en or fr (add, default en)")
	categoryHint := fs.String("category-hint", "", "category slug hint (add)")
	id := fs.Int64("id", 0, "synonym id (remove)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args[1:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	switch action {
	case "list":
		entries, err := store.ListActiveSynonyms(ctx, models.LangFR)
		if err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteSynonyms(os.Stdout, entries, format)
	case "add":
		entry := &models.SynonymEntry{
			Canonical:    *canonical,
			Synonym:      *syn,
			Weight:       *weight,
			Language:     *language,
			CategoryHint: *categoryHint,
		}
		newID, err := store.CreateSynonym(ctx, entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Add failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created synonym %d: %s -> %s\n", newID, entry.Canonical, entry.Synonym)
	case "remove":
		if *id == 0 {
			fmt.Fprintln(os.Stderr, "remove requires --id")
			os.Exit(1)
		}
		if err := store.DeleteSynonym(ctx, *id); err != nil {
			fmt.Fprintf(os.Stderr, "Remove failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed synonym %d\n", *id)
	default:
		fmt.Fprintf(os.Stderr, "Unknown synonyms action: %s\n", action)
		os.Exit(1)
	}
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	days := fs.Int("days", 0, "lookback window in days (default from config)")
	apply := fs.Bool("apply", false, "create synonyms from confident suggestions")
	minConfidence := fs.Float64("min-confidence", 0, "auto-creation confidence bar (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	lookback := cfg.Discovery.LookbackDays
	if *days > 0 {
		lookback = *days
	}
	ctx := context.Background()
	suggestions, err := components.Discovery.Analyze(ctx, lookback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteSuggestions(os.Stdout, suggestions, format)

	if *apply {
		bar := cfg.Discovery.MinConfidence
		if *minConfidence > 0 {
			bar = *minConfidence
		}
		created, skipped, err := components.Discovery.AutoCreate(ctx, suggestions, bar)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Apply failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created %d synonyms, skipped %d\n", created, skipped)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/api/v1/status")
		if err == nil {
			defer resp.Body.Close()
			_, _ = io.Copy(os.Stdout, resp.Body)
			return
		}
		fmt.Fprintf(os.Stderr, "Server unreachable (%v), falling back to direct storage\n", err)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	status := map[string]interface{}{
		"full_text":     store.HasFullText(context.Background()),
		"database_path": cfg.Storage.DatabasePath,
	}
	if bytes, err := storage.DatabaseSizeBytes(cfg.Storage.DatabasePath); err == nil {
		status["database_size_bytes"] = bytes
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(status)
}

func printUsage() {
	fmt.Println(`trouve - Furniture catalog search engine

Usage:
  trouve server [flags]             Start the HTTP server
  trouve search [flags] <query>     Search the catalog
  trouve synonyms <list|add|remove> Manage the synonym vocabulary
  trouve analyze [flags]            Mine analytics for synonym suggestions
  trouve status [flags]             Show storage status
  trouve version                    Show version
  trouve help                       Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/trouve/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct storage access.
  --locale string    Search locale: en or fr
  --category string  Category slug filter
  --page int         Result page
  --per-page int     Results per page
  --output string    Output format: text or json

Synonyms Flags (add):
  --canonical string      Canonical term
  --synonym string        Synonym term
  --weight float          Expansion weight 0..1 (default 0.9)
  --language string       Entry language: en or fr (default en)
  --category-hint string  Category slug hint

Analyze Flags:
  --days int              Lookback window in days (default from config)
  --apply                 Create synonyms from confident suggestions
  --min-confidence float  Auto-creation confidence bar (default from config)`)
}
