package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/peterh/liner"

	"diary-recall/internal/config"
	"diary-recall/internal/contextutil"
	"diary-recall/internal/diary"
	"diary-recall/internal/enrich"
	api "diary-recall/internal/http"
	"diary-recall/internal/ingest"
	"diary-recall/internal/llm"
	"diary-recall/internal/rag"
	"diary-recall/internal/storage"
)

// CLI is the top-level command structure.
type CLI struct {
	Debug bool `short:"d" help:"Enable debug logging."`

	Import ImportCmd `cmd:"" help:"Scan the diary tree and import all entries into the database."`
	Enrich EnrichCmd `cmd:"" help:"Generate one-line summaries for imported entries via the local model."`
	Ask    AskCmd    `cmd:"" help:"Ask questions about the diary in an interactive session."`
	Serve  ServeCmd  `cmd:"" help:"Run the HTTP API server."`
}

// appContext carries the shared dependencies into subcommands.
type appContext struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	store  storage.EntryStore
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("diary"),
		kong.Description("Import, summarize and query a personal diary archive."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg, cli.Debug)
	slog.SetDefault(logger)

	db, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	app := &appContext{
		cfg:    cfg,
		logger: logger,
		db:     db,
		store:  storage.NewEntryRepo(db),
	}
	kctx.FatalIfErrorf(kctx.Run(app))
}

func newLogger(cfg *config.Config, debug bool) *slog.Logger {
	level := cfg.LogLevel
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// signalContext returns a context canceled on SIGINT or SIGTERM, with the
// application logger attached.
func signalContext(app *appContext) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return contextutil.WithLogger(ctx, app.logger), cancel
}

// ImportCmd runs a full import of the diary tree.
type ImportCmd struct{}

func (c *ImportCmd) Run(app *appContext) error {
	ctx, cancel := signalContext(app)
	defer cancel()

	scanner := diary.NewScanner(app.cfg.DiaryBasePath)
	pipeline := ingest.NewPipeline(scanner, app.store)

	report, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d entries from %d files.\n", report.EntriesImported, report.FilesProcessed)

	if len(report.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(report.Warnings))
		for _, w := range report.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	if len(report.Years) > 0 {
		fmt.Println("\nBy year:")
		for _, y := range report.Years {
			fmt.Printf("  %d  %4d entries  %8d words  (%s .. %s)\n",
				y.Year, y.TotalEntries, y.TotalWords, y.FirstEntry, y.LastEntry)
		}
	}
	if len(report.Types) > 0 {
		fmt.Println("\nBy type:")
		for _, t := range report.Types {
			fmt.Printf("  %-14s %4d entries  %8d words\n", t.EntryType, t.Entries, t.Words)
		}
	}
	return nil
}

// EnrichCmd generates entry summaries.
type EnrichCmd struct {
	All bool `help:"Summarize every entry missing a summary instead of a small sample."`
}

func (c *EnrichCmd) Run(app *appContext) error {
	ctx, cancel := signalContext(app)
	defer cancel()

	client := llm.NewClient(app.cfg.LLMBaseURL, app.cfg.LLMAPIKey, app.cfg.LLMModel)
	builder := enrich.NewBuilder(app.store, client)

	if err := builder.Probe(ctx); err != nil {
		return fmt.Errorf("model server not reachable at %s: %w", app.cfg.LLMBaseURL, err)
	}

	var (
		result *enrich.Result
		err    error
	)
	if c.All {
		result, err = builder.RunAll(ctx)
	} else {
		result, err = builder.RunSample(ctx)
	}

	if result != nil {
		fmt.Printf("Processed %d entries: %d succeeded, %d failed.\n",
			result.Processed, result.Succeeded, result.Failed)
	}
	if errors.Is(err, context.Canceled) {
		fmt.Println("Interrupted. Finished summaries are saved; rerun to continue.")
		return nil
	}
	return err
}

// AskCmd runs an interactive question loop against the imported diary.
type AskCmd struct{}

func (c *AskCmd) Run(app *appContext) error {
	ctx, cancel := signalContext(app)
	defer cancel()

	client := llm.NewClient(app.cfg.LLMBaseURL, app.cfg.LLMAPIKey, app.cfg.LLMModel)

	probeCtx, probeCancel := context.WithTimeout(ctx, 5*time.Second)
	defer probeCancel()
	if _, err := client.Complete(probeCtx, "请回复'OK'", 5, 0.1); err != nil {
		return fmt.Errorf("model server not reachable at %s: %w", app.cfg.LLMBaseURL, err)
	}

	engine := rag.NewEngine(app.store, client)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println("日记问答。输入问题，exit 退出。")
	for {
		input, err := line.Prompt("> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "exit", "quit", "q":
			saveHistory(line, histPath)
			return nil
		}
		line.AppendHistory(input)

		resp, err := engine.Ask(ctx, rag.AskRequest{Question: input})
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Printf("[错误] %v\n", err)
			continue
		}

		fmt.Printf("\n[回答] %s\n", resp.Answer)
		if len(resp.Results) > 0 {
			fmt.Println("\n[来源]")
			for _, r := range resp.Results {
				fmt.Printf("  %s (%s) %s\n", r.Date, r.EntryType, r.FileSource)
			}
		}
		fmt.Println()
	}

	saveHistory(line, histPath)
	return nil
}

// historyPath returns the REPL history file path, creating its directory.
// Empty means history is disabled for this session.
func historyPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(cacheDir, "diary-recall")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}

// ServeCmd runs the HTTP API.
type ServeCmd struct{}

func (c *ServeCmd) Run(app *appContext) error {
	client := llm.NewClient(app.cfg.LLMBaseURL, app.cfg.LLMAPIKey, app.cfg.LLMModel)
	engine := rag.NewEngine(app.store, client)

	router := api.NewRouter(&api.Deps{
		Engine: engine,
		Store:  app.store,
		DB:     app.db,
	})

	addr := ":" + app.cfg.APIPort
	app.logger.Info("starting API server", "addr", addr, "model", app.cfg.LLMModel)
	if err := http.ListenAndServe(addr, router); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
