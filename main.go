package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"ai_blog_generator/config"
	"ai_blog_generator/generator"
	"ai_blog_generator/logging"
	"ai_blog_generator/publisher"
	"ai_blog_generator/server"
	"ai_blog_generator/tui"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config.toml")
	serve := flag.Bool("serve", false, "start web server (default when no other mode is chosen)")
	useTUI := flag.Bool("tui", false, "run the terminal interface")
	addr := flag.String("addr", "", "http listen address (overrides server.addr)")
	keyword := flag.String("keyword", "", "generate titles and a post for this keyword, then exit")
	pick := flag.Int("pick", 1, "with --keyword: which generated title to write (1-based)")
	out := flag.String("out", "", "directory for saved markdown (overrides output.dir)")
	provider := flag.String("provider", "", "llm provider (overrides llm.provider)")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	cfg, err := config.LoadWithOverrides(*configPath, config.Overrides{Provider: *provider})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *out != "" {
		cfg.Output.Dir = *out
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	tuiMode := *keyword == "" && *useTUI && !*serve
	logOut, closeLog, err := logOutput(tuiMode, cfg.Output.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	logger := logging.New(logOut, cfg.Log.Level)
	slog.SetDefault(logger)

	pipeline, err := buildPipeline(cfg, logger)
	if err != nil {
		closeLog()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	timeout := time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second

	switch {
	case *keyword != "":
		err = runOnce(pipeline, *keyword, *pick, cfg.Output.Dir, timeout, logger)
	case tuiMode:
		err = runTUI(pipeline, cfg.Output.Dir, timeout)
	default:
		err = runServer(pipeline, cfg.Server.Addr, timeout, logger)
	}
	if err != nil {
		closeLog()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// tuiLogName is the log file used while the terminal interface owns the screen.
const tuiLogName = "ai-blog-generator.log"

// logOutput picks the log destination. Writes to stderr would tear the
// alt-screen, so the terminal interface logs to a file in dir.
func logOutput(tuiMode bool, dir string) (io.Writer, func() error, error) {
	if !tuiMode {
		return os.Stderr, func() error { return nil }, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, tuiLogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, f.Close, nil
}

func buildPipeline(cfg *config.Config, logger *slog.Logger) (*generator.Pipeline, error) {
	llm, err := generator.NewLLM(generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	agent, err := generator.NewAgent(llm, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("llm configured", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return generator.NewPipeline(agent, logger), nil
}

func runServer(pipeline *generator.Pipeline, addr string, timeout time.Duration, logger *slog.Logger) error {
	srv, err := server.New(pipeline, timeout, logger)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting web server", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runTUI(pipeline *generator.Pipeline, outDir string, timeout time.Duration) error {
	sess := generator.NewSession("tui", pipeline)
	p := tea.NewProgram(tui.New(sess, timeout, outDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runOnce(pipeline *generator.Pipeline, keyword string, pick int, outDir string, timeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
	defer cancel()

	sess := generator.NewSession("cli", pipeline)
	state, err := sess.GenerateTitles(ctx, keyword)
	if err != nil {
		return err
	}
	fmt.Println(generator.FormatTitles(state.Titles))
	if err := sess.SelectIndex(pick - 1); err != nil {
		return fmt.Errorf("--pick %d: %w", pick, err)
	}
	state, err = sess.GenerateContent(ctx)
	if err != nil {
		return err
	}
	path, err := publisher.WriteFile(outDir, publisher.NewDocument(state.SelectedTitle, state.BlogContent))
	if err != nil {
		return err
	}
	logger.Info("blog post written", "title", state.SelectedTitle, "path", path,
		"digest", publisher.Digest(state.BlogContent, 120))
	fmt.Println(path)
	return nil
}
