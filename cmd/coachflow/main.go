package main

import (
	"fmt"
	"os"
	"path/filepath"

	"coachflow/internal/cli"
	"coachflow/internal/db"
	"coachflow/internal/intelligence"
	"coachflow/internal/llm"
	"coachflow/internal/registry"
	"coachflow/internal/repository"
	"coachflow/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.coachflow/coachflow.db
	dbPath := os.Getenv("COACHFLOW_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".coachflow", "coachflow.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Framework registry: builtins plus any custom definitions on disk.
	frameworks := registry.New()
	frameworkDir := os.Getenv("COACHFLOW_FRAMEWORKS")
	if frameworkDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			frameworkDir = filepath.Join(home, ".coachflow", "frameworks")
		}
	}
	if frameworkDir != "" {
		if err := frameworks.LoadDir(frameworkDir); err != nil {
			return fmt.Errorf("loading frameworks: %w", err)
		}
	}

	sessionRepo := repository.NewSQLiteSessionRepo(database)
	reflectionRepo := repository.NewSQLiteReflectionRepo(database)
	statsRepo := repository.NewSQLiteStatsRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Intelligence: extraction and coaching go through the model only when
	// the LLM is enabled; everything degrades to deterministic behavior.
	llmCfg := llm.LoadConfig()
	extractor := intelligence.NewDisabledExtractor()
	coach := intelligence.NewDisabledCoach()
	var observers []service.UseCaseObserver
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
			observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
		}
		client := llm.NewOllamaClient(llmCfg, observer)
		extractor = intelligence.NewExtractor(client, observer)
		coach = intelligence.NewCoach(client)
	}

	app := &cli.App{
		Sessions: service.NewSessionService(
			frameworks, sessionRepo, reflectionRepo, extractor, coach, uow, observers...),
		Stats:      service.NewStatsService(statsRepo),
		Frameworks: frameworks,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
