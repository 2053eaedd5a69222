package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/timebuddy-app/timebuddy/internal/cli"
	"github.com/timebuddy-app/timebuddy/internal/conversation"
	"github.com/timebuddy-app/timebuddy/internal/db"
	"github.com/timebuddy-app/timebuddy/internal/llm"
	"github.com/timebuddy-app/timebuddy/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.timebuddy/timebuddy.db
	dbPath := os.Getenv("TIMEBUDDY_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".timebuddy", "timebuddy.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	repo := repository.NewSQLiteTaskRepo(database)

	// LLM assistance is optional; the session runs fully heuristic
	// without it.
	var client llm.Client
	llmCfg := llm.LoadConfig()
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		client = llm.NewOllamaClient(llmCfg, observer)
	}

	tz := time.Local
	if name := os.Getenv("TIMEBUDDY_TZ"); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return fmt.Errorf("loading timezone %q: %w", name, err)
		}
		tz = loc
	}

	session := conversation.NewSession(conversation.Config{
		Repo:     repo,
		Client:   client,
		Router:   conversation.NewRouter(client, llmCfg.ConfidenceThreshold),
		Timezone: tz,
	})

	app := &cli.App{
		Session: session,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
