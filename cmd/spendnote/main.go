// Command spendnote interactively records expenses into a remote
// document database, prompting field by field against the collection's
// schema.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spendnote/spendnote/pkg/api"
	"github.com/spendnote/spendnote/pkg/config"
	"github.com/spendnote/spendnote/pkg/history"
	"github.com/spendnote/spendnote/pkg/logging"
	"github.com/spendnote/spendnote/pkg/notion"
	"github.com/spendnote/spendnote/pkg/prompt"
	"github.com/spendnote/spendnote/pkg/session"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigFile, "path to the config file")
	flag.Parse()

	logger := logging.Setup(logging.DefaultConfig())

	if err := run(*configPath, logger); err != nil {
		if errors.Is(err, api.ErrCancelled) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		"database", cfg.DatabaseID,
		"known_names", len(cfg.Expenses),
	)

	store := notion.NewClient(notion.Config{
		Token:      cfg.Token,
		DatabaseID: cfg.DatabaseID,
		BaseURL:    cfg.BaseURL,
	}, logger.With("component", "notion_client"))

	sess := session.New(
		store,
		prompt.New(),
		history.New(cfg.Expenses),
		session.Config{
			DatabaseID:   cfg.DatabaseID,
			RecentCount:  cfg.RecentCount,
			LookbackDays: cfg.LookbackDays,
		},
		logger.With("component", "session"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return sess.Run(ctx)
}
