// Package main implements the mailsift daemon and its maintenance CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nhle/mailsift/internal/credential"
	"github.com/nhle/mailsift/internal/ingest"
	"github.com/nhle/mailsift/internal/mailbox"
	"github.com/nhle/mailsift/internal/model"
	"github.com/nhle/mailsift/internal/store"
	"github.com/nhle/mailsift/internal/summarize"
)

var configPath = flag.String("config", model.DefaultConfigPath(), "path to config file")

func main() {
	subcommands.ImportantFlag("config")

	// Setup standard helpers
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&serveCmd{}, "")
	subcommands.Register(&backfillCmd{}, "")
	subcommands.Register(&reprocessCmd{}, "")
	subcommands.Register(&repairCmd{}, "")
	subcommands.Register(&cleanupCmd{}, "")
	subcommands.Register(&billsCmd{}, "")
	subcommands.Register(&credentialCmd{}, "")

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	os.Exit(int(subcommands.Execute(ctx)))
}

// setup loads configuration and configures the global logger.
func setup() (*model.Config, error) {
	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	if err := configureLogging(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configureLogging(lc model.LogConfig) error {
	switch lc.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		return fmt.Errorf("log level %q not one of: debug, info, warn, error", lc.Level)
	}

	if lc.JSON {
		log.Logger = log.Output(zerolog.SyncWriter(os.Stderr))
		return nil
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: runtime.GOOS == "windows",
	})
	return nil
}

func openStore(cfg *model.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.Store.Path)
}

// imapPassword resolves the application password: explicit config
// first, then the keyring (with its environment override).
func imapPassword(cfg *model.Config) (string, error) {
	if cfg.IMAP.Password != "" {
		return cfg.IMAP.Password, nil
	}
	return credential.Get(credential.KeyIMAPPassword)
}

// newOrchestrator wires the IMAP client, store, and summarizer into an
// ingestion orchestrator.
func newOrchestrator(cfg *model.Config, st store.Store) (*ingest.Orchestrator, error) {
	password, err := imapPassword(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolving IMAP password: %w", err)
	}

	client := mailbox.NewClient(cfg.IMAP.Host, cfg.IMAP.Port, cfg.IMAP.Username, password)
	dial := func(ctx context.Context) (ingest.Session, error) {
		return client.Dial(ctx)
	}

	sumCfg := cfg.Summary
	if sumCfg.Enabled && sumCfg.APIKey == "" {
		if key, err := credential.Get(credential.KeySummaryAPI); err == nil {
			sumCfg.APIKey = key
		}
	}

	return ingest.New(dial, st, summarize.NewClient(sumCfg),
		log.With().Str("module", "ingest").Logger()), nil
}

func fatal(msg string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	return subcommands.ExitFailure
}

func usage(msg string) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, msg)
	return subcommands.ExitUsageError
}
