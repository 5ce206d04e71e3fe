package main

import (
	"context"
	"errors"
	"flag"
	"sync"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nhle/mailsift/internal/ingest"
	"github.com/nhle/mailsift/internal/model"
)

type serveCmd struct{}

func (*serveCmd) Name() string {
	return "serve"
}

func (*serveCmd) Synopsis() string {
	return "run the ingestion daemon"
}

func (*serveCmd) Usage() string {
	return `serve:
	watch the inbox and spam folders, ingesting new mail periodically
`
}

func (s *serveCmd) SetFlags(f *flag.FlagSet) {}

func (s *serveCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := setup()
	if err != nil {
		return fatal("Configuration error", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return fatal("Couldn't open store", err)
	}
	defer st.Close()

	orch, err := newOrchestrator(cfg, st)
	if err != nil {
		return fatal("Couldn't build pipeline", err)
	}

	lookback := time.Duration(cfg.Ingest.LookbackMinutes) * time.Minute
	workers := []*ingest.Worker{
		ingest.NewWorker(orch, cfg.IMAP.InboxFolder, model.FolderInbox,
			time.Duration(cfg.Ingest.PollIntervalSec)*time.Second, lookback,
			log.With().Str("module", "worker").Str("folder", "inbox").Logger()),
		ingest.NewWorker(orch, cfg.IMAP.SpamFolder, model.FolderSpam,
			time.Duration(cfg.Ingest.SpamPollIntervalSec)*time.Second, lookback,
			log.With().Str("module", "worker").Str("folder", "spam").Logger()),
	}

	log.Info().Str("host", cfg.IMAP.Host).Str("user", cfg.IMAP.Username).
		Msg("mailsift starting")

	// A terminal worker failure (bad credentials) stops the whole
	// daemon; everything else keeps the other worker running.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	failed := false
	var mu sync.Mutex

	for _, w := range workers {
		wg.Add(1)
		go func(w *ingest.Worker) {
			defer wg.Done()
			if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				mu.Lock()
				failed = true
				mu.Unlock()
				cancel()
			}
		}(w)
	}
	wg.Wait()

	log.Info().Msg("mailsift stopped")
	if failed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
