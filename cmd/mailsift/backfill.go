package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"github.com/nhle/mailsift/internal/model"
)

type backfillCmd struct {
	since  string
	folder string
}

func (*backfillCmd) Name() string {
	return "backfill"
}

func (*backfillCmd) Synopsis() string {
	return "ingest historical mail from an absolute date"
}

func (*backfillCmd) Usage() string {
	return `backfill -since YYYY-MM-DD [-folder inbox|spam|both]:
	run one ingestion pass over everything received since the date
`
}

func (b *backfillCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&b.since, "since", "", "start date, YYYY-MM-DD")
	f.StringVar(&b.folder, "folder", "both", "which folder to backfill")
}

func (b *backfillCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := setup()
	if err != nil {
		return fatal("Configuration error", err)
	}

	if b.since == "" {
		b.since = cfg.Ingest.BackfillSince
	}
	if b.since == "" {
		return usage("-since required (or set ingest.backfill_since)")
	}
	since, err := time.Parse("2006-01-02", b.since)
	if err != nil {
		return usage(fmt.Sprintf("invalid -since date %q, want YYYY-MM-DD", b.since))
	}

	type target struct {
		name   string
		folder model.Folder
	}
	var targets []target
	switch b.folder {
	case "inbox":
		targets = []target{{cfg.IMAP.InboxFolder, model.FolderInbox}}
	case "spam":
		targets = []target{{cfg.IMAP.SpamFolder, model.FolderSpam}}
	case "both":
		targets = []target{
			{cfg.IMAP.InboxFolder, model.FolderInbox},
			{cfg.IMAP.SpamFolder, model.FolderSpam},
		}
	default:
		return usage("-folder must be inbox, spam, or both")
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

	for _, tgt := range targets {
		stats, err := orch.CycleFolder(ctx, tgt.name, tgt.folder, since)
		if err != nil {
			return fatal("Backfill failed", err)
		}
		fmt.Printf("%s: found %d, stored %d, duplicates %d, failed %d\n",
			tgt.name, stats.Found, stats.Stored, stats.Duplicates, stats.Failed)
	}

	return subcommands.ExitSuccess
}
