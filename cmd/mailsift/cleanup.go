package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nhle/mailsift/internal/maintenance"
)

type cleanupCmd struct {
	attachments  bool
	spam         bool
	olderThanDay int
}

func (*cleanupCmd) Name() string {
	return "cleanup"
}

func (*cleanupCmd) Synopsis() string {
	return "run store cleanup passes"
}

func (*cleanupCmd) Usage() string {
	return `cleanup [-attachments] [-spam] [-older-than DAYS]:
	prune duplicate attachments, purge spam, and drop old messages
`
}

func (c *cleanupCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.attachments, "attachments", true, "remove duplicate attachments")
	f.BoolVar(&c.spam, "spam", false, "delete all spam messages")
	f.IntVar(&c.olderThanDay, "older-than", 0, "delete messages older than this many days (0 disables)")
}

func (c *cleanupCmd) Execute(
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

	m := maintenance.New(st, log.With().Str("module", "maintenance").Logger())

	if c.attachments {
		n, err := m.CleanDuplicateAttachments(ctx)
		if err != nil {
			return fatal("Attachment cleanup failed", err)
		}
		fmt.Printf("removed %d duplicate attachments\n", n)
	}

	if c.spam {
		n, err := m.PurgeSpam(ctx)
		if err != nil {
			return fatal("Spam purge failed", err)
		}
		fmt.Printf("purged %d spam messages\n", n)
	}

	if c.olderThanDay > 0 {
		retention := time.Duration(c.olderThanDay) * 24 * time.Hour
		n, err := m.PurgeOldMessages(ctx, retention, time.Now().UTC())
		if err != nil {
			return fatal("Old message purge failed", err)
		}
		fmt.Printf("purged %d old messages\n", n)
	}

	return subcommands.ExitSuccess
}
