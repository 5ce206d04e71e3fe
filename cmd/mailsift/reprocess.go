package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/nhle/mailsift/internal/model"
	"github.com/nhle/mailsift/internal/schedule"
	"github.com/nhle/mailsift/internal/store"
)

type reprocessCmd struct{}

func (*reprocessCmd) Name() string {
	return "reprocess-schedules"
}

func (*reprocessCmd) Synopsis() string {
	return "rebuild all schedules from stored mail"
}

func (*reprocessCmd) Usage() string {
	return `reprocess-schedules:
	discard extracted events and re-run extraction over stored inbox mail
`
}

func (r *reprocessCmd) SetFlags(f *flag.FlagSet) {}

func (r *reprocessCmd) Execute(
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

	msgs, err := st.GetMessages(ctx, store.MessageFilter{Folder: model.FolderInbox})
	if err != nil {
		return fatal("Couldn't load messages", err)
	}

	n, err := schedule.Rebuild(ctx, msgs, st)
	if err != nil {
		return fatal("Rebuild failed", err)
	}
	fmt.Printf("rebuilt %d schedules from %d messages\n", n, len(msgs))

	return subcommands.ExitSuccess
}
