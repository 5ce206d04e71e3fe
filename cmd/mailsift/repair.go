package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nhle/mailsift/internal/maintenance"
)

type repairCmd struct{}

func (*repairCmd) Name() string {
	return "repair-senders"
}

func (*repairCmd) Synopsis() string {
	return "normalize raw sender values in stored mail"
}

func (*repairCmd) Usage() string {
	return `repair-senders:
	rewrite senders still carrying raw header syntax down to bare addresses
`
}

func (r *repairCmd) SetFlags(f *flag.FlagSet) {}

func (r *repairCmd) Execute(
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
	n, err := m.RepairSenders(ctx)
	if err != nil {
		return fatal("Repair failed", err)
	}
	fmt.Printf("repaired %d senders\n", n)

	return subcommands.ExitSuccess
}
