package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/nhle/mailsift/internal/billing"
	"github.com/nhle/mailsift/internal/model"
	"github.com/nhle/mailsift/internal/store"
)

type billsCmd struct {
	rescan bool
}

func (*billsCmd) Name() string {
	return "bills"
}

func (*billsCmd) Synopsis() string {
	return "list extracted bills"
}

func (*billsCmd) Usage() string {
	return `bills [-rescan]:
	print extracted bills, overdue first; -rescan re-derives them from
	stored inbox mail first, refreshing pending/overdue status
`
}

func (b *billsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&b.rescan, "rescan", false, "re-extract bills from stored mail before listing")
}

func (b *billsCmd) Execute(
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

	if b.rescan {
		if err := rescanBills(ctx, st); err != nil {
			return fatal("Rescan failed", err)
		}
	}

	bills, err := st.GetBills(ctx)
	if err != nil {
		return fatal("Couldn't load bills", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tDUE\tAMOUNT\tCATEGORY\tNAME")
	for _, bill := range bills {
		due := bill.DueDate
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t$%.2f\t%s\t%s\n",
			bill.Status, due, bill.Amount, bill.Category, bill.Name)
	}
	if err := w.Flush(); err != nil {
		return fatal("Couldn't write output", err)
	}

	return subcommands.ExitSuccess
}

// rescanBills re-runs bill extraction over stored inbox mail. Upserting
// by message id means changed rules or a passed due date update the
// existing rows in place.
func rescanBills(ctx context.Context, st store.Store) error {
	msgs, err := st.GetMessages(ctx, store.MessageFilter{Folder: model.FolderInbox})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, msg := range msgs {
		bill, ok := billing.Extract(msg, now)
		if !ok {
			continue
		}
		if err := st.UpsertBill(ctx, bill); err != nil {
			return err
		}
	}
	return nil
}
