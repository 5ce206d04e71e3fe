package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/nhle/mailsift/internal/credential"
)

type credentialCmd struct{}

func (*credentialCmd) Name() string {
	return "set-credential"
}

func (*credentialCmd) Synopsis() string {
	return "store a secret in the system keyring"
}

func (*credentialCmd) Usage() string {
	return `set-credential <key> <value>:
	store a secret; keys: imap-password, summary-api-key
`
}

func (c *credentialCmd) SetFlags(f *flag.FlagSet) {}

func (c *credentialCmd) Execute(
	_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key, value := f.Arg(0), f.Arg(1)
	if key == "" || value == "" {
		return usage("key and value required")
	}
	if key != credential.KeyIMAPPassword && key != credential.KeySummaryAPI {
		return usage(fmt.Sprintf("unknown key %q; want %s or %s",
			key, credential.KeyIMAPPassword, credential.KeySummaryAPI))
	}

	if err := credential.Set(key, value); err != nil {
		return fatal("Couldn't store credential", err)
	}
	fmt.Printf("stored %s\n", key)

	return subcommands.ExitSuccess
}
