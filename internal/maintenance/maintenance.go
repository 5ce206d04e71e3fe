// Package maintenance holds the offline repair and cleanup passes that
// run against the store between ingestion cycles: sender repair,
// duplicate attachment pruning, and old-message purges.
package maintenance

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/mailsift/internal/model"
	"github.com/nhle/mailsift/internal/store"
)

// Maintainer runs maintenance passes against one store.
type Maintainer struct {
	store store.Store
	log   zerolog.Logger
}

// New creates a Maintainer.
func New(st store.Store, log zerolog.Logger) *Maintainer {
	return &Maintainer{store: st, log: log}
}

var (
	angleAddr = regexp.MustCompile(`<([^<>@\s]+@[^<>\s]+)>`)
	bareAddr  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// repairSender extracts a clean address from a raw From-header string.
// It reports false when the text holds nothing recoverable.
func repairSender(raw string) (string, bool) {
	raw = strings.Trim(strings.TrimSpace(raw), `"'`)

	if m := angleAddr.FindStringSubmatch(raw); m != nil {
		return m[1], m[1] != raw
	}
	if m := bareAddr.FindString(raw); m != "" {
		return m, m != raw
	}
	return "", false
}

// RepairSenders rewrites sender values that still carry raw header
// syntax ("Name <addr>", quoting) down to the bare address. Messages
// whose sender holds no recoverable address, including the unknown
// sender sentinel, are left alone. Returns the number repaired.
func (m *Maintainer) RepairSenders(ctx context.Context) (int, error) {
	msgs, err := m.store.GetMessages(ctx, store.MessageFilter{})
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, msg := range msgs {
		cleaned, changed := repairSender(msg.Sender)
		if !changed || cleaned == msg.Sender {
			continue
		}
		if err := m.store.UpdateSender(ctx, msg.ID, cleaned); err != nil {
			return repaired, err
		}
		m.log.Debug().Str("id", msg.ID).Str("sender", cleaned).Msg("repaired sender")
		repaired++
	}
	return repaired, nil
}

// CleanDuplicateAttachments keeps the newest attachment per filename
// and deletes the rest. Returns the number deleted.
func (m *Maintainer) CleanDuplicateAttachments(ctx context.Context) (int, error) {
	atts, err := m.store.AllAttachments(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	seen := make(map[string]bool)
	for _, att := range atts {
		// AllAttachments orders newest first within each filename, so
		// the first occurrence is the keeper.
		if !seen[att.Filename] {
			seen[att.Filename] = true
			continue
		}
		if err := m.store.DeleteAttachment(ctx, att.ID); err != nil {
			return deleted, err
		}
		deleted++
	}

	if deleted > 0 {
		m.log.Info().Int("deleted", deleted).Msg("removed duplicate attachments")
	}
	return deleted, nil
}

// PurgeOldMessages deletes messages whose Date header is older than the
// retention window. Messages with unparseable dates are kept. Returns
// the number deleted.
func (m *Maintainer) PurgeOldMessages(ctx context.Context, retention time.Duration, now time.Time) (int, error) {
	msgs, err := m.store.GetMessages(ctx, store.MessageFilter{})
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-retention)
	deleted := 0
	for _, msg := range msgs {
		received, err := mail.ParseDate(msg.Date)
		if err != nil {
			continue
		}
		if !received.Before(cutoff) {
			continue
		}
		if err := m.store.DeleteMessage(ctx, msg.ID); err != nil {
			return deleted, err
		}
		deleted++
	}

	if deleted > 0 {
		m.log.Info().Int("deleted", deleted).Msg("purged old messages")
	}
	return deleted, nil
}

// PurgeSpam deletes every message in the spam folder. Returns the
// number deleted.
func (m *Maintainer) PurgeSpam(ctx context.Context) (int, error) {
	msgs, err := m.store.GetMessages(ctx, store.MessageFilter{Folder: model.FolderSpam})
	if err != nil {
		return 0, err
	}

	for i, msg := range msgs {
		if err := m.store.DeleteMessage(ctx, msg.ID); err != nil {
			return i, err
		}
	}

	if len(msgs) > 0 {
		m.log.Info().Int("deleted", len(msgs)).Msg("purged spam messages")
	}
	return len(msgs), nil
}
