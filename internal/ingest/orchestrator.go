// Package ingest drives the fetch-normalize-classify-extract pipeline
// over IMAP folders. One cycle opens a fresh session, processes every
// message the search window returns, and closes the session; failures
// are isolated per message so one malformed email never stalls a cycle.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nhle/mailsift/internal/billing"
	"github.com/nhle/mailsift/internal/classify"
	"github.com/nhle/mailsift/internal/model"
	"github.com/nhle/mailsift/internal/normalize"
	"github.com/nhle/mailsift/internal/schedule"
	"github.com/nhle/mailsift/internal/store"
)

// Session is one authenticated mailbox connection.
type Session interface {
	Select(folder string) error
	SearchSince(since time.Time) ([]uint32, error)
	Fetch(uid uint32) ([]byte, error)
	Close() error
}

// DialFunc opens a new Session. Every cycle dials its own session so
// that a dead connection never outlives the cycle that noticed it.
type DialFunc func(ctx context.Context) (Session, error)

// Summarizer produces a short summary for one message. Implementations
// must be total: a failure is reported as sentinel text, not an error.
type Summarizer interface {
	Summarize(ctx context.Context, subject, body string) string
}

// Stats reports the outcome of one ingestion cycle.
type Stats struct {
	Found      int
	Stored     int
	Duplicates int
	Failed     int
}

// Orchestrator coordinates one pipeline run over a folder.
type Orchestrator struct {
	dial       DialFunc
	store      store.Store
	summarizer Summarizer
	log        zerolog.Logger
}

// New creates an Orchestrator. summarizer may be a disabled client; it
// is only consulted for inbox messages.
func New(dial DialFunc, st store.Store, summarizer Summarizer, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		dial:       dial,
		store:      st,
		summarizer: summarizer,
		log:        log,
	}
}

// CycleFolder runs one full ingestion cycle over folderName, processing
// every message received on or after since. Per-message failures are
// logged and counted, not returned; the error covers session-level
// failures only.
func (o *Orchestrator) CycleFolder(ctx context.Context, folderName string, folder model.Folder, since time.Time) (Stats, error) {
	var stats Stats

	sess, err := o.dial(ctx)
	if err != nil {
		return stats, fmt.Errorf("dialing mailbox: %w", err)
	}
	defer sess.Close()

	if err := sess.Select(folderName); err != nil {
		return stats, err
	}

	uids, err := sess.SearchSince(since)
	if err != nil {
		return stats, err
	}
	stats.Found = len(uids)

	for _, uid := range uids {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		outcome, err := o.processMessage(ctx, sess, uid, folder)
		switch {
		case err != nil:
			stats.Failed++
			o.log.Warn().Err(err).Uint32("uid", uid).Str("folder", folderName).
				Msg("failed to process message")
		case outcome == outcomeDuplicate:
			stats.Duplicates++
		default:
			stats.Stored++
		}
	}

	o.log.Info().Str("folder", folderName).
		Int("found", stats.Found).Int("stored", stats.Stored).
		Int("duplicates", stats.Duplicates).Int("failed", stats.Failed).
		Msg("ingestion cycle complete")

	return stats, nil
}

type outcome int

const (
	outcomeStored outcome = iota
	outcomeDuplicate
)

// processMessage runs the per-message pipeline: fetch, normalize,
// deduplicate, classify, summarize, persist, extract.
func (o *Orchestrator) processMessage(ctx context.Context, sess Session, uid uint32, folder model.Folder) (outcome, error) {
	raw, err := sess.Fetch(uid)
	if err != nil {
		return 0, err
	}

	msg, atts := normalize.Normalize(raw, folder)

	// The pre-insert check keeps already-seen messages out of the
	// summarization path; the store's unique index is what actually
	// guarantees single storage.
	if msg.MessageID != "" {
		exists, err := o.store.MessageIDExists(ctx, msg.MessageID)
		if err != nil {
			return 0, err
		}
		if exists {
			return outcomeDuplicate, nil
		}
	}

	msg.ID = uuid.NewString()
	msg.Category = classify.ForFolder(msg.Subject, msg.Body, msg.Sender, folder)
	msg.ProcessedAt = time.Now().UTC()

	if folder == model.FolderInbox {
		msg.Summary = o.summarizer.Summarize(ctx, msg.Subject, msg.Body)
	}

	if err := o.store.InsertMessage(ctx, msg); err != nil {
		if errors.Is(err, store.ErrDuplicateMessage) {
			return outcomeDuplicate, nil
		}
		return 0, err
	}

	for _, att := range atts {
		att.ID = uuid.NewString()
		att.MessageID = msg.ID
		att.IsSpam = folder == model.FolderSpam
		att.UploadedAt = msg.ProcessedAt
		if err := o.store.InsertAttachment(ctx, att); err != nil {
			return 0, err
		}
	}

	// Structured extraction only applies to inbox mail; events and
	// bills advertised by spam are not worth indexing.
	if folder == model.FolderInbox {
		if ev, ok := schedule.Extract(msg); ok {
			if err := o.store.InsertSchedule(ctx, ev); err != nil {
				return 0, err
			}
		}
		if bill, ok := billing.Extract(msg, time.Now().UTC()); ok {
			if err := o.store.UpsertBill(ctx, bill); err != nil {
				return 0, err
			}
		}
	}

	return outcomeStored, nil
}
