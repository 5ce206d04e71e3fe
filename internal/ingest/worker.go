package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/mailsift/internal/mailbox"
	"github.com/nhle/mailsift/internal/model"
)

// Worker periodically ingests one folder. Each folder gets its own
// worker with its own interval; workers share nothing but the store.
type Worker struct {
	orch       *Orchestrator
	folderName string
	folder     model.Folder
	interval   time.Duration
	lookback   time.Duration
	log        zerolog.Logger
}

// NewWorker configures a periodic worker for one folder.
func NewWorker(orch *Orchestrator, folderName string, folder model.Folder, interval, lookback time.Duration, log zerolog.Logger) *Worker {
	return &Worker{
		orch:       orch,
		folderName: folderName,
		folder:     folder,
		interval:   interval,
		lookback:   lookback,
		log:        log,
	}
}

// Run cycles immediately, then on every interval tick until the context
// is cancelled. Cycle errors are logged and the worker keeps going; an
// authentication failure is terminal because retrying bad credentials
// only locks the account.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		since := time.Now().Add(-w.lookback)
		if _, err := w.orch.CycleFolder(ctx, w.folderName, w.folder, since); err != nil {
			if mailbox.IsAuthError(err) {
				w.log.Error().Err(err).Str("folder", w.folderName).
					Msg("authentication rejected, stopping worker")
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Warn().Err(err).Str("folder", w.folderName).
				Msg("ingestion cycle failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
