// Package store provides the persistence layer for ingested messages,
// attachments, schedules, and bills, backed by SQLite.
package store

import (
	"context"
	"errors"

	"github.com/nhle/mailsift/internal/model"
)

// ErrDuplicateMessage is returned by InsertMessage when another row
// already carries the same non-empty message identifier. It is the
// authoritative deduplication signal; the pre-insert existence check is
// only an optimization.
var ErrDuplicateMessage = errors.New("message already stored")

// ErrNotFound is returned when a lookup by ID matches nothing.
var ErrNotFound = errors.New("not found")

// MessageFilter describes which messages to retrieve.
type MessageFilter struct {
	// Folder restricts to one source folder when non-empty.
	Folder model.Folder

	// Category restricts to one category when non-empty.
	Category model.Category

	// Sender matches the sender column exactly when non-empty.
	Sender string

	// Query matches subject or body as a substring.
	Query string

	// Unread restricts to unread messages when true.
	Unread bool

	Limit  int
	Offset int
}

// Store is the persistence interface consumed by ingestion, the
// maintenance passes, and the CLI.
type Store interface {
	// InsertMessage stores one message. It returns ErrDuplicateMessage
	// when the message identifier is already present.
	InsertMessage(ctx context.Context, msg model.Message) error

	// MessageIDExists reports whether a non-empty protocol identifier is
	// already stored. Empty identifiers never match.
	MessageIDExists(ctx context.Context, messageID string) (bool, error)

	GetMessageByID(ctx context.Context, id string) (*model.Message, error)
	GetMessages(ctx context.Context, filter MessageFilter) ([]model.Message, error)
	CountMessages(ctx context.Context, filter MessageFilter) (int, error)

	// CategoryCounts returns the number of stored messages per category.
	CategoryCounts(ctx context.Context) (map[model.Category]int, error)

	UpdateSender(ctx context.Context, id, sender string) error
	SetRead(ctx context.Context, id string, read bool) error
	SetStarred(ctx context.Context, id string, starred bool) error

	// DeleteMessage removes a message and, via foreign keys, its
	// attachments and schedules.
	DeleteMessage(ctx context.Context, id string) error

	InsertAttachment(ctx context.Context, att model.Attachment) error
	GetAttachments(ctx context.Context, messageID string) ([]model.Attachment, error)
	AllAttachments(ctx context.Context) ([]model.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error

	InsertSchedule(ctx context.Context, ev model.Schedule) error
	GetSchedules(ctx context.Context) ([]model.Schedule, error)
	DeleteAllSchedules(ctx context.Context) error

	// UpsertBill inserts or replaces the bill derived from one message.
	UpsertBill(ctx context.Context, bill model.Bill) error
	GetBills(ctx context.Context) ([]model.Bill, error)

	Close() error
}
