package model

import "time"

// Folder identifies which logical mailbox folder a message was fetched from.
type Folder string

const (
	FolderInbox Folder = "inbox"
	FolderSpam  Folder = "spam"
)

// Category is the single label assigned to a message by classification.
// Spam and promotions take priority over every topical category.
type Category string

const (
	CategorySpam       Category = "spam"
	CategoryPromotions Category = "promotions"
	CategoryGeneral    Category = "general"
	CategoryPrimary    Category = "primary"
)

// Sentinel values substituted when normalization cannot determine a field.
// They distinguish "attempted and failed" from "absent".
const (
	SentinelNoSubject     = "No Subject"
	SentinelUnknownSender = "Unknown Sender"
	SentinelNoContent     = "No readable content"
	SentinelDecodeFailed  = "Could not decode email body"
)

// Message is the canonical, persisted form of one ingested email.
// It is immutable after insertion except for the user-facing flags
// and the offline maintenance passes.
type Message struct {
	// ID is the locally generated row identifier.
	ID string `db:"id"`

	// MessageID is the protocol-assigned Message-ID header. It may be
	// empty; only non-empty identifiers participate in deduplication.
	MessageID string `db:"message_id"`

	Subject string `db:"subject"`
	Sender  string `db:"sender"`

	// Date is the protocol-native Date header text. It is stored as
	// received, not reparsed into a canonical clock at ingestion time.
	Date string `db:"date"`

	// Body is the first text/plain part found, or a sentinel. It is
	// never empty after normalization.
	Body string `db:"body"`

	Summary  string   `db:"summary"`
	Category Category `db:"category"`
	Folder   Folder   `db:"folder"`

	HasAttachments bool `db:"has_attachments"`

	IsRead    bool     `db:"is_read"`
	IsStarred bool     `db:"is_starred"`
	Labels    []string `db:"-"`

	ProcessedAt time.Time `db:"processed_at"`
}

// Attachment is one binary document extracted from a message. Content is
// stored base64-encoded in its own table so message-list queries never
// carry blobs.
type Attachment struct {
	ID         string    `db:"id"`
	Filename   string    `db:"filename"`
	Content    string    `db:"content"`
	MessageID  string    `db:"message_id"`
	IsSpam     bool      `db:"is_spam"`
	UploadedAt time.Time `db:"uploaded_at"`
}

// EventType classifies a schedule record.
type EventType string

const (
	EventExam     EventType = "exam"
	EventMeeting  EventType = "meeting"
	EventDeadline EventType = "deadline"
	EventGeneric  EventType = "event"
	EventOther    EventType = "other"
)

// Schedule is a structured event fact derived from a message. The whole
// schedule set is rebuilt wholesale by a reprocessing run, never patched
// incrementally.
type Schedule struct {
	ID        string    `db:"id"`
	MessageID string    `db:"message_id"`
	Title     string    `db:"title"`
	EventType EventType `db:"event_type"`

	// Date is the owning message's date text, copied verbatim.
	Date string `db:"date"`

	TimeSlot    string `db:"time_slot"`
	MeetingLink string `db:"meeting_link"`
	LoginID     string `db:"login_id"`
	Password    string `db:"password"`

	ExtractedAt time.Time `db:"extracted_at"`
}

// BillStatus tracks where a bill stands relative to its due date.
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillOverdue BillStatus = "overdue"
	BillPaid    BillStatus = "paid"
)

// Bill is a payment obligation extracted from a billing email.
type Bill struct {
	ID        string  `db:"id"`
	MessageID string  `db:"message_id"`
	Name      string  `db:"name"`
	Amount    float64 `db:"amount"`

	// DueDate is normalized to "02 Jan 2006" form.
	DueDate string `db:"due_date"`

	Category     string     `db:"category"`
	Status       BillStatus `db:"status"`
	ReceivedDate string     `db:"received_date"`
}
