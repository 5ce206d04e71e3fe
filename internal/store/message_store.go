package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mailsift/internal/model"
)

// InsertMessage stores one message. Generates a UUID if ID is empty.
// A second insert with the same non-empty message identifier returns
// ErrDuplicateMessage.
func (s *SQLiteStore) InsertMessage(ctx context.Context, msg model.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.ProcessedAt.IsZero() {
		msg.ProcessedAt = time.Now().UTC()
	}

	labels, err := json.Marshal(msg.Labels)
	if err != nil {
		return fmt.Errorf("marshaling labels for message %s: %w", msg.ID, err)
	}
	if msg.Labels == nil {
		labels = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (
			id, message_id, subject, sender, date, body, summary,
			category, folder, has_attachments,
			is_read, is_starred, labels, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.MessageID, msg.Subject, msg.Sender, msg.Date, msg.Body, msg.Summary,
		string(msg.Category), string(msg.Folder), boolToInt(msg.HasAttachments),
		boolToInt(msg.IsRead), boolToInt(msg.IsStarred), string(labels),
		msg.ProcessedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateMessage
		}
		return fmt.Errorf("inserting message %s: %w", msg.ID, err)
	}

	return nil
}

// MessageIDExists reports whether a protocol identifier is already
// stored. Empty identifiers never match: messages without one do not
// participate in deduplication.
func (s *SQLiteStore) MessageIDExists(ctx context.Context, messageID string) (bool, error) {
	if messageID == "" {
		return false, nil
	}

	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM messages WHERE message_id = ?", messageID)
	if err != nil {
		return false, fmt.Errorf("checking message id: %w", err)
	}
	return count > 0, nil
}

// GetMessageByID retrieves a single message by its row ID.
func (s *SQLiteStore) GetMessageByID(ctx context.Context, id string) (*model.Message, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM messages WHERE id = ?", id)

	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting message %s: %w", id, err)
	}
	return &msg, nil
}

// GetMessages retrieves messages matching the filter, newest first.
func (s *SQLiteStore) GetMessages(ctx context.Context, filter MessageFilter) ([]model.Message, error) {
	query, args := buildMessageQuery("SELECT *", filter)

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// CountMessages returns the count of messages matching the filter.
func (s *SQLiteStore) CountMessages(ctx context.Context, filter MessageFilter) (int, error) {
	filter.Limit = 0
	filter.Offset = 0
	query, args := buildMessageQuery("SELECT COUNT(*)", filter)

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return count, nil
}

// CategoryCounts returns how many messages each category holds.
func (s *SQLiteStore) CategoryCounts(ctx context.Context) (map[model.Category]int, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT category, COUNT(*) FROM messages GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("querying category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Category]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts[model.Category(category)] = count
	}
	return counts, rows.Err()
}

// UpdateSender rewrites the sender column of one message.
func (s *SQLiteStore) UpdateSender(ctx context.Context, id, sender string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE messages SET sender = ? WHERE id = ?", sender, id)
	if err != nil {
		return fmt.Errorf("updating sender for message %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRead marks a message read or unread.
func (s *SQLiteStore) SetRead(ctx context.Context, id string, read bool) error {
	return s.setFlag(ctx, id, "is_read", read)
}

// SetStarred stars or unstars a message.
func (s *SQLiteStore) SetStarred(ctx context.Context, id string, starred bool) error {
	return s.setFlag(ctx, id, "is_starred", starred)
}

func (s *SQLiteStore) setFlag(ctx context.Context, id, column string, value bool) error {
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE messages SET %s = ? WHERE id = ?", column),
		boolToInt(value), id)
	if err != nil {
		return fmt.Errorf("updating %s for message %s: %w", column, id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMessage removes a message by ID. Cascades to attachments,
// schedules, and bills.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting message %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// buildMessageQuery constructs the SQL query and args for a MessageFilter.
func buildMessageQuery(selectClause string, filter MessageFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Folder != "" {
		conditions = append(conditions, "folder = ?")
		args = append(args, string(filter.Folder))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.Sender != "" {
		conditions = append(conditions, "sender = ?")
		args = append(args, filter.Sender)
	}
	if filter.Query != "" {
		conditions = append(conditions, "(subject LIKE ? OR body LIKE ?)")
		q := "%" + filter.Query + "%"
		args = append(args, q, q)
	}
	if filter.Unread {
		conditions = append(conditions, "is_read = 0")
	}

	query := selectClause + " FROM messages"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY processed_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	return query, args
}

// scanMessage scans a message row.
func scanMessage(row interface{ Scan(dest ...interface{}) error }) (model.Message, error) {
	var (
		msg            model.Message
		category       string
		folder         string
		hasAttachments int
		isRead         int
		isStarred      int
		labels         string
		processedAt    time.Time
	)

	err := row.Scan(
		&msg.ID, &msg.MessageID, &msg.Subject, &msg.Sender, &msg.Date,
		&msg.Body, &msg.Summary, &category, &folder, &hasAttachments,
		&isRead, &isStarred, &labels, &processedAt,
	)
	if err != nil {
		return model.Message{}, err
	}

	msg.Category = model.Category(category)
	msg.Folder = model.Folder(folder)
	msg.HasAttachments = hasAttachments != 0
	msg.IsRead = isRead != 0
	msg.IsStarred = isStarred != 0
	msg.ProcessedAt = processedAt

	if labels != "" {
		if err := json.Unmarshal([]byte(labels), &msg.Labels); err != nil {
			return model.Message{}, fmt.Errorf("unmarshaling labels: %w", err)
		}
	}

	return msg, nil
}
