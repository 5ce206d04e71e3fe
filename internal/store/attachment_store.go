package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mailsift/internal/model"
)

// InsertAttachment stores one attachment. Generates a UUID if ID is empty.
func (s *SQLiteStore) InsertAttachment(ctx context.Context, att model.Attachment) error {
	if att.ID == "" {
		att.ID = uuid.New().String()
	}
	if att.UploadedAt.IsZero() {
		att.UploadedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments (id, filename, content, message_id, is_spam, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		att.ID, att.Filename, att.Content, att.MessageID,
		boolToInt(att.IsSpam), att.UploadedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting attachment %s: %w", att.ID, err)
	}
	return nil
}

// GetAttachments returns the attachments of one message.
func (s *SQLiteStore) GetAttachments(ctx context.Context, messageID string) ([]model.Attachment, error) {
	return s.queryAttachments(ctx,
		"SELECT * FROM attachments WHERE message_id = ? ORDER BY uploaded_at", messageID)
}

// AllAttachments returns every stored attachment, grouped by filename
// with the newest first within each group. The ordering is what the
// duplicate-attachment cleanup pass relies on.
func (s *SQLiteStore) AllAttachments(ctx context.Context) ([]model.Attachment, error) {
	return s.queryAttachments(ctx,
		"SELECT * FROM attachments ORDER BY filename, uploaded_at DESC")
}

// DeleteAttachment removes an attachment by ID.
func (s *SQLiteStore) DeleteAttachment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting attachment %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) queryAttachments(ctx context.Context, query string, args ...interface{}) ([]model.Attachment, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	var atts []model.Attachment
	for rows.Next() {
		var (
			att        model.Attachment
			isSpam     int
			uploadedAt time.Time
		)
		err := rows.Scan(&att.ID, &att.Filename, &att.Content,
			&att.MessageID, &isSpam, &uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment row: %w", err)
		}
		att.IsSpam = isSpam != 0
		att.UploadedAt = uploadedAt
		atts = append(atts, att)
	}
	return atts, rows.Err()
}
