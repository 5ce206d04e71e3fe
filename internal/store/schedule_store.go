package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mailsift/internal/model"
)

// InsertSchedule stores one extracted event. Generates a UUID if ID is empty.
func (s *SQLiteStore) InsertSchedule(ctx context.Context, ev model.Schedule) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.ExtractedAt.IsZero() {
		ev.ExtractedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schedules (
			id, message_id, title, event_type, date,
			time_slot, meeting_link, login_id, password, extracted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.MessageID, ev.Title, string(ev.EventType), ev.Date,
		ev.TimeSlot, ev.MeetingLink, ev.LoginID, ev.Password,
		ev.ExtractedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule %s: %w", ev.ID, err)
	}
	return nil
}

// GetSchedules returns all stored events, most recently extracted first.
func (s *SQLiteStore) GetSchedules(ctx context.Context) ([]model.Schedule, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM schedules ORDER BY extracted_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying schedules: %w", err)
	}
	defer rows.Close()

	var events []model.Schedule
	for rows.Next() {
		var (
			ev          model.Schedule
			eventType   string
			extractedAt time.Time
		)
		err := rows.Scan(&ev.ID, &ev.MessageID, &ev.Title, &eventType, &ev.Date,
			&ev.TimeSlot, &ev.MeetingLink, &ev.LoginID, &ev.Password, &extractedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		ev.EventType = model.EventType(eventType)
		ev.ExtractedAt = extractedAt
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteAllSchedules empties the schedules table ahead of a rebuild.
func (s *SQLiteStore) DeleteAllSchedules(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM schedules"); err != nil {
		return fmt.Errorf("deleting schedules: %w", err)
	}
	return nil
}
