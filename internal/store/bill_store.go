package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhle/mailsift/internal/model"
)

// UpsertBill inserts or replaces the bill derived from one message.
// Re-ingesting or reprocessing a billing email updates its bill in
// place rather than accumulating copies.
func (s *SQLiteStore) UpsertBill(ctx context.Context, bill model.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.Status == "" {
		bill.Status = model.BillPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bills (
			id, message_id, name, amount, due_date, category, status, received_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO UPDATE SET
			name = excluded.name,
			amount = excluded.amount,
			due_date = excluded.due_date,
			category = excluded.category,
			status = excluded.status,
			received_date = excluded.received_date`,
		bill.ID, bill.MessageID, bill.Name, bill.Amount, bill.DueDate,
		bill.Category, string(bill.Status), bill.ReceivedDate,
	)
	if err != nil {
		return fmt.Errorf("upserting bill for message %s: %w", bill.MessageID, err)
	}
	return nil
}

// GetBills returns all stored bills, overdue first, then by due date.
func (s *SQLiteStore) GetBills(ctx context.Context) ([]model.Bill, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT * FROM bills
		ORDER BY CASE status WHEN 'overdue' THEN 0 WHEN 'pending' THEN 1 ELSE 2 END, due_date`)
	if err != nil {
		return nil, fmt.Errorf("querying bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		var (
			bill   model.Bill
			status string
		)
		err := rows.Scan(&bill.ID, &bill.MessageID, &bill.Name, &bill.Amount,
			&bill.DueDate, &bill.Category, &status, &bill.ReceivedDate)
		if err != nil {
			return nil, fmt.Errorf("scanning bill row: %w", err)
		}
		bill.Status = model.BillStatus(status)
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}
