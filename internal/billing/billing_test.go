package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailsift/internal/model"
)

func TestExtractOverdueBill(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	bill, ok := Extract(model.Message{
		ID:      "msg-1",
		Subject: "Electricity Bill for March",
		Body:    "Your bill of $1,234.56 is due by 15th March 2025.",
		Date:    "Sat, 01 Mar 2025 10:00:00 +0000",
	}, now)
	require.True(t, ok)

	assert.Equal(t, "msg-1", bill.MessageID)
	assert.Equal(t, "Electricity Bill for March", bill.Name)
	assert.Equal(t, 1234.56, bill.Amount)
	assert.Equal(t, "15 Mar 2025", bill.DueDate)
	assert.Equal(t, "utility", bill.Category)
	assert.Equal(t, model.BillOverdue, bill.Status)
	assert.Equal(t, "Sat, 01 Mar 2025 10:00:00 +0000", bill.ReceivedDate)
	assert.NotEmpty(t, bill.ID)
}

func TestExtractPendingBill(t *testing.T) {
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	bill, ok := Extract(model.Message{
		Subject: "Netflix subscription renewal",
		Body:    "Your payment of $15.99 is due on June 1, 2025.",
	}, now)
	require.True(t, ok)

	assert.Equal(t, 15.99, bill.Amount)
	assert.Equal(t, "01 Jun 2025", bill.DueDate)
	assert.Equal(t, "subscription", bill.Category)
	assert.Equal(t, model.BillPending, bill.Status)
}

func TestExtractISODueDate(t *testing.T) {
	bill, ok := Extract(model.Message{
		Subject: "Internet invoice",
		Body:    "Amount: $49.00, due by 2025-09-15",
	}, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)

	assert.Equal(t, "15 Sep 2025", bill.DueDate)
	assert.Equal(t, "internet", bill.Category)
}

func TestExtractWithoutDueDate(t *testing.T) {
	bill, ok := Extract(model.Message{
		Subject: "Invoice #42",
		Body:    "Total: $300",
	}, time.Now())
	require.True(t, ok)

	assert.Empty(t, bill.DueDate)
	assert.Equal(t, model.BillPending, bill.Status)
	assert.Equal(t, "other", bill.Category)
	assert.Equal(t, 300.0, bill.Amount)
}

func TestExtractRejectsNonBills(t *testing.T) {
	// Billing vocabulary without an amount.
	_, ok := Extract(model.Message{
		Subject: "Invoice coming soon",
		Body:    "payment details to follow",
	}, time.Now())
	assert.False(t, ok)

	// An amount without billing vocabulary.
	_, ok = Extract(model.Message{
		Subject: "Lunch money",
		Body:    "I owe you $50 from yesterday",
	}, time.Now())
	assert.False(t, ok)
}
