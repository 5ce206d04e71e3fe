package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailsift/internal/model"
	"github.com/nhle/mailsift/internal/store"
	"github.com/nhle/mailsift/tests/testutil"
)

func newMessage(id, messageID string) model.Message {
	return model.Message{
		ID:        id,
		MessageID: messageID,
		Subject:   "Subject " + id,
		Sender:    "sender@example.com",
		Date:      "Mon, 02 Jun 2025 08:00:00 +0000",
		Body:      "body text",
		Category:  model.CategoryPrimary,
		Folder:    model.FolderInbox,
	}
}

func TestInsertAndGetMessage(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msg := newMessage("m1", "<id-1@example.com>")
	msg.Summary = "a summary"
	msg.Labels = []string{"important"}
	msg.IsStarred = true
	require.NoError(t, s.InsertMessage(ctx, msg))

	got, err := s.GetMessageByID(ctx, "m1")
	require.NoError(t, err)

	assert.Equal(t, "Subject m1", got.Subject)
	assert.Equal(t, "<id-1@example.com>", got.MessageID)
	assert.Equal(t, "a summary", got.Summary)
	assert.Equal(t, model.CategoryPrimary, got.Category)
	assert.Equal(t, model.FolderInbox, got.Folder)
	assert.Equal(t, []string{"important"}, got.Labels)
	assert.True(t, got.IsStarred)
	assert.False(t, got.IsRead)
	assert.False(t, got.ProcessedAt.IsZero())
}

func TestGetMessageByIDNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetMessageByID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertMessageDuplicate(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMessage(ctx, newMessage("m1", "<dup@example.com>")))

	err := s.InsertMessage(ctx, newMessage("m2", "<dup@example.com>"))
	assert.ErrorIs(t, err, store.ErrDuplicateMessage)

	count, err := s.CountMessages(ctx, store.MessageFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInsertMessageEmptyIdentifierNeverDuplicates(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMessage(ctx, newMessage("m1", "")))
	require.NoError(t, s.InsertMessage(ctx, newMessage("m2", "")))

	count, err := s.CountMessages(ctx, store.MessageFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMessageIDExists(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMessage(ctx, newMessage("m1", "<known@example.com>")))

	exists, err := s.MessageIDExists(ctx, "<known@example.com>")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.MessageIDExists(ctx, "<unknown@example.com>")
	require.NoError(t, err)
	assert.False(t, exists)

	// Empty identifiers are outside deduplication entirely.
	exists, err = s.MessageIDExists(ctx, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetMessagesFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	spam := newMessage("m1", "<a@example.com>")
	spam.Folder = model.FolderSpam
	spam.Category = model.CategorySpam
	require.NoError(t, s.InsertMessage(ctx, spam))

	inbox := newMessage("m2", "<b@example.com>")
	inbox.Subject = "Quarterly invoice attached"
	inbox.Category = "finance"
	require.NoError(t, s.InsertMessage(ctx, inbox))

	read := newMessage("m3", "<c@example.com>")
	read.IsRead = true
	require.NoError(t, s.InsertMessage(ctx, read))

	byFolder, err := s.GetMessages(ctx, store.MessageFilter{Folder: model.FolderSpam})
	require.NoError(t, err)
	require.Len(t, byFolder, 1)
	assert.Equal(t, "m1", byFolder[0].ID)

	byCategory, err := s.GetMessages(ctx, store.MessageFilter{Category: "finance"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "m2", byCategory[0].ID)

	byQuery, err := s.GetMessages(ctx, store.MessageFilter{Query: "invoice"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "m2", byQuery[0].ID)

	unread, err := s.GetMessages(ctx, store.MessageFilter{Unread: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	counts, err := s.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.CategorySpam])
	assert.Equal(t, 1, counts[model.CategoryPrimary])
	assert.Equal(t, 1, counts[model.Category("finance")])
}

func TestUpdateSenderAndFlags(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msg := newMessage("m1", "<a@example.com>")
	msg.Sender = model.SentinelUnknownSender
	require.NoError(t, s.InsertMessage(ctx, msg))

	require.NoError(t, s.UpdateSender(ctx, "m1", "repaired@example.com"))
	require.NoError(t, s.SetRead(ctx, "m1", true))
	require.NoError(t, s.SetStarred(ctx, "m1", true))

	got, err := s.GetMessageByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "repaired@example.com", got.Sender)
	assert.True(t, got.IsRead)
	assert.True(t, got.IsStarred)

	assert.ErrorIs(t, s.UpdateSender(ctx, "missing", "x"), store.ErrNotFound)
	assert.ErrorIs(t, s.SetRead(ctx, "missing", true), store.ErrNotFound)
}

func TestDeleteMessageCascades(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMessage(ctx, newMessage("m1", "<a@example.com>")))
	require.NoError(t, s.InsertAttachment(ctx, model.Attachment{
		ID: "att1", Filename: "doc.pdf", Content: "cGRm", MessageID: "m1",
	}))
	require.NoError(t, s.InsertSchedule(ctx, model.Schedule{
		ID: "ev1", MessageID: "m1", Title: "Exam", EventType: model.EventExam,
	}))
	require.NoError(t, s.UpsertBill(ctx, model.Bill{
		ID: "b1", MessageID: "m1", Name: "Bill", Amount: 10,
	}))

	require.NoError(t, s.DeleteMessage(ctx, "m1"))

	atts, err := s.AllAttachments(ctx)
	require.NoError(t, err)
	assert.Empty(t, atts)

	events, err := s.GetSchedules(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	bills, err := s.GetBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)

	assert.ErrorIs(t, s.DeleteMessage(ctx, "m1"), store.ErrNotFound)
}

func TestAttachments(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMessage(ctx, newMessage("m1", "<a@example.com>")))
	require.NoError(t, s.InsertMessage(ctx, newMessage("m2", "<b@example.com>")))

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.InsertAttachment(ctx, model.Attachment{
		ID: "att1", Filename: "doc.pdf", MessageID: "m1", UploadedAt: old,
	}))
	require.NoError(t, s.InsertAttachment(ctx, model.Attachment{
		ID: "att2", Filename: "doc.pdf", MessageID: "m2", UploadedAt: old.AddDate(0, 0, 1),
	}))

	forM1, err := s.GetAttachments(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, forM1, 1)
	assert.Equal(t, "att1", forM1[0].ID)

	// Newest first within a filename group.
	all, err := s.AllAttachments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "att2", all[0].ID)
	assert.Equal(t, "att1", all[1].ID)

	require.NoError(t, s.DeleteAttachment(ctx, "att1"))
	assert.ErrorIs(t, s.DeleteAttachment(ctx, "att1"), store.ErrNotFound)
}

func TestSchedules(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMessage(ctx, newMessage("m1", "<a@example.com>")))
	require.NoError(t, s.InsertSchedule(ctx, model.Schedule{
		MessageID: "m1", Title: "Exam", EventType: model.EventExam,
		TimeSlot: "10:00 AM", LoginID: "stu2024", Password: "Xy9#Qz",
	}))

	events, err := s.GetSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventExam, events[0].EventType)
	assert.Equal(t, "10:00 AM", events[0].TimeSlot)
	assert.NotEmpty(t, events[0].ID)

	require.NoError(t, s.DeleteAllSchedules(ctx))
	events, err = s.GetSchedules(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestUpsertBillReplaces(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMessage(ctx, newMessage("m1", "<a@example.com>")))
	require.NoError(t, s.UpsertBill(ctx, model.Bill{
		MessageID: "m1", Name: "Electricity", Amount: 120,
		Status: model.BillPending,
	}))
	require.NoError(t, s.UpsertBill(ctx, model.Bill{
		MessageID: "m1", Name: "Electricity", Amount: 120,
		Status: model.BillOverdue,
	}))

	bills, err := s.GetBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, model.BillOverdue, bills[0].Status)
	assert.Equal(t, 120.0, bills[0].Amount)
}

func TestUpsertBillDefaultsStatus(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMessage(ctx, newMessage("m1", "<a@example.com>")))
	require.NoError(t, s.UpsertBill(ctx, model.Bill{
		MessageID: "m1", Name: "Water", Amount: 45,
	}))

	bills, err := s.GetBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, model.BillPending, bills[0].Status)
}
