package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailsift/internal/ingest"
	"github.com/nhle/mailsift/internal/model"
	"github.com/nhle/mailsift/internal/store"
	"github.com/nhle/mailsift/tests/testutil"
)

type fakeSession struct {
	selected  string
	selectErr error
	uids      []uint32
	messages  map[uint32][]byte
	fetchErr  map[uint32]error
	closed    bool
}

func (f *fakeSession) Select(folder string) error {
	f.selected = folder
	return f.selectErr
}

func (f *fakeSession) SearchSince(_ time.Time) ([]uint32, error) {
	return f.uids, nil
}

func (f *fakeSession) Fetch(uid uint32) ([]byte, error) {
	if err := f.fetchErr[uid]; err != nil {
		return nil, err
	}
	return f.messages[uid], nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

type fakeSummarizer struct{ calls int }

func (f *fakeSummarizer) Summarize(_ context.Context, _, _ string) string {
	f.calls++
	return "stub summary"
}

func rawMessage(messageID, subject, body string) []byte {
	lines := []string{
		"From: Sender <sender@example.com>",
		"Date: Mon, 02 Jun 2025 08:00:00 +0000",
		"Message-Id: " + messageID,
		"Subject: " + subject,
		"Content-Type: text/plain",
		"",
		body,
	}
	return []byte(strings.Join(lines, "\r\n"))
}

func newOrchestrator(t *testing.T, sess *fakeSession) (*ingest.Orchestrator, *store.SQLiteStore, *fakeSummarizer) {
	t.Helper()

	st := testutil.NewTestStore(t)
	sum := &fakeSummarizer{}
	dial := func(_ context.Context) (ingest.Session, error) { return sess, nil }
	return ingest.New(dial, st, sum, zerolog.Nop()), st, sum
}

func TestCycleFolderInbox(t *testing.T) {
	sess := &fakeSession{
		uids: []uint32{1, 2, 3},
		messages: map[uint32][]byte{
			1: rawMessage("<exam-1@example.com>", "Exam schedule: Physics",
				"Physics exam at 10:00 AM, login: stu2024, password: Xy9#Qz"),
			2: rawMessage("<hello-1@example.com>", "Team lunch", "See you at noon"),
		},
		fetchErr: map[uint32]error{3: errors.New("gone")},
	}

	orch, st, sum := newOrchestrator(t, sess)
	ctx := context.Background()

	stats, err := orch.CycleFolder(ctx, "INBOX", model.FolderInbox, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	assert.Equal(t, ingest.Stats{Found: 3, Stored: 2, Duplicates: 0, Failed: 1}, stats)
	assert.Equal(t, "INBOX", sess.selected)
	assert.True(t, sess.closed)
	assert.Equal(t, 2, sum.calls)

	msgs, err := st.GetMessages(ctx, store.MessageFilter{})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, model.FolderInbox, m.Folder)
		assert.Equal(t, "stub summary", m.Summary)
	}

	counts, err := st.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["meetings"])
	assert.Equal(t, 1, counts[model.CategoryPrimary])

	events, err := st.GetSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventExam, events[0].EventType)
	assert.Equal(t, "10:00 AM", events[0].TimeSlot)
	assert.Equal(t, "stu2024", events[0].LoginID)
}

func TestCycleFolderSkipsDuplicates(t *testing.T) {
	sess := &fakeSession{
		uids: []uint32{1},
		messages: map[uint32][]byte{
			1: rawMessage("<same@example.com>", "Team lunch", "See you at noon"),
		},
	}

	orch, st, _ := newOrchestrator(t, sess)
	ctx := context.Background()
	since := time.Now().Add(-time.Hour)

	stats, err := orch.CycleFolder(ctx, "INBOX", model.FolderInbox, since)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stored)

	stats, err = orch.CycleFolder(ctx, "INBOX", model.FolderInbox, since)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Stored)
	assert.Equal(t, 1, stats.Duplicates)

	count, err := st.CountMessages(ctx, store.MessageFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCycleFolderSpam(t *testing.T) {
	sess := &fakeSession{
		uids: []uint32{1},
		messages: map[uint32][]byte{
			1: rawMessage("<spam-1@example.com>", "Exam schedule: Physics",
				"Physics exam at 10:00 AM"),
		},
	}

	orch, st, sum := newOrchestrator(t, sess)
	ctx := context.Background()

	stats, err := orch.CycleFolder(ctx, "[Gmail]/Spam", model.FolderSpam, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stored)

	// Spam is never summarized and yields no structured extraction.
	assert.Equal(t, 0, sum.calls)

	msgs, err := st.GetMessages(ctx, store.MessageFilter{})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.CategorySpam, msgs[0].Category)
	assert.Empty(t, msgs[0].Summary)

	events, err := st.GetSchedules(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCycleFolderSelectFailure(t *testing.T) {
	sess := &fakeSession{selectErr: errors.New("no such folder")}

	orch, _, _ := newOrchestrator(t, sess)

	_, err := orch.CycleFolder(context.Background(), "Missing", model.FolderInbox, time.Now())
	assert.Error(t, err)
	assert.True(t, sess.closed)
}

func TestCycleFolderCancellation(t *testing.T) {
	sess := &fakeSession{
		uids: []uint32{1, 2},
		messages: map[uint32][]byte{
			1: rawMessage("<a@example.com>", "Team lunch", "See you"),
			2: rawMessage("<b@example.com>", "Team dinner", "See you"),
		},
	}

	orch, _, _ := newOrchestrator(t, sess)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.CycleFolder(ctx, "INBOX", model.FolderInbox, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
