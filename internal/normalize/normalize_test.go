package normalize

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailsift/internal/model"
)

func crlf(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func TestNormalizePlainMessage(t *testing.T) {
	raw := crlf(
		"From: Alice Smith <alice@example.com>",
		"Date: Mon, 02 Jun 2025 08:00:00 +0000",
		"Message-Id: <plain-1@example.com>",
		"Subject: Team lunch",
		"Content-Type: text/plain",
		"",
		"See you at noon",
	)

	msg, atts := Normalize(raw, model.FolderInbox)

	assert.Equal(t, "Team lunch", msg.Subject)
	assert.Equal(t, "alice@example.com", msg.Sender)
	assert.Equal(t, "Mon, 02 Jun 2025 08:00:00 +0000", msg.Date)
	assert.Equal(t, "<plain-1@example.com>", msg.MessageID)
	assert.Equal(t, "See you at noon", strings.TrimSpace(msg.Body))
	assert.Equal(t, model.FolderInbox, msg.Folder)
	assert.False(t, msg.HasAttachments)
	assert.Empty(t, atts)
}

func TestNormalizeMissingHeaders(t *testing.T) {
	raw := crlf(
		"Content-Type: text/plain",
		"",
		"just a body",
	)

	msg, _ := Normalize(raw, model.FolderInbox)

	assert.Equal(t, model.SentinelNoSubject, msg.Subject)
	assert.Equal(t, model.SentinelUnknownSender, msg.Sender)
	assert.Empty(t, msg.MessageID)
	assert.Equal(t, "just a body", strings.TrimSpace(msg.Body))
}

func TestNormalizeUnparseableInput(t *testing.T) {
	msg, atts := Normalize([]byte("\x00\x01garbage"), model.FolderSpam)

	assert.Equal(t, model.SentinelNoSubject, msg.Subject)
	assert.Equal(t, model.SentinelUnknownSender, msg.Sender)
	assert.Equal(t, model.SentinelDecodeFailed, msg.Body)
	assert.Equal(t, model.FolderSpam, msg.Folder)
	assert.Empty(t, atts)
}

func TestNormalizeMultipartWithPDF(t *testing.T) {
	pdf := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))
	raw := crlf(
		"From: billing@example.com",
		"Subject: Invoice attached",
		"Message-Id: <inv-1@example.com>",
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary=BOUND",
		"",
		"--BOUND",
		"Content-Type: text/plain",
		"",
		"Please find the invoice attached.",
		"--BOUND",
		"Content-Type: application/pdf; name=\"invoice.pdf\"",
		"Content-Disposition: attachment; filename=\"invoice.pdf\"",
		"Content-Transfer-Encoding: base64",
		"",
		pdf,
		"--BOUND--",
		"",
	)

	msg, atts := Normalize(raw, model.FolderInbox)

	assert.Equal(t, "Please find the invoice attached.", strings.TrimSpace(msg.Body))
	assert.True(t, msg.HasAttachments)
	require.Len(t, atts, 1)
	assert.Equal(t, "invoice.pdf", atts[0].Filename)

	decoded, err := base64.StdEncoding.DecodeString(atts[0].Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(decoded))
}

func TestNormalizeAttachmentOnlyMessage(t *testing.T) {
	raw := crlf(
		"From: billing@example.com",
		"Subject: Receipt",
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary=BOUND",
		"",
		"--BOUND",
		"Content-Type: application/pdf; name=\"receipt.pdf\"",
		"Content-Disposition: attachment; filename=\"receipt.pdf\"",
		"",
		"%PDF-1.4",
		"--BOUND--",
		"",
	)

	msg, atts := Normalize(raw, model.FolderInbox)

	// No text part: sentinel body, attachments still collected.
	assert.Equal(t, model.SentinelNoContent, msg.Body)
	assert.True(t, msg.HasAttachments)
	require.Len(t, atts, 1)
	assert.Equal(t, "receipt.pdf", atts[0].Filename)
}

func TestNormalizeRawFromFallback(t *testing.T) {
	raw := crlf(
		"From: not-an-address",
		"Subject: Hello",
		"Content-Type: text/plain",
		"",
		"hi",
	)

	msg, _ := Normalize(raw, model.FolderInbox)
	assert.Equal(t, "not-an-address", msg.Sender)
}
