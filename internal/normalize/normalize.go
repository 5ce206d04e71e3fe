// Package normalize converts raw RFC 822 message bytes into the
// canonical persisted form. Normalization is total: decoding problems
// degrade to sentinel values, never to an error.
package normalize

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"

	"github.com/nhle/mailsift/internal/model"
)

// Normalize parses one raw message into a Message plus its extracted
// attachments. The attachment records have no owning message id yet;
// the caller assigns it after generating the message row id.
//
// Body extraction and attachment extraction are independent walks over
// the same part tree: a message with only PDF parts still yields its
// attachments alongside a sentinel body.
func Normalize(raw []byte, folder model.Folder) (model.Message, []model.Attachment) {
	msg := model.Message{
		Subject: model.SentinelNoSubject,
		Sender:  model.SentinelUnknownSender,
		Folder:  folder,
		Labels:  []string{},
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil || mr == nil {
		msg.Body = model.SentinelDecodeFailed
		return msg, nil
	}
	defer mr.Close()

	readHeaders(&msg, mr.Header)

	body, atts, decodeFailed := walkParts(mr)
	if body == "" {
		if decodeFailed {
			body = model.SentinelDecodeFailed
		} else {
			body = model.SentinelNoContent
		}
	}
	msg.Body = body
	msg.HasAttachments = len(atts) > 0

	return msg, atts
}

// readHeaders fills subject, sender, date, and message id, preserving
// whatever raw text was present when decoding fails.
func readHeaders(msg *model.Message, h mail.Header) {
	subject, err := h.Subject()
	if err != nil || subject == "" {
		subject = strings.TrimSpace(h.Get("Subject"))
	}
	if subject != "" {
		msg.Subject = subject
	}

	// Prefer the bare address; keep the raw header string when no
	// usable address can be parsed out of it.
	if addrs, err := h.AddressList("From"); err == nil && len(addrs) > 0 && addrs[0].Address != "" {
		msg.Sender = addrs[0].Address
	} else if raw := strings.TrimSpace(h.Get("From")); raw != "" {
		msg.Sender = raw
	}

	msg.Date = strings.TrimSpace(h.Get("Date"))

	// The identifier is stored as raw header text, brackets included,
	// so every ingestion path dedups against the same form.
	msg.MessageID = strings.TrimSpace(h.Get("Message-Id"))
}

// walkParts performs a single pass over the part tree, picking the first
// text/plain part as the body and collecting every PDF part as an
// attachment.
func walkParts(mr *mail.Reader) (body string, atts []model.Attachment, decodeFailed bool) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			decodeFailed = true
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, params, _ := h.ContentType()

			if strings.HasPrefix(contentType, "text/plain") && body == "" {
				data, readErr := io.ReadAll(part.Body)
				if readErr != nil {
					decodeFailed = true
					continue
				}
				body = string(data)
				continue
			}

			// PDFs declared inline still count as attachments.
			if contentType == "application/pdf" {
				if att, ok := readAttachment(part.Body, params["name"]); ok {
					atts = append(atts, att)
				}
			}

		case *mail.AttachmentHeader:
			contentType, _, _ := h.ContentType()
			if contentType != "application/pdf" {
				continue
			}

			filename, _ := h.Filename()
			if att, ok := readAttachment(part.Body, filename); ok {
				atts = append(atts, att)
			}
		}
	}

	return body, atts, decodeFailed
}

// readAttachment base64-transcodes a part payload into an Attachment.
// Parts without a filename are skipped, matching the ingestion policy
// that unnamed blobs are not worth keeping.
func readAttachment(r io.Reader, filename string) (model.Attachment, bool) {
	if filename == "" {
		return model.Attachment{}, false
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return model.Attachment{}, false
	}

	return model.Attachment{
		Filename: filename,
		Content:  base64.StdEncoding.EncodeToString(data),
	}, true
}
