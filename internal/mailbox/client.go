// Package mailbox implements the IMAP transport client: session setup,
// folder selection, date-filtered UID search, and whole-message fetch.
// It performs no retries; retry policy belongs to the ingestion
// orchestrator.
package mailbox

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// Client holds the connection settings for an IMAP server.
type Client struct {
	host     string
	port     string
	username string
	password string
}

// NewClient creates a new IMAP client configuration.
func NewClient(host, port, username, password string) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

// Dial establishes a TLS connection to the IMAP server and authenticates.
// The caller must Close the returned session on every exit path.
func (c *Client) Dial(_ context.Context) (*Session, error) {
	addr := c.host + ":" + c.port

	client, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{
			Username: c.username,
			Message:  fmt.Sprintf("authentication failed: %v", err),
		}
	}

	return &Session{client: client}, nil
}

// Session is an authenticated IMAP connection. It may select multiple
// folders in sequence without re-authenticating.
type Session struct {
	client *imapclient.Client
}

// Select opens the named folder. A missing folder yields a FolderError.
func (s *Session) Select(folder string) error {
	if _, err := s.client.Select(folder, nil).Wait(); err != nil {
		return &FolderError{Folder: folder, Err: err}
	}
	return nil
}

// SearchSince returns the UIDs of messages received on or after the
// given time, in mailbox order.
func (s *Session) SearchSince(since time.Time) ([]uint32, error) {
	criteria := &imap.SearchCriteria{Since: since}

	searchData, err := s.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	out := make([]uint32, 0, len(uids))
	for _, uid := range uids {
		out = append(out, uint32(uid))
	}
	return out, nil
}

// Fetch retrieves the raw RFC 822 bytes of one message without setting
// the \Seen flag.
func (s *Session) Fetch(uid uint32) ([]byte, error) {
	uidSet := imap.UIDSetNum(imap.UID(uid))

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := s.client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, &FetchError{UID: uid, Err: fmt.Errorf("message not found")}
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, &FetchError{UID: uid, Err: err}
	}

	raw := buf.FindBodySection(bodySection)
	if raw == nil {
		return nil, &FetchError{UID: uid, Err: fmt.Errorf("empty body section")}
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, &FetchError{UID: uid, Err: err}
	}

	return raw, nil
}

// Close logs out of the server. Safe to call after a failed operation.
func (s *Session) Close() error {
	return s.client.Logout().Wait()
}
