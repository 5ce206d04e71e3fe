package mailbox

import (
	"errors"
	"fmt"
)

// AuthError indicates the server rejected the login credentials.
type AuthError struct {
	Username string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error for %s: %s", e.Username, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// FolderError indicates a watched folder could not be selected.
type FolderError struct {
	Folder string
	Err    error
}

func (e *FolderError) Error() string {
	return fmt.Sprintf("selecting folder %q: %v", e.Folder, e.Err)
}

func (e *FolderError) Unwrap() error { return e.Err }

// FetchError indicates a message could not be retrieved: it vanished
// between search and fetch, or the server response was malformed.
type FetchError struct {
	UID uint32
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching message UID %d: %v", e.UID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
