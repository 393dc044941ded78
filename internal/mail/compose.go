// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mail composes outreach messages and hands them to a mail server,
// either submitting them over SMTP or appending them to the drafts mailbox
// over IMAP.
package mail

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	gomail "github.com/emersion/go-message/mail"
)

var (
	// ErrAttachmentNotFound is returned when the attachment path does not exist.
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrMissingCredentials is returned when no username or password is configured.
	ErrMissingCredentials = errors.New("mail credentials not configured")

	// ErrAuthentication is returned when the server rejects the login.
	ErrAuthentication = errors.New("mail authentication failed")
)

// Message is one outgoing mail with an optional file attachment.
type Message struct {
	From           string
	To             string
	Subject        string
	Body           string
	AttachmentPath string
	Date           time.Time
}

// Compose writes m as a multipart/mixed RFC 5322 message: a text/plain
// body followed by the attachment, if any, as application/octet-stream.
func Compose(w io.Writer, m Message) error {
	from, err := gomail.ParseAddress(m.From)
	if err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.From, err)
	}
	to, err := gomail.ParseAddress(m.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}

	var attachment *os.File
	if m.AttachmentPath != "" {
		attachment, err = os.Open(m.AttachmentPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrAttachmentNotFound, m.AttachmentPath)
			}
			return fmt.Errorf("opening attachment %s: %w", m.AttachmentPath, err)
		}
		defer attachment.Close()
	}

	var h gomail.Header
	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}
	h.SetDate(date)
	h.SetAddressList("From", []*gomail.Address{from})
	h.SetAddressList("To", []*gomail.Address{to})
	h.SetSubject(m.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return fmt.Errorf("generating message id: %w", err)
	}

	mw, err := gomail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("starting message: %w", err)
	}

	var ih gomail.InlineHeader
	ih.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	bw, err := mw.CreateSingleInline(ih)
	if err != nil {
		return fmt.Errorf("writing body: %w", err)
	}
	if _, err := io.WriteString(bw, normalizeNewlines(m.Body)); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}

	if attachment != nil {
		var ah gomail.AttachmentHeader
		ah.SetContentType("application/octet-stream", nil)
		ah.SetFilename(filepath.Base(m.AttachmentPath))
		aw, err := mw.CreateAttachment(ah)
		if err != nil {
			return fmt.Errorf("writing attachment: %w", err)
		}
		if _, err := io.Copy(aw, attachment); err != nil {
			return fmt.Errorf("writing attachment %s: %w", m.AttachmentPath, err)
		}
		if err := aw.Close(); err != nil {
			return fmt.Errorf("writing attachment: %w", err)
		}
	}

	return mw.Close()
}

// normalizeNewlines turns bare LF into CRLF as the wire format requires.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
