// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	gomail "github.com/emersion/go-message/mail"
	"github.com/emersion/go-smtp"

	"github.com/pdiddy/outreach/pkg/types"
)

const (
	defaultSMTPPort      = 587
	defaultDraftsMailbox = "[Gmail]/Drafts"
	defaultTimeout       = 60 * time.Second
)

// Dispatcher sends messages and saves drafts for one configured account.
type Dispatcher struct {
	cfg      types.MailConfig
	dialSMTP smtpDialer
	dialIMAP imapDialer
	now      func() time.Time
}

// NewDispatcher returns a Dispatcher for cfg using real SMTP and IMAP
// connections. Zero-valued port, mailbox, and timeout take defaults.
func NewDispatcher(cfg types.MailConfig) *Dispatcher {
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = defaultSMTPPort
	}
	if cfg.DraftsMailbox == "" {
		cfg.DraftsMailbox = defaultDraftsMailbox
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Sender == "" {
		cfg.Sender = cfg.Username
	}
	return &Dispatcher{
		cfg:      cfg,
		dialSMTP: dialSMTP,
		dialIMAP: dialIMAP,
		now:      time.Now,
	}
}

// Send composes m and submits it over SMTP with STARTTLS.
func (d *Dispatcher) Send(ctx context.Context, m Message) error {
	if err := d.checkCredentials(); err != nil {
		return err
	}
	if d.cfg.SMTPHost == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	m = d.prepare(m)
	var buf bytes.Buffer
	if err := Compose(&buf, m); err != nil {
		return err
	}
	from, to, err := envelope(m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	addr := net.JoinHostPort(d.cfg.SMTPHost, strconv.Itoa(d.cfg.SMTPPort))
	s, err := d.dialSMTP(ctx, addr, d.tlsConfig(d.cfg.SMTPHost), d.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("dialing smtp %s: %w", addr, err)
	}
	defer s.Close()

	if err := s.Auth(d.cfg.Username, d.cfg.Password); err != nil {
		if smtpRejected(err) {
			return fmt.Errorf("%w: smtp login as %s: %v", ErrAuthentication, d.cfg.Username, err)
		}
		return fmt.Errorf("smtp login as %s via %s: %w", d.cfg.Username, addr, err)
	}
	if err := s.SendMail(from, []string{to}, &buf); err != nil {
		return fmt.Errorf("sending to %s via %s: %w", to, addr, err)
	}
	if err := s.Quit(); err != nil {
		return fmt.Errorf("closing smtp session: %w", err)
	}
	return nil
}

// SaveDraft composes m and appends it to the drafts mailbox flagged \Draft.
func (d *Dispatcher) SaveDraft(ctx context.Context, m Message) error {
	if err := d.checkCredentials(); err != nil {
		return err
	}
	if d.cfg.IMAPAddr == "" {
		return fmt.Errorf("imap address is not configured")
	}

	m = d.prepare(m)
	var buf bytes.Buffer
	if err := Compose(&buf, m); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	host, _, err := net.SplitHostPort(d.cfg.IMAPAddr)
	if err != nil {
		return fmt.Errorf("invalid imap address %q: %w", d.cfg.IMAPAddr, err)
	}
	s, err := d.dialIMAP(ctx, d.cfg.IMAPAddr, d.tlsConfig(host))
	if err != nil {
		return fmt.Errorf("dialing imap %s: %w", d.cfg.IMAPAddr, err)
	}
	defer s.Close()

	if err := s.Login(d.cfg.Username, d.cfg.Password); err != nil {
		if imapRejected(err) {
			return fmt.Errorf("%w: imap login as %s: %v", ErrAuthentication, d.cfg.Username, err)
		}
		return fmt.Errorf("imap login as %s via %s: %w", d.cfg.Username, d.cfg.IMAPAddr, err)
	}
	if err := s.AppendDraft(d.cfg.DraftsMailbox, buf.Bytes(), m.Date); err != nil {
		return fmt.Errorf("appending draft to %s: %w", d.cfg.DraftsMailbox, err)
	}
	if err := s.Logout(); err != nil {
		return fmt.Errorf("closing imap session: %w", err)
	}
	return nil
}

func (d *Dispatcher) checkCredentials() error {
	var missing []string
	if strings.TrimSpace(d.cfg.Username) == "" {
		missing = append(missing, "username")
	}
	if d.cfg.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}
	return nil
}

// prepare fills the sender and date the caller left empty.
func (d *Dispatcher) prepare(m Message) Message {
	if m.From == "" {
		m.From = d.cfg.Sender
	}
	if m.Date.IsZero() {
		m.Date = d.now()
	}
	return m
}

func (d *Dispatcher) tlsConfig(host string) *tls.Config {
	return &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
}

// smtpRejected reports whether err is a permanent (5xx) server reply,
// such as 535 for bad credentials, rather than a connection failure.
func smtpRejected(err error) bool {
	var se *smtp.SMTPError
	return errors.As(err, &se) && se.Code >= 500 && se.Code < 600
}

// imapRejected reports whether err is a tagged NO or BAD response from the
// server rather than a connection failure.
func imapRejected(err error) bool {
	var ie *imap.Error
	return errors.As(err, &ie)
}

// envelope returns the bare sender and recipient addresses for SMTP.
func envelope(m Message) (from, to string, err error) {
	f, err := gomail.ParseAddress(m.From)
	if err != nil {
		return "", "", fmt.Errorf("invalid sender %q: %w", m.From, err)
	}
	t, err := gomail.ParseAddress(m.To)
	if err != nil {
		return "", "", fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	return f.Address, t.Address, nil
}
