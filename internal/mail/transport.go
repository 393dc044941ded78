// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// smtpSession is the part of an SMTP client the dispatcher uses.
type smtpSession interface {
	Auth(username, password string) error
	SendMail(from string, to []string, r io.Reader) error
	Quit() error
	Close() error
}

// imapSession is the part of an IMAP client the dispatcher uses.
type imapSession interface {
	Login(username, password string) error
	AppendDraft(mailbox string, msg []byte, date time.Time) error
	Logout() error
	Close() error
}

type (
	smtpDialer func(ctx context.Context, addr string, tlsCfg *tls.Config, timeout time.Duration) (smtpSession, error)
	imapDialer func(ctx context.Context, addr string, tlsCfg *tls.Config) (imapSession, error)
)

// closeOnDone closes c when ctx ends before stop is called.
func closeOnDone(ctx context.Context, c io.Closer) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}

type smtpClient struct {
	c    *smtp.Client
	stop func()
}

func dialSMTP(ctx context.Context, addr string, tlsCfg *tls.Config, timeout time.Duration) (smtpSession, error) {
	c, err := smtp.DialStartTLS(addr, tlsCfg)
	if err != nil {
		return nil, err
	}
	c.CommandTimeout = timeout
	c.SubmissionTimeout = timeout
	return &smtpClient{c: c, stop: closeOnDone(ctx, c)}, nil
}

func (s *smtpClient) Auth(username, password string) error {
	return s.c.Auth(sasl.NewPlainClient("", username, password))
}

func (s *smtpClient) SendMail(from string, to []string, r io.Reader) error {
	return s.c.SendMail(from, to, r)
}

func (s *smtpClient) Quit() error { return s.c.Quit() }

func (s *smtpClient) Close() error {
	s.stop()
	return s.c.Close()
}

type imapClient struct {
	c    *imapclient.Client
	stop func()
}

func dialIMAP(ctx context.Context, addr string, tlsCfg *tls.Config) (imapSession, error) {
	c, err := imapclient.DialTLS(addr, &imapclient.Options{TLSConfig: tlsCfg})
	if err != nil {
		return nil, err
	}
	return &imapClient{c: c, stop: closeOnDone(ctx, c)}, nil
}

func (s *imapClient) Login(username, password string) error {
	return s.c.Login(username, password).Wait()
}

func (s *imapClient) AppendDraft(mailbox string, msg []byte, date time.Time) error {
	cmd := s.c.Append(mailbox, int64(len(msg)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagDraft},
		Time:  date,
	})
	if _, err := cmd.Write(msg); err != nil {
		cmd.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("finishing message: %w", err)
	}
	_, err := cmd.Wait()
	return err
}

func (s *imapClient) Logout() error { return s.c.Logout().Wait() }

func (s *imapClient) Close() error {
	s.stop()
	return s.c.Close()
}
