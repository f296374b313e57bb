package email

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/smtp"
	"time"
)

// SMTPConfig holds the outbound server settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	// Secure selects implicit TLS. Port 465 implies it.
	Secure  bool
	Timeout time.Duration
}

// SMTPTransport sends mail with net/smtp, upgrading with STARTTLS when offered.
type SMTPTransport struct {
	cfg SMTPConfig
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPTransport{cfg: cfg}
}

// IsConfigured checks if the transport has a host to talk to
func (t *SMTPTransport) IsConfigured() bool {
	return t.cfg.Host != "" && t.cfg.Port != ""
}

func (t *SMTPTransport) implicitTLS() bool {
	return t.cfg.Secure || t.cfg.Port == "465"
}

// Send implements Transport.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) (string, error) {
	if msg.MessageID == "" {
		msg.MessageID = NewMessageID(msg.FromAddress)
	}

	body, err := BuildMIME(msg, time.Now())
	if err != nil {
		return "", &TransportError{Op: "build", Err: err}
	}

	client, stop, err := t.connect(ctx)
	if err != nil {
		return "", err
	}
	defer stop()
	defer client.Close()

	if err := client.Mail(msg.FromAddress); err != nil {
		return "", &TransportError{Op: "mail from", Err: err}
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return "", &TransportError{Op: "rcpt to " + rcpt, Err: err}
		}
	}

	w, err := client.Data()
	if err != nil {
		return "", &TransportError{Op: "data", Err: err}
	}
	if _, err := w.Write(body); err != nil {
		return "", &TransportError{Op: "write", Err: err}
	}
	if err := w.Close(); err != nil {
		return "", &TransportError{Op: "data", Err: err}
	}

	// The message is accepted once DATA is closed; QUIT errors don't matter.
	_ = client.Quit()

	return msg.MessageID, nil
}

// Verify implements Transport.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	client, stop, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer stop()
	defer client.Close()

	if err := client.Quit(); err != nil {
		return &TransportError{Op: "quit", Err: err}
	}
	return nil
}

// connect dials, says EHLO, negotiates TLS and authenticates. The returned
// stop func detaches the context watcher.
func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, func() bool, error) {
	if !t.IsConfigured() {
		return nil, nil, &TransportError{Op: "dial", Err: errors.New("host is not configured")}
	}

	addr := net.JoinHostPort(t.cfg.Host, t.cfg.Port)
	dialer := &net.Dialer{Timeout: t.cfg.Timeout}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	var conn net.Conn
	var err error
	if t.implicitTLS() {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, nil, &TransportError{Op: "dial", Err: err}
	}

	deadline := time.Now().Add(t.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	// Closing the connection unblocks any pending read or write.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		stop()
		_ = conn.Close()
		return nil, nil, &TransportError{Op: "greeting", Err: err}
	}

	fail := func(op string, err error) (*smtp.Client, func() bool, error) {
		stop()
		_ = client.Close()
		return nil, nil, &TransportError{Op: op, Err: err}
	}

	if err := client.Hello("localhost"); err != nil {
		return fail("ehlo", err)
	}

	if !t.implicitTLS() {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fail("starttls", err)
			}
		}
	}

	if t.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); !ok {
			return fail("auth", errors.New("server does not support AUTH"))
		}
		if err := client.Auth(smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)); err != nil {
			return fail("auth", err)
		}
	}

	return client, stop, nil
}
