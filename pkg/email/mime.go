package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// NewMessageID returns "<uuid@domain>" using the sender's domain.
func NewMessageID(fromAddress string) string {
	domain := "localhost"
	if i := strings.LastIndex(fromAddress, "@"); i >= 0 && i < len(fromAddress)-1 {
		domain = fromAddress[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), sanitizeHeader(domain))
}

// BuildMIME renders msg as a multipart/alternative message, text part first.
func BuildMIME(msg *Message, date time.Time) ([]byte, error) {
	if msg.FromAddress == "" {
		return nil, fmt.Errorf("missing from address")
	}
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("missing recipient")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	from := mail.Address{Name: sanitizeHeader(msg.FromName), Address: sanitizeHeader(msg.FromAddress)}
	to := make([]string, len(msg.To))
	for i, addr := range msg.To {
		to[i] = sanitizeHeader(addr)
	}

	headers := []string{
		"From: " + from.String(),
		"To: " + strings.Join(to, ", "),
	}
	if msg.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+sanitizeHeader(msg.ReplyTo))
	}
	headers = append(headers,
		"Subject: "+encodeHeader(sanitizeHeader(msg.Subject)),
		"Message-ID: "+sanitizeHeader(msg.MessageID),
		"Date: "+date.Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", mw.Boundary()),
	)

	// Header block first, the multipart writer appends parts after it.
	var out bytes.Buffer
	out.WriteString(strings.Join(headers, "\r\n"))
	out.WriteString("\r\n\r\n")

	if err := writePart(mw, "text/plain", msg.TextBody); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html", msg.HTMLBody); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	out.Write(buf.Bytes())
	return out.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType+"; charset=UTF-8")
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	pw, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}

	qp := quotedprintable.NewWriter(pw)
	if _, err := qp.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to write %s part: %w", contentType, err)
	}
	return qp.Close()
}

const (
	// Leaves room for the field name under the 998 octet line limit
	maxPlainHeader = 900
	// 45 bytes encode to 60 base64 chars, 72 per encoded word
	encodedWordChunk = 45
)

// encodeHeader keeps short ASCII values as is. Anything else becomes base64
// encoded words split on rune boundaries, folded one word per line.
func encodeHeader(s string) string {
	if len(s) <= maxPlainHeader && isASCII(s) {
		return s
	}

	var words []string
	for len(s) > 0 {
		n := min(len(s), encodedWordChunk)
		for n > 1 && n < len(s) && !utf8.RuneStart(s[n]) {
			n--
		}
		words = append(words, "=?utf-8?b?"+base64.StdEncoding.EncodeToString([]byte(s[:n]))+"?=")
		s = s[n:]
	}
	return strings.Join(words, "\r\n ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func sanitizeHeader(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", ""), "\n", "")
}
