package emailalert

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"
)

const maxBodyBytes = 8 << 20

type parsed struct {
	Subject string
	From    string
	Date    time.Time
	Text    string
	HTML    string
}

// parseMessage reads headers and the largest text/plain and text/html parts
// out of a raw message. Envelope values win over header values when present.
func parseMessage(m Message) parsed {
	p := parsed{Subject: m.Subject, From: m.From, Date: m.Date}
	if len(m.Raw) == 0 {
		return p
	}
	msg, err := mail.ReadMessage(bytes.NewReader(m.Raw))
	if err != nil {
		p.Text = string(m.Raw)
		return p
	}

	if p.Subject == "" {
		p.Subject = msg.Header.Get("Subject")
	}
	p.Subject = decodeHeader(p.Subject)
	if p.From == "" {
		p.From = msg.Header.Get("From")
	}
	if p.Date.IsZero() {
		if t, err := mail.ParseDate(msg.Header.Get("Date")); err == nil {
			p.Date = t
		}
	}

	body, _ := io.ReadAll(io.LimitReader(msg.Body, maxBodyBytes))
	p.Text, p.HTML = textParts(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), body)
	if p.Text == "" && p.HTML == "" {
		p.Text = string(body)
	}
	return p
}

func textParts(contentType, cte string, body []byte) (plain, html string) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(decodeTransfer(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if !strings.HasPrefix(mediaType, "multipart/") {
		s := string(decodeTransfer(body, cte))
		if strings.HasPrefix(mediaType, "text/html") {
			return "", s
		}
		return s, ""
	}

	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		b, _ := io.ReadAll(io.LimitReader(part, maxBodyBytes))
		pt, ph := textParts(part.Header.Get("Content-Type"), part.Header.Get("Content-Transfer-Encoding"), b)
		if len(pt) > len(plain) {
			plain = pt
		}
		if len(ph) > len(html) {
			html = ph
		}
	}
	return plain, html
}

func decodeTransfer(b []byte, cte string) []byte {
	var r io.Reader
	switch strings.ToLower(strings.TrimSpace(cte)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
	case "quoted-printable":
		r = quotedprintable.NewReader(bytes.NewReader(b))
	default:
		return b
	}
	out, _ := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	return out
}

func decodeHeader(s string) string {
	out, err := new(mime.WordDecoder).DecodeHeader(strings.TrimSpace(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return out
}
