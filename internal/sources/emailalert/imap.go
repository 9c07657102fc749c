package emailalert

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"jobmatch-engine/internal/errs"
)

// Message is one fetched email. Raw holds the full RFC 822 bytes, fetched with
// BODY.PEEK[] so reading does not set \Seen.
type Message struct {
	UID     imap.UID
	From    string
	Subject string
	Date    time.Time
	Raw     []byte
}

// Mailbox is the slice of an IMAP session the adapter needs.
type Mailbox interface {
	Unseen(ctx context.Context, since time.Time, max int) ([]Message, error)
	MarkSeen(uids []imap.UID) error
	Close() error
}

// Dialer opens a selected mailbox.
type Dialer func(ctx context.Context) (Mailbox, error)

type imapMailbox struct {
	c   *imapclient.Client
	log *zap.Logger
}

// IMAPDialer connects over TLS, logs in and selects mailbox.
func IMAPDialer(addr, username, password, mailbox string, log *zap.Logger) Dialer {
	return func(ctx context.Context) (Mailbox, error) {
		if addr == "" || username == "" || password == "" {
			return nil, errs.Disabled("imap address, username and password are required", nil)
		}
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, errs.InvalidInput("imap address", err)
		}
		c, err := imapclient.DialTLS(addr, &imapclient.Options{
			TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host},
		})
		if err != nil {
			return nil, errs.Unavailable("imap dial", err)
		}

		go func() {
			<-ctx.Done()
			_ = c.Close()
		}()

		if err := c.Login(username, password).Wait(); err != nil {
			_ = c.Close()
			return nil, errs.Unavailable("imap login", err)
		}
		if mailbox == "" {
			mailbox = "INBOX"
		}
		if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
			_ = c.Close()
			return nil, errs.Unavailable(fmt.Sprintf("imap select %q", mailbox), err)
		}
		return &imapMailbox{c: c, log: log}, nil
	}
}

// Unseen returns up to max unseen messages received since the cutoff,
// newest first.
func (m *imapMailbox) Unseen(ctx context.Context, since time.Time, max int) ([]Message, error) {
	searchData, err := m.c.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   since,
	}, nil).Wait()
	if err != nil {
		return nil, errs.Unavailable("imap uid search", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if max > 0 && len(uids) > max {
		uids = uids[:max]
	}

	bodyAll := &imap.FetchItemBodySection{Specifier: imap.PartSpecifierNone, Peek: true}
	fetchCmd := m.c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]Message, 0, len(uids))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, errs.Unavailable("imap fetch", err)
		}

		msg := Message{UID: buf.UID, Raw: buf.FindBodySection(bodyAll)}
		if env := buf.Envelope; env != nil {
			msg.Subject = env.Subject
			msg.Date = env.Date
			msg.From = joinAddrs(env.From)
		}
		out = append(out, msg)
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, errs.Unavailable("imap fetch close", err)
	}
	return out, nil
}

func (m *imapMailbox) MarkSeen(uids []imap.UID) error {
	if len(uids) == 0 {
		return nil
	}
	cmd := m.c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := cmd.Close(); err != nil {
		return errs.Unavailable("imap store seen", err)
	}
	return nil
}

func (m *imapMailbox) Close() error {
	if err := m.c.Logout().Wait(); err != nil {
		m.log.Debug("imap logout", zap.Error(err))
	}
	return m.c.Close()
}

func joinAddrs(addrs []imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for i := range addrs {
		a := strings.TrimSpace(addrs[i].Addr())
		if a == "" {
			a = strings.TrimSpace(addrs[i].Name)
		}
		if a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, ", ")
}
