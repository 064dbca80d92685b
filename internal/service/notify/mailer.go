package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/ifuryst/beacon/internal/config"
)

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// MailNotifier sends each event as a plain-text email to the configured inbox.
type MailNotifier struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	send sendFunc
}

func NewMailNotifier(cfg *config.MailConfig) *MailNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	var to []string
	for _, addr := range strings.Split(cfg.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}

	return &MailNotifier{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth: auth,
		from: cfg.From,
		to:   to,
		send: smtp.SendMail,
	}
}

func (m *MailNotifier) Notify(ctx context.Context, event Event) error {
	if len(m.to) == 0 {
		return fmt.Errorf("no mail recipients configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.send(m.addr, m.auth, m.from, m.to, m.message(event)); err != nil {
		return fmt.Errorf("failed to send %s mail: %w", event.Type, err)
	}
	return nil
}

func (m *MailNotifier) message(event Event) []byte {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", headerSafe(event.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", occurred.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(event.Body(), "\n", "\r\n"))
	return []byte(b.String())
}

// headerSafe strips line breaks so visitor input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
