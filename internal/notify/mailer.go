package notify

import (
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// SMTPConfig is what the mailer needs to talk to the mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

// Mailer sends digests over SMTP, falling back to a file in FallbackDir
// when the send fails. The fallback keeps a record of every run's
// digest even when the mail account is misconfigured or rate limited.
type Mailer struct {
	cfg         SMTPConfig
	fallbackDir string
	log         *zap.Logger

	// send is swappable for tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer builds a mailer. fallbackDir must exist.
func NewMailer(cfg SMTPConfig, fallbackDir string, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{
		cfg:         cfg,
		fallbackDir: fallbackDir,
		log:         log,
		send:        smtp.SendMail,
	}
}

// Send delivers the digest. SMTP failure is downgraded to a file write;
// only a failure of both is an error.
func (m *Mailer) Send(digest *Digest) error {
	body, err := digest.Render()
	if err != nil {
		return err
	}

	if err := m.sendSMTP(digest.Subject(), body); err != nil {
		m.log.Warn("smtp send failed, writing digest to file", zap.Error(err))
		path, saveErr := m.saveFallback(body)
		if saveErr != nil {
			return fmt.Errorf("failed to send digest and failed to save fallback: %w", saveErr)
		}
		m.log.Info("digest saved", zap.String("path", path))
		return nil
	}

	m.log.Info("digest emailed", zap.String("to", m.cfg.To))
	return nil
}

func (m *Mailer) sendSMTP(subject, body string) error {
	if m.cfg.User == "" || m.cfg.Password == "" || m.cfg.To == "" {
		return fmt.Errorf("smtp not configured")
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.User
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		from, m.cfg.To, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, from, []string{m.cfg.To}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}
	return nil
}

func (m *Mailer) saveFallback(body string) (string, error) {
	name := fmt.Sprintf("digest_%s.html", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.fallbackDir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("failed to write digest file: %w", err)
	}
	return path, nil
}
