package services

import (
	"bytes"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/SundayYogurt/store_service/internal/dto"
)

//go:embed templates/*.html
var mailTemplates embed.FS

var templates = template.Must(template.ParseFS(mailTemplates, "templates/*.html"))

type MailConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	FromName string
}

type MailService struct {
	cfg  MailConfig
	send func(to string, msg []byte) error
}

func NewMailService(cfg MailConfig) *MailService {
	s := &MailService{cfg: cfg}
	s.send = s.sendSMTPWithTimeout
	return s
}

func (s *MailService) SendWelcome(ev dto.UserRegisteredEvent) error {
	return s.deliver(ev.Email, "Welcome to the store", "welcome.html", ev)
}

func (s *MailService) SendOrderConfirmation(ev dto.OrderCreatedEvent) error {
	return s.deliver(ev.Email, fmt.Sprintf("Order %s confirmed", shortID(ev.OrderID)), "order-created.html", ev)
}

func (s *MailService) SendStatusUpdate(ev dto.OrderStatusChangedEvent) error {
	return s.deliver(ev.Email, fmt.Sprintf("Order %s is %s", shortID(ev.OrderID), ev.Status), "order-status.html", ev)
}

func (s *MailService) deliver(to, subject, tmpl string, data any) error {
	if to == "" {
		return errors.New("recipient email is empty")
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.cfg.FromName, s.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body.String(),
	}, "\r\n")

	slog.Info("sending mail", "template", tmpl, "host", s.cfg.Host)
	if err := s.send(to, []byte(msg)); err != nil {
		return err
	}
	slog.Info("mail sent", "template", tmpl)
	return nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return err
		}
	}
	if s.cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
