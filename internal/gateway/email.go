package gateway

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPEmailGateway sends HTML mail through an authenticated SMTP relay.
type SMTPEmailGateway struct {
	host     string
	port     int
	user     string
	password string
	from     string
	fromName string
	sendMail sendMailFunc
	log      *zap.Logger
}

func NewSMTPEmailGateway(config utils.EmailConfig, log *zap.Logger) *SMTPEmailGateway {
	return &SMTPEmailGateway{
		host:     config.Host,
		port:     config.Port,
		user:     config.User,
		password: config.Password,
		from:     config.From,
		fromName: config.FromName,
		sendMail: smtp.SendMail,
		log:      log.With(zap.String("gateway", "email_smtp")),
	}
}

func (g *SMTPEmailGateway) SendEmail(ctx context.Context, msg EmailMessage) error {
	if g.host == "" || g.from == "" {
		return fmt.Errorf("email: %w", ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if g.user != "" {
		auth = smtp.PlainAuth("", g.user, g.password, g.host)
	}

	addr := net.JoinHostPort(g.host, strconv.Itoa(g.port))
	if err := g.sendMail(addr, auth, g.from, []string{msg.Destination}, g.buildMessage(msg)); err != nil {
		g.log.Error("Failed to send email", zap.Error(err), zap.String("smtp_addr", addr))
		return fmt.Errorf("send email: %w", err)
	}

	g.log.Info("Email sent", zap.String("subject", msg.Subject))
	return nil
}

func (g *SMTPEmailGateway) buildMessage(msg EmailMessage) []byte {
	from := g.from
	if g.fromName != "" {
		from = fmt.Sprintf("%s <%s>", g.fromName, g.from)
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.Destination + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	return []byte(b.String())
}
