package mail

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock

// Mailer sends transactional mail. Sends run on background goroutines at the
// call sites; implementations only need to be safe for concurrent use.
type Mailer interface {
	SendWelcome(to, firstName string) error
	SendPaymentReceipt(to string, amount float64, invoiceURL string) error
}

type smtpMailer struct {
	host   string
	port   int
	user   string
	pass   string
	from   string
	logger *zap.Logger
}

func NewSMTPMailer(logger *zap.Logger) Mailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &smtpMailer{
		host:   os.Getenv("SMTP_HOST"),
		port:   port,
		user:   os.Getenv("SMTP_USER"),
		pass:   os.Getenv("SMTP_PASS"),
		from:   from,
		logger: logger.Named("mail"),
	}
}

func (m *smtpMailer) SendWelcome(to, firstName string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to RegTech Horizon. Your account is ready: explore the directory, save searches, and follow the companies that matter to you.\n",
		firstName,
	)
	return m.send(to, "Welcome to RegTech Horizon", body)
}

func (m *smtpMailer) SendPaymentReceipt(to string, amount float64, invoiceURL string) error {
	body := fmt.Sprintf(
		"We received your payment of %.2f.\n\nYour invoice: %s\n",
		amount, invoiceURL,
	)
	return m.send(to, "Payment received", body)
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		m.logger.Error("send mail failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return err
	}
	return nil
}

// MXLookup is swappable in tests; production uses the resolver.
var MXLookup = net.LookupMX

// DomainHasMX reports whether the address's domain publishes a mail
// exchanger. A domain with no MX records cannot receive mail, so
// registration rejects it up front.
func DomainHasMX(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	records, err := MXLookup(email[at+1:])
	return err == nil && len(records) > 0
}
