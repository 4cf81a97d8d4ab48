package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrSendTimeout means the SMTP conversation did not finish within the
// configured window. One slow delivery must not pin a request handler.
var ErrSendTimeout = errors.New("email send timed out")

// Sender delivers transactional mail over SMTP.
type Sender struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration

	templates *template.Template
}

func NewSender(host string, port int, username, password, from string, timeout time.Duration) (*Sender, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Sender{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		timeout:   timeout,
		templates: templates,
	}, nil
}

// SendOTPEmail mails the one-time code to the account's address.
func (s *Sender) SendOTPEmail(to, username, code string) error {
	body, err := s.render("otp_email.html", map[string]string{
		"Username": username,
		"OTPCode":  code,
	})
	if err != nil {
		return err
	}
	return s.send(to, "Your OTP Code", body)
}

func (s *Sender) render(name string, data any) (string, error) {
	buf := new(bytes.Buffer)
	if err := s.templates.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *Sender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	// DialAndSend blocks for the whole SMTP conversation; race it against a
	// timer so a stalled provider fails the request fast.
	errc := make(chan error, 1)
	go func() { errc <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-errc:
		return err
	case <-time.After(s.timeout):
		return ErrSendTimeout
	}
}
