package notifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "gopkg.in/mail.v2"
)

var ErrNotConfigured = errors.New("email notifications are not configured")

// EmailConfig contains configuration for email notifications
type EmailConfig struct {
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SenderEmail    string
	SenderPassword string
	RecipientEmail string
}

// Enabled reports whether there is enough configuration to send mail.
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.RecipientEmail != ""
}

// EmailNotifier mails the generated catalog page.
type EmailNotifier struct {
	config EmailConfig
	logger zerolog.Logger
	now    func() time.Time
}

func NewEmailNotifier(config EmailConfig, logger zerolog.Logger) (*EmailNotifier, error) {
	if !config.Enabled() {
		return nil, ErrNotConfigured
	}
	if config.SMTPPort == 0 {
		config.SMTPPort = 587
	}
	if config.SenderEmail == "" {
		return nil, fmt.Errorf("%w: sender address is empty", ErrNotConfigured)
	}
	return &EmailNotifier{config: config, logger: logger, now: time.Now}, nil
}

// NotifyWebsite sends page, the rendered catalog, to the configured
// recipient.
func (n *EmailNotifier) NotifyWebsite(page string, movieCount int) error {
	m := n.buildMessage(page, movieCount)

	username := n.config.SMTPUsername
	if username == "" {
		username = n.config.SenderEmail
	}
	d := gomail.NewDialer(n.config.SMTPHost, n.config.SMTPPort, username, n.config.SenderPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info().Str("recipient", n.config.RecipientEmail).Int("movies", movieCount).
		Msg("catalog page emailed")
	return nil
}

func (n *EmailNotifier) buildMessage(page string, movieCount int) *gomail.Message {
	date := n.now().Format("January 2, 2006 at 3:04 PM")

	m := gomail.NewMessage()
	m.SetHeader("From", n.config.SenderEmail)
	m.SetHeader("To", n.config.RecipientEmail)
	m.SetHeader("Subject", fmt.Sprintf("Movie catalog: %d %s", movieCount, pluralMovies(movieCount)))

	plainText := fmt.Sprintf(
		"Movie catalog update\n\n"+
			"The catalog page was regenerated on %s.\n"+
			"It lists %d %s. Open the HTML version of this email to browse it.\n",
		date, movieCount, pluralMovies(movieCount))

	m.SetBody("text/plain", plainText)
	m.AddAlternative("text/html", page)
	return m
}

func pluralMovies(n int) string {
	if n == 1 {
		return "movie"
	}
	return "movies"
}
