package email

import (
	"github.com/google/wire"

	"tourney/config"
)

// ProvideSender is a Wire provider function that creates the SMTP Sender
// from config.
func ProvideSender(cfg *config.Config) (*Sender, error) {
	return NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailTimeout)
}

var Set = wire.NewSet(ProvideSender)
