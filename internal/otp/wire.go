package otp

import (
	"github.com/google/wire"

	"tourney/config"
	"tourney/internal/account"
	"tourney/internal/email"
)

// ProvideManager is a Wire provider function that creates the OTP Manager.
func ProvideManager(storage *account.PostgresStorage, sender *email.Sender, cfg *config.Config) *Manager {
	return NewManager(storage, sender, cfg.OTPLength, cfg.OTPTTL)
}

var Set = wire.NewSet(ProvideManager)
