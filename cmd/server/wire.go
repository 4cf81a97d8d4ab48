//go:build wireinject
// +build wireinject

package main

import (
	"database/sql"

	"github.com/google/wire"
	"github.com/gorilla/mux"

	"tourney/config"
	"tourney/internal/account"
	"tourney/internal/auth"
	"tourney/internal/email"
	"tourney/internal/otp"
	"tourney/internal/server"
)

var AppSet = wire.NewSet(account.Set, auth.Set, email.Set, otp.Set, server.Set)

func InitializeApp(db *sql.DB, cfg *config.Config) (*mux.Router, error) {
	wire.Build(AppSet)

	return nil, nil
}
