package account

import (
	"database/sql"

	"github.com/google/wire"
)

// ProvidePostgresStorage is a Wire provider function that creates the
// credential store.
func ProvidePostgresStorage(db *sql.DB) *PostgresStorage {
	return NewPostgresStorage(db)
}

var Set = wire.NewSet(ProvidePostgresStorage)
