package database

import (
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/Alijeyrad/vitum_backend/config"
)

// NewDriver opens Postgres and wraps it in an ent SQL driver.
func NewDriver(cfg config.DatabaseConfig) (*entsql.Driver, error) {
	db, err := openSQLDB(FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	return entsql.OpenDB(dialect.Postgres, db), nil
}
