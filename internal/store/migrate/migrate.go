package migrate

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
)

// Options mirror the knobs exposed under database.migrations.
type Options struct {
	DropColumns bool
}

// Create brings the database schema up to date with Tables.
func Create(ctx context.Context, drv dialect.Driver, opts Options) error {
	mopts := []schema.MigrateOption{
		schema.WithForeignKeys(true),
		schema.WithDropIndex(true),
	}
	if opts.DropColumns {
		mopts = append(mopts, schema.WithDropColumn(true))
	}

	m, err := schema.NewMigrate(drv, mopts...)
	if err != nil {
		return fmt.Errorf("store/migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("store/migrate: create schema: %w", err)
	}
	return nil
}
