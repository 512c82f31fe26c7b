// Package pg opens the pgx pool behind the Postgres audit storage and runs
// its goose migrations.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, audit.Migrations, "migrations", cfg, log); err != nil {
//		return err
//	}
//	storage := audit.NewPostgresStorage(pool)
//
// Migrations are read from an fs.FS so they ship inside the binary.
package pg
