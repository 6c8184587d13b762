package clubmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating clubs table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS clubs (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name VARCHAR(100) NOT NULL,
					license_no INTEGER NOT NULL UNIQUE CHECK (license_no BETWEEN 1 AND 99),
					affiliation_year INTEGER NOT NULL,
					discharge_date DATE,
					possible_resume_date DATE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_clubs_license_no ON clubs(license_no);
			`); err != nil {
				return fmt.Errorf("failed to create clubs table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping clubs table...")
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS clubs;`)
		return err
	})
}
